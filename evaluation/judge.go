// Copyright 2025 The Minions Finance Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vivien-cheng/minions-finance/minions"
)

// JudgePersona is the lenient LLM-as-judge rubric. The judge is instructed
// to accept semantically equivalent answers regardless of formatting.
const JudgePersona = `You are an expert evaluator of financial question answering systems. Your task is to evaluate whether a predicted answer matches the gold answer, considering the following criteria:

1. Numerical Accuracy:
- For numerical answers, allow a 10% tolerance margin
- Accept answers with or without units (e.g., "8.74" is equivalent to "$8.74 billion")
- Accept answers with different scales (e.g., "1577" is equivalent to "$1,577 million")
- Accept answers with or without currency symbols
- Accept answers with or without thousands separators
- Accept answers with different decimal places

2. Unit Consistency:
- Accept any unit format as long as the number is correct
- Accept abbreviations (e.g., "M" for million, "B" for billion)
- Accept answers with different unit scales (e.g., "million" vs "billion")

3. Format Consistency:
- Accept any format as long as the meaning is preserved
- Accept answers with or without punctuation
- Accept answers with different capitalization
- Accept answers with different number formats (e.g., "1,577" vs "1577")

4. Semantic Equivalence:
- Accept answers that convey the same meaning, even if expressed differently
- Accept answers that include additional context or explanation
- Accept answers that use different but equivalent terminology
- Accept answers that provide more detail than the gold answer

5. Segment Names and Categories:
- Accept partial matches for segment names (e.g., "Consumer" is equivalent to "Consumer segment")
- Accept answers that use different but equivalent category names

6. Yes/No Questions:
- Accept answers that include explanation as long as the yes/no is correct
- Accept answers that include supporting metrics or reasoning

7. Percentage Changes:
- Accept answers that focus on the direction of change rather than exact numbers
- Accept answers that provide additional context about the change

8. General Guidelines:
- Be very lenient in accepting answers that are semantically correct
- Focus on the meaning and correctness of the answer rather than exact formatting

Examples of acceptable variations:
- "8.74" is equivalent to "$8.74 billion"
- "1577" is equivalent to "$1,577 million"
- "Consumer" is equivalent to "Consumer segment"
- "Yes, because..." is equivalent to "Yes"
- "The operating margin decreased by 5%" is equivalent to "-5%"
- "The company has a healthy liquidity position" is equivalent to "Yes"

Evaluate whether the predicted answer matches the gold answer based on these criteria. If the answers are semantically equivalent, even if expressed differently, mark it as correct.

Output Format:
{
    "is_correct": <boolean>,
    "explanation": <string>
}`

// JudgeEvaluation is one judged example, serialized into the eval log.
type JudgeEvaluation struct {
	FinancebenchID  string `json:"financebench_id"`
	GoldAnswer      string `json:"gold_answer"`
	PredictedAnswer string `json:"predicted_answer"`
	IsCorrect       bool   `json:"is_correct"`
	Explanation     string `json:"explanation"`
}

// JudgeReport aggregates the judged evaluations of one condition.
type JudgeReport struct {
	Accuracy    float64           `json:"accuracy"`
	Correct     int               `json:"correct"`
	Total       int               `json:"total"`
	Evaluations []JudgeEvaluation `json:"evaluations"`
}

// Judge scores predictions by asking a remote model for a verdict per
// example.
type Judge struct {
	client minions.CompletionClient
}

func NewJudge(client minions.CompletionClient) *Judge {
	return &Judge{client: client}
}

// Evaluate judges every prediction that has a gold answer, in the given
// order. A failed judge call is logged and the example skipped; it counts
// toward the total so unjudgeable answers are not silently treated as
// correct.
func (j *Judge) Evaluate(ctx context.Context, gold, predictions map[string]string, order []string) JudgeReport {
	var report JudgeReport
	for _, id := range order {
		goldAnswer, ok := gold[id]
		if !ok {
			continue
		}
		pred, ok := predictions[id]
		if !ok {
			continue
		}
		report.Total++

		verdict, err := j.judgeOne(ctx, goldAnswer, pred)
		if err != nil {
			minions.Logger().Error("error evaluating example",
				slog.String("financebench_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}
		if verdict.IsCorrect {
			report.Correct++
		}
		report.Evaluations = append(report.Evaluations, JudgeEvaluation{
			FinancebenchID:  id,
			GoldAnswer:      goldAnswer,
			PredictedAnswer: pred,
			IsCorrect:       verdict.IsCorrect,
			Explanation:     verdict.Explanation,
		})
	}
	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
	}
	return report
}

type judgeVerdict struct {
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation"`
}

func (j *Judge) judgeOne(ctx context.Context, goldAnswer, predictedAnswer string) (judgeVerdict, error) {
	content := fmt.Sprintf("Gold answer: %s\n\nPredicted answer: %s", goldAnswer, predictedAnswer)
	raw, err := j.client.Complete(ctx, JudgePersona, []minions.Message{minions.UserMessage(content)})
	if err != nil {
		return judgeVerdict{}, err
	}

	jsonStr, err := minions.ExtractJSONObject(raw)
	if err != nil {
		return judgeVerdict{}, err
	}
	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(jsonStr), &verdict); err != nil {
		return judgeVerdict{}, minions.MalformedResponseErrorf("failed to parse judge verdict: %w", err)
	}
	return verdict, nil
}

// WriteJudgeLog writes a timestamped JSON eval log for one condition and
// returns its path.
func WriteJudgeLog(dir, condition string, report JudgeReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create eval log directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_eval_%s.json", condition, timestamp))

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal judge report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("failed to write eval log: %w", err)
	}
	return path, nil
}
