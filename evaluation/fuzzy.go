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

// Package evaluation scores predicted answers against gold answers, either
// programmatically (fuzzy numeric and substring matching) or with an
// LLM-as-judge rubric.
package evaluation

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var numberPattern = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+`)

// NormalizeNumber strips currency and grouping characters from s and parses
// the first numeric token. The second return value reports whether a number
// was found.
func NormalizeNumber(s string) (float64, bool) {
	replacer := strings.NewReplacer(",", "", "$", "", "%", "")
	s = strings.TrimSpace(replacer.Replace(s))

	token := numberPattern.FindString(s)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// IsNumericMatch reports whether both answers contain numbers within 5%
// relative or 0.1 absolute tolerance of each other.
func IsNumericMatch(pred, gold string) bool {
	predNum, predOK := NormalizeNumber(pred)
	goldNum, goldOK := NormalizeNumber(gold)
	if !predOK || !goldOK {
		return false
	}
	diff := math.Abs(predNum - goldNum)
	return diff < 0.05*math.Abs(goldNum) || diff < 0.1
}

// IsTextMatch reports whether one answer contains the other,
// case-insensitively.
func IsTextMatch(pred, gold string) bool {
	pred = strings.ToLower(strings.TrimSpace(pred))
	gold = strings.ToLower(strings.TrimSpace(gold))
	return strings.Contains(pred, gold) || strings.Contains(gold, pred)
}

// IsCorrect tries a numeric match first, then falls back to text matching.
func IsCorrect(pred, gold string) bool {
	return IsNumericMatch(pred, gold) || IsTextMatch(pred, gold)
}

// Detail is one scored example.
type Detail struct {
	FinancebenchID string
	Gold           string
	Predicted      string
	Correct        bool
}

// Report is the fuzzy-matching outcome for one condition.
type Report struct {
	Correct int
	Total   int
	Details []Detail
}

func (r Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return 100 * float64(r.Correct) / float64(r.Total)
}

// Evaluate scores predictions against gold answers. Examples without a
// prediction are skipped; order fixes the listing order of the details.
func Evaluate(gold, predictions map[string]string, order []string) Report {
	var report Report
	for _, id := range order {
		goldAnswer, ok := gold[id]
		if !ok {
			continue
		}
		pred, ok := predictions[id]
		if !ok {
			continue
		}
		correct := IsCorrect(pred, goldAnswer)
		report.Total++
		if correct {
			report.Correct++
		}
		report.Details = append(report.Details, Detail{
			FinancebenchID: id,
			Gold:           goldAnswer,
			Predicted:      pred,
			Correct:        correct,
		})
	}
	return report
}

// LoadPredictions reads a predicted-answers JSON file mapping example
// identifiers to answer strings. Multi-agent runs may store an answer as a
// JSON array; the first element is taken.
func LoadPredictions(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read predictions: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse predictions: %w", err)
	}

	predictions := make(map[string]string, len(raw))
	for id, value := range raw {
		switch v := value.(type) {
		case string:
			predictions[id] = v
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					predictions[id] = s
				}
			}
		}
	}
	return predictions, nil
}

var (
	correctMark = color.New(color.FgGreen).Sprint("✓")
	wrongMark   = color.New(color.FgRed).Sprint("✗")
)

// PrintSummary writes the one-line accuracy summary for a condition.
func PrintSummary(w io.Writer, condition string, r Report) {
	fmt.Fprintf(w, "%s: %d/%d correct (%.1f%%)\n", condition, r.Correct, r.Total, r.Accuracy())
}

// PrintDetails writes the per-example listing for a condition, marking each
// answer correct or incorrect.
func PrintDetails(w io.Writer, condition string, r Report) {
	fmt.Fprintf(w, "\n%s:\n", condition)
	for _, d := range r.Details {
		mark := wrongMark
		if d.Correct {
			mark = correctMark
		}
		fmt.Fprintf(w, "%s %s: Expected: %s, Predicted: %s\n", mark, d.FinancebenchID, d.Gold, d.Predicted)
	}
}

// ConditionReport pairs a condition name with its report, preserving the
// order conditions are written in.
type ConditionReport struct {
	Condition string
	Report    Report
}

// WriteResultsFile writes the plain-text accuracy summary artifact.
func WriteResultsFile(path string, reports []ConditionReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Evaluation Results:\n")
	for _, cr := range reports {
		fmt.Fprintf(&sb, "%s: %d/%d correct (%.1f%%)\n",
			cr.Condition, cr.Report.Correct, cr.Report.Total, cr.Report.Accuracy())
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
