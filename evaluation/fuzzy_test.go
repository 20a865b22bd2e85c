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

package evaluation_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivien-cheng/minions-finance/evaluation"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"$1,577 million", 1577, true},
		{"8.74", 8.74, true},
		{"12.5%", 12.5, true},
		{"-3.2", -3.2, true},
		{"no numbers here", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := evaluation.NormalizeNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsNumericMatch(t *testing.T) {
	// Within 5% relative tolerance.
	assert.True(t, evaluation.IsNumericMatch("102", "100"))
	// Within 0.1 absolute tolerance.
	assert.True(t, evaluation.IsNumericMatch("0.15", "0.1"))
	// Outside both tolerances.
	assert.False(t, evaluation.IsNumericMatch("120", "100"))
	// Formatting differences are ignored.
	assert.True(t, evaluation.IsNumericMatch("$1,577", "1577 million"))
	// Non-numeric answers never match numerically.
	assert.False(t, evaluation.IsNumericMatch("Yes", "100"))
}

func TestIsTextMatch(t *testing.T) {
	assert.True(t, evaluation.IsTextMatch("Yes, margins were stable.", "yes"))
	assert.True(t, evaluation.IsTextMatch("consumer", "Consumer segment"))
	assert.False(t, evaluation.IsTextMatch("No", "Yes"))
}

func TestIsCorrect(t *testing.T) {
	assert.True(t, evaluation.IsCorrect("$8.74 billion", "8.74"))
	assert.True(t, evaluation.IsCorrect("The answer is yes", "Yes"))
	assert.False(t, evaluation.IsCorrect("No", "Yes"))
}

func TestEvaluate(t *testing.T) {
	gold := map[string]string{
		"fb_001": "$1,577 million",
		"fb_002": "Yes",
		"fb_003": "8.74",
	}
	predictions := map[string]string{
		"fb_001": "1577",
		"fb_002": "No",
		// fb_003 has no prediction and is skipped.
	}
	order := []string{"fb_001", "fb_002", "fb_003"}

	report := evaluation.Evaluate(gold, predictions, order)
	assert.Equal(t, 1, report.Correct)
	assert.Equal(t, 2, report.Total)
	assert.InDelta(t, 50.0, report.Accuracy(), 1e-9)

	require.Len(t, report.Details, 2)
	assert.True(t, report.Details[0].Correct)
	assert.False(t, report.Details[1].Correct)
}

func TestAccuracyEmptyReport(t *testing.T) {
	assert.Zero(t, evaluation.Report{}.Accuracy())
}

func TestLoadPredictions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "predictions.json")
	content := `{
  "fb_001": "plain answer",
  "fb_002": ["first element", "ignored trailing log"],
  "fb_003": []
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	predictions, err := evaluation.LoadPredictions(path)
	require.NoError(t, err)
	assert.Equal(t, "plain answer", predictions["fb_001"])
	assert.Equal(t, "first element", predictions["fb_002"])
	assert.NotContains(t, predictions, "fb_003")
}

func TestLoadPredictionsErrors(t *testing.T) {
	_, err := evaluation.LoadPredictions(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = evaluation.LoadPredictions(path)
	assert.Error(t, err)
}

func TestPrintSummaryAndDetails(t *testing.T) {
	report := evaluation.Report{
		Correct: 1,
		Total:   2,
		Details: []evaluation.Detail{
			{FinancebenchID: "fb_001", Gold: "Yes", Predicted: "Yes", Correct: true},
			{FinancebenchID: "fb_002", Gold: "8.74", Predicted: "12", Correct: false},
		},
	}

	var sb strings.Builder
	evaluation.PrintSummary(&sb, "Baseline", report)
	assert.Equal(t, "Baseline: 1/2 correct (50.0%)\n", sb.String())

	sb.Reset()
	evaluation.PrintDetails(&sb, "Baseline", report)
	out := sb.String()
	assert.Contains(t, out, "fb_001: Expected: Yes, Predicted: Yes")
	assert.Contains(t, out, "fb_002: Expected: 8.74, Predicted: 12")
}

func TestWriteResultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eval", "evaluation_results.txt")
	err := evaluation.WriteResultsFile(path, []evaluation.ConditionReport{
		{Condition: "Baseline (Condition 1)", Report: evaluation.Report{Correct: 3, Total: 4}},
		{Condition: "Minions (Condition 2)", Report: evaluation.Report{Correct: 2, Total: 4}},
	})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(b)
	assert.Contains(t, content, "Evaluation Results:")
	assert.Contains(t, content, "Baseline (Condition 1): 3/4 correct (75.0%)")
	assert.Contains(t, content, "Minions (Condition 2): 2/4 correct (50.0%)")
}
