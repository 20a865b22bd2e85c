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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vivien-cheng/minions-finance/config"
	"github.com/vivien-cheng/minions-finance/evaluation"
	"github.com/vivien-cheng/minions-finance/financebench"
	"github.com/vivien-cheng/minions-finance/usage"
)

var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Score predictions with an LLM judge",
	Long: `Ask a judge model whether each predicted answer is semantically
equivalent to the gold answer, using a lenient rubric, and write timestamped
JSON eval logs to the eval log directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return runJudge(cmd, cfg)
	},
}

func runJudge(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	examples, err := financebench.Load(cfg.Paths.Dataset, 0)
	if err != nil {
		return err
	}
	gold := financebench.GoldAnswers(examples)
	order := make([]string, len(examples))
	for i, e := range examples {
		order[i] = e.FinancebenchID
	}

	totalUsage := usage.NewUsage()
	ctx = usage.NewContext(ctx, totalUsage)

	judge := evaluation.NewJudge(newCompletionClient(cfg, cfg.OpenAI.JudgeModel))

	conditions := []struct {
		name  string
		label string
	}{
		{conditionBaseline, "Baseline"},
		{conditionMultiagent, "Minions"},
	}

	for _, condition := range conditions {
		predictions, err := evaluation.LoadPredictions(predictionsPath(cfg, condition.name))
		if err != nil {
			return err
		}

		report := judge.Evaluate(ctx, gold, predictions, order)
		fmt.Printf("%s accuracy: %d/%d (%.1f%%)\n",
			condition.label, report.Correct, report.Total, 100*report.Accuracy)

		path, err := evaluation.WriteJudgeLog(cfg.Paths.EvalDir, condition.name, report)
		if err != nil {
			return err
		}
		fmt.Printf("Evaluation log saved to %s\n", path)
	}

	fmt.Printf("\nToken usage: %d requests, %d prompt, %d completion\n",
		totalUsage.Requests, totalUsage.PromptTokens, totalUsage.CompletionTokens)
	return nil
}
