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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vivien-cheng/minions-finance/config"
	"github.com/vivien-cheng/minions-finance/evaluation"
	"github.com/vivien-cheng/minions-finance/financebench"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score predictions with fuzzy matching",
	Long: `Compare both conditions' predicted answers against the gold answers
using numeric tolerance and substring matching, print a per-example listing,
and write the accuracy summary to the eval log directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return runEvaluate(cfg)
	},
}

func runEvaluate(cfg *config.Config) error {
	examples, err := financebench.Load(cfg.Paths.Dataset, 0)
	if err != nil {
		return err
	}
	gold := financebench.GoldAnswers(examples)
	order := make([]string, len(examples))
	for i, e := range examples {
		order[i] = e.FinancebenchID
	}

	var reports []evaluation.ConditionReport
	for _, condition := range []string{conditionBaseline, conditionMultiagent} {
		predictions, err := evaluation.LoadPredictions(predictionsPath(cfg, condition))
		if err != nil {
			return err
		}
		report := evaluation.Evaluate(gold, predictions, order)
		reports = append(reports, evaluation.ConditionReport{Condition: condition, Report: report})
		evaluation.PrintSummary(os.Stdout, condition, report)
	}

	fmt.Println("\nDetailed Results:")
	for _, cr := range reports {
		evaluation.PrintDetails(os.Stdout, cr.Condition, cr.Report)
	}

	resultsPath := filepath.Join(cfg.Paths.EvalDir, "evaluation_results.txt")
	if err := evaluation.WriteResultsFile(resultsPath, reports); err != nil {
		return err
	}
	fmt.Printf("\nEvaluation results saved to %s\n", resultsPath)
	return nil
}
