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
	"github.com/vivien-cheng/minions-finance/financebench"
	"github.com/vivien-cheng/minions-finance/minions"
	"github.com/vivien-cheng/minions-finance/usage"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Run the single-shot baseline condition",
	Long: `Run condition 1: for each dataset example, issue one prompt with the
evidence context and the question, and record the raw completion as the
predicted answer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return runBaseline(cmd, cfg)
	},
}

func runBaseline(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	examples, err := financebench.Load(cfg.Paths.Dataset, cfg.Run.NumExamples)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d examples.\n", len(examples))

	client := newCompletionClient(cfg, cfg.OpenAI.Model)
	totalUsage := usage.NewUsage()
	ctx = usage.NewContext(ctx, totalUsage)

	predictions := make(map[string]string, len(examples))
	for _, example := range examples {
		content := fmt.Sprintf(
			"Based on the following information, answer the question:\n\nContext:\n%s\n\nQuestion:\n%s\n\nAnswer:",
			example.ContextText(), example.Question,
		)

		answer, err := client.Complete(ctx, "", []minions.Message{minions.UserMessage(content)})
		if err != nil {
			fmt.Printf("Error processing %s: %v\n", example.FinancebenchID, err)
			predictions[example.FinancebenchID] = "Error"
			continue
		}
		predictions[example.FinancebenchID] = answer
		fmt.Printf("Processed %s: Predicted answer - %s\n", example.FinancebenchID, answer)
	}

	path := predictionsPath(cfg, conditionBaseline)
	if err := writePredictions(path, predictions); err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		if err := savePredictionsToStore(ctx, store, conditionBaseline, predictions); err != nil {
			return err
		}
	}

	fmt.Printf("\nPredicted answers for Condition 1 saved to %s\n", path)
	fmt.Printf("Token usage: %d requests, %d prompt, %d completion\n",
		totalUsage.Requests, totalUsage.PromptTokens, totalUsage.CompletionTokens)
	return nil
}
