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
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/vivien-cheng/minions-finance/config"
	"github.com/vivien-cheng/minions-finance/financebench"
	"github.com/vivien-cheng/minions-finance/minions"
	"github.com/vivien-cheng/minions-finance/runstore"
	"github.com/vivien-cheng/minions-finance/usage"
)

var multiagentConcurrency int

var multiagentCmd = &cobra.Command{
	Use:   "multiagent",
	Short: "Run the multi-agent minions condition",
	Long: `Run condition 2: for each dataset example, run the round-based
multi-agent orchestration over the evidence context and record the final
answer. A per-example JSON conversation log is written to the log directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if multiagentConcurrency > 0 {
			cfg.Run.Concurrency = multiagentConcurrency
		}
		return runMultiagent(cmd, cfg)
	},
}

func init() {
	multiagentCmd.Flags().IntVar(&multiagentConcurrency, "concurrency", 0,
		"Number of examples to process in parallel (defaults to run.concurrency)")
}

func runMultiagent(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	examples, err := financebench.Load(cfg.Paths.Dataset, cfg.Run.NumExamples)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d examples.\n", len(examples))

	client := newCompletionClient(cfg, cfg.OpenAI.Model)
	m, err := minions.New(minions.Params{
		Client:    client,
		MaxRounds: cfg.Run.MaxRounds,
	})
	if err != nil {
		return err
	}

	totalUsage := usage.NewUsage()
	ctx = usage.NewContext(ctx, totalUsage)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	results := runExamples(ctx, m, cfg, examples)

	predictions := make(map[string]string, len(examples))
	for i, example := range examples {
		predictions[example.FinancebenchID] = results[i].FinalAnswer
		fmt.Printf("Predicted answer (Condition 2) for %s: %s\n",
			example.FinancebenchID, results[i].FinalAnswer)
		if err := saveRunLogToStore(ctx, store, example.FinancebenchID, results[i]); err != nil {
			return err
		}
	}

	path := predictionsPath(cfg, conditionMultiagent)
	if err := writePredictions(path, predictions); err != nil {
		return err
	}
	if err := savePredictionsToStore(ctx, store, conditionMultiagent, predictions); err != nil {
		return err
	}

	fmt.Printf("\nPredicted answers for Condition 2 saved to %s\n", path)
	fmt.Printf("Token usage: %d requests, %d prompt, %d completion\n",
		totalUsage.Requests, totalUsage.PromptTokens, totalUsage.CompletionTokens)
	return nil
}

// runExamples fans the examples out over the configured concurrency. Runs
// share no mutable state, so each goroutine only writes its own slot; a
// failed example never stops the batch. Each run gets its own usage counter,
// merged into the caller's total only after the fan-out completes.
func runExamples(ctx context.Context, m *minions.Minions, cfg *config.Config, examples []financebench.Example) []minions.RunResult {
	concurrency := max(cfg.Run.Concurrency, 1)

	results := make([]minions.RunResult, len(examples))
	usages := make([]*usage.Usage, len(examples))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	wg.Add(len(examples))
	for i, example := range examples {
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			usages[i] = usage.NewUsage()
			runCtx := usage.NewContext(ctx, usages[i])

			fmt.Printf("\n--- Processing %s ---\n", example.FinancebenchID)
			results[i] = m.Run(runCtx, minions.RunParams{
				Task:     example.Question,
				Metadata: example.Metadata(),
				Context:  example.ContextText(),
				LogPath:  filepath.Join(cfg.Paths.LogDir, example.FinancebenchID+".json"),
			})
		}()
	}
	wg.Wait()

	if total, ok := usage.FromContext(ctx); ok {
		for _, u := range usages {
			total.Add(u)
		}
	}
	return results
}

func saveRunLogToStore(ctx context.Context, store runstore.Store, exampleID string, result minions.RunResult) error {
	if store == nil {
		return nil
	}
	b, err := json.Marshal(result.Rounds)
	if err != nil {
		return fmt.Errorf("failed to marshal run history: %w", err)
	}
	return store.SaveRunLog(ctx, exampleID, b)
}
