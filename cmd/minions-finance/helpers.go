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
	"os"
	"path/filepath"

	"github.com/vivien-cheng/minions-finance/config"
	"github.com/vivien-cheng/minions-finance/remoteclient"
	"github.com/vivien-cheng/minions-finance/runstore"
)

const (
	conditionBaseline   = "condition1"
	conditionMultiagent = "condition2"
)

func predictionsPath(cfg *config.Config, condition string) string {
	return filepath.Join(cfg.Paths.PredictionsDir, fmt.Sprintf("predicted_answers_%s.json", condition))
}

func newCompletionClient(cfg *config.Config, model string) *remoteclient.Client {
	return remoteclient.New(remoteclient.Params{
		Model:       model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		MaxRetries:  cfg.OpenAI.MaxRetries,
	})
}

// openStore opens the optional prediction store. A nil store with a nil
// error means no store is configured.
func openStore(ctx context.Context, cfg *config.Config) (runstore.Store, error) {
	switch cfg.Store.Driver {
	case "":
		return nil, nil
	case "sqlite3":
		return runstore.NewSQLiteStore(ctx, runstore.SQLiteStoreParams{DBDataSourceName: cfg.Store.DSN})
	case "postgres":
		return runstore.NewPostgresStore(ctx, runstore.PostgresStoreParams{ConnString: cfg.Store.DSN})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// writePredictions writes the predicted-answers JSON artifact, the primary
// output each evaluator consumes.
func writePredictions(path string, predictions map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create predictions directory: %w", err)
	}
	b, err := json.MarshalIndent(predictions, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal predictions: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write predictions: %w", err)
	}
	return nil
}

// savePredictionsToStore mirrors the JSON artifact into the configured
// store, if any.
func savePredictionsToStore(ctx context.Context, store runstore.Store, condition string, predictions map[string]string) error {
	if store == nil {
		return nil
	}
	for id, answer := range predictions {
		if err := store.SavePrediction(ctx, condition, id, answer); err != nil {
			return err
		}
	}
	return nil
}
