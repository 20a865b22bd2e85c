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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivien-cheng/minions-finance/config"
)

// isolate points the XDG config dir and working directory at empty temp
// directories so host configuration cannot leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.JudgeModel)
	assert.Equal(t, 0.0, cfg.OpenAI.Temperature)
	assert.Equal(t, int64(4096), cfg.OpenAI.MaxTokens)
	assert.Equal(t, 2, cfg.OpenAI.MaxRetries)

	assert.Equal(t, 5, cfg.Run.MaxRounds)
	assert.Equal(t, 50, cfg.Run.NumExamples)
	assert.Equal(t, 1, cfg.Run.Concurrency)

	assert.Equal(t, "data/financebench_open_source.jsonl", cfg.Paths.Dataset)
	assert.Equal(t, "predicted_answers", cfg.Paths.PredictionsDir)
	assert.Equal(t, "multiagent_logs", cfg.Paths.LogDir)
	assert.Equal(t, "eval_logs", cfg.Paths.EvalDir)

	assert.Empty(t, cfg.Store.Driver)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test-123")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test-123", cfg.OpenAI.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.OpenAI.BaseURL)
}

func TestLoadUserConfig(t *testing.T) {
	dir := isolate(t)

	userDir := filepath.Join(dir, "xdg", "minions-finance")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte(`
openai:
  model: gpt-4o-mini
run:
  num_examples: 10
`), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 10, cfg.Run.NumExamples)
	// Untouched settings keep their defaults.
	assert.Equal(t, 5, cfg.Run.MaxRounds)
}

func TestLoadProjectConfigOverridesUserConfig(t *testing.T) {
	dir := isolate(t)

	userDir := filepath.Join(dir, "xdg", "minions-finance")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, "config.yaml"), []byte(`
run:
  num_examples: 10
  concurrency: 2
`), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".minions-finance.yaml"), []byte(`
run:
  num_examples: 25
store:
  driver: sqlite3
  dsn: experiments.db
`), 0o644))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Run.NumExamples)
	assert.Equal(t, 2, cfg.Run.Concurrency)
	assert.Equal(t, "sqlite3", cfg.Store.Driver)
	assert.Equal(t, "experiments.db", cfg.Store.DSN)
}
