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

// Package config handles configuration loading for the experiment harness.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the harness.
type Config struct {
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Run    RunConfig    `mapstructure:"run"`
	Paths  PathsConfig  `mapstructure:"paths"`
	Store  StoreConfig  `mapstructure:"store"`
}

// OpenAIConfig holds remote API settings.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	JudgeModel  string  `mapstructure:"judge_model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int64   `mapstructure:"max_tokens"`
	MaxRetries  int     `mapstructure:"max_retries"`
}

// RunConfig holds experiment run settings.
type RunConfig struct {
	// MaxRounds bounds each multi-agent orchestration run.
	MaxRounds int `mapstructure:"max_rounds"`
	// NumExamples is how many dataset examples each condition processes.
	NumExamples int `mapstructure:"num_examples"`
	// Concurrency is how many examples are processed in parallel.
	Concurrency int `mapstructure:"concurrency"`
}

// PathsConfig holds dataset and artifact locations.
type PathsConfig struct {
	Dataset        string `mapstructure:"dataset"`
	PredictionsDir string `mapstructure:"predictions_dir"`
	LogDir         string `mapstructure:"log_dir"`
	EvalDir        string `mapstructure:"eval_dir"`
}

// StoreConfig optionally enables database persistence of predictions and
// run logs. Driver is "sqlite3" or "postgres"; empty disables the store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Load loads configuration from XDG paths, project overrides, and
// environment variables. Precedence (highest to lowest):
// 1. Environment variables (OPENAI_API_KEY, OPENAI_BASE_URL)
// 2. Project config (.minions-finance.yaml in the current directory)
// 3. User config (~/.config/minions-finance/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	_ = v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai.base_url", "OPENAI_BASE_URL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("openai.model", "gpt-4o")
	v.SetDefault("openai.judge_model", "gpt-4o")
	v.SetDefault("openai.temperature", 0.0)
	v.SetDefault("openai.max_tokens", 4096)
	v.SetDefault("openai.max_retries", 2)

	v.SetDefault("run.max_rounds", 5)
	v.SetDefault("run.num_examples", 50)
	v.SetDefault("run.concurrency", 1)

	v.SetDefault("paths.dataset", "data/financebench_open_source.jsonl")
	v.SetDefault("paths.predictions_dir", "predicted_answers")
	v.SetDefault("paths.log_dir", "multiagent_logs")
	v.SetDefault("paths.eval_dir", "eval_logs")
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "minions-finance")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "minions-finance")
}

func findProjectConfig() string {
	path := ".minions-finance.yaml"
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
