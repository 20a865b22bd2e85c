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

// Command minions-finance runs the FinanceBench experiment harness: the
// single-shot baseline condition, the multi-agent minions condition, and
// both evaluators.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vivien-cheng/minions-finance/minions"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "minions-finance",
	Short: "Financial QA experiment harness",
	Long: `minions-finance compares two strategies for answering financial
questions over retrieved document evidence:

  baseline    one single-shot prompt per question (condition 1)
  multiagent  a round-based multi-agent decomposition pipeline (condition 2)

and evaluates predicted answers against gold answers:

  evaluate    programmatic fuzzy matching
  judge       LLM-as-judge scoring`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			minions.EnableVerboseStderrLogging()
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(multiagentCmd)
	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(judgeCmd)
}
