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

// Package minions implements the round-based multi-agent orchestration loop:
// each round, a remote orchestrator persona selects one of the fixed role
// agents and a subtask for it; the loop terminates when the Aggregator role
// produces a final answer or the round budget is exhausted.
package minions

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// DefaultMaxRounds bounds the orchestration loop when no explicit budget is
// configured. The budget is the only loop-termination guarantee.
const DefaultMaxRounds = 5

// MaxRoundsExceededAnswer is the sentinel answer returned when no Aggregator
// success was reached within the round budget.
const MaxRoundsExceededAnswer = "Error: Maximum number of rounds exceeded without reaching a final answer"

// RoleInvocation is one dispatched role call and its structured result,
// tagged with the role name. The per-run history of invocations is
// append-only and feeds every subsequent routing decision.
type RoleInvocation struct {
	Agent  RoleName       `json:"agent"`
	Result map[string]any `json:"result"`
}

// RunStatus is the terminal state of one orchestration run.
type RunStatus string

const (
	StatusCompleted         RunStatus = "completed"
	StatusMaxRoundsExceeded RunStatus = "max_rounds_exceeded"
	StatusError             RunStatus = "error"
)

// RunResult is the terminal value of one orchestration run. Run always
// returns a RunResult, never panics: remote and parse failures inside a
// round are converted into an error status, with the cause in Err.
type RunResult struct {
	// RunID uniquely identifies the run in logs and stores.
	RunID string

	// FinalAnswer is the Aggregator's answer on success, or a
	// human-readable error sentinel otherwise.
	FinalAnswer string

	Status RunStatus

	// Rounds is the ordered role-invocation history; its length never
	// exceeds the configured round budget.
	Rounds []RoleInvocation

	// Err is the cause of an error status, nil otherwise.
	Err error
}

type Minions struct {
	client    CompletionClient
	maxRounds int
}

type Params struct {
	// Client issues the remote completion calls. Required.
	Client CompletionClient

	// MaxRounds bounds the orchestration loop.
	// Defaults to DefaultMaxRounds.
	MaxRounds int
}

func New(params Params) (*Minions, error) {
	if params.Client == nil {
		return nil, NewUserError("Minions: Client is required")
	}
	if params.MaxRounds < 0 {
		return nil, UserErrorf("Minions: MaxRounds must be non-negative, got %d", params.MaxRounds)
	}
	return &Minions{
		client:    params.Client,
		maxRounds: cmp.Or(params.MaxRounds, DefaultMaxRounds),
	}, nil
}

type RunParams struct {
	// Task is the user's question.
	Task string

	// Metadata is supplied verbatim to the orchestrator persona.
	Metadata map[string]any

	// Context is the document evidence the role agents work over. The
	// Retriever role narrows it irreversibly within the run.
	Context string

	// LogPath, when non-empty, is a file the ordered conversation log is
	// written to as indented JSON after the run.
	LogPath string
}

type logEntry struct {
	Type    string `json:"type"`
	Content any    `json:"content"`
}

// Run processes one question to a terminal outcome. Rounds are strictly
// sequential: each routing decision depends on the accumulated history.
// Concurrent runs share no mutable state.
func (m *Minions) Run(ctx context.Context, params RunParams) RunResult {
	runID := "run_" + uuid.NewString()
	logger := Logger().With(slog.String("run_id", runID))

	result := m.runMultiAgent(ctx, logger, runID, params)

	if params.LogPath != "" {
		if err := writeConversationLog(params.LogPath, result.log); err != nil {
			logger.Error("failed to write conversation log", slog.String("error", err.Error()))
		}
	}
	return result.RunResult
}

type runOutcome struct {
	RunResult
	log []logEntry
}

func (m *Minions) runMultiAgent(ctx context.Context, logger *slog.Logger, runID string, params RunParams) runOutcome {
	currentContext := params.Context
	history := make([]RoleInvocation, 0, m.maxRounds)
	conversationLog := make([]logEntry, 0, 2*m.maxRounds)

	terminate := func(result RunResult) runOutcome {
		result.RunID = runID
		result.Rounds = history
		return runOutcome{RunResult: result, log: conversationLog}
	}

	for round := 1; round <= m.maxRounds; round++ {
		decision, err := m.route(ctx, params.Task, params.Metadata, history)
		if err != nil {
			logger.Error("could not parse orchestrator response", slog.String("error", err.Error()))
			return terminate(RunResult{
				FinalAnswer: fmt.Sprintf("Error in orchestrator: %v", err),
				Status:      StatusError,
				Err:         err,
			})
		}
		conversationLog = append(conversationLog, logEntry{Type: "orchestrator_response", Content: decision})

		agent, _ := decision["agent"].(string)
		subtask, _ := decision["subtask"].(string)

		role, err := ParseRoleName(agent)
		if err != nil {
			logger.Error("invalid agent selected", slog.String("agent", agent))
			return terminate(RunResult{
				FinalAnswer: "Error: Invalid agent selected",
				Status:      StatusError,
				Err:         err,
			})
		}
		logger.Debug("dispatching",
			slog.Int("round", round),
			slog.String("agent", string(role)),
		)

		switch role {
		case RoleRetriever:
			result, err := m.completeJSON(ctx, RetrieverAgentPrompt, workerMessage(currentContext, subtask))
			if err != nil {
				logger.Error("could not parse RetrieverAgent response", slog.String("error", err.Error()))
				return terminate(RunResult{
					FinalAnswer: "Error: Could not parse RetrieverAgent response",
					Status:      StatusError,
					Err:         err,
				})
			}
			// Irreversible narrowing: the previous context is not
			// restorable within this run.
			relevantText, _ := result["relevant_text"].(string)
			currentContext = relevantText
			history = append(history, RoleInvocation{Agent: RoleRetriever, Result: result})

		case RoleSimpleFinance:
			result, err := m.completeJSON(ctx, SimpleFinanceAgentPrompt, workerMessage(currentContext, subtask))
			if err != nil {
				logger.Error("could not parse SimpleFinanceAgent response", slog.String("error", err.Error()))
				return terminate(RunResult{
					FinalAnswer: "Error: Could not parse SimpleFinanceAgent response",
					Status:      StatusError,
					Err:         err,
				})
			}
			history = append(history, RoleInvocation{Agent: RoleSimpleFinance, Result: result})

		case RoleCalculator:
			result, err := m.invokeCalculator(ctx, currentContext, subtask)
			if err != nil {
				logger.Error("could not parse CalculatorAgent response", slog.String("error", err.Error()))
				// A structured fallback is recorded so the history
				// shows what the round attempted.
				fallback := map[string]any{
					"calculation": "Error in calculation",
					"result":      "0",
					"explanation": fmt.Sprintf("Failed to parse calculator response: %v", err),
				}
				history = append(history, RoleInvocation{Agent: RoleCalculator, Result: fallback})
				return terminate(RunResult{
					FinalAnswer: "Error: Could not parse CalculatorAgent response",
					Status:      StatusError,
					Err:         err,
				})
			}
			history = append(history, RoleInvocation{Agent: RoleCalculator, Result: result})

		case RoleAggregator:
			result, err := m.completeJSON(ctx, AggregatorAgentPrompt, aggregatorMessage(params.Task, history, subtask))
			if err != nil {
				logger.Error("could not parse AggregatorAgent response", slog.String("error", err.Error()))
				return terminate(RunResult{
					FinalAnswer: "Error: Could not parse AggregatorAgent response",
					Status:      StatusError,
					Err:         err,
				})
			}
			history = append(history, RoleInvocation{Agent: RoleAggregator, Result: result})
			conversationLog = append(conversationLog, logEntry{Type: "agent_response", Content: history[len(history)-1]})

			finalAnswer, _ := result["final_answer"].(string)
			if finalAnswer == "" {
				err := NewMalformedResponseError("aggregator provided no final answer")
				return terminate(RunResult{
					FinalAnswer: "Error: No final answer provided",
					Status:      StatusError,
					Err:         err,
				})
			}
			return terminate(RunResult{
				FinalAnswer: finalAnswer,
				Status:      StatusCompleted,
			})
		}

		conversationLog = append(conversationLog, logEntry{Type: "agent_response", Content: history[len(history)-1]})
	}

	return terminate(RunResult{
		FinalAnswer: MaxRoundsExceededAnswer,
		Status:      StatusMaxRoundsExceeded,
		Err:         RoundBudgetExceededErrorf("no final answer after %d rounds", m.maxRounds),
	})
}

// route asks the orchestrator persona which role to invoke next. The decoded
// decision object is returned so it can be logged verbatim.
func (m *Minions) route(ctx context.Context, task string, metadata map[string]any, history []RoleInvocation) (map[string]any, error) {
	content := fmt.Sprintf(
		"User's question: %s\n\nMetadata: %s\n\nPrevious responses: %s",
		task, marshalJSON(metadata), marshalJSON(history),
	)
	return m.completeJSON(ctx, OrchestratorPrompt, content)
}

// invokeCalculator dispatches the Calculator role and enforces its strict
// three-field schema, coercing a numeric "result" to a string first.
func (m *Minions) invokeCalculator(ctx context.Context, currentContext, subtask string) (map[string]any, error) {
	result, err := m.completeJSON(ctx, CalculatorAgentPrompt, workerMessage(currentContext, subtask))
	if err != nil {
		return nil, err
	}

	for _, field := range []string{"calculation", "result", "explanation"} {
		if _, ok := result[field]; !ok {
			return nil, MalformedResponseErrorf("missing required field %q in calculator response", field)
		}
	}
	switch v := result["result"].(type) {
	case string:
		// ok
	case float64:
		result["result"] = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		result["result"] = fmt.Sprintf("%v", v)
	}

	schema, err := calculatorSchema()
	if err != nil {
		return nil, err
	}
	if err := ValidateSchema(schema, result); err != nil {
		return nil, err
	}
	return result, nil
}

// completeJSON issues one completion request with the given persona and
// parses the response as a JSON object.
func (m *Minions) completeJSON(ctx context.Context, persona, userContent string) (map[string]any, error) {
	if DontLogModelData {
		Logger().Debug("calling LLM")
	} else {
		Logger().Debug("calling LLM", slog.String("content", userContent))
	}

	raw, err := m.client.Complete(ctx, persona, []Message{UserMessage(userContent)})
	if err != nil {
		return nil, err
	}

	if DontLogModelData {
		Logger().Debug("LLM responded")
	} else {
		Logger().Debug("LLM responded", slog.String("message", raw))
	}

	jsonStr, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &obj); err != nil {
		return nil, MalformedResponseErrorf("failed to parse JSON object: %w", err)
	}
	return obj, nil
}

func workerMessage(currentContext, subtask string) string {
	return fmt.Sprintf("Context:\n%s\n\nSubtask:\n%s", currentContext, subtask)
}

func aggregatorMessage(task string, history []RoleInvocation, subtask string) string {
	return fmt.Sprintf(
		"Original Question: %s\n\nPrevious Responses: %s\n\nSubtask: %s",
		task, marshalJSON(history), subtask,
	)
}

// marshalJSON renders prompt payloads; values are plain maps and slices of
// scalars, so failures do not occur in practice.
func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func writeConversationLog(path string, log []logEntry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	b, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation log: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write conversation log: %w", err)
	}
	return nil
}
