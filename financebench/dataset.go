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

// Package financebench loads benchmark examples from the FinanceBench
// open-source JSONL format.
package financebench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strings"
)

// Evidence is one retrieved document snippet attached to an example.
type Evidence struct {
	EvidenceText string `json:"evidence_text"`
	DocName      string `json:"doc_name"`
}

// Example is one benchmark question with its gold answer and evidence.
// Fields beyond the typed ones (company, question type, ...) are preserved
// and exposed through Metadata.
type Example struct {
	FinancebenchID string     `json:"financebench_id"`
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	Evidence       []Evidence `json:"evidence"`

	fields map[string]any
}

func (e *Example) UnmarshalJSON(data []byte) error {
	type plain Example
	if err := json.Unmarshal(data, (*plain)(e)); err != nil {
		return err
	}
	return json.Unmarshal(data, &e.fields)
}

// ContextText joins the evidence texts into the document context the agents
// work over.
func (e *Example) ContextText() string {
	texts := make([]string, len(e.Evidence))
	for i, ev := range e.Evidence {
		texts[i] = ev.EvidenceText
	}
	return strings.Join(texts, "\n")
}

// Metadata returns every example field except the evidence, for the
// orchestrator prompt.
func (e *Example) Metadata() map[string]any {
	metadata := maps.Clone(e.fields)
	delete(metadata, "evidence")
	return metadata
}

// Load reads examples from a JSONL file, one JSON object per line. A
// positive limit stops after that many examples; blank lines are skipped.
func Load(path string, limit int) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	// Evidence texts make lines far larger than the default buffer.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var examples []Example
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var example Example
		if err := json.Unmarshal([]byte(line), &example); err != nil {
			return nil, fmt.Errorf("failed to parse example %d: %w", len(examples)+1, err)
		}
		examples = append(examples, example)
		if limit > 0 && len(examples) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return examples, nil
}

// GoldAnswers maps each example identifier to its gold answer.
func GoldAnswers(examples []Example) map[string]string {
	gold := make(map[string]string, len(examples))
	for _, e := range examples {
		gold[e.FinancebenchID] = e.Answer
	}
	return gold
}
