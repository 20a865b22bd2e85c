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

package minions

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"
)

// CalculatorResult is the strict three-field schema the Calculator role must
// return. All fields are strings; a numeric "result" in the raw response is
// coerced to a string before validation.
type CalculatorResult struct {
	Calculation string `json:"calculation"`
	Result      string `json:"result"`
	Explanation string `json:"explanation"`
}

var calculatorSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
	}
	reflected := reflector.Reflect(CalculatorResult{})

	b, err := json.Marshal(reflected)
	if err != nil {
		return nil, fmt.Errorf("failed to JSON-marshal calculator schema: %w", err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to compile calculator schema: %w", err)
	}
	return schema, nil
})

// ValidateSchema checks a decoded JSON value against a compiled schema. A
// violation is a MalformedResponseError listing every failed constraint.
func ValidateSchema(schema *gojsonschema.Schema, value any) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(value))
	if err != nil {
		return MalformedResponseErrorf("failed to load and validate JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("JSON validation failed with the following errors:\n")
	for _, e := range result.Errors() {
		_, _ = fmt.Fprintf(&sb, "- %s\n", e)
	}
	return NewMalformedResponseError(sb.String())
}
