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
	"regexp"
	"strings"
)

var (
	latexBlockRe  = regexp.MustCompile(`\\\[.*?\\\]`)
	latexInlineRe = regexp.MustCompile(`\$.*?\$`)
	leadingRe     = regexp.MustCompile(`^[^{]*`)
	trailingRe    = regexp.MustCompile(`[^}]*$`)
)

// ExtractJSONObject extracts the JSON object embedded in a free-text model
// response. It strips markdown code fences, LaTeX-looking segments, and any
// prose before the first "{" and after the last "}". It returns a
// MalformedResponseError when no object remains.
//
// The inline-LaTeX stripping ($...$) can mis-strip legitimate text containing
// two dollar signs on one line ("$5 million to $7 million"); this mirrors the
// heuristic the prompts were tuned against and is a known limitation.
func ExtractJSONObject(response string) (string, error) {
	if _, rest, found := strings.Cut(response, "```json"); found {
		response, _, _ = strings.Cut(rest, "```")
		response = strings.TrimSpace(response)
	} else if _, rest, found := strings.Cut(response, "```"); found {
		response, _, _ = strings.Cut(rest, "```")
		response = strings.TrimSpace(response)
	}

	response = latexBlockRe.ReplaceAllString(response, "")
	response = latexInlineRe.ReplaceAllString(response, "")
	response = leadingRe.ReplaceAllString(response, "")
	response = trailingRe.ReplaceAllString(response, "")

	if response == "" {
		return "", NewMalformedResponseError("no JSON object found in response")
	}
	return response, nil
}
