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

import "context"

// Message is one entry of a chat-style completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// CompletionClient is the minimal surface the orchestrator needs from a
// remote LLM. The persona becomes the system message of the request.
// Implementations own retries, rate limiting and timeouts; a returned error
// is treated as terminal for the round that issued the call.
type CompletionClient interface {
	Complete(ctx context.Context, persona string, messages []Message) (string, error)
}
