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

// Package usage tracks token consumption across remote completion calls.
package usage

import "context"

type Usage struct {
	// Total requests made to the LLM API.
	Requests uint64

	// Total prompt tokens sent, across all requests.
	PromptTokens uint64

	// Total completion tokens received, across all requests.
	CompletionTokens uint64

	// Prompt tokens the provider reported as served from its cache.
	CachedPromptTokens uint64

	// Total tokens sent and received, across all requests.
	TotalTokens uint64
}

func NewUsage() *Usage {
	return new(Usage)
}

// Add accumulates other into u. A Usage is not synchronized: concurrent
// runs each carry their own counter and merge once all of them are done.
func (u *Usage) Add(other *Usage) {
	u.Requests += other.Requests
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.CachedPromptTokens += other.CachedPromptTokens
	u.TotalTokens += other.TotalTokens
}

// usageContextKey is the key type for Usage values in Contexts.
type usageContextKey struct{}

// NewContext returns a new Context that carries the given Usage.
// Drivers put a Usage in the context so every remote call made during a run
// accumulates into the same counter.
func NewContext(ctx context.Context, u *Usage) context.Context {
	return context.WithValue(ctx, usageContextKey{}, u)
}

// FromContext returns the Usage value stored in ctx, if any.
func FromContext(ctx context.Context) (*Usage, bool) {
	u, ok := ctx.Value(usageContextKey{}).(*Usage)
	return u, ok
}
