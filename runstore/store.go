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

// Package runstore persists predicted answers and per-run conversation logs.
// The JSON artifact files remain the primary output of the drivers; a store
// is an optional secondary sink keyed by benchmark example identifier.
package runstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested run log does not exist.
var ErrNotFound = errors.New("runstore: not found")

// Store persists predictions per experiment condition and raw conversation
// logs per example. Saving again for the same key overwrites.
type Store interface {
	SavePrediction(ctx context.Context, condition, exampleID, answer string) error
	Predictions(ctx context.Context, condition string) (map[string]string, error)
	SaveRunLog(ctx context.Context, exampleID string, log []byte) error
	RunLog(ctx context.Context, exampleID string) ([]byte, error)
	Close() error
}
