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
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

var minionsLogger atomic.Pointer[slog.Logger]

func init() {
	ResetLogger()
}

// Logger is the global logger used by the minions harness.
// By default, it is a logger with a text handler which writes to stderr,
// with minimum level "info". You can change it with SetLogger.
func Logger() *slog.Logger {
	return minionsLogger.Load()
}

// SetLogger sets the global logger used by the minions harness.
// A nil value is ignored.
func SetLogger(l *slog.Logger) {
	if l != nil {
		minionsLogger.Store(l)
	}
}

func ResetLogger() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	SetLogger(slog.New(slog.NewTextHandler(os.Stderr, opts)))
}

// EnableVerboseStderrLogging enables verbose logging to stderr.
// This is useful for debugging.
func EnableVerboseStderrLogging() {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	minionsLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, opts)))
}

func debugFlagEnabled(flag string) bool {
	v, ok := os.LookupEnv(flag)
	return ok && (v == "1" || strings.ToLower(v) == "true")
}

// DontLogModelData - By default we don't log LLM inputs/outputs, to prevent
// exposing sensitive information. Set this flag to enable logging them.
var DontLogModelData = debugFlagEnabled("MINIONS_DONT_LOG_MODEL_DATA")
