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
	"errors"
	"fmt"
)

// MalformedResponseError is returned when a remote completion does not parse
// as the expected JSON schema, e.g. no JSON object in the response text, or
// required fields are absent.
type MalformedResponseError error

func NewMalformedResponseError(message string) MalformedResponseError {
	return MalformedResponseError(errors.New(message))
}

func MalformedResponseErrorf(format string, a ...any) MalformedResponseError {
	return MalformedResponseError(fmt.Errorf(format, a...))
}

// UnknownRoleError is returned when the orchestrator selects a role name
// outside the fixed enumeration.
type UnknownRoleError error

func NewUnknownRoleError(message string) UnknownRoleError {
	return UnknownRoleError(errors.New(message))
}

func UnknownRoleErrorf(format string, a ...any) UnknownRoleError {
	return UnknownRoleError(fmt.Errorf(format, a...))
}

// RoundBudgetExceededError is returned when no Aggregator success was reached
// before the configured maximum number of rounds.
type RoundBudgetExceededError error

func NewRoundBudgetExceededError(message string) RoundBudgetExceededError {
	return RoundBudgetExceededError(errors.New(message))
}

func RoundBudgetExceededErrorf(format string, a ...any) RoundBudgetExceededError {
	return RoundBudgetExceededError(fmt.Errorf(format, a...))
}

// UserError is returned when the caller misuses the harness, e.g. invalid
// configuration parameters.
type UserError error

func NewUserError(message string) UserError {
	return UserError(errors.New(message))
}

func UserErrorf(format string, a ...any) UserError {
	return UserError(fmt.Errorf(format, a...))
}
