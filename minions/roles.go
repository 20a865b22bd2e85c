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

// RoleName identifies one of the fixed specialized agents the orchestrator
// can dispatch to.
type RoleName string

const (
	RoleRetriever     RoleName = "RetrieverAgent"
	RoleSimpleFinance RoleName = "SimpleFinanceAgent"
	RoleCalculator    RoleName = "CalculatorAgent"
	RoleAggregator    RoleName = "AggregatorAgent"
)

// ParseRoleName maps a role name returned by the orchestrator model onto the
// fixed enumeration. An unrecognized name is an UnknownRoleError, never a
// silent fallthrough.
func ParseRoleName(s string) (RoleName, error) {
	switch r := RoleName(s); r {
	case RoleRetriever, RoleSimpleFinance, RoleCalculator, RoleAggregator:
		return r, nil
	default:
		return "", UnknownRoleErrorf("invalid agent selected: %q", s)
	}
}
