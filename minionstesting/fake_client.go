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

// Package minionstesting provides scripted fakes for testing code that talks
// to a remote completion client.
package minionstesting

import (
	"context"

	"github.com/vivien-cheng/minions-finance/minions"
)

// FakeCompletionClient is a minions.CompletionClient returning scripted
// outputs in FIFO order, recording every call it receives.
type FakeCompletionClient struct {
	TurnOutputs []FakeTurnOutput
	Calls       []FakeCallArgs
}

// FakeTurnOutput is one scripted completion: either a response text or an
// error simulating a transient remote failure.
type FakeTurnOutput struct {
	Value string
	Error error
}

// FakeCallArgs captures the arguments of one Complete call.
type FakeCallArgs struct {
	Persona  string
	Messages []minions.Message
}

func NewFakeCompletionClient(outputs ...FakeTurnOutput) *FakeCompletionClient {
	return &FakeCompletionClient{TurnOutputs: outputs}
}

func (c *FakeCompletionClient) SetNextOutput(output FakeTurnOutput) {
	c.TurnOutputs = append(c.TurnOutputs, output)
}

func (c *FakeCompletionClient) AddMultipleTurnOutputs(outputs []FakeTurnOutput) {
	c.TurnOutputs = append(c.TurnOutputs, outputs...)
}

// LastCallArgs returns the arguments of the most recent call, if any.
func (c *FakeCompletionClient) LastCallArgs() (FakeCallArgs, bool) {
	if len(c.Calls) == 0 {
		return FakeCallArgs{}, false
	}
	return c.Calls[len(c.Calls)-1], true
}

func (c *FakeCompletionClient) getNextOutput() FakeTurnOutput {
	if len(c.TurnOutputs) == 0 {
		return FakeTurnOutput{}
	}
	v := c.TurnOutputs[0]
	c.TurnOutputs = c.TurnOutputs[1:]
	return v
}

func (c *FakeCompletionClient) Complete(ctx context.Context, persona string, messages []minions.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.Calls = append(c.Calls, FakeCallArgs{Persona: persona, Messages: messages})

	output := c.getNextOutput()
	if output.Error != nil {
		return "", output.Error
	}
	return output.Value, nil
}
