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

// Package remoteclient implements the remote completion and embedding
// collaborator on top of the OpenAI API. Retries and rate limiting are
// handled by the underlying SDK; the harness treats a returned error as
// terminal for the round that issued the call.
package remoteclient

import (
	"context"
	"fmt"
	"slices"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/param"

	"github.com/vivien-cheng/minions-finance/minions"
	"github.com/vivien-cheng/minions-finance/usage"
)

const (
	DefaultModel          = "gpt-4o"
	DefaultEmbeddingModel = "text-embedding-ada-002"
	DefaultMaxTokens      = 4096
)

type Client struct {
	client         openai.Client
	model          string
	embeddingModel string
	temperature    float64
	maxTokens      int64
}

type Params struct {
	// Model is the chat completion model name. Defaults to DefaultModel.
	Model string

	// EmbeddingModel is the model used by Embed.
	// Defaults to DefaultEmbeddingModel.
	EmbeddingModel string

	// Temperature for completions. The harness wants reproducible answers,
	// so this intentionally defaults to 0.
	Temperature float64

	// MaxTokens bounds each completion. Defaults to DefaultMaxTokens.
	MaxTokens int64

	// APIKey for the OpenAI API. When empty, the SDK falls back to the
	// OPENAI_API_KEY environment variable.
	APIKey string

	// BaseURL optionally points the client at a compatible endpoint.
	BaseURL string

	// MaxRetries configures the SDK's retry policy. Zero keeps the SDK
	// default.
	MaxRetries int
}

func New(params Params, opts ...option.RequestOption) *Client {
	opts = slices.Clone(opts)
	if params.APIKey != "" {
		opts = append(opts, option.WithAPIKey(params.APIKey))
	}
	if params.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(params.BaseURL))
	}
	if params.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(params.MaxRetries))
	}

	c := &Client{
		client:         openai.NewClient(opts...),
		model:          params.Model,
		embeddingModel: params.EmbeddingModel,
		temperature:    params.Temperature,
		maxTokens:      params.MaxTokens,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.embeddingModel == "" {
		c.embeddingModel = DefaultEmbeddingModel
	}
	if c.maxTokens == 0 {
		c.maxTokens = DefaultMaxTokens
	}
	return c
}

// Complete issues one chat completion with persona as the system message.
// Token usage is accumulated into the usage.Usage carried by ctx, if any.
func (c *Client) Complete(ctx context.Context, persona string, messages []minions.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    convertMessages(persona, messages),
		Temperature: param.NewOpt(c.temperature),
		MaxTokens:   param.NewOpt(c.maxTokens),
	}

	response, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.recordUsage(ctx, usage.Usage{
		Requests:           1,
		PromptTokens:       uint64(response.Usage.PromptTokens),
		CompletionTokens:   uint64(response.Usage.CompletionTokens),
		CachedPromptTokens: uint64(response.Usage.PromptTokensDetails.CachedTokens),
		TotalTokens:        uint64(response.Usage.TotalTokens),
	})

	return response.Choices[0].Message.Content, nil
}

// Embed returns one dense vector per input text, in input order. It
// satisfies retrieval.Embedder.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	response, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.embeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(response.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(response.Data), len(texts))
	}

	c.recordUsage(ctx, usage.Usage{
		Requests:     1,
		PromptTokens: uint64(response.Usage.PromptTokens),
		TotalTokens:  uint64(response.Usage.TotalTokens),
	})

	vectors := make([][]float64, len(response.Data))
	for _, item := range response.Data {
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}

func (c *Client) recordUsage(ctx context.Context, u usage.Usage) {
	if total, ok := usage.FromContext(ctx); ok {
		total.Add(&u)
	}
}

func convertMessages(persona string, messages []minions.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)+1)
	if persona != "" {
		converted = append(converted, openai.SystemMessage(persona))
	}
	for _, m := range messages {
		switch m.Role {
		case "assistant":
			converted = append(converted, openai.AssistantMessage(m.Content))
		case "system":
			converted = append(converted, openai.SystemMessage(m.Content))
		default:
			converted = append(converted, openai.UserMessage(m.Content))
		}
	}
	return converted
}
