/*
Copyright 2026 Ralph Bot Authors
SPDX-License-Identifier: Apache-2.0
*/

package guidance

import (
	"context"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/chainguard-dev/clog"
	"github.com/ralph-bot/ralph/metrics"
)

// Generator produces guidance text for a request. Handlers depend on this
// interface so tests can substitute a fake.
type Generator interface {
	Guidance(ctx context.Context, req Request) (string, error)
}

// Claude generates guidance through the Anthropic Messages API with a pinned
// model and a bounded output-token budget. Calls are synchronous and are not
// retried; API failures propagate with the service's error body intact so
// operators can diagnose quota and model errors from the reply.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	genai     *metrics.GenAI
}

// NewClaude creates a Claude generator. Extra request options are applied to
// the underlying client, e.g. option.WithBaseURL for tests.
func NewClaude(apiKey, model string, maxTokens int64, opts ...option.RequestOption) *Claude {
	// Every failure is final for the event: the SDK's built-in retries are
	// disabled along with everything else.
	base := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	return &Claude{
		client:    anthropic.NewClient(append(base, opts...)...),
		model:     model,
		maxTokens: maxTokens,
		genai:     metrics.NewGenAI("ralph"),
	}
}

// Guidance implements Generator.
func (c *Claude) Guidance(ctx context.Context, req Request) (string, error) {
	log := clog.FromContext(ctx)
	prompt := BuildPrompt(req)

	log.With("model", c.model).
		With("story", req.Story.ID).
		With("prompt_length", len(prompt)).
		Info("Requesting guidance")

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	c.genai.RecordCall(ctx, c.model)
	if message.Usage.InputTokens > 0 || message.Usage.OutputTokens > 0 {
		c.genai.RecordTokens(ctx, c.model, message.Usage.InputTokens, message.Usage.OutputTokens)
	}

	for _, block := range message.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", errors.New("no text content in model response")
}
