// Package llm wraps the DeepSeek chat-completions API behind a small
// text-in/text-out interface with retry handling.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dtnitsch/llm-web-summarizer/models"
)

// Backend is the completion surface the summarizer and integrator consume.
// Implementations either return text or a single terminal error; retries
// happen below this boundary.
type Backend interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

const (
	defaultMaxAttempts = 3
	defaultRetryWait   = 2 * time.Second
	defaultTemperature = 0.3
)

// Client talks to an OpenAI-compatible endpoint (DeepSeek by default).
type Client struct {
	api         *openai.Client
	model       string
	maxTokens   int
	temperature float32
	maxAttempts int
	retryWait   time.Duration
	logger      *slog.Logger
}

// NewClient builds a Client from config. The API base URL is rewritten so
// the same code runs against DeepSeek or any other OpenAI-compatible
// server.
func NewClient(config *models.Config, logger *slog.Logger) *Client {
	apiConfig := openai.DefaultConfig(config.APIKey)
	if config.APIBase != "" {
		apiConfig.BaseURL = config.APIBase
	}
	return &Client{
		api:         openai.NewClientWithConfig(apiConfig),
		model:       config.Model,
		maxTokens:   config.MaxTokens,
		temperature: defaultTemperature,
		maxAttempts: defaultMaxAttempts,
		retryWait:   defaultRetryWait,
		logger:      logger,
	}
}

// Complete sends one chat completion request and returns the normalized
// response text. Transient failures are retried with a fixed wait; after
// the attempts are exhausted a single terminal error is returned.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryWait):
			}
		}

		resp, err := c.api.CreateChatCompletion(ctx, request)
		if err != nil {
			lastErr = err
			c.logger.Warn("Completion request failed", "attempt", attempt, "max_attempts", c.maxAttempts, "error", err)
			continue
		}

		text, err := responseText(resp)
		if err != nil {
			lastErr = err
			c.logger.Warn("Completion response unusable", "attempt", attempt, "error", err)
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("completion failed after %d attempts: %w", c.maxAttempts, lastErr)
}

// responseText normalizes the response shapes the API can produce into a
// flat string: plain message content first, then joined multi-part content,
// otherwise an error.
func responseText(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", errors.New("response contains no choices")
	}
	message := resp.Choices[0].Message
	if content := strings.TrimSpace(message.Content); content != "" {
		return content, nil
	}
	if len(message.MultiContent) > 0 {
		var parts []string
		for _, part := range message.MultiContent {
			if part.Type == openai.ChatMessagePartTypeText && part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
		if joined := strings.TrimSpace(strings.Join(parts, "\n")); joined != "" {
			return joined, nil
		}
	}
	return "", errors.New("response message has no text content")
}
