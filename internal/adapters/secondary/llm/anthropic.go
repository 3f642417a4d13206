// Package llm adapts hosted language models to ports.LanguageModel.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "claude-sonnet-4-5"

// ErrEmptyResponse is returned when the model produced no text block.
var ErrEmptyResponse = errors.New("no text content in model response")

// Config configures the Anthropic client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	// BaseURL overrides the API endpoint; tests point it at httptest.
	BaseURL string
}

// Anthropic completes prompts with the Messages API.
type Anthropic struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
	logger    *slog.Logger
}

var _ ports.LanguageModel = (*Anthropic)(nil)

// NewAnthropic creates a client. The API key is required.
func NewAnthropic(cfg Config, logger *slog.Logger) (*Anthropic, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("anthropic api key is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(1)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 800
	}

	return &Anthropic{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
		timeout:   cfg.Timeout,
		logger:    logger.With("component", "llm", "provider", "anthropic"),
	}, nil
}

// Complete sends one user turn and returns the first text block.
func (a *Anthropic) Complete(ctx context.Context, system, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: system, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		a.logger.WarnContext(ctx, "completion failed", "model", a.model, "error", err)
		return "", fmt.Errorf("anthropic: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			a.logger.InfoContext(ctx, "completion",
				"model", a.model,
				"tokens_in", message.Usage.InputTokens,
				"tokens_out", message.Usage.OutputTokens,
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}
