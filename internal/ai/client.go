// Package ai talks to an OpenAI-compatible chat-completions endpoint for
// the two content helpers: SEO keywords and image alt text.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// CredentialEnv names the variable the operator must set.
	CredentialEnv = "OPENAI_API_KEY"
	// PlaceholderKey is the value shipped in the sample .env.
	PlaceholderKey = "YOUR_API_KEY"

	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 20 * time.Second
)

var (
	ErrNotConfigured = errors.New("ai credential not configured")
	ErrEmptyResponse = errors.New("model returned no content")
)

type Config struct {
	APIKey  string
	BaseURL string // empty = OpenAI default
	Model   string
	Timeout time.Duration
}

type Client struct {
	api        *openai.Client
	model      string
	configured bool
}

func New(cfg Config) *Client {
	key := strings.TrimSpace(cfg.APIKey)
	configured := key != "" && key != PlaceholderKey

	oc := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	oc.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		api:        openai.NewClientWithConfig(oc),
		model:      model,
		configured: configured,
	}
}

// Configured reports whether a usable credential is present.
func (c *Client) Configured() bool { return c.configured }

func (c *Client) Model() string { return c.model }

// completeJSON sends messages and decodes the JSON object in the reply into out.
func (c *Client) completeJSON(ctx context.Context, messages []openai.ChatCompletionMessage, out any) error {
	if !c.configured {
		return ErrNotConfigured
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ErrEmptyResponse
	}

	raw := extractJSON(resp.Choices[0].Message.Content)
	if raw == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	return nil
}
