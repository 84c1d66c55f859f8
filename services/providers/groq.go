package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// defaultGroqModels are tried in order. A model rejected with HTTP
// 400/404 (decommissioned or renamed) is skipped; any other failure
// aborts the whole attempt so auth and quota problems surface once,
// not once per model.
var defaultGroqModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
}

// GroqClient talks to Groq's OpenAI-compatible chat completion API.
type GroqClient struct {
	client *openai.Client
	models []string
}

// NewGroqClient builds a client from the given API key. Optional model
// overrides replace the default try-in-sequence list.
func NewGroqClient(apiKey string, models ...string) (*GroqClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: GROQ_API_KEY", ErrMissingCredential)
	}
	if len(models) == 0 {
		models = defaultGroqModels
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = groqBaseURL
	cfg.HTTPClient = &http.Client{Timeout: DefaultRequestTimeout}

	return &GroqClient{client: openai.NewClientWithConfig(cfg), models: models}, nil
}

func (g *GroqClient) Name() string { return "groq" }

// TryAnswer asks each configured model in order until one answers.
func (g *GroqClient) TryAnswer(ctx context.Context, question string) (string, error) {
	var lastErr error

	for _, model := range g.models {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: personaPrompt},
				{Role: openai.ChatMessageRoleUser, Content: question},
			},
			Temperature: 0.5,
		})
		if err != nil {
			var apiErr *openai.APIError
			if errors.As(err, &apiErr) &&
				(apiErr.HTTPStatusCode == http.StatusBadRequest || apiErr.HTTPStatusCode == http.StatusNotFound) {
				slog.Warn("Groq model unavailable, trying next", "model", model, "status", apiErr.HTTPStatusCode)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("groq completion (%s): %w", model, err)
		}

		if len(resp.Choices) == 0 {
			lastErr = ErrEmptyCompletion
			continue
		}
		answer := strings.TrimSpace(resp.Choices[0].Message.Content)
		if answer == "" {
			lastErr = ErrEmptyCompletion
			continue
		}
		slog.Debug("Groq completion succeeded", "model", model)
		return answer, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no models configured")
	}
	return "", fmt.Errorf("groq: all models exhausted: %w", lastErr)
}

var _ Provider = (*GroqClient)(nil)
