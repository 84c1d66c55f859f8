// Package providers contains the upstream answer providers and the
// ordered cascade that consults them when neither the knowledge base
// nor the fallback cache can answer a question.
package providers

import (
	"context"
	"errors"
	"time"
)

// personaPrompt is the system prompt sent to every upstream provider so
// answers keep a consistent voice regardless of which backend produced
// them.
const personaPrompt = "You are DHV OS, a professional AI assistant for the DHV sales and digital hustle community. Provide helpful, concise, and professional advice. Always stay in character as a hustle-focused digital mentor."

// DefaultRequestTimeout bounds one upstream completion request.
const DefaultRequestTimeout = 30 * time.Second

// ErrMissingCredential is returned by provider constructors when the
// required API key is not configured. Callers treat it as "skip this
// provider", not as a startup failure.
var ErrMissingCredential = errors.New("provider credential missing")

// ErrEmptyCompletion is returned when a provider responds successfully
// but with no usable text.
var ErrEmptyCompletion = errors.New("provider returned empty completion")

// Provider is one upstream answer backend.
//
// TryAnswer either returns a non-empty answer or an error; it never
// returns ("", nil). Implementations must respect ctx cancellation.
type Provider interface {
	Name() string
	TryAnswer(ctx context.Context, question string) (string, error)
}
