package providers

import (
	"context"
	"log/slog"
)

// CacheWriter receives successful provider answers for write-back.
// Implemented by the fallback cache.
type CacheWriter interface {
	Put(ctx context.Context, question, answer string) error
}

// Cascade consults providers in configured order and returns the first
// answer. Provider order is significant and fixed at construction.
type Cascade struct {
	providers []Provider
	cache     CacheWriter
	logger    *slog.Logger
}

// NewCascade builds a cascade. cache may be nil to disable write-back.
// A nil logger selects slog.Default().
func NewCascade(providers []Provider, cache CacheWriter, logger *slog.Logger) *Cascade {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cascade{providers: providers, cache: cache, logger: logger}
}

// Len reports how many providers are configured.
func (c *Cascade) Len() int { return len(c.providers) }

// Names lists the configured providers in consultation order.
func (c *Cascade) Names() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Resolve asks each provider in order until one produces an answer.
//
// A provider failure is logged and the next provider is tried; the
// cascade itself never returns an error. On success the answer is
// written back to the cache before returning, so the next outage can
// be served locally. A write-back failure is logged but does not
// affect the answer. The returned name identifies the provider that
// answered; ok is false when every provider failed or none are
// configured.
func (c *Cascade) Resolve(ctx context.Context, question string) (answer, name string, ok bool) {
	for _, p := range c.providers {
		ans, err := p.TryAnswer(ctx, question)
		if err != nil {
			c.logger.Warn("provider failed, trying next",
				"provider", p.Name(),
				"error", err.Error(),
			)
			continue
		}

		if c.cache != nil {
			if err := c.cache.Put(ctx, question, ans); err != nil {
				c.logger.Warn("fallback cache write-back failed",
					"provider", p.Name(),
					"error", err.Error(),
				)
			}
		}
		c.logger.Info("provider answered", "provider", p.Name())
		return ans, p.Name(), true
	}
	return "", "", false
}
