// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AleutianAI/answerdesk/cmd/answerdesk/config"
	"github.com/AleutianAI/answerdesk/pkg/logging"
	"github.com/AleutianAI/answerdesk/services/fallback"
	"github.com/AleutianAI/answerdesk/services/knowledge"
	"github.com/AleutianAI/answerdesk/services/providers"
	"github.com/AleutianAI/answerdesk/services/resolver"
)

// components holds everything a command needs to resolve questions.
type components struct {
	logger    *logging.Logger
	store     *knowledge.Store
	refresher *knowledge.Refresher
	cache     *fallback.Cache
	resolver  *resolver.Resolver
}

func (c *components) Close() {
	if c.cache != nil {
		if err := c.cache.Close(); err != nil {
			c.logger.Warn("failed to close fallback cache", "error", err.Error())
		}
	}
	if c.logger != nil {
		c.logger.Close()
	}
}

// buildComponents wires the knowledge store, fallback cache, provider
// cascade, and resolver from config. withMetrics selects whether
// resolution counters are registered on the default Prometheus
// registry.
func buildComponents(cfg config.Config, quiet, withMetrics bool) (*components, error) {
	logger := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Service: "answerdesk",
		JSON:    cfg.Logging.JSON,
		Quiet:   quiet,
		LogDir:  cfg.Logging.LogDir,
	})
	slogger := logger.Slog()

	cache, err := fallback.Open(fallback.DefaultConfig(cfg.Cache.Path))
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("open fallback cache: %w", err)
	}

	store := knowledge.NewStore()
	feed := knowledge.NewFeedClient(cfg.Feed.URL)
	refresher := knowledge.NewRefresher(store, feed,
		time.Duration(cfg.Feed.RefreshSeconds)*time.Second, slogger)

	// Providers with missing credentials are skipped so a partially
	// configured deployment still answers from the KB and cache.
	var chain []providers.Provider
	if p, err := providers.NewGroqClient(cfg.Providers.GroqAPIKey, cfg.Providers.GroqModels...); err == nil {
		chain = append(chain, p)
	} else if !errors.Is(err, providers.ErrMissingCredential) {
		logger.Warn("Groq provider disabled", "error", err.Error())
	}
	if p, err := providers.NewOpenAIClient(cfg.Providers.OpenAIAPIKey, cfg.Providers.OpenAIModel); err == nil {
		chain = append(chain, p)
	} else if !errors.Is(err, providers.ErrMissingCredential) {
		logger.Warn("OpenAI provider disabled", "error", err.Error())
	}
	if p, err := providers.NewAnthropicClient(cfg.Providers.AnthropicAPIKey, cfg.Providers.AnthropicModel); err == nil {
		chain = append(chain, p)
	} else if !errors.Is(err, providers.ErrMissingCredential) {
		logger.Warn("Anthropic provider disabled", "error", err.Error())
	}
	if len(chain) == 0 {
		logger.Warn("no upstream providers configured, answering from KB and cache only")
	}
	cascade := providers.NewCascade(chain, cache, slogger)

	var metrics *resolver.Metrics
	if withMetrics {
		metrics = resolver.NewMetrics(prometheus.DefaultRegisterer)
	}

	res := resolver.New(store, cache, cascade, metrics, slogger)

	return &components{
		logger:    logger,
		store:     store,
		refresher: refresher,
		cache:     cache,
		resolver:  res,
	}, nil
}
