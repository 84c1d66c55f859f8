// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package resolver orchestrates the answer resolution cascade.
//
// A question walks a fixed tier order and the first hit wins:
//
//	KB exact → KB fuzzy → fallback cache → upstream providers
//
// The knowledge base always outranks the cache and the cache always
// outranks the providers, so a curated answer can never be shadowed by
// a stale cached one, and no network call is made for a question the
// system already knows. Resolution never fails: exhausting every tier
// is an ordinary miss, not an error.
package resolver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/AleutianAI/answerdesk/services/fallback"
	"github.com/AleutianAI/answerdesk/services/knowledge"
)

// Tier identifies which layer of the cascade produced an answer.
// Provider hits are labeled with the provider's own name.
type Tier string

const (
	TierKBExact Tier = "kb_exact"
	TierKBFuzzy Tier = "kb_fuzzy"
	TierCache   Tier = "cache"

	// TierNone marks a miss: no answer at any tier.
	TierNone Tier = ""
)

// Result is the outcome of one resolution.
type Result struct {
	Answer string
	Tier   Tier
	Found  bool
}

// AnswerCache is the read side of the fallback cache as the resolver
// sees it.
type AnswerCache interface {
	Get(ctx context.Context, question string) (fallback.Record, bool)
}

// Cascade is the upstream provider chain as the resolver sees it.
type Cascade interface {
	Resolve(ctx context.Context, question string) (answer, name string, ok bool)
	Names() []string
}

// Resolver walks the tier order for each question.
type Resolver struct {
	store   *knowledge.Store
	cache   AnswerCache
	cascade Cascade
	metrics *Metrics
	logger  *slog.Logger
}

// New creates a resolver. cache and cascade may be nil, disabling
// those tiers. metrics may be nil to disable recording. A nil logger
// selects slog.Default().
func New(store *knowledge.Store, cache AnswerCache, cascade Cascade, metrics *Metrics, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, cache: cache, cascade: cascade, metrics: metrics, logger: logger}
}

// Resolve answers the question or reports a miss.
//
// An empty or whitespace question is an immediate miss without
// touching any tier.
func (r *Resolver) Resolve(ctx context.Context, question string) Result {
	start := time.Now()

	res := r.resolve(ctx, question)

	elapsed := time.Since(start).Seconds()
	if res.Found {
		if r.metrics != nil {
			r.metrics.RecordHit(res.Tier, elapsed)
		}
		r.logger.Info("question resolved", "tier", string(res.Tier))
	} else {
		if r.metrics != nil {
			r.metrics.RecordMiss(elapsed)
		}
		r.logger.Info("question unresolved")
	}
	return res
}

func (r *Resolver) resolve(ctx context.Context, question string) Result {
	if strings.TrimSpace(question) == "" {
		return Result{Tier: TierNone}
	}

	if answer, ok := r.store.LookupExact(question); ok {
		return Result{Answer: answer, Tier: TierKBExact, Found: true}
	}

	if m, ok := r.store.LookupFuzzy(question); ok {
		tier := TierKBFuzzy
		if m.Exact {
			// Normalized equality and containment count as exact
			// matches even though they ran in the fuzzy pass.
			tier = TierKBExact
		}
		return Result{Answer: m.Answer, Tier: tier, Found: true}
	}

	if r.cache != nil {
		if rec, ok := r.cache.Get(ctx, question); ok {
			return Result{Answer: rec.Answer, Tier: TierCache, Found: true}
		}
	}

	if r.cascade != nil {
		if answer, name, ok := r.cascade.Resolve(ctx, question); ok {
			return Result{Answer: answer, Tier: Tier(name), Found: true}
		}
	}

	return Result{Tier: TierNone}
}

// TriedSources describes the tiers consulted for a missed question, in
// order, for the unknown-question log.
func (r *Resolver) TriedSources() string {
	sources := "kb, cache"
	if r.cascade != nil {
		for _, name := range r.cascade.Names() {
			sources += ", " + name
		}
	}
	return sources
}
