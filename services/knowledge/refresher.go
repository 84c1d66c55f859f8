// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultRefreshInterval is the healthy-state wait between refreshes.
	DefaultRefreshInterval = 300 * time.Second

	// backoffBase and backoffCap bound the failure backoff:
	// min(base * 2^failures, cap).
	backoffBase = 60 * time.Second
	backoffCap  = 1000 * time.Second
)

// Refresher periodically replaces the Store snapshot from a FeedSource.
//
// The loop is a two-state machine. In the healthy state it refreshes
// every interval; each consecutive failure moves it to Backoff(n) with a
// wait of min(60*2^n, 1000) seconds, and any success returns it to
// healthy. A failed cycle never touches the existing snapshot, and a
// backoff sleep blocks only this loop, never resolvers.
type Refresher struct {
	store    *Store
	feed     FeedSource
	interval time.Duration
	logger   *slog.Logger
}

// NewRefresher creates a refresher for the given store and feed.
// A non-positive interval selects the default. A nil logger selects
// slog.Default().
func NewRefresher(store *Store, feed FeedSource, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{store: store, feed: feed, interval: interval, logger: logger}
}

// RefreshNow performs one synchronous refresh cycle.
//
// On success the store snapshot is replaced. On failure the snapshot is
// left untouched and the error is returned. Panics inside the feed are
// recovered and reported as errors so the caller's loop survives.
func (r *Refresher) RefreshNow(ctx context.Context) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic: %v", ErrFeedFetch, rec)
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, DefaultFetchTimeout)
	defer cancel()

	entries, err := r.feed.Fetch(fetchCtx)
	if err != nil {
		return err
	}

	r.store.Replace(entries)
	r.logger.Info("knowledge base refreshed", "entries", len(entries))
	return nil
}

// Run executes the refresh loop until ctx is cancelled. It refreshes
// immediately on entry, then waits interval or backoff between cycles.
func (r *Refresher) Run(ctx context.Context) {
	failures := 0

	for {
		if err := r.RefreshNow(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			delay := BackoffDelay(failures)
			r.logger.Warn("knowledge refresh failed, backing off",
				"attempt", failures,
				"retry_in", delay.String(),
				"error", err.Error(),
			)
			if !sleepCtx(ctx, delay) {
				return
			}
			continue
		}

		if failures > 0 {
			r.logger.Info("knowledge refresh recovered", "after_failures", failures)
		}
		failures = 0

		if !sleepCtx(ctx, r.interval) {
			return
		}
	}
}

// BackoffDelay returns the wait before retry number failures+1:
// min(60 * 2^failures, 1000) seconds.
func BackoffDelay(failures int) time.Duration {
	if failures < 1 {
		failures = 1
	}
	// 2^failures with overflow guard; the cap is hit from failures >= 5.
	if failures >= 5 {
		return backoffCap
	}
	d := backoffBase * time.Duration(1<<uint(failures))
	if d > backoffCap {
		return backoffCap
	}
	return d
}

// sleepCtx waits d or until ctx is done; it reports false on cancel.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
