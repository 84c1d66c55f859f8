// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package fallback provides the persistent answer cache consulted when
// the knowledge base has no match.
//
// The cache is backed by BadgerDB for local embedded storage with
// low-latency access. Every answer produced by an upstream provider is
// written back here, so a question answered once keeps working when all
// providers are unreachable.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
// This package follows Apache 2.0 guidelines for attribution and usage.
package fallback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/answerdesk/pkg/textutil"
)

// keyPrefix namespaces cache records inside the shared database.
const keyPrefix = "qa:"

// ErrCacheStore is returned by Put when the record cannot be persisted.
// Get never returns it; read failures degrade to a miss.
var ErrCacheStore = errors.New("fallback cache store failed")

// Record is one cached question/answer pair as stored in BadgerDB.
type Record struct {
	Question           string    `json:"question"`
	NormalizedQuestion string    `json:"normalized_question"`
	Answer             string    `json:"answer"`
	SavedAt            time.Time `json:"saved_at"`
}

// Config holds configuration for the cache database.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives cache events. Nil disables BadgerDB's internal
	// logging and uses slog.Default() for cache-level messages.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults for a persistent cache at
// the given path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns configuration for testing. Data is lost when
// the cache is closed.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Cache is the persistent fallback answer store.
//
// Records are keyed by the normalized question, so lookups and
// write-backs agree on identity regardless of the asker's casing,
// punctuation, or spacing. All methods are safe for concurrent use.
type Cache struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open creates and opens a cache with the given configuration.
// The caller must call Close when done.
func Open(cfg Config) (*Cache, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)

	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
		logger = slog.Default()
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open fallback cache: %w", err)
	}

	return &Cache{db: db, logger: logger}, nil
}

// OpenInMemory is a convenience function for tests.
func OpenInMemory() (*Cache, error) {
	return Open(InMemoryConfig())
}

// Close flushes and closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get looks up an answer for the question.
//
// The question is normalized first; an empty normalized form never
// matches. An exact key hit is returned immediately. Otherwise every
// record is scored against the query inside one read transaction, and
// the best score at or above the similarity threshold wins. Storage
// errors are logged and reported as a miss so the resolver can move on
// to the providers.
func (c *Cache) Get(ctx context.Context, question string) (Record, bool) {
	norm := textutil.Normalize(question)
	if norm == "" {
		return Record{}, false
	}

	var (
		found Record
		ok    bool
	)
	err := c.withReadTxn(ctx, func(txn *badger.Txn) error {
		// Exact hit first.
		item, err := txn.Get([]byte(keyPrefix + norm))
		if err == nil {
			if verr := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &found)
			}); verr == nil {
				ok = true
				return nil
			}
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		// Fuzzy pass over the full record set. One read transaction
		// gives a consistent view while scoring.
		best := 0.0
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec Record
			if verr := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); verr != nil {
				continue // skip corrupt records
			}
			if rec.NormalizedQuestion == "" {
				continue
			}
			score := textutil.Similarity(norm, rec.NormalizedQuestion)
			if score >= textutil.SimilarityThreshold && score > best {
				best = score
				found = rec
				ok = true
			}
		}
		return nil
	})
	if err != nil {
		c.logger.Warn("fallback cache read failed, treating as miss", "error", err.Error())
		return Record{}, false
	}
	if !ok {
		return Record{}, false
	}
	return found, true
}

// Put stores or overwrites the answer for the question.
//
// Questions whose normalized form is empty, and empty answers, are
// silently skipped: caching them would either be unreachable or poison
// later lookups.
func (c *Cache) Put(ctx context.Context, question, answer string) error {
	norm := textutil.Normalize(question)
	if norm == "" || answer == "" {
		return nil
	}

	rec := Record{
		Question:           question,
		NormalizedQuestion: norm,
		Answer:             answer,
		SavedAt:            time.Now().UTC(),
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: marshal record: %v", ErrCacheStore, err)
	}

	err = c.withTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+norm), val)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheStore, err)
	}
	return nil
}

// Len counts stored records. Intended for health reporting and tests.
func (c *Cache) Len(ctx context.Context) (int, error) {
	n := 0
	err := c.withReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// withTxn executes fn within a read-write transaction and commits if
// fn returns nil.
func (c *Cache) withTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	txn := c.db.NewTransaction(true)
	defer txn.Discard()
	if err := fn(txn); err != nil {
		return err
	}
	return txn.Commit()
}

// withReadTxn executes fn within a read-only transaction.
func (c *Cache) withReadTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	txn := c.db.NewTransaction(false)
	defer txn.Discard()
	return fn(txn)
}
