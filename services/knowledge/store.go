// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package knowledge

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/AleutianAI/answerdesk/pkg/textutil"
)

// Snapshot is a complete, internally consistent copy of the knowledge
// table as of one refresh cycle. Immutable after construction.
type Snapshot struct {
	Entries  []Entry
	LoadedAt time.Time
}

// Match is the result of a fuzzy lookup. Exact is true when the match
// came from normalized equality or substring containment, which the
// store treats as exact rather than fuzzy.
type Match struct {
	Answer string
	Exact  bool
}

// Store holds the current knowledge snapshot behind an atomic pointer.
//
// Readers always see either the previous or the next complete snapshot,
// never a mix: Replace is a single pointer swap. The store starts empty
// and is read-only to everything except the refresher.
//
// Thread Safety: safe for concurrent use.
type Store struct {
	snap atomic.Pointer[Snapshot]
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.snap.Store(&Snapshot{})
	return s
}

// Snapshot returns the current snapshot. The returned value must be
// treated as read-only.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Len returns the number of entries in the current snapshot.
func (s *Store) Len() int {
	return len(s.snap.Load().Entries)
}

// LoadedAt returns when the current snapshot was loaded. The zero time
// means the store has never been loaded.
func (s *Store) LoadedAt() time.Time {
	return s.snap.Load().LoadedAt
}

// Replace atomically swaps in a new entry set with the current time as
// its load timestamp. Only the refresher calls this.
func (s *Store) Replace(entries []Entry) {
	s.snap.Store(&Snapshot{Entries: entries, LoadedAt: time.Now()})
}

// LookupExact scans entries in snapshot order and returns the answer of
// the first case-insensitive exact match on the trimmed raw question.
func (s *Store) LookupExact(question string) (string, bool) {
	raw := strings.ToLower(strings.TrimSpace(question))
	if raw == "" {
		return "", false
	}
	for _, e := range s.snap.Load().Entries {
		if strings.ToLower(strings.TrimSpace(e.Question)) == raw {
			return e.Answer, true
		}
	}
	return "", false
}

// LookupFuzzy matches the question against the snapshot by normalized
// form.
//
// Description:
//
//	Normalizes the question, then scans every entry: entries whose
//	normalized question is empty are skipped; normalized equality or
//	substring containment (either direction) returns immediately as an
//	exact match; otherwise the best similarity score is tracked. After
//	the scan the best entry wins if its score is >= the threshold.
func (s *Store) LookupFuzzy(question string) (Match, bool) {
	normQ := textutil.Normalize(question)
	if normQ == "" {
		return Match{}, false
	}

	var (
		bestScore  float64
		bestAnswer string
		found      bool
	)

	for _, e := range s.snap.Load().Entries {
		normEntry := textutil.Normalize(e.Question)
		if normEntry == "" {
			continue
		}

		if normQ == normEntry {
			return Match{Answer: e.Answer, Exact: true}, true
		}
		if strings.Contains(normQ, normEntry) || strings.Contains(normEntry, normQ) {
			return Match{Answer: e.Answer, Exact: true}, true
		}

		if score := textutil.Similarity(normQ, normEntry); score > bestScore {
			bestScore = score
			bestAnswer = e.Answer
			found = true
		}
	}

	if found && bestScore >= textutil.SimilarityThreshold {
		return Match{Answer: bestAnswer}, true
	}
	return Match{}, false
}
