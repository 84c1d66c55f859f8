// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package knowledge

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.LoadedAt().IsZero())

	_, ok := s.LookupExact("anything")
	assert.False(t, ok)
}

func TestLookupExact(t *testing.T) {
	s := NewStore()
	s.Replace([]Entry{
		{Question: "What is DHV?", Answer: "A community."},
		{Question: "What is DHV?", Answer: "duplicate, must not win"},
		{Question: "pricing plans", Answer: "See pricing.com"},
	})

	answer, ok := s.LookupExact("what is dhv?")
	require.True(t, ok)
	assert.Equal(t, "A community.", answer)

	// Leading/trailing whitespace on either side is ignored.
	answer, ok = s.LookupExact("  WHAT IS DHV?  ")
	require.True(t, ok)
	assert.Equal(t, "A community.", answer)

	_, ok = s.LookupExact("what is dhv")
	assert.False(t, ok, "raw exact match keeps punctuation")

	_, ok = s.LookupExact("")
	assert.False(t, ok)
}

func TestLookupFuzzyNormalizedEquality(t *testing.T) {
	s := NewStore()
	s.Replace([]Entry{{Question: "What is DHV?", Answer: "A community."}})

	m, ok := s.LookupFuzzy("what is dhv")
	require.True(t, ok)
	assert.True(t, m.Exact)
	assert.Equal(t, "A community.", m.Answer)
}

func TestLookupFuzzyContainment(t *testing.T) {
	s := NewStore()
	s.Replace([]Entry{{Question: "pricing plans", Answer: "See pricing.com"}})

	// Entry question contained in the query: treated as exact.
	m, ok := s.LookupFuzzy("what are the pricing plans")
	require.True(t, ok)
	assert.True(t, m.Exact)
	assert.Equal(t, "See pricing.com", m.Answer)

	// Query contained in the entry question.
	s.Replace([]Entry{{Question: "what are the pricing plans", Answer: "See pricing.com"}})
	m, ok = s.LookupFuzzy("pricing plans")
	require.True(t, ok)
	assert.True(t, m.Exact)
}

func TestLookupFuzzyScored(t *testing.T) {
	s := NewStore()
	s.Replace([]Entry{
		{Question: "how do I join the community", Answer: "Sign up."},
		{Question: "completely unrelated topic", Answer: "nope"},
	})

	// One-word tail difference scores above the threshold without
	// triggering equality or containment.
	m, ok := s.LookupFuzzy("how do I join the communities")
	require.True(t, ok)
	assert.False(t, m.Exact)
	assert.Equal(t, "Sign up.", m.Answer)

	_, ok = s.LookupFuzzy("weather forecast for tomorrow")
	assert.False(t, ok)
}

func TestLookupFuzzySkipsEmptyForms(t *testing.T) {
	s := NewStore()
	s.Replace([]Entry{{Question: "???", Answer: "never matchable"}})

	_, ok := s.LookupFuzzy("!!!")
	assert.False(t, ok, "empty normalized forms must never match")
}

func TestReplaceIsAtomic(t *testing.T) {
	s := NewStore()
	small := make([]Entry, 3)
	large := make([]Entry, 7)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			n := len(s.Snapshot().Entries)
			assert.Contains(t, []int{0, 3, 7}, n, "reader saw a partial snapshot")
		}
	}()

	for i := 0; i < 500; i++ {
		if i%2 == 0 {
			s.Replace(small)
		} else {
			s.Replace(large)
		}
	}
	close(stop)
	wg.Wait()
}

func TestReplaceUpdatesLoadedAt(t *testing.T) {
	s := NewStore()
	before := time.Now()
	s.Replace([]Entry{{Question: "q", Answer: "a"}})
	assert.False(t, s.LoadedAt().Before(before))
}
