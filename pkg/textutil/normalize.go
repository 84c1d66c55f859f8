// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package textutil provides question canonicalization and similarity scoring
// for lookup keys. Normalization produces the comparison form used across
// the knowledge store and the fallback cache; Similarity produces the
// bounded sequence ratio used for fuzzy matching.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// nonWord matches any run of characters that is neither a word
	// character nor whitespace. Each run is replaced with a single space
	// so that punctuation separates words instead of merging them.
	nonWord = regexp.MustCompile(`[^\w\s]+`)

	// multiSpace collapses runs of whitespace to a single space.
	multiSpace = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes text for comparison.
//
// Description:
//
//	Removes non-printable runes, lowercases, replaces punctuation with
//	spaces, collapses whitespace runs, and trims the ends. Empty or
//	whitespace-only input normalizes to "". Callers must treat an empty
//	normalized form as unmatchable and reject it before any lookup.
//
// Normalize is deterministic and idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsPrint(r) {
			b.WriteRune(r)
		}
	}

	s := strings.ToLower(b.String())
	s = nonWord.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
