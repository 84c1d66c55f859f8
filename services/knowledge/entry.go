// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package knowledge holds the authoritative answer table: an immutable
// snapshot of entries fetched from a published CSV feed, replaced
// wholesale by a background refresher and queried by exact and fuzzy
// match.
package knowledge

// EmptyAnswerPlaceholder replaces a blank answer at load time so the
// store never yields a genuinely empty answer.
const EmptyAnswerPlaceholder = "I found a match but the response is empty."

// Entry is one row of the knowledge table. Entries are immutable once
// loaded; a refresh replaces the full set, never individual rows.
// Duplicate questions are allowed; the first match in feed order wins.
type Entry struct {
	Question string
	Answer   string
	Category string
	Tags     string
	Status   string
}
