// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package knowledge

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultFetchTimeout bounds one feed download.
const DefaultFetchTimeout = 10 * time.Second

// ErrFeedFetch is returned when the feed cannot be downloaded (network
// error, timeout, non-2xx status, or an empty body).
var ErrFeedFetch = errors.New("knowledge feed fetch failed")

// ErrFeedParse is returned when the downloaded document cannot be
// parsed as the expected CSV. The refresher treats it like a fetch
// failure: the existing snapshot is kept and backoff applies.
var ErrFeedParse = errors.New("knowledge feed parse failed")

// FeedSource produces a fresh entry set. Implemented by FeedClient and
// by test fakes.
type FeedSource interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

// FeedClient downloads and parses the published CSV knowledge table.
//
// Expected columns, matched case/whitespace/BOM-insensitively:
// Question, Response, Category, Tags, Status. Rows without a question
// are dropped; a blank response is replaced with the placeholder.
type FeedClient struct {
	url        string
	httpClient *http.Client
}

// NewFeedClient creates a client for the given feed URL with the
// default 10 second timeout.
func NewFeedClient(url string) *FeedClient {
	return &FeedClient{
		url:        url,
		httpClient: &http.Client{Timeout: DefaultFetchTimeout},
	}
}

// Fetch downloads the feed and parses it into entries.
//
// A successful fetch of an empty-but-valid document returns an empty,
// non-nil slice; the caller decides whether to install it.
func (c *FeedClient) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFeedFetch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFeedFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFeedFetch, err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return nil, fmt.Errorf("%w: empty document", ErrFeedFetch)
	}

	return ParseFeed(strings.NewReader(string(body)))
}

// ParseFeed parses CSV feed content into entries.
func ParseFeed(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrFeedParse, err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[canonicalHeader(name)] = i
	}
	qCol, ok := cols["question"]
	if !ok {
		return nil, fmt.Errorf("%w: missing Question column", ErrFeedParse)
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entries := make([]Entry, 0, 64)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %v", ErrFeedParse, err)
		}

		if qCol >= len(row) {
			continue
		}
		q := strings.TrimSpace(row[qCol])
		if q == "" {
			continue
		}

		answer := field(row, "response")
		if answer == "" {
			answer = EmptyAnswerPlaceholder
		}

		entries = append(entries, Entry{
			Question: q,
			Answer:   answer,
			Category: field(row, "category"),
			Tags:     field(row, "tags"),
			Status:   field(row, "status"),
		})
	}

	return entries, nil
}

// canonicalHeader strips the BOM and any other non-ASCII bytes from a
// header cell, then trims and lowercases it.
func canonicalHeader(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(strings.TrimSpace(b.String()))
}
