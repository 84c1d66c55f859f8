// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package knowledge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFeed(t *testing.T) {
	csvDoc := "Question,Response,Category,Tags,Status\n" +
		"What is DHV?,A community.,General,intro,active\n" +
		"pricing plans,See pricing.com,Billing,,active\n"

	entries, err := ParseFeed(strings.NewReader(csvDoc))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "What is DHV?", entries[0].Question)
	assert.Equal(t, "A community.", entries[0].Answer)
	assert.Equal(t, "General", entries[0].Category)
	assert.Equal(t, "intro", entries[0].Tags)
	assert.Equal(t, "active", entries[0].Status)
}

func TestParseFeedHeaderCanonicalization(t *testing.T) {
	// BOM on the first header cell, stray case and padding elsewhere.
	csvDoc := "\uFEFFQuestion, RESPONSE ,category,Tags,Status\n" +
		"q1,a1,c1,t1,s1\n"

	entries, err := ParseFeed(strings.NewReader(csvDoc))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "q1", entries[0].Question)
	assert.Equal(t, "a1", entries[0].Answer)
}

func TestParseFeedDropsRowsWithoutQuestion(t *testing.T) {
	csvDoc := "Question,Response\n" +
		",orphan answer\n" +
		"   ,whitespace question\n" +
		"kept,answer\n"

	entries, err := ParseFeed(strings.NewReader(csvDoc))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Question)
}

func TestParseFeedBlankAnswerGetsPlaceholder(t *testing.T) {
	csvDoc := "Question,Response\n" +
		"lonely question,\n" +
		"padded question,   \n"

	entries, err := ParseFeed(strings.NewReader(csvDoc))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, EmptyAnswerPlaceholder, entries[0].Answer)
	assert.Equal(t, EmptyAnswerPlaceholder, entries[1].Answer)
}

func TestParseFeedMissingQuestionColumn(t *testing.T) {
	csvDoc := "Prompt,Response\nq,a\n"

	_, err := ParseFeed(strings.NewReader(csvDoc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeedParse)
}

func TestParseFeedRaggedRows(t *testing.T) {
	csvDoc := "Question,Response,Category\n" +
		"short row,answer\n" +
		"full row,answer,cat\n"

	entries, err := ParseFeed(strings.NewReader(csvDoc))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "", entries[0].Category)
	assert.Equal(t, "cat", entries[1].Category)
}

func TestFeedClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Question,Response\nq1,a1\n"))
	}))
	defer srv.Close()

	client := NewFeedClient(srv.URL)
	entries, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "q1", entries[0].Question)
}

func TestFeedClientFetchEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("   \n"))
	}))
	defer srv.Close()

	_, err := NewFeedClient(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeedFetch)
}

func TestFeedClientFetchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewFeedClient(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeedFetch)
}

func TestFeedClientFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse everything

	_, err := NewFeedClient(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFeedFetch)
}
