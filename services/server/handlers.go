// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/answerdesk/services/knowledge"
	"github.com/AleutianAI/answerdesk/services/resolver"
	"github.com/AleutianAI/answerdesk/services/server/misslog"
)

const alivePage = `<!DOCTYPE html>
<html>
<head><title>AnswerDesk</title></head>
<body>
<h1>AnswerDesk is alive</h1>
<p>Knowledge entries: %d</p>
<p>Last loaded: %s</p>
</body>
</html>`

// Root serves a minimal HTML liveness page for uptime pingers.
func Root(store *knowledge.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		loaded := "never"
		if t := store.LoadedAt(); !t.IsZero() {
			loaded = t.UTC().Format(time.RFC3339)
		}
		page := fmt.Sprintf(alivePage, store.Len(), loaded)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}

// HealthCheck reports knowledge base readiness. An empty store means
// the first feed refresh has not succeeded yet, so the service is not
// ready to answer from curated data.
func HealthCheck(store *knowledge.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries := store.Len()
		if entries == 0 {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unavailable",
				"entries":   0,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"entries":     entries,
			"last_loaded": store.LoadedAt().UTC().Format(time.RFC3339),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

type resolveRequest struct {
	Question string `json:"question" binding:"required"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type resolveResponse struct {
	Answer *string `json:"answer"`
	Tier   *string `json:"tier"`
}

// ResolveAnswer runs one question through the resolution cascade.
//
// A miss is a normal 200 with null answer and tier, not an error; the
// question is appended to the unknown-question log so curators can
// pick it up. misses may be nil to disable that log.
func ResolveAnswer(res *resolver.Resolver, misses *misslog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resolveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
			return
		}

		result := res.Resolve(c.Request.Context(), req.Question)
		if !result.Found {
			if misses != nil {
				rec := misslog.Record{
					UserID:   req.UserID,
					Username: req.Username,
					Question: req.Question,
					Source:   res.TriedSources(),
				}
				if err := misses.Log(rec); err != nil {
					slog.Warn("failed to record unanswered question", "error", err.Error())
				}
			}
			c.JSON(http.StatusOK, resolveResponse{})
			return
		}

		tier := string(result.Tier)
		c.JSON(http.StatusOK, resolveResponse{Answer: &result.Answer, Tier: &tier})
	}
}
