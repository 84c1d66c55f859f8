// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package misslog appends unanswered questions to a CSV file so
// curators can promote frequent misses into the knowledge base.
package misslog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var header = []string{"Timestamp", "User_ID", "Username", "Question", "Source"}

// Record is one unanswered question.
type Record struct {
	Timestamp time.Time
	UserID    string
	Username  string
	Question  string
	// Source lists the tiers consulted before giving up,
	// e.g. "kb, cache, groq, openai, anthropic".
	Source string
}

// Logger appends records to a CSV file. The header row is written when
// the file is created. Safe for concurrent use.
type Logger struct {
	mu   sync.Mutex
	path string
}

// New creates a logger writing to path. Parent directories are created
// as needed; the file itself is created on first Log.
func New(path string) (*Logger, error) {
	if path == "" {
		return nil, fmt.Errorf("misslog path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create misslog directory: %w", err)
		}
	}
	return &Logger{path: path}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string { return l.path }

// Log appends one record, creating the file with a header row first if
// it does not exist yet.
func (l *Logger) Log(rec Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, statErr := os.Stat(l.path)
	needHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return fmt.Errorf("open misslog: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("write misslog header: %w", err)
		}
	}

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	row := []string{
		ts.Format("2006-01-02 15:04:05"),
		rec.UserID,
		rec.Username,
		rec.Question,
		rec.Source,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write misslog row: %w", err)
	}
	w.Flush()
	return w.Error()
}
