// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
)

type Config struct {
	// Server controls the HTTP front end.
	Server ServerConfig `yaml:"server"`

	// Feed is the published CSV knowledge table.
	Feed FeedConfig `yaml:"feed"`

	// Cache is the persistent fallback answer store.
	Cache CacheConfig `yaml:"cache"`

	// Providers configures the upstream answer cascade.
	Providers ProvidersConfig `yaml:"providers"`

	// Logging controls log level and the optional log directory.
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`

	// MissLogPath is the CSV file recording unanswered questions.
	MissLogPath string `yaml:"miss_log_path" validate:"required"`
}

type FeedConfig struct {
	URL string `yaml:"url" validate:"required,url"`

	// RefreshSeconds is the healthy-state refresh interval.
	RefreshSeconds int `yaml:"refresh_seconds" validate:"gte=10"`
}

type CacheConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type ProvidersConfig struct {
	// API keys are normally supplied via GROQ_API_KEY, OPENAI_API_KEY
	// and ANTHROPIC_API_KEY rather than the config file; a provider
	// with no key is skipped, not an error.
	GroqAPIKey      string `yaml:"groq_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`

	// Optional model overrides.
	GroqModels     []string `yaml:"groq_models"`
	OpenAIModel    string   `yaml:"openai_model"`
	AnthropicModel string   `yaml:"anthropic_model"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	JSON   bool   `yaml:"json"`
	LogDir string `yaml:"log_dir"`
}

func DefaultConfig() Config {
	dataDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".answerdesk")
	}
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			MissLogPath: filepath.Join(dataDir, "unknown_questions.csv"),
		},
		Feed: FeedConfig{
			URL:            "https://example.com/knowledge.csv",
			RefreshSeconds: 300,
		},
		Cache: CacheConfig{
			Path: filepath.Join(dataDir, "fallback_cache"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
