// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

var (
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:   "answerdesk",
		Short: "A question-answering service backed by a curated knowledge table",
		Long: `AnswerDesk resolves questions through a tiered cascade:
a curated knowledge base refreshed from a published CSV table, a
persistent local answer cache, and a chain of upstream AI providers.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP answer service",
		RunE:  runServe, // Defined in cmd_serve.go
	}

	askCmd = &cobra.Command{
		Use:   "ask [question]",
		Short: "Resolve a single question from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk, // Defined in cmd_ask.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("answerdesk %s (%s)\n", version, commit)
		},
	}
)

func init() {
	askCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(versionCmd)
}
