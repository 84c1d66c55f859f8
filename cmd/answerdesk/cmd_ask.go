// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/answerdesk/cmd/answerdesk/config"
)

// runAsk resolves one question and exits. The knowledge base is loaded
// with a single synchronous refresh; a feed failure is reported but the
// cache and providers can still answer.
func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Quiet logging keeps stdout clean for the answer itself.
	comps, err := buildComponents(cfg, true, false)
	if err != nil {
		return err
	}
	defer comps.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := comps.refresher.RefreshNow(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: knowledge feed unavailable: %v\n", err)
	}

	result := comps.resolver.Resolve(ctx, question)

	if jsonOutput {
		out := map[string]any{"answer": nil, "tier": nil}
		if result.Found {
			out["answer"] = result.Answer
			out["tier"] = string(result.Tier)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if !result.Found {
		fmt.Println("No answer found.")
		return nil
	}
	fmt.Println(result.Answer)
	fmt.Printf("(source: %s)\n", result.Tier)
	return nil
}
