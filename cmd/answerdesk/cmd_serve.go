// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/answerdesk/cmd/answerdesk/config"
	"github.com/AleutianAI/answerdesk/services/server"
	"github.com/AleutianAI/answerdesk/services/server/misslog"
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	comps, err := buildComponents(cfg, false, true)
	if err != nil {
		return err
	}
	defer comps.Close()
	slog.SetDefault(comps.logger.Slog())

	misses, err := misslog.New(cfg.Server.MissLogPath)
	if err != nil {
		return fmt.Errorf("open unknown-question log: %w", err)
	}

	srv := server.New(cfg.Server.Addr, server.Deps{
		Store:    comps.store,
		Resolver: comps.resolver,
		Misses:   misses,
		Logger:   comps.logger.Slog(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		comps.refresher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})

	comps.logger.Info("answerdesk started",
		"addr", cfg.Server.Addr,
		"feed_refresh_seconds", cfg.Feed.RefreshSeconds,
	)
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	comps.logger.Info("answerdesk stopped")
	return nil
}
