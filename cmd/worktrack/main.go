// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the worktrack command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/worktrack"
	"github.com/matt-FFFFFF/worktrack/cmd/worktrack/examples"
	"github.com/matt-FFFFFF/worktrack/cmd/worktrack/run"
	"github.com/matt-FFFFFF/worktrack/cmd/worktrack/schema"
	"github.com/matt-FFFFFF/worktrack/cmd/worktrack/show"
	"github.com/matt-FFFFFF/worktrack/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const (
	logLevelFlag  = "log-level"
	logFormatFlag = "log-format"
)

func newRootCmd() *cli.Command {
	return &cli.Command{
		Commands: []*cli.Command{
			run.NewCommand(),
			show.NewCommand(),
			examples.NewCommand(),
			schema.NewCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    logLevelFlag,
				Aliases: []string{"l"},
				Usage:   "Log level: debug, info, warn or error",
				Sources: cli.EnvVars(ctxlog.EnvLogLevel),
			},
			&cli.StringFlag{
				Name:    logFormatFlag,
				Usage:   "Log format: pretty, json or text",
				Value:   "pretty",
				Sources: cli.EnvVars("WORKTRACK_LOG_FORMAT"),
			},
		},
		Before:    before,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Name:      "worktrack",
		Description: `Worktrack runs simulated workloads described by plans and reports their
progress through trees of trackers. Each step of a plan receives a share of its
parent's ticks, so the reported progress always adds up to the total no matter
how the work is split or skipped.`,
		Usage:     "worktrack run builtin:loop",
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion: true,
	}
}

// before applies the logging flags and puts the resulting logger in the context.
func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if s := cmd.String(logLevelFlag); s != "" {
		level, ok := ctxlog.ParseLevel(s)
		if !ok {
			return ctx, cli.Exit(fmt.Sprintf("unknown log level %q", s), 1)
		}

		ctxlog.LevelVar.Set(level)
	}

	logger, err := ctxlog.NewLogger(cmd.String(logFormatFlag), cmd.Root().ErrWriter)
	if err != nil {
		return ctx, cli.Exit(err.Error(), 1)
	}

	return ctxlog.New(ctx, logger), nil
}

func main() {
	ctx := ctxlog.New(context.Background(), ctxlog.DefaultLogger)

	rootCmd := newRootCmd()
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", worktrack.Version, worktrack.Commit)

	if err := rootCmd.Run(ctx, os.Args); err != nil { // exit codes are handled by the cli framework
		ctxlog.Error(ctx, "command execution failed", "error", err)
		os.Exit(1)
	}
}
