// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package schema provides the schema command for documenting the plan file format.
package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/matt-FFFFFF/worktrack/internal/plan"
	"github.com/matt-FFFFFF/worktrack/internal/schema"
	"github.com/urfave/cli/v3"
)

const (
	formatFlag = "format"
	title      = "Worktrack Plan"
	summary    = "Plan file for worktrack. Each step receives a share of its parent's ticks."
)

// SchemaCmd is the command that documents the plan file format.
var SchemaCmd = NewCommand()

// NewCommand creates the schema command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:        "schema",
		Usage:       "Print the plan file schema",
		Description: "Print the JSON Schema of YAML plan files, or Markdown documentation of the fields",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    formatFlag,
				Aliases: []string{"f"},
				Usage:   "Output format: json, yaml or markdown",
				Value:   "json",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	out := cmd.Root().Writer

	var err error

	switch strings.ToLower(cmd.String(formatFlag)) {
	case "json":
		err = schema.WriteJSON(out, title, summary, &plan.Plan{})
	case "yaml", "yml":
		err = schema.WriteYAML(out, title, summary, &plan.Plan{})
	case "markdown", "md":
		err = schema.WriteMarkdown(out, title, summary, &plan.Plan{})
	default:
		return cli.Exit(fmt.Sprintf("invalid format: %s. Valid formats: json, yaml, markdown", cmd.String(formatFlag)), 1)
	}

	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}
