// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package examples contains the command that lists the built-in plans.
package examples

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matt-FFFFFF/worktrack/internal/plan"
	"github.com/urfave/cli/v3"
)

// ExamplesCmd is the command that lists the built-in plans.
var ExamplesCmd = NewCommand()

// NewCommand creates the examples command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:    "examples",
		Aliases: []string{"ls"},
		Usage:   "List the built-in plans",
		Description: `List the plans that can be passed to run and show as builtin:<name>.
Use "show builtin:<name>" to see the steps of a plan.`,
		Action: actionFunc,
	}
}

func actionFunc(_ context.Context, cmd *cli.Command) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "PLAN", "STEPS")

	for _, name := range plan.BuiltinNames() {
		p, err := plan.Builtin(name)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		t.Row(plan.BuiltinPrefix+name, p.Name, strconv.Itoa(len(p.Steps)))
	}

	if _, err := fmt.Fprintln(cmd.Root().Writer, t.Render()); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}
