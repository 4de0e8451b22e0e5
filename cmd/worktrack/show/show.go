// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show contains the command that prints a plan without running it.
package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/TylerBrock/colorjson"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/matt-FFFFFF/worktrack/internal/color"
	"github.com/matt-FFFFFF/worktrack/internal/plan"
	"github.com/urfave/cli/v3"
)

const (
	jsonFlag = "json"
	varFlag  = "var"
)

// ErrWritePlan is returned when the plan cannot be written.
var ErrWritePlan = errors.New("failed to write plan")

// ShowCmd is the command that shows a plan.
var ShowCmd = NewCommand()

// NewCommand creates the show command.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:        "show",
		Usage:       "Validate a plan and print it",
		ArgsUsage:   "PLAN",
		Description: "Load and validate a plan file or builtin:<name>, then print it as a tree or as JSON.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    jsonFlag,
				Aliases: []string{"j"},
				Usage:   "Print the plan as JSON",
			},
			&cli.StringSliceFlag{
				Name:  varFlag,
				Usage: "Set an HCL plan variable as key=value",
			},
		},
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return cli.Exit("Please specify a plan file or builtin:<name>.", 1)
	}

	vars, err := plan.ParseVars(cmd.StringSlice(varFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	p, err := plan.Load(ctx, path, vars)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	out := cmd.Root().Writer

	if cmd.Bool(jsonFlag) {
		err = writeJSON(out, p, color.Enabled(out))
	} else {
		_, err = fmt.Fprintln(out, Tree(p))
	}

	if err != nil {
		return cli.Exit(errors.Join(ErrWritePlan, err).Error(), 1)
	}

	return nil
}

// Tree renders p as a tree of steps.
func Tree(p *plan.Plan) *tree.Tree {
	t := tree.Root(fmt.Sprintf("%s (%d)", p.Name, p.TotalWork()))
	addSteps(t, p.Steps)

	return t
}

func addSteps(t *tree.Tree, steps []*plan.Step) {
	for _, s := range steps {
		if s == nil {
			continue
		}

		if len(s.Steps) == 0 {
			t.Child(describe(s))
			continue
		}

		sub := tree.Root(describe(s))
		addSteps(sub, s.Steps)
		t.Child(sub)
	}
}

func describe(s *plan.Step) string {
	parts := []string{fmt.Sprintf("%s [%d]", s.Name, s.Weight)}

	switch {
	case s.Iterations > 0 && s.Unbounded:
		parts = append(parts, fmt.Sprintf("loop of up to %d", s.Iterations))
	case s.Iterations > 0:
		parts = append(parts, fmt.Sprintf("loop of %d", s.Iterations))
	case s.Work > 0:
		parts = append(parts, fmt.Sprintf("work %d", s.Work))
	}

	if s.SubTask != "" {
		parts = append(parts, fmt.Sprintf("subtask %q", s.SubTask))
	}

	if s.Delay != "" {
		parts = append(parts, "every "+s.Delay)
	}

	if s.Skip {
		parts = append(parts, "skipped")
	}

	if s.Uncancelable {
		parts = append(parts, "uncancelable")
	}

	return strings.Join(parts, ", ")
}

func writeJSON(w io.Writer, p *plan.Plan, colour bool) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	obj["totalWork"] = float64(p.TotalWork())

	f := colorjson.NewFormatter()
	f.Indent = 2
	f.DisabledColor = !colour

	if !colour {
		f.KeyColor.DisableColor()
	}

	b, err := f.Marshal(obj)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}
