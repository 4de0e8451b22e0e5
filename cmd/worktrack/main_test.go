// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/matt-FFFFFF/worktrack/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func newTestRoot(out, errOut *bytes.Buffer) *cli.Command {
	root := newRootCmd()
	root.Writer = out
	root.ErrWriter = errOut
	root.ExitErrHandler = func(context.Context, *cli.Command, error) {}

	return root
}

func TestRoot_LogFlags(t *testing.T) {
	original := ctxlog.LevelVar.Level()
	defer ctxlog.LevelVar.Set(original)

	var out, errOut bytes.Buffer

	root := newTestRoot(&out, &errOut)
	args := []string{"worktrack", "--log-level", "debug", "--log-format", "json", "run", "--speed", "1000", "builtin:condition"}

	require.NoError(t, root.Run(context.Background(), args))
	assert.Equal(t, slog.LevelDebug, ctxlog.LevelVar.Level())
	assert.Contains(t, errOut.String(), `"msg":"plan started"`)
	assert.Contains(t, out.String(), "Condition Example")
}

func TestRoot_InvalidLogFlags(t *testing.T) {
	original := ctxlog.LevelVar.Level()
	defer ctxlog.LevelVar.Set(original)

	tests := []struct {
		name string
		args []string
	}{
		{name: "level", args: []string{"worktrack", "--log-level", "loud", "examples"}},
		{name: "format", args: []string{"worktrack", "--log-format", "xml", "examples"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out, errOut bytes.Buffer

			err := newTestRoot(&out, &errOut).Run(context.Background(), tt.args)
			require.Error(t, err)

			var exitErr cli.ExitCoder
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 1, exitErr.ExitCode())
		})
	}
}
