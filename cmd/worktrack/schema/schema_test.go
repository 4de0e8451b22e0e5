// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	app := &cli.Command{
		Name:           "worktrack",
		Writer:         &out,
		ErrWriter:      &out,
		Commands:       []*cli.Command{NewCommand()},
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}

	err := app.Run(context.Background(), append([]string{"worktrack", "schema"}, args...))

	return out.String(), err
}

func TestSchema_JSON(t *testing.T) {
	out, err := runApp(t)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Worktrack Plan", doc["title"])
	assert.Contains(t, doc, "$defs")
}

func TestSchema_Formats(t *testing.T) {
	out, err := runApp(t, "--format", "md")
	require.NoError(t, err)
	assert.Contains(t, out, "## step")

	out, err = runApp(t, "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Worktrack Plan")
}

func TestSchema_InvalidFormat(t *testing.T) {
	_, err := runApp(t, "--format", "xml")

	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, err.Error(), "invalid format: xml")
}
