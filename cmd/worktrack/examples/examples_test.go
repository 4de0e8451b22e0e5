// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package examples

import (
	"bytes"
	"context"
	"testing"

	"github.com/matt-FFFFFF/worktrack/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func TestExamples(t *testing.T) {
	var out bytes.Buffer

	app := &cli.Command{
		Name:     "worktrack",
		Writer:   &out,
		Commands: []*cli.Command{NewCommand()},
	}

	require.NoError(t, app.Run(context.Background(), []string{"worktrack", "examples"}))

	for _, name := range plan.BuiltinNames() {
		assert.Contains(t, out.String(), plan.BuiltinPrefix+name)
	}

	assert.Contains(t, out.String(), "Unknown number of elements example")
}
