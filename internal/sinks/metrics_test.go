// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sinks

import (
	"testing"

	"github.com/matt-FFFFFF/worktrack"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsTree(t *testing.T) {
	reg := prometheus.NewRegistry()
	inner := worktrack.NewNullSink()

	m, err := NewMetrics(reg, inner)
	require.NoError(t, err)

	root := worktrack.ConvertWork(m, 10)
	root.Worked(4)
	m.SetCanceled(true)
	assert.True(t, inner.IsCanceled())
	assert.True(t, m.IsCanceled())

	root.Done()
	m.Done()

	assert.InDelta(t, float64(worktrack.DefaultResolution), testutil.ToFloat64(m.worked), 1e-9)
	assert.InDelta(t, float64(worktrack.DefaultResolution), testutil.ToFloat64(m.expected), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.started), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.done), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.cancellations), 1e-9)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewMetrics(reg, nil)
	require.NoError(t, err)

	_, err = NewMetrics(reg, nil)
	assert.ErrorIs(t, err, ErrRegisterMetrics)
}
