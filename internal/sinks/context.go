// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sinks

import (
	"context"

	"github.com/matt-FFFFFF/worktrack"
)

var _ worktrack.Sink = (*Context)(nil)

// Context wraps a sink so that a done context also counts as a cancellation
// request. Everything else is forwarded unchanged.
type Context struct {
	worktrack.Sink
	ctx context.Context
}

// WithContext wraps sink. It panics if sink is nil.
func WithContext(ctx context.Context, sink worktrack.Sink) *Context {
	if sink == nil {
		panic(worktrack.ErrNilSink)
	}

	return &Context{Sink: sink, ctx: ctx}
}

// IsCanceled implements worktrack.Sink.
func (c *Context) IsCanceled() bool {
	return c.ctx.Err() != nil || c.Sink.IsCanceled()
}
