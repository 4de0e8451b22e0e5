// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package worktrack

import "errors"

var (
	// ErrCanceled is returned when work is abandoned because the sink reports
	// a cancellation request. Callers should propagate it with errors.Is intact.
	ErrCanceled = errors.New("operation canceled")
	// ErrNilSink is the panic value used when a nil Sink is converted.
	ErrNilSink = errors.New("worktrack: nil sink")
)
