// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package worktrack

const (
	// DefaultResolution is the number of ticks requested from a raw sink on
	// conversion. It is fine enough that any realistic progress display cannot
	// tell it apart from the resolution the caller asked for.
	DefaultResolution = 1000
	// DefaultTrivialCheckInterval is the number of trivial splits between two
	// cancellation checks.
	DefaultTrivialCheckInterval = 1000
)

type options struct {
	resolution           int
	trivialCheckInterval int
}

// Option configures a root Tracker created by Convert.
type Option func(o *options)

// WithResolution sets the number of ticks requested from the sink.
// Values below 1 are ignored.
func WithResolution(ticks int) Option {
	return func(o *options) {
		if ticks > 0 {
			o.resolution = ticks
		}
	}
}

// WithTrivialCheckInterval sets how many trivial splits may happen between two
// cancellation checks. Values below 1 are ignored.
func WithTrivialCheckInterval(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.trivialCheckInterval = n
		}
	}
}

// Convert turns sink into a Tracker with totalWork ticks available to its
// children and reports the task name.
//
// If sink already is a *Tracker it is not wrapped again: BeginTask is called on
// it and it is returned as is, and opts are ignored. Converting a nil sink is a
// programming error and panics.
func Convert(sink Sink, taskName string, totalWork int, opts ...Option) *Tracker {
	if sink == nil {
		panic(ErrNilSink)
	}

	if t, ok := sink.(*Tracker); ok {
		t.BeginTask(taskName, totalWork)
		return t
	}

	o := options{
		resolution:           DefaultResolution,
		trivialCheckInterval: DefaultTrivialCheckInterval,
	}

	for _, opt := range opts {
		opt(&o)
	}

	sink.BeginTask(taskName, o.resolution)

	return newTracker(newRootState(sink, o.trivialCheckInterval), o.resolution, totalWork, SuppressNone)
}

// ConvertWork is Convert with an empty task name.
func ConvertWork(sink Sink, totalWork int, opts ...Option) *Tracker {
	return Convert(sink, "", totalWork, opts...)
}
