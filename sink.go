// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package worktrack

import "sync/atomic"

// Sink is the ultimate consumer of progress. A UI widget, a logger or a no-op
// implements it; every Tracker tree reports to exactly one Sink.
//
// Sinks may be called from the goroutine driving the tree while IsCanceled and
// SetCanceled are called from elsewhere, so the cancellation flag must be safe
// for concurrent use.
type Sink interface {
	// BeginTask is called once per root conversion with the total number of
	// ticks that will be reported through Worked.
	BeginTask(name string, totalWork int)
	// Worked reports a non-negative number of additional ticks.
	Worked(work int)
	// SubTask sets the name of the current subtask.
	SubTask(name string)
	// SetTaskName sets the name of the main task.
	SetTaskName(name string)
	// Done signals the work is finished. It may be called more than once.
	Done()
	// IsCanceled reports whether cancellation was requested.
	IsCanceled() bool
	// SetCanceled sets or clears the cancellation request.
	SetCanceled(canceled bool)
}

var _ Sink = (*NullSink)(nil)

// NullSink discards all progress. It still keeps a cancellation flag so it can
// be used to cancel work that nobody is watching.
type NullSink struct {
	canceled atomic.Bool
}

// NewNullSink creates a new NullSink.
func NewNullSink() *NullSink {
	return &NullSink{}
}

// BeginTask implements Sink by doing nothing.
func (n *NullSink) BeginTask(string, int) {}

// Worked implements Sink by doing nothing.
func (n *NullSink) Worked(int) {}

// SubTask implements Sink by doing nothing.
func (n *NullSink) SubTask(string) {}

// SetTaskName implements Sink by doing nothing.
func (n *NullSink) SetTaskName(string) {}

// Done implements Sink by doing nothing.
func (n *NullSink) Done() {}

// IsCanceled implements Sink.
func (n *NullSink) IsCanceled() bool {
	return n.canceled.Load()
}

// SetCanceled implements Sink.
func (n *NullSink) SetCanceled(canceled bool) {
	n.canceled.Store(canceled)
}

// Done calls s.Done if s is not nil.
func Done(s Sink) {
	if s == nil {
		return
	}

	s.Done()
}
