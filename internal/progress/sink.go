// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/worktrack"
)

var _ worktrack.Sink = (*EventSink)(nil)

// Snapshot is the state of an EventSink at one point in time.
type Snapshot struct {
	RunID    string
	Task     string
	SubTask  string
	Worked   int
	Total    int
	Done     bool
	Canceled bool
}

// Fraction returns the completed share of the work between 0 and 1.
// A sink that never began, or began with no work, reports 0 until done.
func (s Snapshot) Fraction() float64 {
	if s.Done {
		return 1
	}

	if s.Total <= 0 {
		return 0
	}

	return min(float64(s.Worked)/float64(s.Total), 1)
}

// EventSink is a worktrack.Sink that publishes every call to a Reporter and
// keeps the accumulated state for polling. It is safe for concurrent use, so
// the tree can run on a worker goroutine while a display reads Snapshot and
// a control goroutine calls SetCanceled.
type EventSink struct {
	reporter Reporter
	runID    string
	now      func() time.Time

	mu       sync.Mutex
	state    Snapshot
	canceled atomic.Bool
}

// NewEventSink creates an EventSink publishing to reporter.
// A nil reporter is replaced by a NullReporter.
func NewEventSink(reporter Reporter) *EventSink {
	if reporter == nil {
		reporter = NewNullReporter()
	}

	id := uuid.NewString()

	return &EventSink{
		reporter: reporter,
		runID:    id,
		now:      time.Now,
		state:    Snapshot{RunID: id},
	}
}

// RunID returns the identifier stamped on every event of this sink.
func (s *EventSink) RunID() string {
	return s.runID
}

// Snapshot returns a copy of the current state.
func (s *EventSink) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.state
	snap.Canceled = s.canceled.Load()

	return snap
}

func (s *EventSink) report(event Event) {
	event.RunID = s.runID
	event.Timestamp = s.now()
	s.reporter.Report(event)
}

// BeginTask implements worktrack.Sink.
func (s *EventSink) BeginTask(name string, totalWork int) {
	s.mu.Lock()
	s.state.Task = name
	s.state.SubTask = ""
	s.state.Total = max(totalWork, 0)
	s.state.Worked = 0
	s.state.Done = false
	s.mu.Unlock()

	s.report(Event{Type: EventBegin, Name: name, Work: totalWork})
}

// Worked implements worktrack.Sink.
func (s *EventSink) Worked(work int) {
	if work <= 0 {
		return
	}

	s.mu.Lock()
	s.state.Worked += work
	s.mu.Unlock()

	s.report(Event{Type: EventWorked, Work: work})
}

// SubTask implements worktrack.Sink.
func (s *EventSink) SubTask(name string) {
	s.mu.Lock()
	s.state.SubTask = name
	s.mu.Unlock()

	s.report(Event{Type: EventSubTask, Name: name})
}

// SetTaskName implements worktrack.Sink.
func (s *EventSink) SetTaskName(name string) {
	s.mu.Lock()
	s.state.Task = name
	s.mu.Unlock()

	s.report(Event{Type: EventTaskName, Name: name})
}

// Done implements worktrack.Sink. Only the first call publishes EventDone.
func (s *EventSink) Done() {
	s.mu.Lock()
	already := s.state.Done
	s.state.Done = true
	s.mu.Unlock()

	if already {
		return
	}

	s.report(Event{Type: EventDone})
}

// IsCanceled implements worktrack.Sink.
func (s *EventSink) IsCanceled() bool {
	return s.canceled.Load()
}

// SetCanceled implements worktrack.Sink. An event is published only when the
// flag actually changes.
func (s *EventSink) SetCanceled(canceled bool) {
	if s.canceled.Swap(canceled) == canceled {
		return
	}

	s.report(Event{Type: EventCanceled, Canceled: canceled})
}
