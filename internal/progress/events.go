// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event is a single call received by an EventSink.
type Event struct {
	RunID     string    // Identifies the root conversion the event belongs to
	Type      EventType // What happened
	Name      string    // Task or subtask name, for EventBegin, EventTaskName and EventSubTask
	Work      int       // Total for EventBegin, delta for EventWorked
	Canceled  bool      // New flag value for EventCanceled
	Timestamp time.Time // When the event occurred
}

// EventType represents the type of progress event.
type EventType int

const (
	// EventBegin indicates the task has begun.
	EventBegin EventType = iota
	// EventWorked indicates ticks of work were reported.
	EventWorked
	// EventTaskName indicates the task name changed.
	EventTaskName
	// EventSubTask indicates the subtask name changed.
	EventSubTask
	// EventCanceled indicates the cancellation flag was set or cleared.
	EventCanceled
	// EventDone indicates the task finished.
	EventDone
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventBegin:
		return "begin"
	case EventWorked:
		return "worked"
	case EventTaskName:
		return "taskname"
	case EventSubTask:
		return "subtask"
	case EventCanceled:
		return "canceled"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// Reporter is the interface for sending progress events.
type Reporter interface {
	// Report sends a progress event. Implementations should be non-blocking
	// and handle the case where the receiver might not be listening.
	Report(event Event)
	// Close signals that no more events will be sent and cleans up resources.
	Close()
}

// Listener receives progress events.
type Listener interface {
	// OnEvent is called when a progress event is received.
	// Implementations should handle events quickly to avoid blocking
	// the reporting goroutine.
	OnEvent(event Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(event Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(event Event) {
	f(event)
}

// NullReporter is a no-op implementation of Reporter.
type NullReporter struct{}

// Report implements Reporter.Report by doing nothing.
func (nr *NullReporter) Report(Event) {}

// Close implements Reporter.Close by doing nothing.
func (nr *NullReporter) Close() {}

// NewNullReporter creates a new NullReporter.
func NewNullReporter() Reporter {
	return &NullReporter{}
}
