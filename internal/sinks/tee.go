// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sinks

import (
	"github.com/matt-FFFFFF/worktrack"
)

var _ worktrack.Sink = Tee(nil)

// Tee forwards every call to all of its sinks in order.
// It is canceled as soon as any of them is.
type Tee []worktrack.Sink

// NewTee creates a Tee, skipping nil sinks.
func NewTee(sinks ...worktrack.Sink) Tee {
	t := make(Tee, 0, len(sinks))

	for _, s := range sinks {
		if s != nil {
			t = append(t, s)
		}
	}

	return t
}

// BeginTask implements worktrack.Sink.
func (t Tee) BeginTask(name string, totalWork int) {
	for _, s := range t {
		s.BeginTask(name, totalWork)
	}
}

// Worked implements worktrack.Sink.
func (t Tee) Worked(work int) {
	for _, s := range t {
		s.Worked(work)
	}
}

// SubTask implements worktrack.Sink.
func (t Tee) SubTask(name string) {
	for _, s := range t {
		s.SubTask(name)
	}
}

// SetTaskName implements worktrack.Sink.
func (t Tee) SetTaskName(name string) {
	for _, s := range t {
		s.SetTaskName(name)
	}
}

// Done implements worktrack.Sink.
func (t Tee) Done() {
	for _, s := range t {
		s.Done()
	}
}

// IsCanceled implements worktrack.Sink.
func (t Tee) IsCanceled() bool {
	for _, s := range t {
		if s.IsCanceled() {
			return true
		}
	}

	return false
}

// SetCanceled implements worktrack.Sink.
func (t Tee) SetCanceled(canceled bool) {
	for _, s := range t {
		s.SetCanceled(canceled)
	}
}
