// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package worktrack

import "strings"

// SuppressFlags control which calls a Tracker forwards to the root sink.
type SuppressFlags uint8

const (
	// SuppressSubTask ignores SubTask calls.
	SuppressSubTask SuppressFlags = 1 << iota
	// SuppressBeginTask ignores the task name passed to BeginTask.
	SuppressBeginTask
	// SuppressSetTaskName ignores SetTaskName calls.
	SuppressSetTaskName
	// SuppressIsCanceled makes IsCanceled always return false and disables
	// every cancellation check made by the tracker.
	SuppressIsCanceled

	// SuppressNone forwards everything.
	SuppressNone SuppressFlags = 0
	// SuppressAllLabels ignores every task and subtask name.
	SuppressAllLabels = SuppressSetTaskName | SuppressBeginTask | SuppressSubTask

	allPublicFlags    = SuppressAllLabels | SuppressIsCanceled
	allInheritedFlags = SuppressSubTask | SuppressIsCanceled
)

var flagNames = []struct {
	flag SuppressFlags
	name string
}{
	{SuppressSubTask, "subtask"},
	{SuppressBeginTask, "begintask"},
	{SuppressSetTaskName, "settaskname"},
	{SuppressIsCanceled, "iscanceled"},
}

// Has reports whether every flag in other is set in f.
func (f SuppressFlags) Has(other SuppressFlags) bool {
	return f&other == other
}

// String implements the Stringer interface for SuppressFlags.
func (f SuppressFlags) String() string {
	if f&allPublicFlags == 0 {
		return "none"
	}

	names := make([]string, 0, len(flagNames))

	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}

	return strings.Join(names, "|")
}

// childFlags computes the flags of a new child so that the child, although it
// reports straight to the root, behaves as if it delegated to its parent.
func (f SuppressFlags) childFlags(requested SuppressFlags) SuppressFlags {
	child := f & allInheritedFlags

	// Both BeginTask and SetTaskName on a child would end up in SetTaskName on
	// the parent.
	if f&SuppressSetTaskName != 0 {
		child |= SuppressSetTaskName | SuppressBeginTask
	}

	return child | (requested & allPublicFlags)
}
