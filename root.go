// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package worktrack

// rootState is shared by every Tracker of one tree.
type rootState struct {
	sink Sink

	taskName    string
	hasTaskName bool
	subTask     string
	hasSubTask  bool

	trivialCount         int
	trivialCheckInterval int
}

func newRootState(sink Sink, trivialCheckInterval int) *rootState {
	return &rootState{
		sink:                 sink,
		trivialCheckInterval: trivialCheckInterval,
	}
}

func (r *rootState) isCanceled() bool {
	return r.sink.IsCanceled()
}

func (r *rootState) setCanceled(canceled bool) {
	r.sink.SetCanceled(canceled)
}

func (r *rootState) setTaskName(name string) {
	if r.hasTaskName && r.taskName == name {
		return
	}

	r.taskName, r.hasTaskName = name, true
	r.sink.SetTaskName(name)
}

func (r *rootState) setSubTask(name string) {
	if r.hasSubTask && r.subTask == name {
		return
	}

	r.subTask, r.hasSubTask = name, true
	r.sink.SubTask(name)
}

func (r *rootState) worked(work int) {
	r.sink.Worked(work)
}

func (r *rootState) checkCanceled() error {
	if r.sink.IsCanceled() {
		return ErrCanceled
	}

	return nil
}

// checkTrivial counts a trivial operation and checks for cancellation once
// every trivialCheckInterval calls.
func (r *rootState) checkTrivial() error {
	r.trivialCount++
	if r.trivialCount < r.trivialCheckInterval {
		return nil
	}

	r.trivialCount = 0

	return r.checkCanceled()
}
