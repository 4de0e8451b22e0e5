// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package worktrack

var _ Sink = (*Tracker)(nil)

// Tracker is one node of a progress tree. It owns a number of ticks of its
// parent and a scale of its own that it divides among direct work and
// children.
//
// A Tracker has at most one active child. Creating another child, reporting
// work or calling Done retires the active child first, which reports whatever
// the child left unreported.
type Tracker struct {
	root *rootState

	// ticks this node may report to its parent, and how many it already has
	totalParent   int
	usedForParent int

	// scale divided among children and direct work
	totalForChildren int
	usedForChildren  float64

	activeChild *Tracker
	flags       SuppressFlags
}

func newTracker(root *rootState, parentTicks, childTicks int, flags SuppressFlags) *Tracker {
	return &Tracker{
		root:             root,
		totalParent:      max(parentTicks, 0),
		totalForChildren: max(childTicks, 0),
		flags:            flags,
	}
}

// Flags returns the suppress flags of the tracker.
func (t *Tracker) Flags() SuppressFlags {
	return t.flags
}

// SetWorkRemaining redistributes the remaining space of the tracker so that
// reporting workRemaining more ticks exhausts it exactly. No work is reported.
// Negative values count as zero. It returns t to allow chaining.
func (t *Tracker) SetWorkRemaining(workRemaining int) *Tracker {
	workRemaining = max(workRemaining, 0)

	if t.totalForChildren > 0 && t.totalParent > t.usedForParent {
		// the parent position must be the same before and after
		remainForParent := float64(t.totalParent) * (1 - t.usedForChildren/float64(t.totalForChildren))
		t.usedForChildren = float64(workRemaining) * (1 - remainForParent/float64(t.totalParent-t.usedForParent))
	} else {
		t.usedForChildren = 0
	}

	t.totalParent -= t.usedForParent
	t.usedForParent = 0
	t.totalForChildren = workRemaining

	return t
}

// consume advances the child scale by ticks and returns how many parent ticks
// that amounts to.
func (t *Tracker) consume(ticks float64) int {
	if t.totalParent == 0 || t.totalForChildren == 0 {
		return 0
	}

	t.usedForChildren += ticks
	t.usedForChildren = min(max(t.usedForChildren, 0), float64(t.totalForChildren))

	position := int(float64(t.totalParent) * t.usedForChildren / float64(t.totalForChildren))
	delta := position - t.usedForParent
	t.usedForParent = position

	return delta
}

// IsCanceled implements Sink. It always returns false when the tracker
// suppresses cancellation.
func (t *Tracker) IsCanceled() bool {
	if t.flags&SuppressIsCanceled != 0 {
		return false
	}

	return t.root.isCanceled()
}

// SetCanceled implements Sink. The flag is shared by the whole tree.
func (t *Tracker) SetCanceled(canceled bool) {
	t.root.setCanceled(canceled)
}

// CheckCanceled returns ErrCanceled if cancellation was requested.
func (t *Tracker) CheckCanceled() error {
	if t.flags&SuppressIsCanceled != 0 {
		return nil
	}

	return t.root.checkCanceled()
}

// SetTaskName implements Sink.
func (t *Tracker) SetTaskName(name string) {
	if t.flags&SuppressSetTaskName == 0 {
		t.root.setTaskName(name)
	}
}

// BeginTask implements Sink. It reports the task name unless suppressed and
// behaves like SetWorkRemaining(totalWork).
func (t *Tracker) BeginTask(name string, totalWork int) {
	if t.flags&SuppressBeginTask == 0 {
		t.root.setTaskName(name)
	}

	t.SetWorkRemaining(totalWork)
}

// SubTask implements Sink.
func (t *Tracker) SubTask(name string) {
	if t.flags&SuppressSubTask == 0 {
		t.root.setSubTask(name)
	}
}

// Worked implements Sink. Negative values count as zero.
func (t *Tracker) Worked(work int) {
	t.internalWorked(float64(work))
}

func (t *Tracker) internalWorked(work float64) {
	t.retireActiveChild()

	if delta := t.consume(max(work, 0)); delta != 0 {
		t.root.worked(delta)
	}
}

// Step reports work ticks and then checks for cancellation.
func (t *Tracker) Step(work int) error {
	t.Worked(work)

	return t.CheckCanceled()
}

// Done implements Sink. It retires the active child, reports every parent tick
// not reported yet and leaves the tracker inert. Calling it again is a no-op.
func (t *Tracker) Done() {
	t.retireActiveChild()

	if delta := t.totalParent - t.usedForParent; delta > 0 {
		t.root.worked(delta)
	}

	t.totalParent = 0
	t.usedForParent = 0
	t.totalForChildren = 0
	t.usedForChildren = 0
}

// NewChild creates a child using totalWork ticks of this tracker. The child
// ignores the task name passed to its BeginTask, so it can be passed to code
// that calls Convert or BeginTask on it.
func (t *Tracker) NewChild(totalWork int) *Tracker {
	return t.NewChildWithFlags(totalWork, SuppressBeginTask)
}

// NewChildWithFlags creates a child using totalWork ticks of this tracker.
// The previously active child is retired. The child also suppresses whatever
// its parent suppresses on its behalf.
func (t *Tracker) NewChildWithFlags(totalWork int, flags SuppressFlags) *Tracker {
	work := min(float64(max(totalWork, 0)), float64(t.totalForChildren)-t.usedForChildren)

	t.retireActiveChild()

	child := newTracker(t.root, t.consume(work), int(work), t.flags.childFlags(flags))
	t.activeChild = child

	return child
}

// Split is NewChild plus a cancellation check. Splits that move the parent
// forward are always checked; trivial ones, which report nothing, are checked
// once every so many calls. On cancellation the child is returned along with
// ErrCanceled.
func (t *Tracker) Split(totalWork int) (*Tracker, error) {
	return t.SplitWithFlags(totalWork, SuppressBeginTask)
}

// SplitWithFlags is Split with explicit suppress flags for the child.
func (t *Tracker) SplitWithFlags(totalWork int, flags SuppressFlags) (*Tracker, error) {
	oldUsedForParent := t.usedForParent
	child := t.NewChildWithFlags(totalWork, flags)

	if t.flags&SuppressIsCanceled != 0 {
		return child, nil
	}

	if child.totalParent <= 0 {
		return child, t.root.checkTrivial()
	}

	// A child taking all of an untouched parent was already checked by
	// whoever created the parent.
	if oldUsedForParent > 0 || t.usedForParent < t.totalParent {
		return child, t.root.checkCanceled()
	}

	return child, nil
}

func (t *Tracker) retireActiveChild() {
	if t.activeChild == nil {
		return
	}

	child := t.activeChild
	t.activeChild = nil
	child.Done()
}
