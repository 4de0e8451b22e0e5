// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package worktrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	rec := &recordingSink{}
	root := Convert(rec, "Task", 100)

	require.NotNil(t, root)
	assert.Equal(t, 1, rec.begins)
	assert.Equal(t, "Task", rec.beginName)
	assert.Equal(t, DefaultResolution, rec.beginTotal)
	assert.Equal(t, DefaultResolution, root.totalParent)
	assert.Equal(t, 100, root.totalForChildren)
	assert.Equal(t, SuppressNone, root.Flags())
}

func TestConvert_Options(t *testing.T) {
	rec := &recordingSink{}
	root := Convert(rec, "", 10, WithResolution(100), WithTrivialCheckInterval(5))

	assert.Equal(t, 100, rec.beginTotal)
	assert.Equal(t, 5, root.root.trivialCheckInterval)

	rec = &recordingSink{}
	root = Convert(rec, "", 10, WithResolution(-1), WithTrivialCheckInterval(0))

	assert.Equal(t, DefaultResolution, rec.beginTotal)
	assert.Equal(t, DefaultTrivialCheckInterval, root.root.trivialCheckInterval)
}

func TestConvert_NilSinkPanics(t *testing.T) {
	assert.PanicsWithValue(t, ErrNilSink, func() {
		Convert(nil, "task", 10)
	})
}

func TestConvert_TrackerIsNotWrappedTwice(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 100)
	again := Convert(root, "renamed", 50)

	assert.Same(t, root, again)
	assert.Equal(t, 1, rec.begins)
	assert.Equal(t, []string{"renamed"}, rec.taskNames)
	assert.Equal(t, 50, root.totalForChildren)
}

func TestConvert_ChildIgnoresTaskName(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 100)
	child := root.NewChild(50)

	converted := Convert(child, "ignored", 10)
	assert.Same(t, child, converted)
	assert.Empty(t, rec.taskNames)

	converted.Worked(10)
	assert.Equal(t, 500, rec.total())
}

func TestTracker_SplitWorkedSplitSumsToTotal(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		resolution int
	}{
		{name: "default resolution", resolution: DefaultResolution},
		{name: "resolution 100", opts: []Option{WithResolution(100)}, resolution: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingSink{}
			root := Convert(rec, "", 100, tt.opts...)

			first, err := root.Split(30)
			require.NoError(t, err)
			first.Worked(30)

			root.Worked(30)

			last, err := root.Split(40)
			require.NoError(t, err)
			last.Worked(40)

			root.Done()

			assert.Equal(t, tt.resolution, rec.total())
			assert.Equal(t, []int{tt.resolution * 3 / 10, tt.resolution * 3 / 10, tt.resolution * 4 / 10}, rec.deltas)
		})
	}
}

func TestTracker_ChildRescaleReportsAllocation(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 100)

	child, err := root.Split(70)
	require.NoError(t, err)

	child.SetWorkRemaining(5)

	for range 5 {
		child.Worked(1)
	}

	assert.Equal(t, 700, rec.total())

	child.Done()
	assert.Equal(t, 700, rec.total())

	root.Done()
	assert.Equal(t, 1000, rec.total())
}

func TestTracker_SetWorkRemainingPreservesPosition(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		worked    []int
		remaining int
	}{
		{name: "untouched", total: 10, remaining: 7},
		{name: "forty percent", total: 10, worked: []int{4}, remaining: 3},
		{name: "fractional position", total: 3, worked: []int{1}, remaining: 2},
		{name: "many small steps", total: 7, worked: []int{1, 1, 1}, remaining: 13},
		{name: "grow remaining", total: 4, worked: []int{3}, remaining: 1000},
		{name: "already complete", total: 4, worked: []int{4}, remaining: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingSink{}
			root := ConvertWork(rec, tt.total)

			for _, w := range tt.worked {
				root.Worked(w)
			}

			before := rec.total()
			root.SetWorkRemaining(tt.remaining)
			assert.Equal(t, before, rec.total(), "SetWorkRemaining must not report work")

			for range tt.remaining {
				root.Worked(1)
			}

			assert.Equal(t, DefaultResolution, rec.total())
		})
	}
}

func TestTracker_SetWorkRemainingNegativeAndChaining(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)

	assert.Same(t, root, root.SetWorkRemaining(-5))
	assert.Equal(t, 0, root.totalForChildren)

	root.Worked(10)
	assert.Empty(t, rec.deltas)

	root.Done()
	assert.Equal(t, DefaultResolution, rec.total())
}

func TestTracker_DeltasAreMonotonic(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 37)

	for i := range 20 {
		switch i % 4 {
		case 0:
			root.Worked(1)
		case 1:
			c := root.NewChild(2)
			c.SetWorkRemaining(9)
			c.Worked(4)
		case 2:
			root.SetWorkRemaining(40 - i)
		case 3:
			c, err := root.Split(1)
			require.NoError(t, err)
			c.Worked(-3)
		}

		assert.LessOrEqual(t, rec.total(), DefaultResolution)
	}

	for _, d := range rec.deltas {
		assert.Positive(t, d)
	}

	root.Done()
	assert.Equal(t, DefaultResolution, rec.total())
}

func TestTracker_FractionalTicks(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 3)

	root.Worked(1)
	root.Worked(1)
	root.Worked(1)

	assert.Equal(t, []int{333, 333, 334}, rec.deltas)
}

func TestTracker_OverReportingIsClamped(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)

	root.Worked(8)
	root.Worked(8)
	assert.Equal(t, DefaultResolution, rec.total())

	root.Done()
	assert.Equal(t, DefaultResolution, rec.total())
}

func TestTracker_DoneIsIdempotent(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)
	root.Worked(3)

	root.Done()
	assert.Equal(t, DefaultResolution, rec.total())

	count := len(rec.deltas)
	root.Done()
	assert.Len(t, rec.deltas, count)

	root.Worked(5)
	assert.Len(t, rec.deltas, count)

	c := root.NewChild(5)
	c.Worked(5)
	c.Done()
	assert.Len(t, rec.deltas, count)
}

func TestTracker_SingleActiveChild(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 100)

	a := root.NewChild(50)
	assert.Equal(t, 0, rec.total(), "reserving ticks for a child reports nothing")

	a.Worked(10)
	assert.Equal(t, 100, rec.total())

	b := root.NewChild(50)
	assert.Equal(t, 500, rec.total(), "a is retired before b exists")
	assert.Same(t, b, root.activeChild)

	a.Worked(10)
	assert.Equal(t, 500, rec.total(), "a retired child is inert")

	b.Done()
	assert.Equal(t, 1000, rec.total())
}

func TestTracker_WorkedRetiresActiveChild(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)

	child := root.NewChild(5)
	root.Worked(1)

	assert.Nil(t, root.activeChild)
	assert.Equal(t, 600, rec.total())

	child.Worked(5)
	assert.Equal(t, 600, rec.total())
}

func TestTracker_NestedTreeConservesTicks(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 100)

	outer, err := root.Split(50)
	require.NoError(t, err)

	inner := ConvertWork(outer, 20)
	leaf, err := inner.Split(10)
	require.NoError(t, err)
	leaf.SetWorkRemaining(1000)
	leaf.Worked(3)

	_ = inner.NewChild(7)

	root.Done()
	assert.Equal(t, DefaultResolution, rec.total())
	assert.Nil(t, root.activeChild)
	assert.Nil(t, outer.activeChild)
	assert.Nil(t, inner.activeChild)
}

func TestTracker_NewChildClampsToRemaining(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)
	root.Worked(8)

	child := root.NewChild(5)
	assert.Equal(t, 2, child.totalForChildren)
	assert.Equal(t, 200, child.totalParent)

	negative := root.NewChild(-3)
	assert.Equal(t, 0, negative.totalForChildren)
	assert.Equal(t, 0, negative.totalParent)
}

func TestTracker_ZeroWorkRoot(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 0)

	root.Worked(5)
	child := root.NewChild(5)
	child.Worked(5)
	assert.Empty(t, rec.deltas)

	root.Done()
	assert.Equal(t, []int{DefaultResolution}, rec.deltas)
}

func TestTracker_TaskNames(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)

	root.SetTaskName("a")
	root.SetTaskName("a")
	root.BeginTask("b", 10)
	root.SubTask("x")
	root.SubTask("x")
	root.SubTask("y")
	root.SubTask("")

	assert.Equal(t, []string{"a", "b"}, rec.taskNames)
	assert.Equal(t, []string{"x", "y", ""}, rec.subTasks)
}

func TestTracker_FirstEmptyNameIsForwarded(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)

	root.SetTaskName("")
	root.SubTask("")

	assert.Equal(t, []string{""}, rec.taskNames)
	assert.Equal(t, []string{""}, rec.subTasks)
}

func TestTracker_ChildLabelSuppression(t *testing.T) {
	tests := []struct {
		name         string
		parentFlags  SuppressFlags
		childFlags   SuppressFlags
		wantTasks    []string
		wantSubTasks []string
	}{
		{
			name:         "default child ignores begin task name",
			childFlags:   SuppressBeginTask,
			wantTasks:    []string{"set"},
			wantSubTasks: []string{"sub"},
		},
		{
			name:         "child without flags forwards everything",
			wantTasks:    []string{"begin", "set"},
			wantSubTasks: []string{"sub"},
		},
		{
			name:         "parent suppressing set task name silences child",
			parentFlags:  SuppressSetTaskName,
			wantSubTasks: []string{"sub"},
		},
		{
			name:        "parent suppressing subtask silences child",
			parentFlags: SuppressSubTask,
			wantTasks:   []string{"begin", "set"},
		},
		{
			name:       "child suppressing all labels",
			childFlags: SuppressAllLabels,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingSink{}
			root := ConvertWork(rec, 10)
			parent := root.NewChildWithFlags(10, tt.parentFlags)
			parent.SetWorkRemaining(10)

			child := parent.NewChildWithFlags(5, tt.childFlags)
			child.BeginTask("begin", 5)
			child.SetTaskName("set")
			child.SubTask("sub")

			if tt.wantTasks == nil {
				assert.Empty(t, rec.taskNames)
			} else {
				assert.Equal(t, tt.wantTasks, rec.taskNames)
			}

			if tt.wantSubTasks == nil {
				assert.Empty(t, rec.subTasks)
			} else {
				assert.Equal(t, tt.wantSubTasks, rec.subTasks)
			}
		})
	}
}

func TestTracker_SplitChecksCancellation(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)

	child, err := root.Split(5)
	require.NoError(t, err)
	child.Worked(5)

	root.SetCanceled(true)
	assert.True(t, rec.IsCanceled())
	assert.True(t, root.IsCanceled())
	assert.True(t, child.IsCanceled())

	next, err := root.Split(2)
	require.ErrorIs(t, err, ErrCanceled)
	assert.NotNil(t, next)
	assert.ErrorIs(t, root.CheckCanceled(), ErrCanceled)

	root.SetCanceled(false)
	_, err = root.Split(1)
	assert.NoError(t, err)
}

func TestTracker_SplitTakingWholeUntouchedParentSkipsCheck(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)
	rec.SetCanceled(true)

	child, err := root.Split(10)
	require.NoError(t, err)
	require.NotNil(t, child)

	_, err = child.Split(3)
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestTracker_TrivialSplitsAreThrottled(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		interval int
	}{
		{name: "default interval", interval: DefaultTrivialCheckInterval},
		{name: "custom interval", opts: []Option{WithTrivialCheckInterval(10)}, interval: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingSink{}
			root := Convert(rec, "", 0, tt.opts...)

			const cancelAt = 5000

			canceledAt := -1

			for i := range 10000 {
				if i == cancelAt {
					rec.SetCanceled(true)
				}

				if _, err := root.Split(0); err != nil {
					require.ErrorIs(t, err, ErrCanceled)

					canceledAt = i

					break
				}
			}

			require.GreaterOrEqual(t, canceledAt, cancelAt, "cancellation must be raised inside the loop")
			assert.Less(t, canceledAt, cancelAt+tt.interval)
		})
	}
}

func TestTracker_SuppressIsCanceled(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 10)
	quiet := root.NewChildWithFlags(10, SuppressIsCanceled)
	quiet.SetWorkRemaining(10)

	rec.SetCanceled(true)

	assert.True(t, root.IsCanceled())
	assert.False(t, quiet.IsCanceled())
	assert.NoError(t, quiet.CheckCanceled())
	assert.NoError(t, quiet.Step(1))

	grandchild, err := quiet.Split(5)
	require.NoError(t, err)
	assert.False(t, grandchild.IsCanceled())
	assert.True(t, grandchild.Flags().Has(SuppressIsCanceled))

	for range 2 * DefaultTrivialCheckInterval {
		_, err := grandchild.Split(0)
		require.NoError(t, err)
	}
}

func TestTracker_Step(t *testing.T) {
	rec := &recordingSink{}
	root := ConvertWork(rec, 4)

	require.NoError(t, root.Step(1))
	assert.Equal(t, 250, rec.total())

	rec.SetCanceled(true)
	err := root.Step(1)
	require.ErrorIs(t, err, ErrCanceled)
	assert.Equal(t, 500, rec.total(), "work is reported before the check")
}
