// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package worktrack

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingSink records every call it receives.
type recordingSink struct {
	NullSink
	beginName  string
	beginTotal int
	begins     int
	deltas     []int
	taskNames  []string
	subTasks   []string
	dones      int
}

func (r *recordingSink) BeginTask(name string, total int) {
	r.begins++
	r.beginName = name
	r.beginTotal = total
}

func (r *recordingSink) Worked(work int) {
	r.deltas = append(r.deltas, work)
}

func (r *recordingSink) SetTaskName(name string) {
	r.taskNames = append(r.taskNames, name)
}

func (r *recordingSink) SubTask(name string) {
	r.subTasks = append(r.subTasks, name)
}

func (r *recordingSink) Done() {
	r.dones++
}

func (r *recordingSink) total() int {
	sum := 0
	for _, d := range r.deltas {
		sum += d
	}

	return sum
}

func TestNullSink(t *testing.T) {
	s := NewNullSink()

	// These should not panic
	s.BeginTask("task", 10)
	s.Worked(5)
	s.SubTask("sub")
	s.SetTaskName("name")
	s.Done()

	assert.False(t, s.IsCanceled())
	s.SetCanceled(true)
	assert.True(t, s.IsCanceled())
	s.SetCanceled(false)
	assert.False(t, s.IsCanceled())
}

func TestNullSink_ConcurrentCancel(t *testing.T) {
	s := NewNullSink()

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			s.SetCanceled(true)
			_ = s.IsCanceled()
		}()
	}

	wg.Wait()
	assert.True(t, s.IsCanceled())
}

func TestDone_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { Done(nil) })

	rec := &recordingSink{}
	Done(rec)
	assert.Equal(t, 1, rec.dones)
}
