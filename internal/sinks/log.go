// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sinks

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docker/go-units"
	"github.com/google/uuid"
	"github.com/matt-FFFFFF/worktrack"
)

var _ worktrack.Sink = (*Log)(nil)

// Log writes progress to a structured logger. Names and completion are logged
// at info level, each worked delta at debug level.
type Log struct {
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	task    string
	total   int
	worked  int
	started time.Time
	done    bool

	canceled atomic.Bool
}

// NewLog creates a Log sink. A nil logger falls back to slog.Default.
func NewLog(logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}

	return &Log{
		logger: logger.With("run", uuid.NewString()),
		now:    time.Now,
	}
}

// BeginTask implements worktrack.Sink.
func (l *Log) BeginTask(name string, totalWork int) {
	l.mu.Lock()
	l.task = name
	l.total = max(totalWork, 0)
	l.worked = 0
	l.started = l.now()
	l.done = false
	l.mu.Unlock()

	l.logger.Info("task started", "task", name, "total", totalWork)
}

// Worked implements worktrack.Sink.
func (l *Log) Worked(work int) {
	if work <= 0 {
		return
	}

	l.mu.Lock()
	l.worked += work
	worked, total := l.worked, l.total
	l.mu.Unlock()

	l.logger.Debug("worked", "delta", work, "worked", worked, "total", total, "percent", percent(worked, total))
}

// SubTask implements worktrack.Sink.
func (l *Log) SubTask(name string) {
	l.logger.Info("subtask", "task", l.taskName(), "subtask", name)
}

// SetTaskName implements worktrack.Sink.
func (l *Log) SetTaskName(name string) {
	l.mu.Lock()
	l.task = name
	l.mu.Unlock()

	l.logger.Info("task renamed", "task", name)
}

// Done implements worktrack.Sink. Only the first call is logged.
func (l *Log) Done() {
	l.mu.Lock()
	if l.done {
		l.mu.Unlock()
		return
	}

	l.done = true
	task, worked, total := l.task, l.worked, l.total
	elapsed := l.elapsed()
	l.mu.Unlock()

	l.logger.Info("task done",
		"task", task,
		"worked", worked,
		"total", total,
		"canceled", l.canceled.Load(),
		"elapsed", units.HumanDuration(elapsed))
}

// IsCanceled implements worktrack.Sink.
func (l *Log) IsCanceled() bool {
	return l.canceled.Load()
}

// SetCanceled implements worktrack.Sink.
func (l *Log) SetCanceled(canceled bool) {
	if l.canceled.Swap(canceled) != canceled {
		l.logger.Warn("cancellation changed", "task", l.taskName(), "canceled", canceled)
	}
}

// Elapsed returns the time since BeginTask, or zero if it was never called.
func (l *Log) Elapsed() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.elapsed()
}

func (l *Log) elapsed() time.Duration {
	if l.started.IsZero() {
		return 0
	}

	return l.now().Sub(l.started)
}

func (l *Log) taskName() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.task
}

func percent(worked, total int) int {
	if total <= 0 {
		return 0
	}

	return min(worked*100/total, 100)
}
