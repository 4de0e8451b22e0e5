// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matt-FFFFFF/worktrack"
	"github.com/matt-FFFFFF/worktrack/internal/ctxlog"
	"github.com/matt-FFFFFF/worktrack/internal/sinks"
)

// UnboundedRemaining is the remaining work announced before every iteration
// of an unbounded loop. Each iteration then takes 1/UnboundedRemaining of
// what is left, so the progress approaches but never reaches the end.
const UnboundedRemaining = 10000

// ErrStep is returned when a step fails or is canceled.
var ErrStep = errors.New("step failed")

// Executor runs plans.
type Executor struct {
	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// Speed divides every delay. Values <= 0 mean 1.
	Speed float64
}

// Run executes p, reporting to sink. The context is linked to the tree's
// cancellation. The root tracker and the sink are always finished, so the sink
// receives its full allocation even when the run fails. Cancellation errors
// match worktrack.ErrCanceled.
func (e *Executor) Run(ctx context.Context, sink worktrack.Sink, p *Plan, opts ...worktrack.Option) error {
	if _, ok := sink.(*worktrack.Tracker); !ok {
		sink = sinks.WithContext(ctx, sink)
	}

	ctx = ctxlog.With(ctx, "plan", p.Name)
	root := worktrack.Convert(sink, p.Name, p.TotalWork(), opts...)

	defer worktrack.Done(sink)
	defer root.Done()

	ctxlog.Debug(ctx, "plan started", "total", p.TotalWork())

	if err := e.runSteps(ctx, root, "", p.Steps); err != nil {
		ctxlog.Warn(ctx, "plan stopped", "error", err)
		return err
	}

	ctxlog.Debug(ctx, "plan finished")

	return nil
}

func (e *Executor) runSteps(ctx context.Context, t *worktrack.Tracker, parent string, steps []*Step) error {
	for i, s := range steps {
		if s == nil {
			continue
		}

		path := joinPath(parent, s.Name)

		if s.Skip {
			ctxlog.Debug(ctx, "step skipped", "step", path, "weight", s.Weight)
			t.SetWorkRemaining(sumWeights(steps[i+1:]))

			continue
		}

		child, err := e.newChild(t, s)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStep, path, err)
		}

		ctxlog.Debug(ctx, "step started", "step", path, "weight", s.Weight)

		stepCtx := ctx
		if s.Uncancelable {
			stepCtx = context.WithoutCancel(ctx)
		}

		if err := e.runStep(stepCtx, child, path, s); err != nil {
			return err
		}
	}

	return nil
}

// newChild splits off the tracker for s. Uncancelable steps neither check nor
// see cancellation anywhere in their subtree.
func (e *Executor) newChild(t *worktrack.Tracker, s *Step) (*worktrack.Tracker, error) {
	if s.Uncancelable {
		return t.NewChildWithFlags(s.Weight, worktrack.SuppressBeginTask|worktrack.SuppressIsCanceled), nil
	}

	return t.Split(s.Weight)
}

func (e *Executor) runStep(ctx context.Context, t *worktrack.Tracker, path string, s *Step) error {
	delay, err := s.delay()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStep, path, err)
	}

	if len(s.Steps) > 0 {
		t.SetWorkRemaining(sumWeights(s.Steps))
		return e.runSteps(ctx, t, path, s.Steps)
	}

	if s.Iterations > 0 {
		return e.runLoop(ctx, t, path, s, delay)
	}

	if s.SubTask != "" {
		t.SubTask(s.SubTask)
	}

	t.SetWorkRemaining(s.Work)

	for range s.Work {
		if err := e.pause(ctx, delay); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStep, path, err)
		}

		if err := t.Step(1); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStep, path, err)
		}
	}

	return nil
}

func (e *Executor) runLoop(ctx context.Context, t *worktrack.Tracker, path string, s *Step, delay time.Duration) error {
	if !s.Unbounded {
		t.SetWorkRemaining(s.Iterations)
	}

	for i := range s.Iterations {
		if s.Unbounded {
			t.SetWorkRemaining(UnboundedRemaining)
		}

		// the previous iteration's tracker is retired here
		iteration, err := t.Split(1)
		if err != nil {
			return fmt.Errorf("%w: %s: iteration %d: %w", ErrStep, path, i+1, err)
		}

		iteration.SubTask(fmt.Sprintf("%s %d", s.label(), i+1))

		if err := e.pause(ctx, delay); err != nil {
			return fmt.Errorf("%w: %s: iteration %d: %w", ErrStep, path, i+1, err)
		}
	}

	return nil
}

// pause waits for the scaled delay. A done context is reported as a
// cancellation.
func (e *Executor) pause(ctx context.Context, d time.Duration) error {
	if e.Speed > 0 {
		d = time.Duration(float64(d) / e.Speed)
	}

	sleep := e.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	if err := sleep(ctx, d); err != nil {
		return errors.Join(worktrack.ErrCanceled, err)
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
