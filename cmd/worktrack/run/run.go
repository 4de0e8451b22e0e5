// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the command that executes plans against progress trees.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/docker/go-units"
	"github.com/matt-FFFFFF/worktrack"
	"github.com/matt-FFFFFF/worktrack/internal/ctxlog"
	"github.com/matt-FFFFFF/worktrack/internal/plan"
	"github.com/matt-FFFFFF/worktrack/internal/progress"
	"github.com/matt-FFFFFF/worktrack/internal/signalbroker"
	"github.com/matt-FFFFFF/worktrack/internal/sinks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	resolutionFlag    = "resolution"
	checkIntervalFlag = "check-interval"
	eventsFlag        = "events"
	metricsFlag       = "metrics"
	varFlag           = "var"
	speedFlag         = "speed"

	// ExitCodeCanceled is returned when a run stops because of a cancellation request.
	ExitCodeCanceled = 130

	eventBufferSize = 1024
	cliExitStr      = ""
)

// ErrWriteMetrics is returned when the metrics cannot be written.
var ErrWriteMetrics = errors.New("failed to write metrics")

// RunCmd is the command that runs plans.
var RunCmd = NewCommand()

// NewCommand creates the run command. Every call returns a command with fresh
// flag state.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Run plans and report their progress",
		ArgsUsage: "PLAN...",
		Description: `Run one or more plans. Each PLAN is a YAML or HCL file, or builtin:<name>
for one of the plans listed by the examples command.

Every plan runs concurrently on its own progress tree. The first interrupt asks
all trees to stop at their next cancellation check, the second one aborts.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    resolutionFlag,
				Usage:   "Number of ticks each plan reports in total",
				Value:   worktrack.DefaultResolution,
				Sources: cli.EnvVars("WORKTRACK_RESOLUTION"),
			},
			&cli.IntFlag{
				Name:    checkIntervalFlag,
				Usage:   "Number of trivial splits between two cancellation checks",
				Value:   worktrack.DefaultTrivialCheckInterval,
				Sources: cli.EnvVars("WORKTRACK_CHECK_INTERVAL"),
			},
			&cli.BoolFlag{
				Name:    eventsFlag,
				Aliases: []string{"e"},
				Usage:   "Print every progress event",
				Sources: cli.EnvVars("WORKTRACK_EVENTS"),
			},
			&cli.BoolFlag{
				Name:    metricsFlag,
				Aliases: []string{"m"},
				Usage:   "Print Prometheus metrics once all plans have finished",
				Sources: cli.EnvVars("WORKTRACK_METRICS"),
			},
			&cli.StringSliceFlag{
				Name:  varFlag,
				Usage: "Set an HCL plan variable as key=value. Specify multiple times for more variables.",
			},
			&cli.FloatFlag{
				Name:    speedFlag,
				Usage:   "Divide every simulated delay by this factor",
				Value:   1,
				Sources: cli.EnvVars("WORKTRACK_SPEED"),
			},
		},
		Action: actionFunc,
	}
}

type result struct {
	plan *plan.Plan
	log  *sinks.Log
	sink worktrack.Sink
	err  error
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("Running run command")

	args := cmd.Args().Slice()
	if len(args) == 0 {
		return cli.Exit("Please specify at least one plan file or builtin:<name>.", 1)
	}

	vars, err := plan.ParseVars(cmd.StringSlice(varFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	plans := make([]*plan.Plan, 0, len(args))

	for _, arg := range args {
		p, err := plan.Load(ctx, arg, vars)
		if err != nil {
			logger.Error("Failed to load plan", "plan", arg, "error", err)
			return cli.Exit(err.Error(), 1)
		}

		plans = append(plans, p)
	}

	out := cmd.Root().Writer

	// every tree shares this cancellation flag so one signal reaches them all
	var canceler worktrack.Sink = worktrack.NewNullSink()

	var registry *prometheus.Registry

	if cmd.Bool(metricsFlag) {
		registry = prometheus.NewRegistry()

		m, err := sinks.NewMetrics(registry, canceler)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		canceler = m
	}

	var (
		channel  *progress.ChannelReporter
		reporter progress.Reporter
	)

	if cmd.Bool(eventsFlag) {
		channel = progress.NewChannelReporter(ctx, eventBufferSize)
		channel.Listen(progress.ListenerFunc(func(event progress.Event) {
			writeEvent(out, event)
		}))

		reporter = channel
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := signalbroker.New(runCtx)
	defer signalbroker.Stop(sigCh)

	var watch sync.WaitGroup

	watch.Add(1)

	go func() {
		defer watch.Done()
		signalbroker.Watch(runCtx, sigCh, canceler, cancel)
	}()

	results := prepare(logger, plans, canceler, reporter)
	executor := &plan.Executor{Speed: cmd.Float(speedFlag)}

	runPlans(runCtx, logger, executor, results,
		worktrack.WithResolution(cmd.Int(resolutionFlag)),
		worktrack.WithTrivialCheckInterval(cmd.Int(checkIntervalFlag)),
	)

	cancel()
	watch.Wait()

	if channel != nil {
		channel.Close()

		if dropped := channel.Dropped(); dropped > 0 {
			logger.Warn("Progress events were dropped", "count", dropped)
		}
	}

	if err := writeSummary(out, results); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if registry != nil {
		if err := writeMetrics(out, registry); err != nil {
			return cli.Exit(err.Error(), 1)
		}
	}

	return exitError(results)
}

// prepare builds the sink of every plan. Each sink logs, shares the
// cancellation flag and, with a reporter, publishes events.
func prepare(
	logger *slog.Logger,
	plans []*plan.Plan,
	canceler worktrack.Sink,
	reporter progress.Reporter,
) []result {
	results := make([]result, len(plans))

	for i, p := range plans {
		log := sinks.NewLog(logger.With("plan", p.Name))
		sink := sinks.NewTee(log, canceler)

		if reporter != nil {
			sink = append(sink, progress.NewEventSink(reporter))
		}

		results[i] = result{plan: p, log: log, sink: sink}
	}

	return results
}

// runPlans runs every plan concurrently on its own tree and records the
// outcomes in results.
func runPlans(
	ctx context.Context,
	logger *slog.Logger,
	executor *plan.Executor,
	results []result,
	opts ...worktrack.Option,
) {
	var g errgroup.Group

	for i := range results {
		g.Go(func() error {
			r := &results[i]
			r.err = executor.Run(ctx, r.sink, r.plan, opts...)

			return r.err
		})
	}

	if err := g.Wait(); err != nil {
		logger.Debug("At least one plan stopped early", "error", err)
	}
}

// exitError picks the exit code: cancellation wins over failure.
func exitError(results []result) error {
	var failed error

	for _, r := range results {
		switch {
		case r.err == nil:
		case errors.Is(r.err, worktrack.ErrCanceled):
			return cli.Exit(cliExitStr, ExitCodeCanceled)
		default:
			failed = r.err
		}
	}

	if failed != nil {
		return cli.Exit(failed.Error(), 1)
	}

	return nil
}

func status(err error) string {
	switch {
	case err == nil:
		return "completed"
	case errors.Is(err, worktrack.ErrCanceled):
		return "canceled"
	default:
		return "failed"
	}
}

func writeSummary(w io.Writer, results []result) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("PLAN", "STATUS", "ELAPSED")

	for _, r := range results {
		t.Row(r.plan.Name, status(r.err), units.HumanDuration(r.log.Elapsed()))
	}

	_, err := fmt.Fprintln(w, t.Render())

	return err
}

func writeEvent(w io.Writer, event progress.Event) {
	runID := event.RunID
	if len(runID) > 8 {
		runID = runID[:8]
	}

	detail := event.Name

	switch event.Type {
	case progress.EventBegin, progress.EventWorked:
		detail = fmt.Sprintf("%s %d", event.Name, event.Work)
	case progress.EventCanceled:
		detail = fmt.Sprintf("%t", event.Canceled)
	}

	fmt.Fprintf(w, "%s %s %-8s %s\n", event.Timestamp.Format(time.TimeOnly), runID, event.Type, detail) //nolint:errcheck
}

func writeMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return errors.Join(ErrWriteMetrics, err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))

	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Join(ErrWriteMetrics, err)
		}
	}

	return nil
}
