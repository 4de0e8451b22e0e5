// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"os/signal"

	"github.com/matt-FFFFFF/worktrack"
	"github.com/matt-FFFFFF/worktrack/internal/ctxlog"
)

// Watch monitors the signal channel until it is closed or ctx is done.
// The first signal of a given type requests cancellation on canceler, which
// trackers pick up at their next check. The second signal of the same type
// cancels the context and closes the channel.
func Watch(ctx context.Context, sigCh chan os.Signal, canceler worktrack.Sink, cancel context.CancelFunc) {
	sigMap := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			if _, seen := sigMap[sig]; seen {
				ctxlog.Warn(ctx, "watchdog", "detail", "received second signal of type, forcefully terminating", "signal", sig.String())
				signal.Stop(sigCh)
				close(sigCh)
				cancel()

				return
			}

			ctxlog.Warn(ctx, "watchdog", "detail", "received first signal of type, requesting cancellation", "signal", sig.String())

			sigMap[sig] = struct{}{}

			if canceler != nil {
				canceler.SetCanceled(true)
			}
		}
	}
}
