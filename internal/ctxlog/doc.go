// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger writes a pretty console format to stderr. Its level is
// read from WORKTRACK_LOG_LEVEL, or <EXECUTABLE>_LOG_LEVEL when the binary is
// renamed, and defaults to WARN.
package ctxlog
