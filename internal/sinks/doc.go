// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sinks contains worktrack.Sink implementations for logging, metrics,
// fan-out and context-driven cancellation.
//
// All sinks in this package are safe for concurrent use.
package sinks
