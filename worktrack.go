// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package worktrack provides hierarchical progress reporting.
//
// A long-running operation converts a Sink into a root Tracker with a declared
// number of work units. The Tracker is passed down the call chain and each callee
// takes a slice of its caller's budget with Split or NewChild. Children do not
// need to be finished explicitly: the parent reclaims any unreported ticks the
// next time it is touched, or when it is finished itself.
//
//	t := worktrack.Convert(sink, "Copying files", len(files))
//	defer t.Done()
//
//	for _, f := range files {
//		child, err := t.Split(1)
//		if err != nil {
//			return err
//		}
//
//		copyFile(f, child)
//	}
//
// Trackers are not safe for concurrent use. A tree is driven by a single call
// chain; only the cancellation flag held by the Sink crosses goroutines.
package worktrack

var (
	// Version is set during the build process.
	Version = "dev"
	// Commit is set during the build process.
	Commit = "unknown"
)
