// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package progress publishes the calls a tracker tree makes on its sink as
// events, so that a display or monitor running on another goroutine can follow
// the work without being called synchronously by it.
package progress
