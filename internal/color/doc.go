// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color decides whether output written to a given writer should be
// coloured. The NO_COLOR and FORCE_COLOR environment variables take precedence
// over terminal detection, which uses the golang.org/x/term package.
package color
