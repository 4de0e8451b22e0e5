// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package plan describes simulated work as a tree of weighted steps and runs
// it against a worktrack.Tracker.
//
// Plans are written in YAML or HCL:
//
//	name: Loop Example
//	total: 100
//	steps:
//	  - name: elements
//	    weight: 70
//	    iterations: 5
//	    delay: 1s
//	  - name: something else
//	    weight: 30
//	    work: 3
//	    delay: 1s
//
// A step with children divides its weight among them; a step with iterations
// creates one sub-tracker per iteration; any other step reports its work one
// tick at a time. Skipped steps hand their weight to the steps after them.
package plan
