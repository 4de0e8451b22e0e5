// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package worktrack_test

import (
	"fmt"

	"github.com/matt-FFFFFF/worktrack"
)

type printSink struct {
	worktrack.NullSink
	worked int
}

func (p *printSink) BeginTask(name string, total int) {
	fmt.Printf("begin %q %d\n", name, total)
}

func (p *printSink) Worked(work int) {
	p.worked += work
	fmt.Printf("worked %d (%d)\n", work, p.worked)
}

func (p *printSink) SubTask(name string) {
	fmt.Printf("subtask %q\n", name)
}

func ExampleConvert() {
	sink := &printSink{}

	t := worktrack.Convert(sink, "Loop", 100, worktrack.WithResolution(100))
	defer t.Done()

	loop, _ := t.Split(70)
	loop.SetWorkRemaining(2)

	for _, elem := range []string{"a", "b"} {
		child, _ := loop.Split(1)
		child.SubTask("element " + elem)
	}

	t.Worked(30)

	// Output:
	// begin "Loop" 100
	// subtask "element a"
	// worked 35 (35)
	// subtask "element b"
	// worked 35 (70)
	// worked 30 (100)
}
