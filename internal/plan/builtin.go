// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// ErrUnknownBuiltin is returned when no embedded plan has the requested name.
var ErrUnknownBuiltin = errors.New("unknown builtin plan")

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtin returns the embedded plan called name.
func Builtin(name string) (*Plan, error) {
	file := path.Join("builtin", name+".yaml")

	data, err := builtinFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuiltin, name)
	}

	p, err := Parse(file, data, nil)
	if err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidPlan, file, err)
	}

	return p, nil
}

// BuiltinNames returns the names of the embedded plans, sorted.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}

	names := make([]string, 0, len(entries))

	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}

	sort.Strings(names)

	return names
}
