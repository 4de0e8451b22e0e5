// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/matt-FFFFFF/worktrack/internal/ctxlog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
)

// BuiltinPrefix selects an embedded plan instead of a file in Load.
const BuiltinPrefix = "builtin:"

var (
	// ErrUnknownFormat is returned for files that are neither YAML nor HCL.
	ErrUnknownFormat = errors.New("unknown plan format, expected .yaml, .yml or .hcl")
	// ErrParse is returned when a plan cannot be decoded.
	ErrParse = errors.New("failed to parse plan")
	// ErrReadFile is returned when a plan file cannot be read.
	ErrReadFile = errors.New("failed to read plan file")
	// ErrInvalidPlan is returned when a plan fails validation.
	ErrInvalidPlan = errors.New("invalid plan")
)

// FsFactory is a function that returns the filesystem plans are read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Load reads, parses and validates the plan at path. Paths starting with
// BuiltinPrefix name an embedded plan. vars are made available to HCL plans
// as var.<name>.
func Load(ctx context.Context, path string, vars map[string]string) (*Plan, error) {
	if name, ok := strings.CutPrefix(path, BuiltinPrefix); ok {
		return Builtin(name)
	}

	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadFile, path, err)
	}

	p, err := Parse(path, data, vars)
	if err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidPlan, path, err)
	}

	ctxlog.Debug(ctx, "plan loaded", "path", path, "name", p.Name, "steps", len(p.Steps))

	return p, nil
}

// Parse decodes a plan. The format is chosen by the extension of filename.
// The result is not validated.
func Parse(filename string, data []byte, vars map[string]string) (*Plan, error) {
	var p Plan

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.UnmarshalWithOptions(data, &p, yaml.DisallowUnknownField()); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrParse, filename, err)
		}
	case ".hcl":
		if err := hclsimple.Decode(filename, data, evalContext(vars), &p); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrParse, filename, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filename)
	}

	return &p, nil
}

// evalContext exposes vars as var.<name>. Values that look like integers or
// booleans are typed accordingly.
func evalContext(vars map[string]string) *hcl.EvalContext {
	values := make(map[string]cty.Value, len(vars))

	for k, v := range vars {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			values[k] = cty.NumberIntVal(i)
			continue
		}

		if b, err := strconv.ParseBool(v); err == nil {
			values[k] = cty.BoolVal(b)
			continue
		}

		values[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"var": cty.ObjectVal(values),
		},
	}
}

// ParseVars turns key=value pairs into a map.
func ParseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("%w: variable %q is not in key=value form", ErrParse, pair)
		}

		vars[strings.TrimSpace(k)] = v
	}

	return vars, nil
}
