// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrNoSteps is returned when a plan has no steps.
	ErrNoSteps = errors.New("plan has no steps")
	// ErrNegativeValue is returned when a total, weight, work or iteration count is negative.
	ErrNegativeValue = errors.New("value must not be negative")
	// ErrWeightsExceedTotal is returned when the step weights add up to more than the plan total.
	ErrWeightsExceedTotal = errors.New("step weights exceed plan total")
	// ErrStepName is returned when a step has no name.
	ErrStepName = errors.New("step has no name")
	// ErrInvalidDelay is returned when a delay is not a valid duration.
	ErrInvalidDelay = errors.New("invalid delay")
	// ErrAmbiguousStep is returned when a step mixes children, work and iterations.
	ErrAmbiguousStep = errors.New("step must have only one of steps, work or iterations")
	// ErrUnboundedWithoutIterations is returned when an unbounded step has no iterations.
	ErrUnboundedWithoutIterations = errors.New("unbounded step needs iterations")
)

// Plan is the root of a simulated workload.
type Plan struct {
	Name  string  `yaml:"name"            json:"name"            hcl:"name,optional"  docdesc:"Name of the plan, reported as the task name"`
	Total int     `yaml:"total,omitempty" json:"total,omitempty" hcl:"total,optional" docdesc:"Ticks shared by the steps. Defaults to the sum of the step weights"`
	Steps []*Step `yaml:"steps"           json:"steps"           hcl:"step,block"     docdesc:"Steps run in order"`
}

// Step is one node of a plan.
type Step struct {
	Name string `yaml:"name" json:"name" hcl:"name,label" docdesc:"Name of the step"`
	// Weight is the share of the parent this step consumes.
	Weight int `yaml:"weight,omitempty" json:"weight" hcl:"weight,optional" docdesc:"Ticks of the parent this step consumes"`
	// Work is the number of ticks a leaf step reports, one per delay.
	Work int `yaml:"work,omitempty" json:"work,omitempty" hcl:"work,optional" docdesc:"Number of units of work, each taking one delay"`
	// Iterations makes the step a loop with one sub-tracker per iteration.
	Iterations int `yaml:"iterations,omitempty" json:"iterations,omitempty" hcl:"iterations,optional" docdesc:"Number of loop iterations, each taking one delay"`
	// Unbounded loops pretend not to know their iteration count.
	Unbounded bool `yaml:"unbounded,omitempty" json:"unbounded,omitempty" hcl:"unbounded,optional" docdesc:"Report the loop as if its length were unknown"`
	// Delay is the simulated duration of one tick or iteration.
	Delay string `yaml:"delay,omitempty" json:"delay,omitempty" hcl:"delay,optional" docdesc:"Duration of one unit of work or iteration, such as 100ms"`
	// SubTask replaces Name as the subtask label.
	SubTask string `yaml:"subtask,omitempty" json:"subtask,omitempty" hcl:"subtask,optional" docdesc:"Subtask label, numbered per iteration for loops"`
	// Skip leaves the step out and gives its weight to the following steps.
	Skip bool `yaml:"skip,omitempty" json:"skip,omitempty" hcl:"skip,optional" docdesc:"Leave the step out and share its weight among the following steps"`
	// Uncancelable steps are created without a cancellation check.
	Uncancelable bool    `yaml:"uncancelable,omitempty" json:"uncancelable,omitempty" hcl:"uncancelable,optional" docdesc:"Ignore cancellation requests while the step runs"`
	Steps        []*Step `yaml:"steps,omitempty"        json:"steps,omitempty"        hcl:"step,block"            docdesc:"Child steps sharing the weight of this step"`
}

// TotalWork returns the declared total, or the sum of the step weights if none
// was declared.
func (p *Plan) TotalWork() int {
	if p.Total > 0 {
		return p.Total
	}

	return sumWeights(p.Steps)
}

// Validate reports every problem found in the plan.
func (p *Plan) Validate() error {
	var result *multierror.Error

	if p.Total < 0 {
		result = multierror.Append(result, fmt.Errorf("total: %w", ErrNegativeValue))
	}

	if len(p.Steps) == 0 {
		result = multierror.Append(result, ErrNoSteps)
	}

	if sum := sumWeights(p.Steps); p.Total > 0 && sum > p.Total {
		result = multierror.Append(result, fmt.Errorf("%w: %d > %d", ErrWeightsExceedTotal, sum, p.Total))
	}

	for _, s := range p.Steps {
		result = multierror.Append(result, s.validate(""))
	}

	return result.ErrorOrNil()
}

func (s *Step) validate(parent string) error {
	var result *multierror.Error

	if s == nil {
		return nil
	}

	path := joinPath(parent, s.Name)

	if s.Name == "" {
		result = multierror.Append(result, fmt.Errorf("%s: %w", path, ErrStepName))
	}

	for _, f := range []struct {
		name  string
		value int
	}{
		{"weight", s.Weight},
		{"work", s.Work},
		{"iterations", s.Iterations},
	} {
		if f.value < 0 {
			result = multierror.Append(result, fmt.Errorf("%s: %s: %w", path, f.name, ErrNegativeValue))
		}
	}

	if _, err := s.delay(); err != nil {
		result = multierror.Append(result, fmt.Errorf("%s: %w", path, err))
	}

	kinds := 0

	for _, set := range []bool{len(s.Steps) > 0, s.Work > 0, s.Iterations > 0} {
		if set {
			kinds++
		}
	}

	if kinds > 1 {
		result = multierror.Append(result, fmt.Errorf("%s: %w", path, ErrAmbiguousStep))
	}

	if s.Unbounded && s.Iterations == 0 {
		result = multierror.Append(result, fmt.Errorf("%s: %w", path, ErrUnboundedWithoutIterations))
	}

	for _, child := range s.Steps {
		result = multierror.Append(result, child.validate(path))
	}

	return result.ErrorOrNil()
}

func (s *Step) delay() (time.Duration, error) {
	if s.Delay == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s.Delay)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidDelay, s.Delay, err)
	}

	if d < 0 {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidDelay, s.Delay, ErrNegativeValue)
	}

	return d, nil
}

func (s *Step) label() string {
	if s.SubTask != "" {
		return s.SubTask
	}

	return s.Name
}

func sumWeights(steps []*Step) int {
	sum := 0

	for _, s := range steps {
		if s != nil {
			sum += max(s.Weight, 0)
		}
	}

	return sum
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + "/" + name
}
