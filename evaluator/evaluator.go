//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package evaluator runs single and rolling evaluations over a collection of metrics and groups.
package evaluator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	istatus "trpc.group/trpc-go/trpc-scorecard-go/internal/status"
	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/metric/group"
	"trpc.group/trpc-go/trpc-scorecard-go/status"
	"trpc.group/trpc-go/trpc-scorecard-go/telemetry"
)

// CalculationType selects single-pass or rolling evaluation.
type CalculationType string

const (
	// CalculationSingle evaluates every metric once on the whole input.
	CalculationSingle CalculationType = "single"
	// CalculationRolling evaluates every metric per window, see metric.Windows.
	CalculationRolling CalculationType = "rolling"
)

// ParseCalculationType resolves a raw calculation type. Matching ignores case and surrounding
// spaces, and "both" resolves to single followed by rolling.
func ParseCalculationType(s string) ([]CalculationType, error) {
	switch CalculationType(strings.ToLower(strings.TrimSpace(s))) {
	case CalculationSingle:
		return []CalculationType{CalculationSingle}, nil
	case CalculationRolling:
		return []CalculationType{CalculationRolling}, nil
	case "both":
		return []CalculationType{CalculationSingle, CalculationRolling}, nil
	default:
		return nil, fmt.Errorf("unknown calculation type %q", s)
	}
}

// NormalizeCalculationTypes resolves every type the way ParseCalculationType does and drops
// repeats, keeping the first occurrence. An empty list resolves to single.
func NormalizeCalculationTypes(types []CalculationType) ([]CalculationType, error) {
	if len(types) == 0 {
		return []CalculationType{CalculationSingle}, nil
	}
	out := make([]CalculationType, 0, len(types))
	for _, raw := range types {
		parsed, err := ParseCalculationType(string(raw))
		if err != nil {
			return nil, err
		}
		for _, t := range parsed {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

// Request describes one run.
type Request struct {
	Input      metric.Input
	Evaluables []metric.Evaluable
	// CalculationTypes defaults to single.
	CalculationTypes []CalculationType
	// Window is the rolling window size; zero or less means expanding windows.
	Window int
	// SampleType is the declared sample type of the input.
	SampleType metric.SampleType
	// MaxComplexity overrides the evaluator limit when set.
	MaxComplexity metric.Complexity
}

// Outcome is the result of a run.
type Outcome struct {
	// Metrics are the evaluated metrics, group children flattened in order.
	Metrics []*metric.Metric
	// Skipped are the keys of evaluables left out by sample type or complexity.
	Skipped []string
	// Failures accumulates group transform and post-process failures. Nil when there were none.
	Failures error
}

// CapturedErrors returns one error per captured metric failure.
func (o *Outcome) CapturedErrors() []error {
	var errs []error
	for _, m := range o.Metrics {
		if r, ok := m.Result(); ok && r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", m.Key(), r.Err))
		}
		if r, ok := m.RollingResult(); ok && r.Err != nil {
			errs = append(errs, fmt.Errorf("%s rolling: %w", m.Key(), r.Err))
		}
	}
	return errs
}

type options struct {
	logger        log.Logger
	maxComplexity metric.Complexity
}

// Option configures an Evaluator.
type Option func(*options)

// WithLogger sets the logger. Defaults to log.Default.
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMaxComplexity skips metrics above c. Defaults to metric.ComplexityExpensive.
func WithMaxComplexity(c metric.Complexity) Option {
	return func(o *options) {
		o.maxComplexity = c
	}
}

// Evaluator dispatches evaluations.
type Evaluator struct {
	logger        log.Logger
	maxComplexity metric.Complexity
}

// New creates an evaluator.
func New(opts ...Option) *Evaluator {
	o := &options{
		logger:        log.Default,
		maxComplexity: metric.ComplexityExpensive,
	}
	for _, opt := range opts {
		opt(o)
	}
	return &Evaluator{logger: o.logger, maxComplexity: o.maxComplexity}
}

// Run evaluates every applicable evaluable for every requested calculation type.
//
// Input validation failures and re-evaluation are returned. Failing metric functions are
// captured in the metric results. A failing group transform is logged and collected in
// Outcome.Failures, and the remaining evaluables still run.
func (e *Evaluator) Run(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Input.Validate(); err != nil {
		return nil, err
	}
	types, err := NormalizeCalculationTypes(req.CalculationTypes)
	if err != nil {
		return nil, err
	}
	limit := e.maxComplexity
	if req.MaxComplexity != 0 {
		limit = req.MaxComplexity
	}

	out := &Outcome{}
	var selected []metric.Evaluable
	for _, ev := range req.Evaluables {
		if ev == nil {
			return nil, errors.New("evaluator: nil evaluable")
		}
		switch {
		case !ev.SampleRestriction().Allows(req.SampleType):
			e.logger.Debugf("skip %s: restricted to %s, input is %s", ev.Key(), ev.SampleRestriction(), req.SampleType)
			out.Skipped = append(out.Skipped, ev.Key())
		case ev.Complexity() > limit:
			e.logger.Debugf("skip %s: complexity %s above %s", ev.Key(), ev.Complexity(), limit)
			out.Skipped = append(out.Skipped, ev.Key())
		default:
			selected = append(selected, ev)
		}
	}

	var failures *multierror.Error
	for _, t := range types {
		for _, ev := range selected {
			start := time.Now()
			err := e.dispatch(ctx, t, ev, req)
			telemetry.ReportEvaluation(ctx, telemetry.EvaluationAttributes{
				Key:         ev.Key(),
				Calculation: string(t),
				Status:      summarize(t, ev).String(),
				Error:       err,
			}, time.Since(start))
			if err == nil {
				continue
			}
			if !errors.Is(err, group.ErrTransform) && !errors.Is(err, group.ErrPostProcess) {
				return nil, err
			}
			e.logger.Warnf("%s evaluation of %s failed: %v", t, ev.Key(), err)
			failures = multierror.Append(failures, fmt.Errorf("%s %s: %w", ev.Key(), t, err))
		}
	}
	for _, ev := range selected {
		out.Metrics = append(out.Metrics, ev.Members()...)
	}
	out.Failures = failures.ErrorOrNil()
	return out, nil
}

func (e *Evaluator) dispatch(ctx context.Context, t CalculationType, ev metric.Evaluable, req Request) error {
	if t == CalculationRolling {
		return ev.EvaluateOverTime(ctx, req.Input, req.Window)
	}
	return ev.Evaluate(ctx, req.Input)
}

func summarize(t CalculationType, ev metric.Evaluable) status.EvalStatus {
	members := ev.Members()
	statuses := make([]status.EvalStatus, len(members))
	for i, m := range members {
		if t == CalculationRolling {
			statuses[i] = m.RollingStatus()
		} else {
			statuses[i] = m.Status()
		}
	}
	s, err := istatus.Summarize(statuses)
	if err != nil {
		return status.EvalStatusUnknown
	}
	return s
}
