//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package metric implements single metrics, their captured results and rolling evaluation.
package metric

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/status"
)

// Func computes a metric value. It must not modify in.
type Func func(in Input, params Parameters) (Value, error)

// FigureFunc renders a metric for presentation. The output format is up to the renderer.
type FigureFunc func(m *Metric) (string, error)

// Metric is a named, parameterized computation with write-once results.
// A Metric is owned by one caller and is not safe for concurrent mutation.
type Metric struct {
	name        string
	key         string
	description string
	category    Category
	purpose     Purpose
	params      Parameters
	restriction SampleType
	complexity  Complexity
	fn          Func
	figure      FigureFunc

	result      *Result
	rolling     *RollingResult
	comparisons []Comparison
	info        string
}

type options struct {
	key         string
	description string
	category    Category
	purpose     Purpose
	params      Parameters
	restriction SampleType
	complexity  Complexity
	figure      FigureFunc
}

// Option configures a Metric.
type Option func(*options)

// WithKey sets an explicit key instead of deriving one from the name.
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithCategory sets the display category. Defaults to CategoryCustom.
func WithCategory(c Category) Option {
	return func(o *options) {
		o.category = c
	}
}

// WithPurpose sets the purpose. Defaults to PurposeLoss.
func WithPurpose(p Purpose) Option {
	return func(o *options) {
		o.purpose = p
	}
}

// WithParameters sets the keyword arguments passed to the function.
func WithParameters(p Parameters) Option {
	return func(o *options) {
		o.params = p.Clone()
	}
}

// WithSampleRestriction limits the metric to one sample type.
func WithSampleRestriction(s SampleType) Option {
	return func(o *options) {
		o.restriction = s
	}
}

// WithComplexity sets the computational cost tag.
func WithComplexity(c Complexity) Option {
	return func(o *options) {
		o.complexity = c
	}
}

// WithDescription sets a free text description.
func WithDescription(d string) Option {
	return func(o *options) {
		o.description = d
	}
}

// WithFigure attaches a presentation hook.
func WithFigure(f FigureFunc) Option {
	return func(o *options) {
		o.figure = f
	}
}

// New creates a metric.
func New(name string, fn Func, opts ...Option) (*Metric, error) {
	if fn == nil {
		return nil, errors.New("metric: function is nil")
	}
	return build(name, fn, opts...)
}

func build(name string, fn Func, opts ...Option) (*Metric, error) {
	o := &options{
		category: CategoryCustom,
		purpose:  PurposeLoss,
	}
	for _, opt := range opts {
		opt(o)
	}
	if name == "" {
		return nil, errors.New("metric: name is empty")
	}
	key := o.key
	if key == "" {
		key = DeriveKey(name)
	}
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if o.params == nil {
		o.params = Parameters{}
	}
	if o.complexity == 0 {
		o.complexity = ComplexityCheap
	}
	return &Metric{
		name:        name,
		key:         key,
		description: o.description,
		category:    o.category,
		purpose:     o.purpose,
		params:      o.params,
		restriction: o.restriction,
		complexity:  o.complexity,
		fn:          fn,
		figure:      o.figure,
	}, nil
}

// Key returns the unique key.
func (m *Metric) Key() string { return m.key }

// Name returns the display name.
func (m *Metric) Name() string { return m.name }

// Description returns the description.
func (m *Metric) Description() string { return m.description }

// Category returns the display category.
func (m *Metric) Category() Category { return m.category }

// Purpose returns the purpose.
func (m *Metric) Purpose() Purpose { return m.purpose }

// Parameters returns a copy of the parameters.
func (m *Metric) Parameters() Parameters { return m.params.Clone() }

// SampleRestriction returns the sample type the metric is limited to.
func (m *Metric) SampleRestriction() SampleType { return m.restriction }

// Complexity returns the cost tag.
func (m *Metric) Complexity() Complexity { return m.complexity }

// Members returns the metric itself.
func (m *Metric) Members() []*Metric { return []*Metric{m} }

// Result returns the single-pass result, if any.
func (m *Metric) Result() (Result, bool) {
	if m.result == nil {
		return Result{}, false
	}
	return *m.result, true
}

// RollingResult returns the rolling result, if any.
func (m *Metric) RollingResult() (RollingResult, bool) {
	if m.rolling == nil {
		return RollingResult{}, false
	}
	return *m.rolling, true
}

// Comparisons returns a copy of the benchmark comparisons in insertion order.
func (m *Metric) Comparisons() []Comparison {
	return append([]Comparison(nil), m.comparisons...)
}

// Comparison returns the comparison with the given name.
func (m *Metric) Comparison(name string) (Comparison, bool) {
	for _, c := range m.comparisons {
		if c.Name == name {
			return c, true
		}
	}
	return Comparison{}, false
}

// AppendComparison appends benchmark entries.
func (m *Metric) AppendComparison(cs ...Comparison) {
	m.comparisons = append(m.comparisons, cs...)
}

// Info returns the annotation.
func (m *Metric) Info() string { return m.info }

// Annotate replaces the annotation.
func (m *Metric) Annotate(info string) { m.info = info }

// ReadOnly reports whether the metric was restored without a function.
func (m *Metric) ReadOnly() bool { return m.fn == nil }

// Status returns the single-pass evaluation status.
func (m *Metric) Status() status.EvalStatus {
	switch {
	case m.result == nil:
		return status.EvalStatusNotEvaluated
	case m.result.Err != nil:
		return status.EvalStatusFailed
	default:
		return status.EvalStatusSucceeded
	}
}

// RollingStatus returns the rolling evaluation status.
func (m *Metric) RollingStatus() status.EvalStatus {
	switch {
	case m.rolling == nil:
		return status.EvalStatusNotEvaluated
	case m.rolling.Err != nil:
		return status.EvalStatusFailed
	default:
		return status.EvalStatusSucceeded
	}
}

// Figure renders the metric through its presentation hook.
// It returns os.ErrNotExist wrapped when no hook is attached.
func (m *Metric) Figure() (string, error) {
	if m.figure == nil {
		return "", fmt.Errorf("metric %s: %w", m.key, errNoFigure)
	}
	return m.figure(m)
}

// HasFigure reports whether a presentation hook is attached.
func (m *Metric) HasFigure() bool { return m.figure != nil }

// Fresh returns a copy of the configuration without results, comparisons or annotation.
func (m *Metric) Fresh() *Metric {
	return &Metric{
		name:        m.name,
		key:         m.key,
		description: m.description,
		category:    m.category,
		purpose:     m.purpose,
		params:      m.params.Clone(),
		restriction: m.restriction,
		complexity:  m.complexity,
		fn:          m.fn,
		figure:      m.figure,
	}
}

// SetResult stores a single-pass result. It fails if one is already stored.
func (m *Metric) SetResult(r Result) error {
	if m.result != nil {
		return fmt.Errorf("%s: %w", m.key, ErrAlreadyEvaluated)
	}
	m.result = &r
	return nil
}

// SetRollingResult stores a rolling result. It fails if one is already stored.
func (m *Metric) SetRollingResult(r RollingResult) error {
	if m.rolling != nil {
		return fmt.Errorf("%s: %w rolling", m.key, ErrAlreadyEvaluated)
	}
	m.rolling = &r
	return nil
}

// Evaluate validates in and stores the outcome of the function.
// Function errors and panics are captured in the result, not returned.
func (m *Metric) Evaluate(ctx context.Context, in Input) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("evaluate %s: %w", m.key, err)
	}
	return m.evaluate(ctx, in)
}

// EvaluateTransformed evaluates on group-transformed data used as both targets and predictions.
// Invalid derived data, e.g. an empty series, is captured as the failure result of the metric.
func (m *Metric) EvaluateTransformed(ctx context.Context, data []float64) error {
	in := Input{Targets: data, Predictions: data}
	if err := in.Validate(); err != nil {
		if m.fn == nil {
			return fmt.Errorf("%s: %w", m.key, ErrReadOnly)
		}
		log.DebugfContext(ctx, "metric %s got invalid transformed data: %v", m.key, err)
		return m.SetResult(Failure(fmt.Errorf("transformed data: %w", err)))
	}
	return m.evaluate(ctx, in)
}

func (m *Metric) evaluate(ctx context.Context, in Input) error {
	if m.result != nil {
		return fmt.Errorf("%s: %w", m.key, ErrAlreadyEvaluated)
	}
	if m.fn == nil {
		return fmt.Errorf("%s: %w", m.key, ErrReadOnly)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	v, err := m.call(ctx, in)
	if err != nil {
		log.DebugfContext(ctx, "metric %s failed: %v", m.key, err)
		return m.SetResult(Failure(err))
	}
	return m.SetResult(Success(v))
}

// EvaluateOverTime evaluates the function on every window of in.
// The first window failure is stored as the error of the whole rolling result.
func (m *Metric) EvaluateOverTime(ctx context.Context, in Input, window int) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("evaluate %s over time: %w", m.key, err)
	}
	bounds := Windows(in.Len(), window)
	windows := make([]Input, len(bounds))
	for i, b := range bounds {
		windows[i] = in.Slice(b[0], b[1])
	}
	return m.EvaluateWindows(ctx, windows)
}

// EvaluateWindows evaluates the function on prepared windows, in order.
func (m *Metric) EvaluateWindows(ctx context.Context, windows []Input) error {
	if m.rolling != nil {
		return fmt.Errorf("%s: %w rolling", m.key, ErrAlreadyEvaluated)
	}
	if m.fn == nil {
		return fmt.Errorf("%s: %w", m.key, ErrReadOnly)
	}
	values := make([]Value, 0, len(windows))
	for i, w := range windows {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := m.call(ctx, w)
		if err != nil {
			log.DebugfContext(ctx, "metric %s failed on window %d: %v", m.key, i, err)
			return m.SetRollingResult(RollingResult{Err: Capture(fmt.Errorf("window %d: %w", i, err))})
		}
		values = append(values, v)
	}
	return m.SetRollingResult(RollingResult{Values: values})
}

// Compute runs the function on in without storing anything.
// Panics are converted into errors.
func (m *Metric) Compute(ctx context.Context, in Input) (Value, error) {
	if m.fn == nil {
		return Value{}, fmt.Errorf("%s: %w", m.key, ErrReadOnly)
	}
	return m.call(ctx, in)
}

func (m *Metric) call(ctx context.Context, in Input) (v Value, err error) {
	defer func() {
		recovered := recover()
		if recovered == nil {
			return
		}
		log.ErrorfContext(ctx, "metric %s panicked: %v\n%s", m.key, recovered, string(debug.Stack()))
		v, err = Value{}, fmt.Errorf("metric function panic: %v", recovered)
	}()
	v, err = m.fn(in, m.params)
	if err == nil && v.kind == "" {
		err = errors.New("metric function returned no value")
	}
	return v, err
}
