//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package group implements composite metrics that evaluate their children on transformed data.
package group

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/hashicorp/go-multierror"
	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

// ErrTransform is wrapped by every failure of a group transform.
var ErrTransform = errors.New("group: transform failed")

// ErrPostProcess is wrapped by every failure of a post-processor.
// Children results are already stored when it is returned.
var ErrPostProcess = errors.New("group: post-process failed")

// Transform derives the data that children are evaluated on, e.g. residuals.
// It must not modify in.
type Transform func(in metric.Input) ([]float64, error)

// PostProcess runs after all children were evaluated in a single pass, e.g. benchmarking.
type PostProcess func(ctx context.Context, g *Group, in metric.Input) error

// Group evaluates an ordered list of child metrics on the output of a shared transform.
type Group struct {
	name        string
	key         string
	description string
	category    metric.Category
	restriction metric.SampleType
	complexity  metric.Complexity
	transform   Transform
	children    []*metric.Metric
	post        []PostProcess
}

type options struct {
	key         string
	description string
	category    metric.Category
	restriction metric.SampleType
	complexity  *metric.Complexity
	post        []PostProcess
}

// Option configures a Group.
type Option func(*options)

// WithKey sets an explicit key instead of deriving one from the name.
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithCategory sets the display category. Defaults to the category of the first child.
func WithCategory(c metric.Category) Option {
	return func(o *options) {
		o.category = c
	}
}

// WithSampleRestriction limits the group to one sample type.
func WithSampleRestriction(s metric.SampleType) Option {
	return func(o *options) {
		o.restriction = s
	}
}

// WithComplexity sets the cost tag. Defaults to the highest child complexity.
func WithComplexity(c metric.Complexity) Option {
	return func(o *options) {
		o.complexity = &c
	}
}

// WithDescription sets a free text description.
func WithDescription(d string) Option {
	return func(o *options) {
		o.description = d
	}
}

// WithPostProcess appends post-processors, run in order after a single pass.
func WithPostProcess(p ...PostProcess) Option {
	return func(o *options) {
		o.post = append(o.post, p...)
	}
}

// New creates a group.
func New(name string, transform Transform, children []*metric.Metric, opts ...Option) (*Group, error) {
	if transform == nil {
		return nil, errors.New("group: transform is nil")
	}
	return build(name, transform, children, opts...)
}

func build(name string, transform Transform, children []*metric.Metric, opts ...Option) (*Group, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if name == "" {
		return nil, errors.New("group: name is empty")
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("group %s: no children", name)
	}
	key := o.key
	if key == "" {
		key = metric.DeriveKey(name)
	}
	if err := metric.ValidateKey(key); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(children))
	complexity := metric.ComplexityCheap
	for _, c := range children {
		if c == nil {
			return nil, fmt.Errorf("group %s: nil child", key)
		}
		if _, ok := seen[c.Key()]; ok {
			return nil, fmt.Errorf("group %s: duplicate child key %q", key, c.Key())
		}
		seen[c.Key()] = struct{}{}
		complexity = max(complexity, c.Complexity())
	}
	if o.complexity != nil {
		complexity = *o.complexity
	}
	category := o.category
	if category == "" {
		category = children[0].Category()
	}
	return &Group{
		name:        name,
		key:         key,
		description: o.description,
		category:    category,
		restriction: o.restriction,
		complexity:  complexity,
		transform:   transform,
		children:    append([]*metric.Metric(nil), children...),
		post:        o.post,
	}, nil
}

// Key returns the unique key.
func (g *Group) Key() string { return g.key }

// Name returns the display name.
func (g *Group) Name() string { return g.name }

// Description returns the description.
func (g *Group) Description() string { return g.description }

// Category returns the display category.
func (g *Group) Category() metric.Category { return g.category }

// Purpose is always metric.PurposeGroup.
func (g *Group) Purpose() metric.Purpose { return metric.PurposeGroup }

// SampleRestriction returns the sample type the group is limited to.
func (g *Group) SampleRestriction() metric.SampleType { return g.restriction }

// Complexity returns the cost tag.
func (g *Group) Complexity() metric.Complexity { return g.complexity }

// Members returns the children in order.
func (g *Group) Members() []*metric.Metric {
	return append([]*metric.Metric(nil), g.children...)
}

// Child returns the child with the given key.
func (g *Group) Child(key string) (*metric.Metric, bool) {
	for _, c := range g.children {
		if c.Key() == key {
			return c, true
		}
	}
	return nil, false
}

// ReadOnly reports whether the group was restored without a transform.
func (g *Group) ReadOnly() bool { return g.transform == nil }

// Evaluate transforms in and evaluates every child on the result, then runs the post-processors.
// A transform failure leaves all children untouched and is returned. Every post-processor runs
// even if an earlier one failed; their failures are returned together, each wrapping ErrPostProcess.
func (g *Group) Evaluate(ctx context.Context, in metric.Input) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("evaluate %s: %w", g.key, err)
	}
	data, err := g.apply(ctx, in)
	if err != nil {
		return err
	}
	for _, c := range g.children {
		if err := c.EvaluateTransformed(ctx, data); err != nil {
			return fmt.Errorf("group %s: %w", g.key, err)
		}
	}
	var failures *multierror.Error
	for i, p := range g.post {
		if err := p(ctx, g, in); err != nil {
			log.WarnfContext(ctx, "group %s post-process %d failed: %v", g.key, i, err)
			failures = multierror.Append(failures, fmt.Errorf("group %s post-process %d: %w: %w", g.key, i, ErrPostProcess, err))
		}
	}
	return failures.ErrorOrNil()
}

// EvaluateOverTime applies the transform to every window of in and evaluates the children on the results.
func (g *Group) EvaluateOverTime(ctx context.Context, in metric.Input, window int) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("evaluate %s over time: %w", g.key, err)
	}
	bounds := metric.Windows(in.Len(), window)
	windows := make([]metric.Input, len(bounds))
	for i, b := range bounds {
		data, err := g.apply(ctx, in.Slice(b[0], b[1]))
		if err != nil {
			return fmt.Errorf("window %d: %w", i, err)
		}
		windows[i] = metric.Input{Targets: data, Predictions: data}
	}
	for _, c := range g.children {
		if err := c.EvaluateWindows(ctx, windows); err != nil {
			return fmt.Errorf("group %s: %w", g.key, err)
		}
	}
	return nil
}

// Reevaluate evaluates a fresh copy of a child on the transform of in.
// It is used to benchmark children against reference predictions.
func (g *Group) Reevaluate(ctx context.Context, fresh *metric.Metric, in metric.Input) error {
	data, err := g.apply(ctx, in)
	if err != nil {
		return err
	}
	return fresh.EvaluateTransformed(ctx, data)
}

func (g *Group) apply(ctx context.Context, in metric.Input) (data []float64, err error) {
	if g.transform == nil {
		return nil, fmt.Errorf("group %s: %w", g.key, metric.ErrReadOnly)
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			log.ErrorfContext(ctx, "group %s transform panicked: %v\n%s", g.key, recovered, string(debug.Stack()))
			data, err = nil, fmt.Errorf("group %s: %w: panic: %v", g.key, ErrTransform, recovered)
		}
	}()
	data, err = g.transform(in)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w: %w", g.key, ErrTransform, err)
	}
	return data, nil
}

// Rebuild returns a copy of the group holding other children, e.g. results of arithmetic.
func (g *Group) Rebuild(children []*metric.Metric) *Group {
	out := *g
	out.children = append([]*metric.Metric(nil), children...)
	out.post = append([]PostProcess(nil), g.post...)
	return &out
}

var _ metric.Evaluable = (*Group)(nil)
