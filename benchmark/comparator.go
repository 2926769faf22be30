//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package benchmark

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"gonum.org/v1/gonum/stat"
	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/metric/group"
)

const (
	defaultIterations  = 10
	defaultParallelism = 1
)

type options struct {
	iterations  int
	parallelism int
	reevaluate  Reevaluator
}

// Option configures a Comparator.
type Option func(*options)

// WithIterations sets how many times each reference model is evaluated. Defaults to 10.
func WithIterations(n int) Option {
	return func(o *options) {
		o.iterations = n
	}
}

// WithParallelism sets how many iterations run at once. Defaults to 1, which runs them in order.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithReevaluator replaces how a fresh metric copy is evaluated on reference input.
func WithReevaluator(r Reevaluator) Option {
	return func(o *options) {
		o.reevaluate = r
	}
}

// Comparator computes benchmark deltas and z-scores.
type Comparator struct {
	iterations  int
	parallelism int
	reevaluate  Reevaluator
	pool        *ants.PoolWithFunc
}

// New creates a comparator.
func New(opts ...Option) (*Comparator, error) {
	o := &options{
		iterations:  defaultIterations,
		parallelism: defaultParallelism,
		reevaluate:  evaluateFresh,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.iterations <= 0 {
		return nil, fmt.Errorf("benchmark: iterations must be greater than 0, got %d", o.iterations)
	}
	if o.parallelism <= 0 {
		return nil, fmt.Errorf("benchmark: parallelism must be greater than 0, got %d", o.parallelism)
	}
	if o.reevaluate == nil {
		return nil, errors.New("benchmark: reevaluator is nil")
	}
	c := &Comparator{
		iterations:  o.iterations,
		parallelism: o.parallelism,
		reevaluate:  o.reevaluate,
	}
	if c.parallelism > 1 {
		pool, err := createIterationPool(c.parallelism)
		if err != nil {
			return nil, err
		}
		c.pool = pool
	}
	return c, nil
}

// Iterations returns the number of evaluations per reference model.
func (c *Comparator) Iterations() int { return c.iterations }

// Close releases the worker pool.
func (c *Comparator) Close() error {
	if c.pool != nil {
		c.pool.Release()
		c.pool = nil
	}
	return nil
}

// Calculate appends one delta, and a z-score when iterations > 1, per reference model
// to the comparisons of m and returns m.
//
// A positive delta always means the model did better than the reference. Comparisons that
// cannot be computed are recorded as notes. Metrics of group or diagram purpose are returned
// unchanged.
func (c *Comparator) Calculate(
	ctx context.Context,
	m *metric.Metric,
	refs []ReferenceModel,
	in metric.Input,
) (*metric.Metric, error) {
	return c.calculate(ctx, m, refs, in, c.reevaluate)
}

// ForGroup returns a post-processor that benchmarks every child of a group through the group transform.
func (c *Comparator) ForGroup(refs ...ReferenceModel) group.PostProcess {
	return func(ctx context.Context, g *group.Group, in metric.Input) error {
		for _, child := range g.Members() {
			if _, err := c.calculate(ctx, child, refs, in, g.Reevaluate); err != nil {
				return err
			}
		}
		return nil
	}
}

func (c *Comparator) calculate(
	ctx context.Context,
	m *metric.Metric,
	refs []ReferenceModel,
	in metric.Input,
	reevaluate Reevaluator,
) (*metric.Metric, error) {
	if m == nil {
		return nil, ErrNilMetric
	}
	if len(refs) == 0 {
		return nil, ErrNoReferences
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("benchmark %s: %w", m.Key(), err)
	}
	if !m.Purpose().Comparable() {
		return m, nil
	}
	actual, note := actualValue(m)
	if note != "" {
		for _, ref := range refs {
			m.AppendComparison(metric.NoteComparison(metric.DeltaName(ref.Name()), "%s", note))
		}
		return m, nil
	}
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bench, err := c.distribution(ctx, m, ref, in, reevaluate)
		if err != nil {
			log.DebugfContext(ctx, "benchmark %s against %s failed: %v", m.Key(), ref.Name(), err)
			m.AppendComparison(metric.NoteComparison(metric.DeltaName(ref.Name()), "benchmark failed: %v", err))
			continue
		}
		m.AppendComparison(c.compare(m.Purpose(), ref.Name(), actual, bench)...)
	}
	return m, nil
}

func actualValue(m *metric.Metric) (float64, string) {
	r, ok := m.Result()
	switch {
	case !ok:
		return 0, "metric not evaluated"
	case r.Err != nil:
		return 0, "metric failed: " + r.Err.Message
	case !r.Value.IsScalar():
		return 0, fmt.Sprintf("metric result is a %s, not a scalar", r.Value.Kind())
	}
	v, _ := r.Value.Float()
	return v, ""
}

func (c *Comparator) compare(purpose metric.Purpose, model string, actual float64, bench []float64) []metric.Comparison {
	mean := stat.Mean(bench, nil)
	delta := actual - mean
	if purpose == metric.PurposeLoss {
		delta = mean - actual
	}
	out := []metric.Comparison{metric.NumericComparison(metric.DeltaName(model), delta)}
	if c.iterations <= 1 {
		return out
	}
	pooled := append(append(make([]float64, 0, len(bench)+1), bench...), actual)
	mu, sigma := stat.Mean(pooled, nil), stat.PopStdDev(pooled, nil)
	if sigma == 0 {
		return append(out, metric.NoteComparison(metric.ZScoreName(model), "zero variance in benchmark distribution"))
	}
	return append(out, metric.NumericComparison(metric.ZScoreName(model), (actual-mu)/sigma))
}

// distribution evaluates fresh copies of m on the predictions of ref, once per iteration.
func (c *Comparator) distribution(
	ctx context.Context,
	m *metric.Metric,
	ref ReferenceModel,
	in metric.Input,
	reevaluate Reevaluator,
) ([]float64, error) {
	tasks := make([]*iterationTask, c.iterations)
	var wg sync.WaitGroup
	for i := range tasks {
		tasks[i] = &iterationTask{
			ctx:        ctx,
			metric:     m,
			ref:        ref,
			in:         in,
			reevaluate: reevaluate,
			wg:         &wg,
		}
		wg.Add(1)
		if c.pool == nil {
			tasks[i].run()
			continue
		}
		if err := c.pool.Invoke(tasks[i]); err != nil {
			wg.Done()
			tasks[i].err = fmt.Errorf("submit iteration %d: %w", i, err)
		}
	}
	wg.Wait()
	bench := make([]float64, len(tasks))
	for i, t := range tasks {
		if t.err != nil {
			return nil, t.err
		}
		bench[i] = t.value
	}
	return bench, nil
}
