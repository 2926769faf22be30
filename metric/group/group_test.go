//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package group

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/status"
)

func residuals(in metric.Input) ([]float64, error) {
	out := make([]float64, len(in.Targets))
	for i := range out {
		out[i] = in.Targets[i] - in.Predictions[i]
	}
	return out, nil
}

func sum(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	var s float64
	for _, x := range in.Targets {
		s += x
	}
	return metric.Scalar(s), nil
}

func count(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	return metric.Scalar(float64(len(in.Targets))), nil
}

func newChildren(t *testing.T) []*metric.Metric {
	t.Helper()
	a, err := metric.New("residual sum", sum, metric.WithCategory(metric.CategoryResiduals))
	require.NoError(t, err)
	b, err := metric.New("residual count", count, metric.WithComplexity(metric.ComplexityMedium))
	require.NoError(t, err)
	return []*metric.Metric{a, b}
}

func scalarOf(t *testing.T, m *metric.Metric) float64 {
	t.Helper()
	r, ok := m.Result()
	require.True(t, ok)
	v, err := r.Scalar()
	require.NoError(t, err)
	return v
}

func TestNew(t *testing.T) {
	g, err := New("Residual Analysis", residuals, newChildren(t))
	require.NoError(t, err)
	assert.Equal(t, "residual_analysis", g.Key())
	assert.Equal(t, metric.PurposeGroup, g.Purpose())
	assert.Equal(t, metric.CategoryResiduals, g.Category())
	assert.Equal(t, metric.ComplexityMedium, g.Complexity())
	assert.Len(t, g.Members(), 2)

	_, err = New("g", nil, newChildren(t))
	assert.Error(t, err)
	_, err = New("g", residuals, nil)
	assert.Error(t, err)
	children := newChildren(t)
	_, err = New("g", residuals, []*metric.Metric{children[0], children[0]})
	assert.Error(t, err)
}

func TestEvaluateUsesTransformedData(t *testing.T) {
	var seen []string
	post := func(_ context.Context, g *Group, in metric.Input) error {
		seen = append(seen, g.Key())
		assert.Equal(t, []float64{1, 2, 3}, in.Targets)
		return nil
	}
	g, err := New("res", residuals, newChildren(t), WithPostProcess(post))
	require.NoError(t, err)
	in := metric.Input{Targets: []float64{1, 2, 3}, Predictions: []float64{0, 0, 1}}

	require.NoError(t, g.Evaluate(context.Background(), in))
	members := g.Members()
	assert.Equal(t, 5.0, scalarOf(t, members[0]))
	assert.Equal(t, 3.0, scalarOf(t, members[1]))
	assert.Equal(t, []string{"res"}, seen)

	err = g.Evaluate(context.Background(), in)
	assert.ErrorIs(t, err, metric.ErrAlreadyEvaluated)
}

func TestEvaluateTransformFailureLeavesChildren(t *testing.T) {
	boom := errors.New("boom")
	g, err := New("res", func(metric.Input) ([]float64, error) { return nil, boom }, newChildren(t))
	require.NoError(t, err)
	in := metric.Input{Targets: []float64{1}, Predictions: []float64{1}}

	err = g.Evaluate(context.Background(), in)
	assert.ErrorIs(t, err, ErrTransform)
	assert.ErrorIs(t, err, boom)
	for _, m := range g.Members() {
		assert.Equal(t, status.EvalStatusNotEvaluated, m.Status())
	}

	panicking, err := New("res", func(metric.Input) ([]float64, error) { panic("nope") }, newChildren(t))
	require.NoError(t, err)
	assert.ErrorIs(t, panicking.Evaluate(context.Background(), in), ErrTransform)
}

func TestEvaluateChildFailureIsCaptured(t *testing.T) {
	bad, err := metric.New("bad", func(metric.Input, metric.Parameters) (metric.Value, error) {
		return metric.Value{}, errors.New("child failed")
	})
	require.NoError(t, err)
	children := append(newChildren(t), bad)
	g, err := New("res", residuals, children)
	require.NoError(t, err)

	require.NoError(t, g.Evaluate(context.Background(), metric.Input{Targets: []float64{2}, Predictions: []float64{1}}))
	assert.Equal(t, status.EvalStatusSucceeded, children[0].Status())
	assert.Equal(t, status.EvalStatusFailed, bad.Status())
}

func TestEvaluateEmptyTransformIsCapturedPerChild(t *testing.T) {
	diffs := func(in metric.Input) ([]float64, error) {
		out := make([]float64, 0, len(in.Targets))
		for i := 1; i < len(in.Targets); i++ {
			out = append(out, in.Targets[i]-in.Targets[i-1])
		}
		return out, nil
	}
	children := newChildren(t)
	g, err := New("diffs", diffs, children)
	require.NoError(t, err)

	require.NoError(t, g.Evaluate(context.Background(), metric.Input{Targets: []float64{1}, Predictions: []float64{1}}))
	for _, m := range children {
		assert.Equal(t, status.EvalStatusFailed, m.Status())
		r, ok := m.Result()
		require.True(t, ok)
		assert.ErrorIs(t, r.Err, metric.ErrInvalidInput)
	}

	fresh := children[0].Fresh()
	require.NoError(t, g.Reevaluate(context.Background(), fresh, metric.Input{Targets: []float64{1}, Predictions: []float64{1}}))
	assert.Equal(t, status.EvalStatusFailed, fresh.Status())
}

func TestEvaluatePostProcessFailures(t *testing.T) {
	boom := errors.New("boom")
	var ran []int
	first := func(context.Context, *Group, metric.Input) error {
		ran = append(ran, 1)
		return boom
	}
	second := func(context.Context, *Group, metric.Input) error {
		ran = append(ran, 2)
		return nil
	}
	children := newChildren(t)
	g, err := New("res", residuals, children, WithPostProcess(first, second))
	require.NoError(t, err)

	err = g.Evaluate(context.Background(), metric.Input{Targets: []float64{2}, Predictions: []float64{1}})
	assert.ErrorIs(t, err, ErrPostProcess)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrTransform)
	assert.Equal(t, []int{1, 2}, ran)
	assert.Equal(t, 1.0, scalarOf(t, children[0]))
}

func TestEvaluateOverTimeTransformsEachWindow(t *testing.T) {
	windows := 0
	transform := func(in metric.Input) ([]float64, error) {
		windows++
		return residuals(in)
	}
	g, err := New("res", transform, newChildren(t))
	require.NoError(t, err)
	in := metric.Input{Targets: []float64{1, 2, 3, 4, 5}, Predictions: []float64{0, 0, 0, 0, 0}}

	require.NoError(t, g.EvaluateOverTime(context.Background(), in, 2))
	assert.Equal(t, 3, windows)
	rr, ok := g.Members()[0].RollingResult()
	require.True(t, ok)
	require.Len(t, rr.Values, 3)
	want := []float64{3, 7, 5}
	for i, v := range rr.Values {
		got, err := v.Float()
		require.NoError(t, err)
		assert.Equal(t, want[i], got)
	}
}

func TestReevaluate(t *testing.T) {
	g, err := New("res", residuals, newChildren(t))
	require.NoError(t, err)
	fresh := g.Members()[0].Fresh()
	require.NoError(t, g.Reevaluate(context.Background(), fresh, metric.Input{Targets: []float64{3, 3}, Predictions: []float64{1, 1}}))
	assert.Equal(t, 4.0, scalarOf(t, fresh))
	assert.Equal(t, status.EvalStatusNotEvaluated, g.Members()[0].Status())
}

func TestStateRestore(t *testing.T) {
	g, err := New("res", residuals, newChildren(t), WithDescription("residuals"))
	require.NoError(t, err)
	require.NoError(t, g.Evaluate(context.Background(), metric.Input{Targets: []float64{2, 4}, Predictions: []float64{1, 1}}))

	restored, err := Restore(g.State())
	require.NoError(t, err)
	assert.True(t, restored.ReadOnly())
	assert.Equal(t, g.State(), restored.State())
	err = restored.Rebuild([]*metric.Metric{restored.Members()[0].Fresh()}).
		Evaluate(context.Background(), metric.Input{Targets: []float64{1}, Predictions: []float64{1}})
	assert.ErrorIs(t, err, metric.ErrReadOnly)
}
