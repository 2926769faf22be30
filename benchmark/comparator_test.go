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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/metric/group"
)

type constantModel struct {
	name  string
	value float64
	err   error
}

func (c constantModel) Name() string { return c.name }

func (c constantModel) Predict(_ context.Context, in metric.Input) (*Prediction, error) {
	if c.err != nil {
		return nil, c.err
	}
	p := make([]float64, len(in.Targets))
	for i := range p {
		p[i] = c.value
	}
	return &Prediction{Predictions: p}, nil
}

func meanPrediction(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	var s float64
	for _, p := range in.Predictions {
		s += p
	}
	return metric.Scalar(s / float64(len(in.Predictions))), nil
}

func evaluated(t *testing.T, purpose metric.Purpose, predictions []float64) (*metric.Metric, metric.Input) {
	t.Helper()
	m, err := metric.New("mean prediction", meanPrediction, metric.WithPurpose(purpose))
	require.NoError(t, err)
	in := metric.Input{Targets: make([]float64, len(predictions)), Predictions: predictions}
	require.NoError(t, m.Evaluate(context.Background(), in))
	return m, in
}

func delta(t *testing.T, m *metric.Metric, name string) float64 {
	t.Helper()
	c, ok := m.Comparison(name)
	require.True(t, ok, name)
	require.NotNil(t, c.Value, c.Note)
	return *c.Value
}

func TestCalculateSignConvention(t *testing.T) {
	c, err := New(WithIterations(1))
	require.NoError(t, err)
	defer c.Close()
	ref := constantModel{name: "half", value: 0.5}

	objective, in := evaluated(t, metric.PurposeObjective, []float64{0.9, 0.9})
	_, err = c.Calculate(context.Background(), objective, []ReferenceModel{ref}, in)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, delta(t, objective, "Δ half"), 1e-12)

	loss, in := evaluated(t, metric.PurposeLoss, []float64{0.1, 0.1})
	_, err = c.Calculate(context.Background(), loss, []ReferenceModel{ref}, in)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, delta(t, loss, "Δ half"), 1e-12)

	_, ok := loss.Comparison("Δ half_zscore")
	assert.False(t, ok)
}

func TestCalculateZScore(t *testing.T) {
	for _, parallelism := range []int{1, 3} {
		c, err := New(WithIterations(3), WithParallelism(parallelism))
		require.NoError(t, err)
		m, in := evaluated(t, metric.PurposeObjective, []float64{0.9})
		_, err = c.Calculate(context.Background(), m, []ReferenceModel{constantModel{name: "half", value: 0.5}}, in)
		require.NoError(t, err)
		assert.InDelta(t, 0.4, delta(t, m, "Δ half"), 1e-12)
		assert.InDelta(t, math.Sqrt(3), delta(t, m, "Δ half_zscore"), 1e-9)
		require.NoError(t, c.Close())
	}
}

func TestCalculateZeroVarianceNote(t *testing.T) {
	c, err := New(WithIterations(2))
	require.NoError(t, err)
	m, in := evaluated(t, metric.PurposeObjective, []float64{0.5})
	_, err = c.Calculate(context.Background(), m, []ReferenceModel{constantModel{name: "half", value: 0.5}}, in)
	require.NoError(t, err)
	assert.InDelta(t, 0, delta(t, m, "Δ half"), 1e-12)
	z, ok := m.Comparison("Δ half_zscore")
	require.True(t, ok)
	assert.Nil(t, z.Value)
	assert.NotEmpty(t, z.Note)
}

func TestCalculateNotes(t *testing.T) {
	c, err := New(WithIterations(2))
	require.NoError(t, err)
	refs := []ReferenceModel{constantModel{name: "broken", err: errors.New("no model")}, constantModel{name: "half", value: 0.5}}

	m, in := evaluated(t, metric.PurposeObjective, []float64{0.9})
	_, err = c.Calculate(context.Background(), m, refs, in)
	require.NoError(t, err)
	broken, ok := m.Comparison("Δ broken")
	require.True(t, ok)
	assert.Nil(t, broken.Value)
	assert.Contains(t, broken.Note, "no model")
	assert.InDelta(t, 0.4, delta(t, m, "Δ half"), 1e-12)

	failing, err := metric.New("failing", func(metric.Input, metric.Parameters) (metric.Value, error) {
		return metric.Value{}, errors.New("cannot compute")
	}, metric.WithPurpose(metric.PurposeLoss))
	require.NoError(t, err)
	require.NoError(t, failing.Evaluate(context.Background(), in))
	_, err = c.Calculate(context.Background(), failing, refs, in)
	require.NoError(t, err)
	cs := failing.Comparisons()
	require.Len(t, cs, 2)
	for _, cmp := range cs {
		assert.Nil(t, cmp.Value)
		assert.Contains(t, cmp.Note, "cannot compute")
	}

	unevaluated, err := metric.New("later", meanPrediction)
	require.NoError(t, err)
	_, err = c.Calculate(context.Background(), unevaluated, refs[1:], in)
	require.NoError(t, err)
	assert.Equal(t, "metric not evaluated", unevaluated.Comparisons()[0].Note)
}

func TestCalculateSkipsIncomparable(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	m, in := evaluated(t, metric.PurposeDiagram, []float64{1})
	got, err := c.Calculate(context.Background(), m, []ReferenceModel{constantModel{name: "x"}}, in)
	require.NoError(t, err)
	assert.Same(t, m, got)
	assert.Empty(t, m.Comparisons())
}

func TestCalculateMisuse(t *testing.T) {
	c, err := New()
	require.NoError(t, err)
	m, in := evaluated(t, metric.PurposeLoss, []float64{1})
	_, err = c.Calculate(context.Background(), nil, []ReferenceModel{constantModel{name: "x"}}, in)
	assert.ErrorIs(t, err, ErrNilMetric)
	_, err = c.Calculate(context.Background(), m, nil, in)
	assert.ErrorIs(t, err, ErrNoReferences)
	_, err = c.Calculate(context.Background(), m, []ReferenceModel{constantModel{name: "x"}}, metric.Input{})
	assert.ErrorIs(t, err, metric.ErrInvalidInput)

	_, err = New(WithIterations(0))
	assert.Error(t, err)
	_, err = New(WithParallelism(-1))
	assert.Error(t, err)
	_, err = New(WithReevaluator(nil))
	assert.Error(t, err)
}

func TestForGroupUsesTransform(t *testing.T) {
	c, err := New(WithIterations(1))
	require.NoError(t, err)
	child, err := metric.New("mean residual", func(in metric.Input, _ metric.Parameters) (metric.Value, error) {
		var s float64
		for _, x := range in.Targets {
			s += x
		}
		return metric.Scalar(s / float64(len(in.Targets))), nil
	}, metric.WithPurpose(metric.PurposeObjective))
	require.NoError(t, err)
	residuals := func(in metric.Input) ([]float64, error) {
		out := make([]float64, len(in.Targets))
		for i := range out {
			out[i] = in.Targets[i] - in.Predictions[i]
		}
		return out, nil
	}
	ref := constantModel{name: "zero", value: 0}
	g, err := group.New("res", residuals, []*metric.Metric{child}, group.WithPostProcess(c.ForGroup(ref)))
	require.NoError(t, err)

	require.NoError(t, g.Evaluate(context.Background(), metric.Input{Targets: []float64{2, 4}, Predictions: []float64{1, 1}}))
	// model residual mean 2, reference residual mean 3
	assert.InDelta(t, -1, delta(t, child, "Δ zero"), 1e-12)
}

func TestCustomReevaluator(t *testing.T) {
	calls := 0
	c, err := New(WithIterations(2), WithReevaluator(func(ctx context.Context, fresh *metric.Metric, in metric.Input) error {
		calls++
		return fresh.Evaluate(ctx, in)
	}))
	require.NoError(t, err)
	m, in := evaluated(t, metric.PurposeObjective, []float64{1})
	_, err = c.Calculate(context.Background(), m, []ReferenceModel{constantModel{name: "x", value: 1}}, in)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}
