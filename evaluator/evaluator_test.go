//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/metric/group"
	"trpc.group/trpc-go/trpc-scorecard-go/status"
)

type recordingLogger struct {
	warnings int
}

func (l *recordingLogger) Debug(...any)          {}
func (l *recordingLogger) Debugf(string, ...any) {}
func (l *recordingLogger) Info(...any)           {}
func (l *recordingLogger) Infof(string, ...any)  {}
func (l *recordingLogger) Warn(...any)           { l.warnings++ }
func (l *recordingLogger) Warnf(string, ...any)  { l.warnings++ }
func (l *recordingLogger) Error(...any)          {}
func (l *recordingLogger) Errorf(string, ...any) {}

func count(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	return metric.Scalar(float64(len(in.Targets))), nil
}

func newMetric(t *testing.T, name string, opts ...metric.Option) *metric.Metric {
	t.Helper()
	m, err := metric.New(name, count, opts...)
	require.NoError(t, err)
	return m
}

func input() metric.Input {
	return metric.Input{Targets: []float64{1, 2, 3, 4}, Predictions: []float64{1, 2, 3, 5}}
}

func TestParseCalculationType(t *testing.T) {
	got, err := ParseCalculationType(" Single ")
	require.NoError(t, err)
	assert.Equal(t, []CalculationType{CalculationSingle}, got)

	got, err = ParseCalculationType(string(CalculationRolling))
	require.NoError(t, err)
	assert.Equal(t, []CalculationType{CalculationRolling}, got)

	got, err = ParseCalculationType("BOTH")
	require.NoError(t, err)
	assert.Equal(t, []CalculationType{CalculationSingle, CalculationRolling}, got)

	_, err = ParseCalculationType("sometimes")
	assert.Error(t, err)
}

func TestRunSingleAndRolling(t *testing.T) {
	a := newMetric(t, "a")
	b := newMetric(t, "b")
	out, err := New().Run(context.Background(), Request{
		Input:            input(),
		Evaluables:       []metric.Evaluable{a, b},
		CalculationTypes: []CalculationType{CalculationSingle, CalculationRolling},
		Window:           2,
	})
	require.NoError(t, err)
	assert.Equal(t, []*metric.Metric{a, b}, out.Metrics)
	assert.Empty(t, out.Skipped)
	assert.NoError(t, out.Failures)
	for _, m := range out.Metrics {
		assert.Equal(t, status.EvalStatusSucceeded, m.Status())
		rr, ok := m.RollingResult()
		require.True(t, ok)
		assert.Len(t, rr.Values, 2)
	}
}

func TestRunRawAndTypedCalculationTypesAgree(t *testing.T) {
	parsed, err := ParseCalculationType("rolling")
	require.NoError(t, err)
	for _, types := range [][]CalculationType{parsed, {CalculationRolling}, {"Rolling"}, {" rolling", CalculationRolling}} {
		m := newMetric(t, "a")
		_, err := New().Run(context.Background(), Request{Input: input(), Evaluables: []metric.Evaluable{m}, CalculationTypes: types})
		require.NoError(t, err)
		rr, ok := m.RollingResult()
		require.True(t, ok)
		assert.Len(t, rr.Values, 3)
		assert.Equal(t, status.EvalStatusNotEvaluated, m.Status())
	}
}

func TestRunIsolatesFailingMetric(t *testing.T) {
	bad, err := metric.New("bad", func(metric.Input, metric.Parameters) (metric.Value, error) {
		return metric.Value{}, errors.New("division by zero")
	})
	require.NoError(t, err)
	good := newMetric(t, "good")

	out, err := New().Run(context.Background(), Request{Input: input(), Evaluables: []metric.Evaluable{bad, good}})
	require.NoError(t, err)
	assert.Equal(t, status.EvalStatusFailed, bad.Status())
	assert.Equal(t, status.EvalStatusSucceeded, good.Status())
	errs := out.CapturedErrors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "division by zero")
}

func TestRunIsolatesGroupTransformFailure(t *testing.T) {
	child := newMetric(t, "child")
	g, err := group.New("broken", func(metric.Input) ([]float64, error) {
		return nil, errors.New("no residuals")
	}, []*metric.Metric{child})
	require.NoError(t, err)
	good := newMetric(t, "good")
	logger := &recordingLogger{}

	out, err := New(WithLogger(logger)).Run(context.Background(), Request{
		Input:      input(),
		Evaluables: []metric.Evaluable{g, good},
	})
	require.NoError(t, err)
	require.Error(t, out.Failures)
	assert.ErrorIs(t, out.Failures, group.ErrTransform)
	assert.Equal(t, 1, logger.warnings)
	assert.Equal(t, status.EvalStatusNotEvaluated, child.Status())
	assert.Equal(t, status.EvalStatusSucceeded, good.Status())
}

func TestNormalizeCalculationTypes(t *testing.T) {
	got, err := NormalizeCalculationTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, []CalculationType{CalculationSingle}, got)

	got, err = NormalizeCalculationTypes([]CalculationType{"Single", CalculationSingle, "both"})
	require.NoError(t, err)
	assert.Equal(t, []CalculationType{CalculationSingle, CalculationRolling}, got)

	_, err = NormalizeCalculationTypes([]CalculationType{"weekly"})
	assert.Error(t, err)
}

func TestRunIsolatesGroupPostProcessFailure(t *testing.T) {
	child := newMetric(t, "child")
	boom := errors.New("hook failed")
	g, err := group.New("hooked", func(in metric.Input) ([]float64, error) {
		return in.Targets, nil
	}, []*metric.Metric{child}, group.WithPostProcess(func(context.Context, *group.Group, metric.Input) error {
		return boom
	}))
	require.NoError(t, err)
	good := newMetric(t, "good")

	out, err := New().Run(context.Background(), Request{
		Input:      input(),
		Evaluables: []metric.Evaluable{g, good},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, out.Failures, group.ErrPostProcess)
	assert.ErrorIs(t, out.Failures, boom)
	assert.Equal(t, status.EvalStatusSucceeded, child.Status())
	assert.Equal(t, status.EvalStatusSucceeded, good.Status())
}

func TestRunIsolatesEmptyTransformedData(t *testing.T) {
	child := newMetric(t, "child")
	g, err := group.New("empty", func(metric.Input) ([]float64, error) {
		return nil, nil
	}, []*metric.Metric{child})
	require.NoError(t, err)
	good := newMetric(t, "good")

	out, err := New().Run(context.Background(), Request{
		Input:      input(),
		Evaluables: []metric.Evaluable{g, good},
	})
	require.NoError(t, err)
	assert.NoError(t, out.Failures)
	assert.Equal(t, status.EvalStatusFailed, child.Status())
	assert.Equal(t, status.EvalStatusSucceeded, good.Status())
}

func TestRunRaisesMisuse(t *testing.T) {
	m := newMetric(t, "a")
	req := Request{Input: input(), Evaluables: []metric.Evaluable{m}}
	_, err := New().Run(context.Background(), req)
	require.NoError(t, err)

	_, err = New().Run(context.Background(), req)
	assert.ErrorIs(t, err, metric.ErrAlreadyEvaluated)

	_, err = New().Run(context.Background(), Request{Input: metric.Input{Targets: []float64{1}}})
	assert.ErrorIs(t, err, metric.ErrInvalidInput)

	_, err = New().Run(context.Background(), Request{Input: input(), CalculationTypes: []CalculationType{"weekly"}})
	assert.Error(t, err)
}

func TestRunSkipsBySampleTypeAndComplexity(t *testing.T) {
	insample := newMetric(t, "insample only", metric.WithSampleRestriction(metric.SampleInSample))
	expensive := newMetric(t, "expensive", metric.WithComplexity(metric.ComplexityExpensive))
	medium := newMetric(t, "medium", metric.WithComplexity(metric.ComplexityMedium))
	plain := newMetric(t, "plain")

	out, err := New(WithMaxComplexity(metric.ComplexityMedium)).Run(context.Background(), Request{
		Input:      input(),
		Evaluables: []metric.Evaluable{insample, expensive, medium, plain},
		SampleType: metric.SampleOutOfSample,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"insample_only", "expensive"}, out.Skipped)
	assert.Equal(t, []*metric.Metric{medium, plain}, out.Metrics)
	assert.Equal(t, status.EvalStatusNotEvaluated, insample.Status())

	cheap := newMetric(t, "cheap")
	other := newMetric(t, "other", metric.WithComplexity(metric.ComplexityMedium))
	out, err = New().Run(context.Background(), Request{
		Input:         input(),
		Evaluables:    []metric.Evaluable{cheap, other},
		MaxComplexity: metric.ComplexityCheap,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, out.Skipped)
}
