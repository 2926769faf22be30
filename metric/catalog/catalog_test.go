//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

func scalar(t *testing.T, fn metric.Func, in metric.Input, params metric.Parameters) float64 {
	t.Helper()
	v, err := fn(in, params)
	require.NoError(t, err)
	f, err := v.Float()
	require.NoError(t, err)
	return f
}

func TestRegressionMetrics(t *testing.T) {
	in := metric.Input{
		Targets:     []float64{3, -0.5, 2, 7},
		Predictions: []float64{2.5, 0, 2, 8},
	}
	assert.InDelta(t, 0.375, scalar(t, MSE, in, nil), 1e-12)
	assert.InDelta(t, math.Sqrt(0.375), scalar(t, RMSE, in, nil), 1e-12)
	assert.InDelta(t, 0.5, scalar(t, MAE, in, nil), 1e-12)
	assert.InDelta(t, 0.9486081370449679, scalar(t, R2, in, nil), 1e-12)
	assert.InDelta(t, 1.0, scalar(t, MaxError, in, nil), 1e-12)
	assert.InDelta(t, 0.5, scalar(t, MedianAbsoluteError, in, nil), 1e-12)
	assert.InDelta(t, 0.9571734475374732, scalar(t, ExplainedVariance, in, nil), 1e-12)
}

func TestWeightedMSE(t *testing.T) {
	in := metric.Input{
		Targets:      []float64{1, 2},
		Predictions:  []float64{2, 2},
		SampleWeight: []float64{3, 1},
	}
	assert.InDelta(t, 0.75, scalar(t, MSE, in, nil), 1e-12)
}

func TestPercentageErrors(t *testing.T) {
	in := metric.Input{Targets: []float64{100, 200}, Predictions: []float64{110, 180}}
	assert.InDelta(t, 0.1, scalar(t, MAPE, in, nil), 1e-12)
	assert.InDelta(t, (2*10.0/210+2*20.0/380)/2, scalar(t, SMAPE, in, nil), 1e-12)

	_, err := MAPE(metric.Input{Targets: []float64{0, 1}, Predictions: []float64{1, 1}}, nil)
	assert.ErrorIs(t, err, ErrUndefined)
	assert.Equal(t, 0.0, scalar(t, SMAPE, metric.Input{Targets: []float64{0}, Predictions: []float64{0}}, nil))
}

func TestUndefinedOnConstantTargets(t *testing.T) {
	in := metric.Input{Targets: []float64{1, 1, 1}, Predictions: []float64{1, 2, 3}}
	_, err := R2(in, nil)
	assert.ErrorIs(t, err, ErrUndefined)
	_, err = ExplainedVariance(in, nil)
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestClassificationMetrics(t *testing.T) {
	in := metric.Input{
		Targets:     []float64{1, 0, 1, 1, 0, 0},
		Predictions: []float64{1, 1, 0, 1, 0, 0},
	}
	assert.InDelta(t, 4.0/6, scalar(t, Accuracy, in, nil), 1e-12)
	assert.InDelta(t, 2.0/3, scalar(t, Precision, in, nil), 1e-12)
	assert.InDelta(t, 2.0/3, scalar(t, Recall, in, nil), 1e-12)
	assert.InDelta(t, 2.0/3, scalar(t, F1, in, nil), 1e-12)

	zero := metric.Parameters{ParamPositiveLabel: 0}
	assert.InDelta(t, 2.0/3, scalar(t, Precision, in, zero), 1e-12)

	_, err := Precision(metric.Input{Targets: []float64{1}, Predictions: []float64{0}}, nil)
	assert.ErrorIs(t, err, ErrUndefined)
	_, err = Recall(metric.Input{Targets: []float64{0}, Predictions: []float64{1}}, nil)
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestProbabilisticMetrics(t *testing.T) {
	in := metric.Input{
		Targets:       []float64{0, 1},
		Predictions:   []float64{0, 1},
		Probabilities: [][]float64{{0.8, 0.2}, {0.4, 0.6}},
	}
	assert.InDelta(t, -(math.Log(0.8)+math.Log(0.6))/2, scalar(t, LogLoss, in, nil), 1e-12)
	assert.InDelta(t, (0.08+0.32)/2, scalar(t, BrierScore, in, nil), 1e-12)

	_, err := LogLoss(metric.Input{Targets: []float64{1}, Predictions: []float64{1}}, nil)
	assert.ErrorIs(t, err, ErrProbabilitiesRequired)
	_, err = BrierScore(metric.Input{Targets: []float64{2}, Predictions: []float64{1}, Probabilities: [][]float64{{0.5, 0.5}}}, nil)
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestResidualMetrics(t *testing.T) {
	res, err := Residuals(metric.Input{Targets: []float64{3, 1, 4}, Predictions: []float64{1, 1, 1}})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0, 3}, res)

	in := metric.Input{Targets: res, Predictions: res}
	assert.InDelta(t, 5.0/3, scalar(t, Mean, in, nil), 1e-12)
	assert.InDelta(t, math.Sqrt(14.0/9), scalar(t, StdDev, in, nil), 1e-12)

	series := metric.Input{Targets: []float64{1, 2, 3, 4}, Predictions: []float64{1, 2, 3, 4}}
	assert.InDelta(t, 0.25, scalar(t, Autocorrelation, series, nil), 1e-12)
	_, err = Autocorrelation(series, metric.Parameters{ParamLag: 4})
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestDirectionalAccuracy(t *testing.T) {
	in := metric.Input{Targets: []float64{1, 2, 1, 3}, Predictions: []float64{0, 1, 2, 3}}
	assert.InDelta(t, 2.0/3, scalar(t, DirectionalAccuracy, in, nil), 1e-12)
	_, err := DirectionalAccuracy(metric.Input{Targets: []float64{1}, Predictions: []float64{1}}, nil)
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestErrorHistogram(t *testing.T) {
	in := metric.Input{Targets: []float64{0, 1, 2, 3}, Predictions: []float64{0, 0, 0, 0}}
	v, err := ErrorHistogram(in, metric.Parameters{ParamBins: 2})
	require.NoError(t, err)
	cells := v.Cells()
	require.Len(t, cells, 2)
	assert.Equal(t, "0", cells[0].Label)
	assert.Equal(t, 2.0, cells[0].Value)
	assert.Equal(t, 2.0, cells[1].Value)

	_, err = ErrorHistogram(in, metric.Parameters{ParamBins: 0})
	assert.ErrorIs(t, err, ErrUndefined)
}
