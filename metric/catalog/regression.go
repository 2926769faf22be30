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
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

// MSE is the (weighted) mean squared error.
func MSE(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	return metric.Scalar(mse(in)), nil
}

func mse(in metric.Input) float64 {
	e := errorsOf(in.Targets, in.Predictions)
	floats.Mul(e, e)
	return stat.Mean(e, in.SampleWeight)
}

// RMSE is the square root of MSE.
func RMSE(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	return metric.Scalar(math.Sqrt(mse(in))), nil
}

// MAE is the (weighted) mean absolute error.
func MAE(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	e := absInPlace(errorsOf(in.Targets, in.Predictions))
	return metric.Scalar(stat.Mean(e, in.SampleWeight)), nil
}

// MAPE is the (weighted) mean absolute percentage error as a fraction.
// It is undefined when a target is zero.
func MAPE(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	e := make([]float64, len(in.Targets))
	for i, y := range in.Targets {
		if y == 0 {
			return metric.Value{}, fmt.Errorf("%w: target %d is zero", ErrUndefined, i)
		}
		e[i] = math.Abs((y - in.Predictions[i]) / y)
	}
	return metric.Scalar(stat.Mean(e, in.SampleWeight)), nil
}

// SMAPE is the symmetric mean absolute percentage error as a fraction in [0, 2].
// Pairs where both target and prediction are zero contribute zero.
func SMAPE(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	e := make([]float64, len(in.Targets))
	for i, y := range in.Targets {
		p := in.Predictions[i]
		den := math.Abs(y) + math.Abs(p)
		if den == 0 {
			continue
		}
		e[i] = 2 * math.Abs(y-p) / den
	}
	return metric.Scalar(stat.Mean(e, in.SampleWeight)), nil
}

// R2 is the coefficient of determination. It is undefined for constant targets.
func R2(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	mean := stat.Mean(in.Targets, in.SampleWeight)
	var ssRes, ssTot float64
	for i, y := range in.Targets {
		w := weightAt(in.SampleWeight, i)
		r := y - in.Predictions[i]
		d := y - mean
		ssRes += w * r * r
		ssTot += w * d * d
	}
	if ssTot == 0 {
		return metric.Value{}, fmt.Errorf("%w: targets are constant", ErrUndefined)
	}
	return metric.Scalar(1 - ssRes/ssTot), nil
}

// MaxError is the largest absolute error.
func MaxError(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	return metric.Scalar(floats.Max(absInPlace(errorsOf(in.Targets, in.Predictions)))), nil
}

// MedianAbsoluteError is the median of the absolute errors.
func MedianAbsoluteError(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	return metric.Scalar(median(absInPlace(errorsOf(in.Targets, in.Predictions)))), nil
}

// ExplainedVariance is one minus the ratio of error variance to target variance.
// It is undefined for constant targets.
func ExplainedVariance(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	_, targetVar := stat.PopMeanVariance(in.Targets, in.SampleWeight)
	if targetVar == 0 {
		return metric.Value{}, fmt.Errorf("%w: targets are constant", ErrUndefined)
	}
	_, errVar := stat.PopMeanVariance(errorsOf(in.Targets, in.Predictions), in.SampleWeight)
	return metric.Scalar(1 - errVar/targetVar), nil
}

func weightAt(w []float64, i int) float64 {
	if w == nil {
		return 1
	}
	return w[i]
}
