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
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

// ParamLag is the lag of Autocorrelation. Defaults to 1.
const ParamLag = "lag"

// ParamBins is the number of ErrorHistogram bins. Defaults to 10.
const ParamBins = "bins"

// Residuals is the group transform targets minus predictions.
func Residuals(in metric.Input) ([]float64, error) {
	return errorsOf(in.Targets, in.Predictions), nil
}

// Mean is the mean of the (transformed) targets. Inside a residual group it is the bias.
func Mean(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	return metric.Scalar(stat.Mean(in.Targets, in.SampleWeight)), nil
}

// StdDev is the population standard deviation of the (transformed) targets.
func StdDev(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	return metric.Scalar(stat.PopStdDev(in.Targets, in.SampleWeight)), nil
}

// Autocorrelation is the sample autocorrelation of the (transformed) targets at the configured lag.
func Autocorrelation(in metric.Input, params metric.Parameters) (metric.Value, error) {
	lag := params.Int(ParamLag, 1)
	x := in.Targets
	if lag < 1 || lag >= len(x) {
		return metric.Value{}, fmt.Errorf("%w: lag %d for %d observations", ErrUndefined, lag, len(x))
	}
	mean := stat.Mean(x, nil)
	var num, den float64
	for i, v := range x {
		d := v - mean
		den += d * d
		if i+lag < len(x) {
			num += d * (x[i+lag] - mean)
		}
	}
	if den == 0 {
		return metric.Value{}, fmt.Errorf("%w: constant series", ErrUndefined)
	}
	return metric.Scalar(num / den), nil
}

// DirectionalAccuracy is the fraction of steps where the prediction moves in the same direction as the target.
func DirectionalAccuracy(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	n := len(in.Targets)
	if n < 2 {
		return metric.Value{}, fmt.Errorf("%w: need at least two observations", ErrUndefined)
	}
	var hit float64
	for i := 1; i < n; i++ {
		dy := in.Targets[i] - in.Targets[i-1]
		dp := in.Predictions[i] - in.Predictions[i-1]
		if sign(dy) == sign(dp) {
			hit++
		}
	}
	return metric.Scalar(hit / float64(n-1)), nil
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// ErrorHistogram counts the errors targets minus predictions in equally wide bins.
// Each cell is labelled with the lower edge of its bin.
func ErrorHistogram(in metric.Input, params metric.Parameters) (metric.Value, error) {
	bins := params.Int(ParamBins, 10)
	if bins < 1 {
		return metric.Value{}, fmt.Errorf("%w: %d bins", ErrUndefined, bins)
	}
	e := errorsOf(in.Targets, in.Predictions)
	w := in.SampleWeight
	if w != nil {
		w = append([]float64(nil), w...)
	}
	stat.SortWeighted(e, w)
	lo, hi := e[0], e[len(e)-1]
	if lo == hi {
		hi = lo + 1
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	dividers[bins] = math.Nextafter(dividers[bins], math.Inf(1))
	counts := stat.Histogram(nil, dividers, e, w)
	cells := make([]metric.Cell, bins)
	for i, c := range counts {
		cells[i] = metric.Cell{Label: strconv.FormatFloat(dividers[i], 'g', 6, 64), Value: c}
	}
	return metric.Table(cells...), nil
}
