//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package catalog holds the formulas of the predefined metrics.
//
// Every formula is a metric.Func. Functions return an error instead of a
// meaningless number when the input does not support the metric, e.g. MAPE on
// zero targets, and the error is captured by the metric that wraps them.
package catalog

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrUndefined is returned when a metric is mathematically undefined for the input.
	ErrUndefined = errors.New("catalog: metric undefined for input")
	// ErrProbabilitiesRequired is returned by metrics that need predicted probabilities.
	ErrProbabilitiesRequired = errors.New("catalog: probabilities required")
)

// errorsOf returns targets minus predictions.
func errorsOf(targets, predictions []float64) []float64 {
	out := make([]float64, len(targets))
	floats.SubTo(out, targets, predictions)
	return out
}

func absInPlace(xs []float64) []float64 {
	for i, x := range xs {
		xs[i] = math.Abs(x)
	}
	return xs
}

func median(xs []float64) float64 {
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
