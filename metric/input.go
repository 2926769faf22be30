//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package metric

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Number is the set of element types accepted by NewInput.
type Number interface {
	constraints.Integer | constraints.Float
}

// Input holds the series a metric is evaluated on.
// Probabilities has one row per observation and one column per class.
// Metric functions must treat Input as read-only.
type Input struct {
	Targets       []float64
	Predictions   []float64
	Probabilities [][]float64
	SampleWeight  []float64
}

// InputOption configures optional series of an Input.
type InputOption func(*Input)

// WithProbabilities sets the predicted class probabilities.
func WithProbabilities(p [][]float64) InputOption {
	return func(in *Input) {
		in.Probabilities = p
	}
}

// WithSampleWeight sets per-observation weights.
func WithSampleWeight(w []float64) InputOption {
	return func(in *Input) {
		in.SampleWeight = w
	}
}

// NewInput converts integer or floating point targets and predictions into an Input.
// The returned input owns freshly allocated series and is validated.
func NewInput[T Number](targets, predictions []T, opts ...InputOption) (Input, error) {
	in := Input{
		Targets:     toFloats(targets),
		Predictions: toFloats(predictions),
	}
	for _, o := range opts {
		o(&in)
	}
	in.Probabilities = copyMatrix(in.Probabilities)
	in.SampleWeight = copyFloats(in.SampleWeight)
	if err := in.Validate(); err != nil {
		return Input{}, err
	}
	return in, nil
}

func toFloats[T Number](xs []T) []float64 {
	if xs == nil {
		return nil
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// Len returns the number of observations.
func (in Input) Len() int {
	return len(in.Targets)
}

// Validate checks the preconditions shared by every metric.
func (in Input) Validate() error {
	if in.Targets == nil || in.Predictions == nil {
		return fmt.Errorf("%w: targets and predictions are required", ErrInvalidInput)
	}
	n := len(in.Targets)
	if n == 0 {
		return fmt.Errorf("%w: empty series", ErrInvalidInput)
	}
	if len(in.Predictions) != n {
		return fmt.Errorf("%w: %d targets but %d predictions", ErrInvalidInput, n, len(in.Predictions))
	}
	if in.Probabilities != nil {
		if len(in.Probabilities) != n {
			return fmt.Errorf("%w: %d targets but %d probability rows", ErrInvalidInput, n, len(in.Probabilities))
		}
		width := len(in.Probabilities[0])
		for i, row := range in.Probabilities {
			if len(row) == 0 || len(row) != width {
				return fmt.Errorf("%w: probability row %d has %d columns, want %d", ErrInvalidInput, i, len(row), width)
			}
		}
	}
	if in.SampleWeight != nil {
		if len(in.SampleWeight) != n {
			return fmt.Errorf("%w: %d targets but %d sample weights", ErrInvalidInput, n, len(in.SampleWeight))
		}
		for i, w := range in.SampleWeight {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%w: sample weight %d is %v", ErrInvalidInput, i, w)
			}
		}
	}
	return nil
}

// Slice returns the observations [lo, hi) without copying.
func (in Input) Slice(lo, hi int) Input {
	out := Input{
		Targets:     in.Targets[lo:hi],
		Predictions: in.Predictions[lo:hi],
	}
	if in.Probabilities != nil {
		out.Probabilities = in.Probabilities[lo:hi]
	}
	if in.SampleWeight != nil {
		out.SampleWeight = in.SampleWeight[lo:hi]
	}
	return out
}

// Clone returns a deep copy.
func (in Input) Clone() Input {
	return Input{
		Targets:       copyFloats(in.Targets),
		Predictions:   copyFloats(in.Predictions),
		Probabilities: copyMatrix(in.Probabilities),
		SampleWeight:  copyFloats(in.SampleWeight),
	}
}

func copyFloats(xs []float64) []float64 {
	if xs == nil {
		return nil
	}
	return append([]float64(nil), xs...)
}

func copyMatrix(m [][]float64) [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = copyFloats(row)
	}
	return out
}
