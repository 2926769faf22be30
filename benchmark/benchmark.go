//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package benchmark compares metric results with the results of reference models.
package benchmark

import (
	"context"
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

var (
	// ErrNoReferences is returned when Calculate is called without reference models.
	ErrNoReferences = errors.New("benchmark: no reference models")
	// ErrNilMetric is returned when Calculate is called without a metric.
	ErrNilMetric = errors.New("benchmark: metric is nil")
)

// Prediction is the output of a reference model.
type Prediction struct {
	Predictions   []float64
	Probabilities [][]float64
}

// ReferenceModel is a baseline predictor. It may be stochastic and is called once per iteration.
// Predict must not modify in.
type ReferenceModel interface {
	Name() string
	Predict(ctx context.Context, in metric.Input) (*Prediction, error)
}

// Reevaluator evaluates a fresh, unevaluated copy of a metric on reference input.
type Reevaluator func(ctx context.Context, fresh *metric.Metric, in metric.Input) error

func evaluateFresh(ctx context.Context, fresh *metric.Metric, in metric.Input) error {
	return fresh.Evaluate(ctx, in)
}

// referenceInput replaces the predictions of in with those of a reference model.
func referenceInput(in metric.Input, p *Prediction) (metric.Input, error) {
	if p == nil {
		return metric.Input{}, errors.New("reference model returned no prediction")
	}
	out := metric.Input{
		Targets:       in.Targets,
		Predictions:   p.Predictions,
		Probabilities: p.Probabilities,
		SampleWeight:  in.SampleWeight,
	}
	if err := out.Validate(); err != nil {
		return metric.Input{}, fmt.Errorf("reference prediction: %w", err)
	}
	return out, nil
}
