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

// ParamPositiveLabel names the positive class of Precision, Recall and F1. Defaults to 1.
const ParamPositiveLabel = "positive_label"

// ParamEps is the probability clipping bound of LogLoss. Defaults to 1e-15.
const ParamEps = "eps"

// Accuracy is the (weighted) fraction of exactly matching labels.
func Accuracy(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	var hit, total float64
	for i, y := range in.Targets {
		w := weightAt(in.SampleWeight, i)
		total += w
		if y == in.Predictions[i] {
			hit += w
		}
	}
	if total == 0 {
		return metric.Value{}, fmt.Errorf("%w: zero total weight", ErrUndefined)
	}
	return metric.Scalar(hit / total), nil
}

type confusion struct {
	tp, fp, fn float64
}

func countBinary(in metric.Input, params metric.Parameters) confusion {
	positive := params.Float(ParamPositiveLabel, 1)
	var c confusion
	for i, y := range in.Targets {
		w := weightAt(in.SampleWeight, i)
		p := in.Predictions[i]
		switch {
		case p == positive && y == positive:
			c.tp += w
		case p == positive:
			c.fp += w
		case y == positive:
			c.fn += w
		}
	}
	return c
}

func (c confusion) precision() (float64, error) {
	if c.tp+c.fp == 0 {
		return 0, fmt.Errorf("%w: no positive predictions", ErrUndefined)
	}
	return c.tp / (c.tp + c.fp), nil
}

func (c confusion) recall() (float64, error) {
	if c.tp+c.fn == 0 {
		return 0, fmt.Errorf("%w: no positive targets", ErrUndefined)
	}
	return c.tp / (c.tp + c.fn), nil
}

// Precision is tp / (tp + fp) for the positive label.
func Precision(in metric.Input, params metric.Parameters) (metric.Value, error) {
	p, err := countBinary(in, params).precision()
	if err != nil {
		return metric.Value{}, err
	}
	return metric.Scalar(p), nil
}

// Recall is tp / (tp + fn) for the positive label.
func Recall(in metric.Input, params metric.Parameters) (metric.Value, error) {
	r, err := countBinary(in, params).recall()
	if err != nil {
		return metric.Value{}, err
	}
	return metric.Scalar(r), nil
}

// F1 is the harmonic mean of precision and recall for the positive label.
func F1(in metric.Input, params metric.Parameters) (metric.Value, error) {
	c := countBinary(in, params)
	den := 2*c.tp + c.fp + c.fn
	if den == 0 {
		return metric.Value{}, fmt.Errorf("%w: no positive targets or predictions", ErrUndefined)
	}
	return metric.Scalar(2 * c.tp / den), nil
}

// LogLoss is the (weighted) cross-entropy of the predicted class probabilities.
// Targets are class indices into the probability columns.
func LogLoss(in metric.Input, params metric.Parameters) (metric.Value, error) {
	if in.Probabilities == nil {
		return metric.Value{}, ErrProbabilitiesRequired
	}
	eps := params.Float(ParamEps, 1e-15)
	losses := make([]float64, len(in.Targets))
	for i, y := range in.Targets {
		row := in.Probabilities[i]
		class, err := classIndex(y, len(row))
		if err != nil {
			return metric.Value{}, fmt.Errorf("row %d: %w", i, err)
		}
		p := math.Min(math.Max(row[class]/floats.Sum(row), eps), 1-eps)
		losses[i] = -math.Log(p)
	}
	return metric.Scalar(stat.Mean(losses, in.SampleWeight)), nil
}

// BrierScore is the (weighted) mean squared distance between the probability rows and the one-hot targets.
func BrierScore(in metric.Input, _ metric.Parameters) (metric.Value, error) {
	if in.Probabilities == nil {
		return metric.Value{}, ErrProbabilitiesRequired
	}
	scores := make([]float64, len(in.Targets))
	for i, y := range in.Targets {
		row := in.Probabilities[i]
		class, err := classIndex(y, len(row))
		if err != nil {
			return metric.Value{}, fmt.Errorf("row %d: %w", i, err)
		}
		var s float64
		for k, p := range row {
			d := p
			if k == class {
				d = p - 1
			}
			s += d * d
		}
		scores[i] = s
	}
	return metric.Scalar(stat.Mean(scores, in.SampleWeight)), nil
}

func classIndex(y float64, classes int) (int, error) {
	k := int(y)
	if float64(k) != y || k < 0 || k >= classes {
		return 0, fmt.Errorf("%w: target %v is not a class index below %d", ErrUndefined, y, classes)
	}
	return k, nil
}
