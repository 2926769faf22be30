//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package reference provides the baseline models benchmarks compare against.
package reference

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"
	"trpc.group/trpc-go/trpc-scorecard-go/benchmark"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

// Names of the reference models.
const (
	NameNoSkill       = "no_skill"
	NamePersistence   = "persistence"
	NameRandom        = "random"
	NamePerfect       = "perfect"
	NameMajorityClass = "majority_class"
)

// NoSkill predicts the (weighted) mean of the targets for every observation.
// With probabilities it predicts the class frequencies.
type NoSkill struct{}

// Name implements benchmark.ReferenceModel.
func (NoSkill) Name() string { return NameNoSkill }

// Predict implements benchmark.ReferenceModel.
func (NoSkill) Predict(_ context.Context, in metric.Input) (*benchmark.Prediction, error) {
	mean := stat.Mean(in.Targets, in.SampleWeight)
	out := &benchmark.Prediction{Predictions: constant(len(in.Targets), mean)}
	if in.Probabilities != nil {
		freq, err := frequencies(in.Targets, in.SampleWeight, classes(in))
		if err != nil {
			return nil, err
		}
		out.Probabilities = make([][]float64, len(in.Targets))
		for i := range out.Probabilities {
			out.Probabilities[i] = append([]float64(nil), freq...)
		}
	}
	return out, nil
}

// Persistence predicts the previous target, the naive lag-1 forecast.
// The first observation is predicted as itself.
type Persistence struct{}

// Name implements benchmark.ReferenceModel.
func (Persistence) Name() string { return NamePersistence }

// Predict implements benchmark.ReferenceModel.
func (Persistence) Predict(_ context.Context, in metric.Input) (*benchmark.Prediction, error) {
	n := len(in.Targets)
	pred := make([]float64, n)
	if n > 0 {
		pred[0] = in.Targets[0]
		copy(pred[1:], in.Targets[:n-1])
	}
	out := &benchmark.Prediction{Predictions: pred}
	if in.Probabilities != nil {
		probs, err := oneHot(pred, classes(in))
		if err != nil {
			return nil, err
		}
		out.Probabilities = probs
	}
	return out, nil
}

// Perfect predicts the targets.
type Perfect struct{}

// Name implements benchmark.ReferenceModel.
func (Perfect) Name() string { return NamePerfect }

// Predict implements benchmark.ReferenceModel.
func (Perfect) Predict(_ context.Context, in metric.Input) (*benchmark.Prediction, error) {
	out := &benchmark.Prediction{Predictions: append([]float64(nil), in.Targets...)}
	if in.Probabilities != nil {
		probs, err := oneHot(in.Targets, classes(in))
		if err != nil {
			return nil, err
		}
		out.Probabilities = probs
	}
	return out, nil
}

// MajorityClass predicts the most frequent target label, the classification no-skill model.
type MajorityClass struct{}

// Name implements benchmark.ReferenceModel.
func (MajorityClass) Name() string { return NameMajorityClass }

// Predict implements benchmark.ReferenceModel.
func (MajorityClass) Predict(_ context.Context, in metric.Input) (*benchmark.Prediction, error) {
	counts := make(map[float64]float64)
	var best float64
	for i, y := range in.Targets {
		w := 1.0
		if in.SampleWeight != nil {
			w = in.SampleWeight[i]
		}
		counts[y] += w
		if i == 0 || counts[y] > counts[best] || (counts[y] == counts[best] && y < best) {
			best = y
		}
	}
	out := &benchmark.Prediction{Predictions: constant(len(in.Targets), best)}
	if in.Probabilities != nil {
		probs, err := oneHot(out.Predictions, classes(in))
		if err != nil {
			return nil, err
		}
		out.Probabilities = probs
	}
	return out, nil
}

// Random predicts a random permutation of the targets.
// It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a random reference model with a fixed seed.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Name implements benchmark.ReferenceModel.
func (r *Random) Name() string { return NameRandom }

// Predict implements benchmark.ReferenceModel.
func (r *Random) Predict(_ context.Context, in metric.Input) (*benchmark.Prediction, error) {
	r.mu.Lock()
	perm := r.rng.Perm(len(in.Targets))
	r.mu.Unlock()
	pred := make([]float64, len(perm))
	for i, j := range perm {
		pred[i] = in.Targets[j]
	}
	out := &benchmark.Prediction{Predictions: pred}
	if in.Probabilities != nil {
		probs, err := oneHot(pred, classes(in))
		if err != nil {
			return nil, err
		}
		out.Probabilities = probs
	}
	return out, nil
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func classes(in metric.Input) int {
	return len(in.Probabilities[0])
}

func classIndex(label float64, width int) (int, error) {
	k := int(label)
	if float64(k) != label || k < 0 || k >= width {
		return 0, fmt.Errorf("label %v is not a class index below %d", label, width)
	}
	return k, nil
}

func oneHot(labels []float64, width int) ([][]float64, error) {
	out := make([][]float64, len(labels))
	for i, y := range labels {
		k, err := classIndex(y, width)
		if err != nil {
			return nil, err
		}
		out[i] = make([]float64, width)
		out[i][k] = 1
	}
	return out, nil
}

func frequencies(labels, weights []float64, width int) ([]float64, error) {
	freq := make([]float64, width)
	var total float64
	for i, y := range labels {
		k, err := classIndex(y, width)
		if err != nil {
			return nil, err
		}
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		freq[k] += w
		total += w
	}
	if total > 0 {
		for k := range freq {
			freq[k] /= total
		}
	}
	return freq, nil
}

var (
	_ benchmark.ReferenceModel = NoSkill{}
	_ benchmark.ReferenceModel = Persistence{}
	_ benchmark.ReferenceModel = Perfect{}
	_ benchmark.ReferenceModel = MajorityClass{}
	_ benchmark.ReferenceModel = (*Random)(nil)
)

// ByName builds a reference model from its name. Seed is used by stochastic models.
func ByName(name string, seed int64) (benchmark.ReferenceModel, error) {
	switch name {
	case NameNoSkill:
		return NoSkill{}, nil
	case NamePersistence:
		return Persistence{}, nil
	case NameRandom:
		return NewRandom(seed), nil
	case NamePerfect:
		return Perfect{}, nil
	case NameMajorityClass:
		return MajorityClass{}, nil
	default:
		return nil, fmt.Errorf("unknown reference model %q", name)
	}
}
