//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package reference

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

func TestNoSkill(t *testing.T) {
	in := metric.Input{Targets: []float64{1, 2, 3}, Predictions: []float64{0, 0, 0}}
	p, err := NoSkill{}.Predict(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 2}, p.Predictions)
	assert.Nil(t, p.Probabilities)

	in = metric.Input{
		Targets:       []float64{0, 1, 1, 1},
		Predictions:   []float64{0, 0, 0, 0},
		Probabilities: [][]float64{{1, 0}, {1, 0}, {1, 0}, {1, 0}},
	}
	p, err = NoSkill{}.Predict(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, p.Probabilities[2])
}

func TestPersistence(t *testing.T) {
	in := metric.Input{Targets: []float64{5, 6, 7}, Predictions: []float64{0, 0, 0}}
	p, err := Persistence{}.Predict(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 5, 6}, p.Predictions)
	assert.Equal(t, []float64{5, 6, 7}, in.Targets)
}

func TestPerfectCopiesTargets(t *testing.T) {
	in := metric.Input{Targets: []float64{1, 0}, Predictions: []float64{0, 0}, Probabilities: [][]float64{{0.5, 0.5}, {0.5, 0.5}}}
	p, err := Perfect{}.Predict(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in.Targets, p.Predictions)
	p.Predictions[0] = 9
	assert.Equal(t, 1.0, in.Targets[0])
	assert.Equal(t, [][]float64{{0, 1}, {1, 0}}, p.Probabilities)
}

func TestMajorityClass(t *testing.T) {
	in := metric.Input{Targets: []float64{1, 0, 1}, Predictions: []float64{0, 0, 0}, Probabilities: [][]float64{{1, 0}, {1, 0}, {1, 0}}}
	p, err := MajorityClass{}.Predict(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1, 1}, p.Predictions)
	assert.Equal(t, []float64{0, 1}, p.Probabilities[0])

	_, err = MajorityClass{}.Predict(context.Background(), metric.Input{
		Targets: []float64{3, 3}, Predictions: []float64{0, 0}, Probabilities: [][]float64{{1, 0}, {1, 0}},
	})
	assert.Error(t, err)
}

func TestRandomIsSeededPermutation(t *testing.T) {
	in := metric.Input{Targets: []float64{1, 2, 3, 4, 5}, Predictions: []float64{0, 0, 0, 0, 0}}
	a, err := NewRandom(7).Predict(context.Background(), in)
	require.NoError(t, err)
	b, err := NewRandom(7).Predict(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, a.Predictions, b.Predictions)

	sorted := append([]float64(nil), a.Predictions...)
	sort.Float64s(sorted)
	assert.Equal(t, in.Targets, sorted)
	assert.Equal(t, NameRandom, NewRandom(1).Name())
}

func TestByName(t *testing.T) {
	for _, name := range []string{NameNoSkill, NamePersistence, NameRandom, NamePerfect, NameMajorityClass} {
		m, err := ByName(name, 1)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
	}
	_, err := ByName("oracle", 1)
	assert.Error(t, err)
}
