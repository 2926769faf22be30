//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package clone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

type sample struct {
	Name   string
	Values []float64
	Result metric.Result
}

func TestCloneIsDeep(t *testing.T) {
	src := &sample{Name: "a", Values: []float64{1, 2}, Result: metric.Success(metric.Scalar(math.Inf(1)))}
	dst, err := Clone(src)
	require.NoError(t, err)
	assert.Equal(t, src.Name, dst.Name)
	assert.Equal(t, src.Values, dst.Values)
	assert.True(t, src.Result.Value.Equal(*dst.Result.Value))

	dst.Values[0] = 100
	assert.Equal(t, 1.0, src.Values[0])
}

func TestCloneNil(t *testing.T) {
	_, err := Clone[sample](nil)
	assert.Error(t, err)
}
