//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package metric

import "context"

// Evaluable is anything the evaluation driver can run: a single Metric or a group of metrics.
type Evaluable interface {
	Key() string
	Name() string
	Category() Category
	Purpose() Purpose
	SampleRestriction() SampleType
	Complexity() Complexity
	// Evaluate runs a single pass over in.
	Evaluate(ctx context.Context, in Input) error
	// EvaluateOverTime runs a rolling pass over in, see Windows.
	EvaluateOverTime(ctx context.Context, in Input, window int) error
	// Members returns the metrics that hold results. A Metric returns itself.
	Members() []*Metric
}

var _ Evaluable = (*Metric)(nil)
