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
	"strings"
)

// Category tags a metric for grouping and display only.
type Category string

const (
	// CategoryRegression groups point-forecast error metrics.
	CategoryRegression Category = "regression"
	// CategoryClassification groups label metrics.
	CategoryClassification Category = "classification"
	// CategoryProbabilistic groups metrics computed from predicted probabilities.
	CategoryProbabilistic Category = "probabilistic"
	// CategoryResiduals groups metrics computed on residuals.
	CategoryResiduals Category = "residuals"
	// CategoryTimeSeries groups metrics that depend on the order of observations.
	CategoryTimeSeries Category = "timeseries"
	// CategoryCustom is the default category of caller supplied metrics.
	CategoryCustom Category = "custom"
)

// Purpose tells whether higher or lower values are better.
type Purpose string

const (
	// PurposeObjective means higher is better.
	PurposeObjective Purpose = "objective"
	// PurposeLoss means lower is better.
	PurposeLoss Purpose = "loss"
	// PurposeGroup marks a composite of other metrics.
	PurposeGroup Purpose = "group"
	// PurposeDiagram marks a metric whose result is only meant to be plotted.
	PurposeDiagram Purpose = "diagram"
)

// Comparable reports whether results of this purpose can be benchmarked.
func (p Purpose) Comparable() bool {
	return p == PurposeObjective || p == PurposeLoss
}

// Complexity is the computational cost tag of a metric.
// The zero value means unspecified.
type Complexity int

const (
	// ComplexityCheap is the default complexity.
	ComplexityCheap Complexity = iota + 1
	// ComplexityMedium marks metrics that are noticeably slower than a single pass.
	ComplexityMedium
	// ComplexityExpensive marks metrics that should be opted into.
	ComplexityExpensive
)

// String returns the string representation of the complexity.
func (c Complexity) String() string {
	switch c {
	case ComplexityCheap:
		return "cheap"
	case ComplexityMedium:
		return "medium"
	case ComplexityExpensive:
		return "expensive"
	default:
		return fmt.Sprintf("complexity(%d)", int(c))
	}
}

// ParseComplexity parses "cheap", "medium" or "expensive".
func ParseComplexity(s string) (Complexity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cheap":
		return ComplexityCheap, nil
	case "medium":
		return ComplexityMedium, nil
	case "expensive":
		return ComplexityExpensive, nil
	default:
		return ComplexityCheap, fmt.Errorf("unknown complexity %q", s)
	}
}

// SampleType is the evaluation context of a scorecard, or the restriction of a metric.
type SampleType string

const (
	// SampleAny places no restriction. It is the default restriction of metrics.
	SampleAny SampleType = ""
	// SampleInSample is data the model was fitted on.
	SampleInSample SampleType = "insample"
	// SampleOutOfSample is held-out data.
	SampleOutOfSample SampleType = "outofsample"
)

// ParseSampleType parses "insample", "outofsample" (also "out-of-sample", "out_of_sample") or "" / "any".
func ParseSampleType(s string) (SampleType, error) {
	normalized := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch normalized {
	case "", "any":
		return SampleAny, nil
	case "insample":
		return SampleInSample, nil
	case "outofsample":
		return SampleOutOfSample, nil
	default:
		return SampleAny, fmt.Errorf("unknown sample type %q", s)
	}
}

// Allows reports whether a metric restricted to s may run on data of the declared sample type.
func (s SampleType) Allows(declared SampleType) bool {
	return s == SampleAny || s == declared
}

// String returns the string representation of the sample type.
func (s SampleType) String() string {
	if s == SampleAny {
		return "any"
	}
	return string(s)
}
