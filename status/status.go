//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package status provides the evaluation status of a metric.
package status

// EvalStatus represents the evaluation status of a metric.
type EvalStatus int

const (
	// EvalStatusUnknown represents an unknown evaluation status.
	EvalStatusUnknown EvalStatus = iota
	// EvalStatusSucceeded means the metric produced a value.
	EvalStatusSucceeded
	// EvalStatusFailed means the metric function failed and its error was captured.
	EvalStatusFailed
	// EvalStatusNotEvaluated means the metric has not been evaluated or was skipped.
	EvalStatusNotEvaluated
)

// String returns the string representation of the evaluation status.
func (s EvalStatus) String() string {
	switch s {
	case EvalStatusSucceeded:
		return "succeeded"
	case EvalStatusFailed:
		return "failed"
	case EvalStatusNotEvaluated:
		return "not_evaluated"
	default:
		return "unknown"
	}
}
