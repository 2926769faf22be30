//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package status summarizes metric statuses.
package status

import (
	"fmt"

	"trpc.group/trpc-go/trpc-scorecard-go/status"
)

// Counts records a histogram of evaluation statuses.
type Counts struct {
	Succeeded    int `json:"succeeded,omitempty"`
	Failed       int `json:"failed,omitempty"`
	NotEvaluated int `json:"notEvaluated,omitempty"`
}

// Summarize reduces statuses into a single value.
// The precedence rules are:
// 1. If there is a Failed, the overall status is Failed.
// 2. If there is a Succeeded, the overall status is Succeeded.
// 3. Otherwise, the overall status is NotEvaluated.
func Summarize(statuses []status.EvalStatus) (status.EvalStatus, error) {
	combined := status.EvalStatusNotEvaluated
	for _, s := range statuses {
		switch s {
		case status.EvalStatusFailed:
			combined = status.EvalStatusFailed
		case status.EvalStatusSucceeded:
			if combined != status.EvalStatusFailed {
				combined = status.EvalStatusSucceeded
			}
		case status.EvalStatusNotEvaluated:
			continue
		default:
			return status.EvalStatusFailed, fmt.Errorf("unexpected eval status %v", s)
		}
	}
	return combined, nil
}

// Count builds a status histogram.
func Count(statuses []status.EvalStatus) (Counts, error) {
	var c Counts
	for _, s := range statuses {
		switch s {
		case status.EvalStatusSucceeded:
			c.Succeeded++
		case status.EvalStatusFailed:
			c.Failed++
		case status.EvalStatusNotEvaluated:
			c.NotEvaluated++
		default:
			return Counts{}, fmt.Errorf("unexpected eval status %v", s)
		}
	}
	return c, nil
}
