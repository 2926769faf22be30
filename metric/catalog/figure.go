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
	"strings"

	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

const barWidth = 40

// HistogramFigure renders a table result as a text bar chart.
func HistogramFigure(m *metric.Metric) (string, error) {
	r, ok := m.Result()
	if !ok {
		return "", fmt.Errorf("figure %s: %w", m.Key(), metric.ErrNotEvaluated)
	}
	if r.Err != nil {
		return "", fmt.Errorf("figure %s: %w", m.Key(), r.Err)
	}
	cells := r.Value.Cells()
	if cells == nil {
		return "", fmt.Errorf("figure %s: result is %s, want table", m.Key(), r.Value.Kind())
	}
	var peak, width float64
	labelWidth := 0
	for _, c := range cells {
		peak = max(peak, c.Value)
		labelWidth = max(labelWidth, len(c.Label))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", m.Name())
	for _, c := range cells {
		width = 0
		if peak > 0 {
			width = c.Value / peak * barWidth
		}
		fmt.Fprintf(&b, "%*s | %s %g\n", labelWidth, c.Label, strings.Repeat("#", int(width+0.5)), c.Value)
	}
	return b.String(), nil
}
