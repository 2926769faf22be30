//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package scorecard

import (
	"fmt"
	"math"
	"slices"

	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

// Table is a side by side view of several scorecards.
type Table struct {
	// Columns are metric keys, the sort key first.
	Columns []string
	Rows    []Row
}

// Row holds the single-pass results of one scorecard, aligned with Table.Columns.
// A zero Result marks a metric the scorecard does not have or did not evaluate.
type Row struct {
	ID      string
	Model   string
	Dataset string
	Results []metric.Result
}

// CompareMetricsTo lays out the receiver and others side by side.
//
// Rows are sorted descending by the scalar result of sortKey. The sort is stable and rows
// without a scalar result come last. An empty sortKey keeps the input order. display lists
// the keys to show, all metrics of the receiver when empty. The sort key is always the first
// column and appears once.
func (s *ScoreCard) CompareMetricsTo(others []*ScoreCard, sortKey string, display []string) (*Table, error) {
	cards := append([]*ScoreCard{s}, others...)
	for i, c := range cards {
		if c == nil {
			return nil, fmt.Errorf("scorecard: nil scorecard at position %d", i)
		}
	}
	if sortKey != "" && !anyHas(cards, sortKey) {
		return nil, fmt.Errorf("%w: sort key %s", ErrUnknownKey, sortKey)
	}
	if len(display) == 0 {
		for _, m := range s.Metrics() {
			display = append(display, m.Key())
		}
	}
	t := &Table{}
	if sortKey != "" {
		t.Columns = append(t.Columns, sortKey)
	}
	for _, key := range display {
		if key != sortKey && !slices.Contains(t.Columns, key) {
			t.Columns = append(t.Columns, key)
		}
	}
	for _, c := range cards {
		row := Row{
			ID:      c.ID(),
			Model:   c.Metadata().ModelName,
			Dataset: c.Metadata().DatasetName,
			Results: make([]metric.Result, len(t.Columns)),
		}
		for i, key := range t.Columns {
			row.Results[i] = c.result(key)
		}
		t.Rows = append(t.Rows, row)
	}
	if sortKey != "" {
		slices.SortStableFunc(t.Rows, func(a, b Row) int {
			return compareDescending(sortValue(a.Results[0]), sortValue(b.Results[0]))
		})
	}
	return t, nil
}

// Column returns the position of key in the table, or -1.
func (t *Table) Column(key string) int {
	return slices.Index(t.Columns, key)
}

func anyHas(cards []*ScoreCard, key string) bool {
	for _, c := range cards {
		if ev, ok := c.Get(key); ok {
			if _, isMetric := ev.(*metric.Metric); isMetric {
				return true
			}
		}
	}
	return false
}

// result returns the single-pass result of the metric under key, or a zero Result.
func (s *ScoreCard) result(key string) metric.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[key]
	if !ok {
		return metric.Result{}
	}
	r, _ := m.Result()
	return r
}

// sortValue returns the scalar of r, NaN when there is none.
func sortValue(r metric.Result) float64 {
	v, err := r.Scalar()
	if err != nil {
		return math.NaN()
	}
	return v
}

func compareDescending(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
