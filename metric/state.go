//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package metric

import "trpc.group/trpc-go/trpc-scorecard-go/status"

// State is the serializable snapshot of a metric: configuration, results and comparisons.
// It holds no function and no presentation hook.
type State struct {
	Key               string         `json:"key"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	Category          Category       `json:"category"`
	Purpose           Purpose        `json:"purpose"`
	Parameters        Parameters     `json:"parameters,omitempty"`
	SampleRestriction SampleType     `json:"sample_restriction,omitempty"`
	Complexity        Complexity     `json:"complexity"`
	Result            *Result        `json:"result,omitempty"`
	Rolling           *RollingResult `json:"rolling,omitempty"`
	Comparisons       []Comparison   `json:"comparisons,omitempty"`
	Info              string         `json:"info,omitempty"`
}

// State returns a snapshot of m.
func (m *Metric) State() State {
	s := State{
		Key:               m.key,
		Name:              m.name,
		Description:       m.description,
		Category:          m.category,
		Purpose:           m.purpose,
		SampleRestriction: m.restriction,
		Complexity:        m.complexity,
		Comparisons:       m.Comparisons(),
		Info:              m.info,
	}
	if len(m.params) > 0 {
		s.Parameters = m.params.Clone()
	}
	if m.result != nil {
		r := *m.result
		s.Result = &r
	}
	if m.rolling != nil {
		r := RollingResult{Values: cloneValues(m.rolling.Values), Err: m.rolling.Err}
		s.Rolling = &r
	}
	return s
}

// Status returns the single-pass evaluation status recorded in the snapshot.
func (s State) Status() status.EvalStatus {
	switch {
	case s.Result == nil:
		return status.EvalStatusNotEvaluated
	case s.Result.Err != nil:
		return status.EvalStatusFailed
	default:
		return status.EvalStatusSucceeded
	}
}

// Restore rebuilds a read-only metric from a snapshot.
// The metric keeps its results but cannot be evaluated again.
func Restore(s State) (*Metric, error) {
	m, err := build(s.Name, nil,
		WithKey(s.Key),
		WithDescription(s.Description),
		WithCategory(s.Category),
		WithPurpose(s.Purpose),
		WithParameters(s.Parameters),
		WithSampleRestriction(s.SampleRestriction),
		WithComplexity(s.Complexity),
	)
	if err != nil {
		return nil, err
	}
	if s.Result != nil {
		r := *s.Result
		m.result = &r
	}
	if s.Rolling != nil {
		r := RollingResult{Values: cloneValues(s.Rolling.Values), Err: s.Rolling.Err}
		m.rolling = &r
	}
	m.comparisons = append([]Comparison(nil), s.Comparisons...)
	m.info = s.Info
	return m, nil
}

// Replace returns a copy of m carrying the given results and comparisons instead of its own.
// It is used to build derived scorecards, e.g. by arithmetic.
func (m *Metric) Replace(result *Result, rolling *RollingResult, comparisons []Comparison) *Metric {
	out := m.Fresh()
	out.result = result
	out.rolling = rolling
	out.comparisons = comparisons
	out.info = m.info
	return out
}

func cloneValues(vs []Value) []Value {
	if vs == nil {
		return nil
	}
	return append([]Value{}, vs...)
}
