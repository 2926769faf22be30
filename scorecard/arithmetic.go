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
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/metric/group"
)

// operator is an elementwise arithmetic operation.
type operator struct {
	symbol string
	fn     func(x, y float64) float64
}

var (
	opAdd      = operator{symbol: "+", fn: func(x, y float64) float64 { return x + y }}
	opSubtract = operator{symbol: "-", fn: func(x, y float64) float64 { return x - y }}
	opMultiply = operator{symbol: "*", fn: func(x, y float64) float64 { return x * y }}
	opDivide   = operator{symbol: "/", fn: func(x, y float64) float64 { return x / y }}
)

var errMissingOperand = errors.New("missing operand")

// Add returns a read-only scorecard holding the key by key sums of s and other.
func (s *ScoreCard) Add(other *ScoreCard) (*ScoreCard, error) { return s.combine(other, opAdd) }

// Subtract returns a read-only scorecard holding the key by key differences s - other.
func (s *ScoreCard) Subtract(other *ScoreCard) (*ScoreCard, error) { return s.combine(other, opSubtract) }

// Multiply returns a read-only scorecard holding the key by key products of s and other.
func (s *ScoreCard) Multiply(other *ScoreCard) (*ScoreCard, error) { return s.combine(other, opMultiply) }

// Divide returns a read-only scorecard holding the key by key quotients s / other.
// Division by zero follows IEEE 754.
func (s *ScoreCard) Divide(other *ScoreCard) (*ScoreCard, error) { return s.combine(other, opDivide) }

// combine applies op to results, rolling results and comparisons of matching metrics.
// Both scorecards must hold the same keys with the same group structure.
func (s *ScoreCard) combine(other *ScoreCard, op operator) (*ScoreCard, error) {
	if other == nil {
		return nil, errors.New("scorecard: nil operand")
	}
	left, right := s.Evaluables(), other.Evaluables()
	if err := matchKeys(left, right); err != nil {
		return nil, err
	}
	rightByKey := make(map[string]metric.Evaluable, len(right))
	for _, ev := range right {
		rightByKey[ev.Key()] = ev
	}

	md := s.metadata
	md.ModelName = fmt.Sprintf("%s %s %s", s.metadata.ModelName, op.symbol, other.metadata.ModelName)
	out := &ScoreCard{
		id:            uuid.NewString(),
		metadata:      md,
		sampleType:    s.sampleType,
		createdAt:     now(),
		input:         s.input.Clone(),
		top:           make(map[string]metric.Evaluable),
		members:       make(map[string]*metric.Metric),
		maxComplexity: s.maxComplexity,
		skipped:       make(map[string]bool),
		readOnly:      true,
	}
	for _, l := range left {
		var ev metric.Evaluable
		switch lv := l.(type) {
		case *metric.Metric:
			ev = combineMetric(lv, rightByKey[l.Key()].(*metric.Metric), op)
		case *group.Group:
			rg := rightByKey[l.Key()].(*group.Group)
			children := make([]*metric.Metric, 0, len(lv.Members()))
			for _, c := range lv.Members() {
				rc, _ := rg.Child(c.Key())
				children = append(children, combineMetric(c, rc, op))
			}
			ev = lv.Rebuild(children)
		default:
			return nil, fmt.Errorf("scorecard: cannot combine %s of type %T", l.Key(), l)
		}
		if err := out.addLocked(ev); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// matchKeys checks that both sides hold the same keys with the same kind and children.
func matchKeys(left, right []metric.Evaluable) error {
	if len(left) != len(right) {
		return fmt.Errorf("%w: %d and %d entries", ErrKeyMismatch, len(left), len(right))
	}
	rightByKey := make(map[string]metric.Evaluable, len(right))
	for _, ev := range right {
		rightByKey[ev.Key()] = ev
	}
	for _, l := range left {
		r, ok := rightByKey[l.Key()]
		if !ok {
			return fmt.Errorf("%w: %s only on the left", ErrKeyMismatch, l.Key())
		}
		switch l.(type) {
		case *metric.Metric:
			if _, ok := r.(*metric.Metric); !ok {
				return fmt.Errorf("%w: %s is a metric on the left only", ErrKeyMismatch, l.Key())
			}
		case *group.Group:
			if _, ok := r.(*group.Group); !ok {
				return fmt.Errorf("%w: %s is a group on the left only", ErrKeyMismatch, l.Key())
			}
			if !slices.Equal(memberKeys(l), memberKeys(r)) {
				return fmt.Errorf("%w: children of %s differ", ErrKeyMismatch, l.Key())
			}
		}
	}
	return nil
}

func memberKeys(ev metric.Evaluable) []string {
	members := ev.Members()
	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = m.Key()
	}
	slices.Sort(keys)
	return keys
}

func combineMetric(l, r *metric.Metric, op operator) *metric.Metric {
	lr, lok := l.Result()
	rr, rok := r.Result()
	result := combineResult(lr, lok, rr, rok, op)
	lroll, lrok := l.RollingResult()
	rroll, rrok := r.RollingResult()
	rolling := combineRolling(lroll, lrok, rroll, rrok, op)
	return l.Replace(result, rolling, combineComparisons(l.Comparisons(), r.Comparisons(), op))
}

func combineResult(l metric.Result, lok bool, r metric.Result, rok bool, op operator) *metric.Result {
	if !lok && !rok {
		return nil
	}
	var out metric.Result
	switch {
	case !lok || !rok:
		out = metric.Failure(errMissingOperand)
	case l.Err != nil:
		out = metric.Failure(fmt.Errorf("left operand: %w", l.Err))
	case r.Err != nil:
		out = metric.Failure(fmt.Errorf("right operand: %w", r.Err))
	case l.Value == nil || r.Value == nil:
		out = metric.Failure(errMissingOperand)
	default:
		v, err := metric.Combine(*l.Value, *r.Value, op.fn)
		if err != nil {
			out = metric.Failure(err)
		} else {
			out = metric.Success(v)
		}
	}
	return &out
}

func combineRolling(l metric.RollingResult, lok bool, r metric.RollingResult, rok bool, op operator) *metric.RollingResult {
	if !lok && !rok {
		return nil
	}
	fail := func(err error) *metric.RollingResult {
		return &metric.RollingResult{Err: metric.Capture(err)}
	}
	switch {
	case !lok || !rok:
		return fail(errMissingOperand)
	case l.Err != nil:
		return fail(fmt.Errorf("left operand: %w", l.Err))
	case r.Err != nil:
		return fail(fmt.Errorf("right operand: %w", r.Err))
	case len(l.Values) != len(r.Values):
		return fail(fmt.Errorf("%w: %d and %d windows", metric.ErrIncompatible, len(l.Values), len(r.Values)))
	}
	values := make([]metric.Value, len(l.Values))
	for i := range l.Values {
		v, err := metric.Combine(l.Values[i], r.Values[i], op.fn)
		if err != nil {
			return fail(fmt.Errorf("window %d: %w", i, err))
		}
		values[i] = v
	}
	return &metric.RollingResult{Values: values}
}

// combineComparisons pairs comparisons by name, left order first.
// A comparison present on one side only or without a number on either side becomes a note.
func combineComparisons(l, r []metric.Comparison, op operator) []metric.Comparison {
	if len(l) == 0 && len(r) == 0 {
		return nil
	}
	rightByName := make(map[string]metric.Comparison, len(r))
	for _, c := range r {
		rightByName[c.Name] = c
	}
	out := make([]metric.Comparison, 0, len(l))
	seen := make(map[string]bool, len(l))
	for _, lc := range l {
		seen[lc.Name] = true
		rc, ok := rightByName[lc.Name]
		switch {
		case !ok:
			out = append(out, metric.NoteComparison(lc.Name, "%v", errMissingOperand))
		case lc.Value == nil || rc.Value == nil:
			out = append(out, metric.NoteComparison(lc.Name, "not a number on both sides"))
		default:
			out = append(out, metric.NumericComparison(lc.Name, op.fn(*lc.Value, *rc.Value)))
		}
	}
	for _, rc := range r {
		if !seen[rc.Name] {
			out = append(out, metric.NoteComparison(rc.Name, "%v", errMissingOperand))
		}
	}
	return out
}
