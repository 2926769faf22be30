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
	"encoding/json"
	"fmt"

	"trpc.group/trpc-go/trpc-scorecard-go/internal/jsonnum"
)

// CapturedError is a metric failure stored as data.
// The original cause is kept while the value is live and is lost on serialization.
type CapturedError struct {
	Message string `json:"message"`
	cause   error
}

// Capture wraps err. It returns nil for a nil error.
func Capture(err error) *CapturedError {
	if err == nil {
		return nil
	}
	return &CapturedError{Message: err.Error(), cause: err}
}

// Error implements error.
func (e *CapturedError) Error() string {
	return e.Message
}

// Unwrap returns the original cause, if still known.
func (e *CapturedError) Unwrap() error {
	return e.cause
}

// Result is either a value or a captured error.
type Result struct {
	Value *Value         `json:"value,omitempty"`
	Err   *CapturedError `json:"error,omitempty"`
}

// Success returns a successful result.
func Success(v Value) Result {
	return Result{Value: &v}
}

// Failure returns a failed result capturing err.
func Failure(err error) Result {
	return Result{Err: Capture(err)}
}

// OK reports whether the result holds a value.
func (r Result) OK() bool {
	return r.Err == nil && r.Value != nil
}

// Scalar returns the scalar number of a successful result.
func (r Result) Scalar() (float64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	if r.Value == nil {
		return 0, ErrNotEvaluated
	}
	return r.Value.Float()
}

// String formats the result, showing the error text for failures.
func (r Result) String() string {
	switch {
	case r.Err != nil:
		return "error: " + r.Err.Message
	case r.Value != nil:
		return r.Value.String()
	}
	return "n/a"
}

// RollingResult holds one value per window, or a single error for the whole sequence.
type RollingResult struct {
	Values []Value        `json:"values"`
	Err    *CapturedError `json:"error,omitempty"`
}

// OK reports whether the rolling evaluation succeeded.
func (r RollingResult) OK() bool {
	return r.Err == nil
}

// Comparison is one benchmark entry of a metric: a delta, a z-score or a note.
type Comparison struct {
	Name  string
	Value *float64
	Note  string
}

// DeltaName returns the comparison name for a reference model.
func DeltaName(model string) string {
	return "Δ " + model
}

// ZScoreName returns the z-score comparison name for a reference model.
func ZScoreName(model string) string {
	return DeltaName(model) + "_zscore"
}

// NumericComparison returns a comparison holding v.
func NumericComparison(name string, v float64) Comparison {
	return Comparison{Name: name, Value: &v}
}

// NoteComparison returns a comparison holding a descriptive note.
func NoteComparison(name, format string, args ...any) Comparison {
	return Comparison{Name: name, Note: fmt.Sprintf(format, args...)}
}

// String formats the comparison value or its note.
func (c Comparison) String() string {
	if c.Value != nil {
		return formatFloat(*c.Value)
	}
	return c.Note
}

type comparisonJSON struct {
	Name  string         `json:"name"`
	Value *jsonnum.Float `json:"value,omitempty"`
	Note  string         `json:"note,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (c Comparison) MarshalJSON() ([]byte, error) {
	out := comparisonJSON{Name: c.Name, Note: c.Note}
	if c.Value != nil {
		f := jsonnum.Float(*c.Value)
		out.Value = &f
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Comparison) UnmarshalJSON(b []byte) error {
	var in comparisonJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*c = Comparison{Name: in.Name, Note: in.Note}
	if in.Value != nil {
		v := float64(*in.Value)
		c.Value = &v
	}
	return nil
}
