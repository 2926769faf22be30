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
	"math"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-scorecard-go/internal/jsonnum"
)

// Kind is the shape of a Value.
type Kind string

const (
	// KindScalar is a single number.
	KindScalar Kind = "scalar"
	// KindSeries is an ordered sequence of numbers.
	KindSeries Kind = "series"
	// KindTable is an ordered list of labelled numbers.
	KindTable Kind = "table"
)

// Cell is one labelled entry of a table value.
type Cell struct {
	Label string
	Value float64
}

// Value is the numeric outcome of a metric function.
// The zero Value is an invalid value; use Scalar, Series or Table.
type Value struct {
	kind   Kind
	scalar float64
	series []float64
	table  []Cell
}

// Scalar returns a scalar value.
func Scalar(v float64) Value {
	return Value{kind: KindScalar, scalar: v}
}

// Series returns a series value holding a copy of xs.
func Series(xs []float64) Value {
	return Value{kind: KindSeries, series: append([]float64{}, xs...)}
}

// Table returns a table value holding a copy of cells.
func Table(cells ...Cell) Value {
	return Value{kind: KindTable, table: append([]Cell{}, cells...)}
}

// Kind returns the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsScalar reports whether v is a scalar.
func (v Value) IsScalar() bool { return v.kind == KindScalar }

// Float returns the scalar number, or ErrNotScalar.
func (v Value) Float() (float64, error) {
	if v.kind != KindScalar {
		return 0, fmt.Errorf("%w: %s", ErrNotScalar, v.kind)
	}
	return v.scalar, nil
}

// Floats returns a copy of the series, or nil for other kinds.
func (v Value) Floats() []float64 {
	if v.kind != KindSeries {
		return nil
	}
	return append([]float64{}, v.series...)
}

// Cells returns a copy of the table, or nil for other kinds.
func (v Value) Cells() []Cell {
	if v.kind != KindTable {
		return nil
	}
	return append([]Cell{}, v.table...)
}

// Equal reports whether both values have the same shape and bit-identical numbers.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return sameBits(v.scalar, o.scalar)
	case KindSeries:
		if len(v.series) != len(o.series) {
			return false
		}
		for i := range v.series {
			if !sameBits(v.series[i], o.series[i]) {
				return false
			}
		}
		return true
	case KindTable:
		if len(v.table) != len(o.table) {
			return false
		}
		for i := range v.table {
			if v.table[i].Label != o.table[i].Label || !sameBits(v.table[i].Value, o.table[i].Value) {
				return false
			}
		}
		return true
	}
	return true
}

func sameBits(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b) || (math.IsNaN(a) && math.IsNaN(b))
}

// String formats the value for console output.
func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return formatFloat(v.scalar)
	case KindSeries:
		parts := make([]string, len(v.series))
		for i, x := range v.series {
			parts[i] = formatFloat(x)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case KindTable:
		parts := make([]string, len(v.table))
		for i, c := range v.table {
			parts[i] = c.Label + "=" + formatFloat(c.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "<invalid>"
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// Combine applies op elementwise. Scalars broadcast over series and tables,
// series must have equal lengths and tables identical labels.
func Combine(a, b Value, op func(x, y float64) float64) (Value, error) {
	switch {
	case a.kind == KindScalar && b.kind == KindScalar:
		return Scalar(op(a.scalar, b.scalar)), nil
	case a.kind == KindSeries && b.kind == KindSeries:
		if len(a.series) != len(b.series) {
			return Value{}, fmt.Errorf("%w: series of length %d and %d", ErrIncompatible, len(a.series), len(b.series))
		}
		out := make([]float64, len(a.series))
		for i := range out {
			out[i] = op(a.series[i], b.series[i])
		}
		return Value{kind: KindSeries, series: out}, nil
	case a.kind == KindTable && b.kind == KindTable:
		if len(a.table) != len(b.table) {
			return Value{}, fmt.Errorf("%w: tables of %d and %d cells", ErrIncompatible, len(a.table), len(b.table))
		}
		out := make([]Cell, len(a.table))
		for i := range out {
			if a.table[i].Label != b.table[i].Label {
				return Value{}, fmt.Errorf("%w: table labels %q and %q", ErrIncompatible, a.table[i].Label, b.table[i].Label)
			}
			out[i] = Cell{Label: a.table[i].Label, Value: op(a.table[i].Value, b.table[i].Value)}
		}
		return Value{kind: KindTable, table: out}, nil
	case a.kind == KindScalar && b.kind == KindSeries:
		return mapSeries(b.series, func(y float64) float64 { return op(a.scalar, y) }), nil
	case a.kind == KindSeries && b.kind == KindScalar:
		return mapSeries(a.series, func(x float64) float64 { return op(x, b.scalar) }), nil
	case a.kind == KindScalar && b.kind == KindTable:
		return mapTable(b.table, func(y float64) float64 { return op(a.scalar, y) }), nil
	case a.kind == KindTable && b.kind == KindScalar:
		return mapTable(a.table, func(x float64) float64 { return op(x, b.scalar) }), nil
	}
	return Value{}, fmt.Errorf("%w: %s and %s", ErrIncompatible, a.kind, b.kind)
}

func mapSeries(xs []float64, f func(float64) float64) Value {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return Value{kind: KindSeries, series: out}
}

func mapTable(cells []Cell, f func(float64) float64) Value {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		out[i] = Cell{Label: c.Label, Value: f(c.Value)}
	}
	return Value{kind: KindTable, table: out}
}

type cellJSON struct {
	Label string        `json:"label"`
	Value jsonnum.Float `json:"value"`
}

type valueJSON struct {
	Kind   Kind           `json:"kind"`
	Scalar *jsonnum.Float `json:"scalar,omitempty"`
	Series jsonnum.Floats `json:"series,omitempty"`
	Table  []cellJSON     `json:"table,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.kind}
	switch v.kind {
	case KindScalar:
		f := jsonnum.Float(v.scalar)
		out.Scalar = &f
	case KindSeries:
		out.Series = jsonnum.FromSlice(v.series)
	case KindTable:
		out.Table = make([]cellJSON, len(v.table))
		for i, c := range v.table {
			out.Table[i] = cellJSON{Label: c.Label, Value: jsonnum.Float(c.Value)}
		}
	default:
		return nil, fmt.Errorf("metric: cannot encode value of kind %q", v.kind)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(b []byte) error {
	var in valueJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	switch in.Kind {
	case KindScalar:
		if in.Scalar == nil {
			return fmt.Errorf("metric: scalar value without number")
		}
		*v = Scalar(float64(*in.Scalar))
	case KindSeries:
		*v = Value{kind: KindSeries, series: in.Series.Slice()}
		if v.series == nil {
			v.series = []float64{}
		}
	case KindTable:
		cells := make([]Cell, len(in.Table))
		for i, c := range in.Table {
			cells[i] = Cell{Label: c.Label, Value: float64(c.Value)}
		}
		*v = Value{kind: KindTable, table: cells}
	default:
		return fmt.Errorf("metric: unknown value kind %q", in.Kind)
	}
	return nil
}
