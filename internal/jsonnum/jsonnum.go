//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package jsonnum encodes float64 values to JSON without losing NaN and infinities.
//
// Finite values are written as JSON numbers using the shortest representation that
// parses back to the same bits. NaN, +Inf and -Inf are written as the strings
// "NaN", "+Inf" and "-Inf".
package jsonnum

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

const (
	literalNaN    = "NaN"
	literalPosInf = "+Inf"
	literalNegInf = "-Inf"
)

// Float is a float64 with lossless JSON encoding.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(`"` + literalNaN + `"`), nil
	case math.IsInf(v, 1):
		return []byte(`"` + literalPosInf + `"`), nil
	case math.IsInf(v, -1):
		return []byte(`"` + literalNegInf + `"`), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch s {
		case literalNaN:
			*f = Float(math.NaN())
		case literalPosInf:
			*f = Float(math.Inf(1))
		case literalNegInf:
			*f = Float(math.Inf(-1))
		default:
			return fmt.Errorf("jsonnum: invalid float literal %q", s)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// Floats is a float64 slice with lossless JSON encoding.
type Floats []Float

// FromSlice converts a float64 slice. A nil input stays nil.
func FromSlice(xs []float64) Floats {
	if xs == nil {
		return nil
	}
	out := make(Floats, len(xs))
	for i, x := range xs {
		out[i] = Float(x)
	}
	return out
}

// Slice converts back to a float64 slice. A nil receiver stays nil.
func (fs Floats) Slice() []float64 {
	if fs == nil {
		return nil
	}
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = float64(f)
	}
	return out
}

// FromMatrix converts a float64 matrix. A nil input stays nil.
func FromMatrix(m [][]float64) []Floats {
	if m == nil {
		return nil
	}
	out := make([]Floats, len(m))
	for i, row := range m {
		out[i] = FromSlice(row)
	}
	return out
}

// Matrix converts rows back to a float64 matrix. A nil input stays nil.
func Matrix(rows []Floats) [][]float64 {
	if rows == nil {
		return nil
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = row.Slice()
	}
	return out
}
