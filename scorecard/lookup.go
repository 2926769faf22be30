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
	"regexp"
	"strings"

	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

// pathPattern matches "key" and "key[comparison name]".
var pathPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(?:\[([^\[\]]+)\])?$`)

// Field is the value found under a lookup path.
// The zero Field is Unknown.
type Field struct {
	// Key is the metric key of the path.
	Key string
	// Comparison is the comparison name of the path, empty for result lookups.
	Comparison string
	// Evaluable is the metric or group found.
	Evaluable metric.Evaluable
	// Result is set for metric lookups that have a single-pass result.
	Result *metric.Result
	// Value is set for comparison lookups.
	Value *metric.Comparison
}

// Unknown is returned for paths naming no metric or comparison.
var Unknown = Field{}

// Known reports whether the field was found.
func (f Field) Known() bool { return f.Evaluable != nil }

// String formats the field for display.
func (f Field) String() string {
	switch {
	case !f.Known():
		return "unknown"
	case f.Value != nil:
		return f.Value.String()
	case f.Result != nil:
		return f.Result.String()
	default:
		return "n/a"
	}
}

// Lookup resolves "key" to a metric and "key[Δ model]" to one of its comparisons.
// Paths naming nothing return Unknown and a nil error; ill-formed paths fail with ErrMalformedKey.
func (s *ScoreCard) Lookup(path string) (Field, error) {
	key, name, err := parsePath(path)
	if err != nil {
		return Unknown, err
	}
	ev, ok := s.Get(key)
	if !ok {
		return Unknown, nil
	}
	m, isMetric := ev.(*metric.Metric)
	if name == "" {
		f := Field{Key: key, Evaluable: ev}
		if isMetric {
			if r, ok := m.Result(); ok {
				f.Result = &r
			}
		}
		return f, nil
	}
	if !isMetric {
		return Unknown, nil
	}
	c, ok := m.Comparison(name)
	if !ok {
		return Unknown, nil
	}
	return Field{Key: key, Comparison: name, Evaluable: ev, Value: &c}, nil
}

func parsePath(path string) (key, comparison string, err error) {
	sub := pathPattern.FindStringSubmatch(strings.TrimSpace(path))
	if sub == nil {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedKey, path)
	}
	comparison = strings.TrimSpace(sub[2])
	if sub[2] != "" && comparison == "" {
		return "", "", fmt.Errorf("%w: empty comparison in %q", ErrMalformedKey, path)
	}
	return sub[1], comparison, nil
}
