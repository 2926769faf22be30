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
	"errors"
	"fmt"
	"os"
)

var (
	// ErrInvalidInput is wrapped by every input validation failure.
	ErrInvalidInput = errors.New("metric: invalid input")
	// ErrAlreadyEvaluated is returned when a result field that is already populated is set again.
	ErrAlreadyEvaluated = errors.New("metric: already evaluated")
	// ErrInvalidKey is returned for keys that are not identifier-like.
	ErrInvalidKey = errors.New("metric: invalid key")
	// ErrNotScalar is returned when a scalar is requested from a non-scalar value.
	ErrNotScalar = errors.New("metric: value is not a scalar")
	// ErrIncompatible is returned when two values cannot be combined elementwise.
	ErrIncompatible = errors.New("metric: incompatible values")
	// ErrNotEvaluated is returned when a result is read before evaluation.
	ErrNotEvaluated = errors.New("metric: not evaluated")
	// ErrReadOnly is returned when a metric restored from a record is evaluated.
	ErrReadOnly = errors.New("metric: restored metric has no function")

	errNoFigure = fmt.Errorf("no figure: %w", os.ErrNotExist)
)
