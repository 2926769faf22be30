//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package scorecard

import "errors"

var (
	// ErrDuplicateKey is returned when a metric key is already used by the scorecard.
	ErrDuplicateKey = errors.New("scorecard: duplicate metric key")
	// ErrUnknownKey is returned by mutations of keys the scorecard does not hold.
	ErrUnknownKey = errors.New("scorecard: unknown metric key")
	// ErrMalformedKey is returned for lookup paths that cannot be parsed.
	ErrMalformedKey = errors.New("scorecard: malformed key")
	// ErrKeyMismatch is returned by arithmetic on scorecards with different metric keys.
	ErrKeyMismatch = errors.New("scorecard: metric keys do not match")
)
