//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package clone deep copies values through their JSON form.
package clone

import (
	"encoding/json"
	"errors"
)

// Clone returns a deep copy of src. Types with custom JSON codecs are copied through them.
func Clone[T any](src *T) (*T, error) {
	if src == nil {
		return nil, errors.New("nil input")
	}
	b, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	var dst T
	if err := json.Unmarshal(b, &dst); err != nil {
		return nil, err
	}
	return &dst, nil
}
