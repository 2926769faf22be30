//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package local

const defaultBaseDir = "scorecards"

type options struct {
	baseDir string
	locator Locator
}

// Option configures the local store.
type Option func(*options)

// WithBaseDir sets the root directory. Defaults to "scorecards".
func WithBaseDir(dir string) Option {
	return func(o *options) {
		o.baseDir = dir
	}
}

// WithLocator overrides the file layout.
func WithLocator(l Locator) Option {
	return func(o *options) {
		o.locator = l
	}
}
