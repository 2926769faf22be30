//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package mysql

import "time"

const defaultInitTimeout = 30 * time.Second

type options struct {
	dsn          string
	instanceName string
	extraOptions []any
	tablePrefix  string
	skipDBInit   bool
	initTimeout  time.Duration
}

// Option configures the MySQL store.
type Option func(*options)

func newOptions(opts ...Option) *options {
	o := &options{initTimeout: defaultInitTimeout}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMySQLClientDSN sets the data source name. It takes precedence over WithMySQLInstance.
func WithMySQLClientDSN(dsn string) Option {
	return func(o *options) {
		o.dsn = dsn
	}
}

// WithMySQLInstance uses options registered with storage/mysql.RegisterMySQLInstance.
func WithMySQLInstance(name string) Option {
	return func(o *options) {
		o.instanceName = name
	}
}

// WithExtraOptions passes options to a custom client builder.
func WithExtraOptions(extra ...any) Option {
	return func(o *options) {
		o.extraOptions = append(o.extraOptions, extra...)
	}
}

// WithTablePrefix prefixes the records table name.
func WithTablePrefix(prefix string) Option {
	return func(o *options) {
		o.tablePrefix = prefix
	}
}

// WithSkipDBInit skips creating the table and indexes on start.
func WithSkipDBInit(skip bool) Option {
	return func(o *options) {
		o.skipDBInit = skip
	}
}

// WithInitTimeout bounds schema creation. Defaults to 30s.
func WithInitTimeout(d time.Duration) Option {
	return func(o *options) {
		o.initTimeout = d
	}
}
