//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package mysql manages MySQL clients for the scorecard stores: a replaceable client
// builder and a registry of named instances.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Client is the subset of *sql.DB used by the stores, so that tests can pass a sqlmock database.
type Client interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
	Close() error
}

// ClientBuilder builds a client from builder options.
type ClientBuilder func(opts ...ClientBuilderOpt) (Client, error)

var (
	mu        sync.RWMutex
	builder   ClientBuilder = DefaultClientBuilder
	instances               = make(map[string][]ClientBuilderOpt)
)

// SetClientBuilder replaces the client builder, e.g. to inject a mock.
func SetClientBuilder(b ClientBuilder) {
	mu.Lock()
	defer mu.Unlock()
	builder = b
}

// GetClientBuilder returns the current client builder.
func GetClientBuilder() ClientBuilder {
	mu.RLock()
	defer mu.RUnlock()
	return builder
}

// DefaultClientBuilder opens a connection pool with the go-sql-driver/mysql driver and pings it.
func DefaultClientBuilder(opts ...ClientBuilderOpt) (Client, error) {
	o := &ClientBuilderOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if o.DSN == "" {
		return nil, errors.New("mysql: dsn is empty")
	}
	db, err := sql.Open("mysql", o.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	if o.MaxOpenConns > 0 {
		db.SetMaxOpenConns(o.MaxOpenConns)
	}
	if o.MaxIdleConns > 0 {
		db.SetMaxIdleConns(o.MaxIdleConns)
	}
	if o.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(o.ConnMaxLifetime)
	}
	if o.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(o.ConnMaxIdleTime)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return db, nil
}

// ClientBuilderOpt configures a client.
type ClientBuilderOpt func(*ClientBuilderOpts)

// ClientBuilderOpts holds client settings.
type ClientBuilderOpts struct {
	// DSN is the data source name, e.g. user:password@tcp(localhost:3306)/scorecards?parseTime=true.
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	// ExtraOptions are passed through to custom builders.
	ExtraOptions []any
}

// WithClientBuilderDSN sets the data source name.
func WithClientBuilderDSN(dsn string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.DSN = dsn
	}
}

// WithMaxOpenConns limits open connections.
func WithMaxOpenConns(n int) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.MaxOpenConns = n
	}
}

// WithMaxIdleConns limits idle connections.
func WithMaxIdleConns(n int) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.MaxIdleConns = n
	}
}

// WithConnMaxLifetime limits how long a connection is reused.
func WithConnMaxLifetime(d time.Duration) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.ConnMaxLifetime = d
	}
}

// WithConnMaxIdleTime limits how long a connection stays idle.
func WithConnMaxIdleTime(d time.Duration) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.ConnMaxIdleTime = d
	}
}

// WithExtraOptions appends options for custom builders.
func WithExtraOptions(extra ...any) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.ExtraOptions = append(o.ExtraOptions, extra...)
	}
}

// RegisterMySQLInstance registers options under an instance name. Repeated calls append.
func RegisterMySQLInstance(name string, opts ...ClientBuilderOpt) {
	mu.Lock()
	defer mu.Unlock()
	instances[name] = append(instances[name], opts...)
}

// GetMySQLInstance returns the options registered under name.
func GetMySQLInstance(name string) ([]ClientBuilderOpt, bool) {
	mu.RLock()
	defer mu.RUnlock()
	opts, ok := instances[name]
	if !ok {
		return nil, false
	}
	return append([]ClientBuilderOpt(nil), opts...), true
}
