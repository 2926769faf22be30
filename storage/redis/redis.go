//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package redis manages Redis clients for the scorecard stores: a replaceable client
// builder and a registry of named instances.
package redis

import (
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ClientBuilder builds a client from builder options.
type ClientBuilder func(opts ...ClientBuilderOpt) (redis.UniversalClient, error)

var (
	mu        sync.RWMutex
	builder   ClientBuilder = DefaultClientBuilder
	instances               = make(map[string][]ClientBuilderOpt)
)

// SetClientBuilder replaces the client builder.
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

// DefaultClientBuilder parses the URL and creates a universal client.
func DefaultClientBuilder(opts ...ClientBuilderOpt) (redis.UniversalClient, error) {
	o := &ClientBuilderOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if o.URL == "" {
		return nil, errors.New("redis: url is empty")
	}
	parsed, err := redis.ParseURL(o.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:           []string{parsed.Addr},
		DB:              parsed.DB,
		Username:        parsed.Username,
		Password:        parsed.Password,
		Protocol:        parsed.Protocol,
		ClientName:      parsed.ClientName,
		TLSConfig:       parsed.TLSConfig,
		MaxRetries:      parsed.MaxRetries,
		DialTimeout:     parsed.DialTimeout,
		ReadTimeout:     parsed.ReadTimeout,
		WriteTimeout:    parsed.WriteTimeout,
		PoolSize:        parsed.PoolSize,
		MinIdleConns:    parsed.MinIdleConns,
		MaxIdleConns:    parsed.MaxIdleConns,
		ConnMaxIdleTime: parsed.ConnMaxIdleTime,
		ConnMaxLifetime: parsed.ConnMaxLifetime,
	}), nil
}

// ClientBuilderOpt configures a client.
type ClientBuilderOpt func(*ClientBuilderOpts)

// ClientBuilderOpts holds client settings.
type ClientBuilderOpts struct {
	// URL is redis://<user>:<password>@<host>:<port>/<db>?<options>, see redis.ParseURL.
	URL string
	// ExtraOptions are passed through to custom builders.
	ExtraOptions []any
}

// WithClientBuilderURL sets the connection URL.
func WithClientBuilderURL(url string) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.URL = url
	}
}

// WithExtraOptions appends options for custom builders.
func WithExtraOptions(extra ...any) ClientBuilderOpt {
	return func(o *ClientBuilderOpts) {
		o.ExtraOptions = append(o.ExtraOptions, extra...)
	}
}

// RegisterRedisInstance registers options under an instance name. Repeated calls append.
func RegisterRedisInstance(name string, opts ...ClientBuilderOpt) {
	mu.Lock()
	defer mu.Unlock()
	instances[name] = append(instances[name], opts...)
}

// GetRedisInstance returns the options registered under name.
func GetRedisInstance(name string) ([]ClientBuilderOpt, bool) {
	mu.RLock()
	defer mu.RUnlock()
	opts, ok := instances[name]
	if !ok {
		return nil, false
	}
	return append([]ClientBuilderOpt(nil), opts...), true
}
