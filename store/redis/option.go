//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package redis

const defaultKeyPrefix = "scorecard"

type options struct {
	url          string
	instanceName string
	extraOptions []any
	keyPrefix    string
}

// Option configures the Redis store.
type Option func(*options)

func newOptions(opts ...Option) *options {
	o := &options{keyPrefix: defaultKeyPrefix}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithRedisClientURL sets the connection URL. It takes precedence over WithRedisInstance.
func WithRedisClientURL(url string) Option {
	return func(o *options) {
		o.url = url
	}
}

// WithRedisInstance uses options registered with storage/redis.RegisterRedisInstance.
func WithRedisInstance(name string) Option {
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

// WithKeyPrefix sets the prefix of every key. Defaults to "scorecard".
func WithKeyPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.keyPrefix = prefix
		}
	}
}
