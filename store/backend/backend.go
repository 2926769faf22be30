//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package backend builds the store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"trpc.group/trpc-go/trpc-scorecard-go/config"
	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/store"
	"trpc.group/trpc-go/trpc-scorecard-go/store/inmemory"
	"trpc.group/trpc-go/trpc-scorecard-go/store/local"
	"trpc.group/trpc-go/trpc-scorecard-go/store/mysql"
	"trpc.group/trpc-go/trpc-scorecard-go/store/redis"
)

// New returns the store named by cfg.Backend.
func New(ctx context.Context, cfg config.Store) (store.Manager, error) {
	log.DebugfContext(ctx, "open %s scorecard store", cfg.Backend)
	switch cfg.Backend {
	case config.BackendInMemory:
		return inmemory.New(), nil
	case config.BackendLocal, "":
		return local.New(local.WithBaseDir(cfg.Local.BaseDir)), nil
	case config.BackendMySQL:
		return mysql.New(
			mysql.WithMySQLClientDSN(cfg.MySQL.DSN),
			mysql.WithMySQLInstance(cfg.MySQL.Instance),
			mysql.WithTablePrefix(cfg.MySQL.TablePrefix),
			mysql.WithSkipDBInit(cfg.MySQL.SkipDBInit),
		)
	case config.BackendRedis:
		return redis.New(
			redis.WithRedisClientURL(cfg.Redis.URL),
			redis.WithRedisInstance(cfg.Redis.Instance),
			redis.WithKeyPrefix(cfg.Redis.KeyPrefix),
		)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
