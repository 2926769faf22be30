//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package backend

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-scorecard-go/config"
	"trpc.group/trpc-go/trpc-scorecard-go/store/inmemory"
	"trpc.group/trpc-go/trpc-scorecard-go/store/local"
	"trpc.group/trpc-go/trpc-scorecard-go/store/mysql"
	"trpc.group/trpc-go/trpc-scorecard-go/store/redis"
	storage "trpc.group/trpc-go/trpc-scorecard-go/storage/mysql"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	m, err := New(ctx, config.Store{Backend: config.BackendInMemory})
	require.NoError(t, err)
	assert.IsType(t, &inmemory.Manager{}, m)

	m, err = New(ctx, config.Store{Backend: config.BackendLocal, Local: config.LocalStore{BaseDir: t.TempDir()}})
	require.NoError(t, err)
	assert.IsType(t, &local.Manager{}, m)

	mr := miniredis.RunT(t)
	m, err = New(ctx, config.Store{Backend: config.BackendRedis, Redis: config.RedisStore{URL: "redis://" + mr.Addr()}})
	require.NoError(t, err)
	assert.IsType(t, &redis.Manager{}, m)
	require.NoError(t, m.Close())

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	old := storage.GetClientBuilder()
	storage.SetClientBuilder(func(...storage.ClientBuilderOpt) (storage.Client, error) { return db, nil })
	t.Cleanup(func() { storage.SetClientBuilder(old) })
	m, err = New(ctx, config.Store{Backend: config.BackendMySQL, MySQL: config.MySQLStore{DSN: "dsn", SkipDBInit: true}})
	require.NoError(t, err)
	assert.IsType(t, &mysql.Manager{}, m)

	_, err = New(ctx, config.Store{Backend: "tape"})
	assert.Error(t, err)
}
