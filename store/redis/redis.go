//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package redis stores scorecard records in Redis.
//
// Each record is a JSON string under <prefix>:record:<project>:<model>:<id>. A sorted set
// <prefix>:index:<project>:<model> scored by creation time in microseconds lists the ids.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
	"trpc.group/trpc-go/trpc-scorecard-go/store"
	storage "trpc.group/trpc-go/trpc-scorecard-go/storage/redis"
)

var _ store.Manager = (*Manager)(nil)

// Manager stores records in Redis.
type Manager struct {
	client redis.UniversalClient
	prefix string
}

// New creates a Redis store from a URL or a registered instance.
func New(opts ...Option) (*Manager, error) {
	o := newOptions(opts...)
	builderOpts := []storage.ClientBuilderOpt{
		storage.WithClientBuilderURL(o.url),
		storage.WithExtraOptions(o.extraOptions...),
	}
	if o.url == "" && o.instanceName != "" {
		var ok bool
		if builderOpts, ok = storage.GetRedisInstance(o.instanceName); !ok {
			return nil, fmt.Errorf("redis instance %s not found", o.instanceName)
		}
	}
	client, err := storage.GetClientBuilder()(builderOpts...)
	if err != nil {
		return nil, fmt.Errorf("create redis client: %w", err)
	}
	return &Manager{client: client, prefix: o.keyPrefix}, nil
}

func (m *Manager) recordKey(project, model, id string) string {
	return fmt.Sprintf("%s:record:%s:%s:%s", m.prefix, project, model, id)
}

func (m *Manager) indexKey(project, model string) string {
	return fmt.Sprintf("%s:index:%s:%s", m.prefix, project, model)
}

// Save writes the record and indexes it in one transaction.
func (m *Manager) Save(ctx context.Context, rec *scorecard.Record) (string, error) {
	if err := store.Validate(rec); err != nil {
		return "", err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal scorecard %s: %w", rec.ID, err)
	}
	project, model := rec.Metadata.ProjectName, rec.Metadata.ModelName
	if _, err := m.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, m.recordKey(project, model, rec.ID), payload, 0)
		pipe.ZAdd(ctx, m.indexKey(project, model), redis.Z{
			Score:  float64(rec.CreatedAt.UnixMicro()),
			Member: rec.ID,
		})
		return nil
	}); err != nil {
		return "", fmt.Errorf("store scorecard %s: %w", rec.ID, err)
	}
	return rec.ID, nil
}

// Get implements store.Manager.
func (m *Manager) Get(ctx context.Context, project, model, id string) (*scorecard.Record, error) {
	payload, err := m.client.Get(ctx, m.recordKey(project, model, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, store.NotFound(project, model, id)
		}
		return nil, fmt.Errorf("load scorecard %s: %w", id, err)
	}
	var rec scorecard.Record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal scorecard %s: %w", id, err)
	}
	return &rec, nil
}

// List implements store.Manager. Ties in creation time are ordered by id.
func (m *Manager) List(ctx context.Context, project, model string) ([]string, error) {
	ids, err := m.client.ZRange(ctx, m.indexKey(project, model), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list scorecards of %s/%s: %w", project, model, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// Close closes the client.
func (m *Manager) Close() error {
	return m.client.Close()
}
