//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory store of scorecard records.
package inmemory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"trpc.group/trpc-go/trpc-scorecard-go/internal/clone"
	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
	"trpc.group/trpc-go/trpc-scorecard-go/store"
)

var _ store.Manager = (*Manager)(nil)

type modelKey struct {
	project string
	model   string
}

// Manager keeps records in memory. Records are copied on the way in and out.
type Manager struct {
	mu      sync.RWMutex
	records map[modelKey]map[string]*scorecard.Record
}

// New creates an empty in-memory store.
func New() *Manager {
	return &Manager{records: make(map[modelKey]map[string]*scorecard.Record)}
}

// Save implements store.Manager.
func (m *Manager) Save(_ context.Context, rec *scorecard.Record) (string, error) {
	if err := store.Validate(rec); err != nil {
		return "", err
	}
	cp, err := clone.Clone(rec)
	if err != nil {
		return "", err
	}
	key := modelKey{project: rec.Metadata.ProjectName, model: rec.Metadata.ModelName}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[key] == nil {
		m.records[key] = make(map[string]*scorecard.Record)
	}
	m.records[key][rec.ID] = cp
	return rec.ID, nil
}

// Get implements store.Manager.
func (m *Manager) Get(_ context.Context, project, model, id string) (*scorecard.Record, error) {
	m.mu.RLock()
	rec, ok := m.records[modelKey{project: project, model: model}][id]
	m.mu.RUnlock()
	if !ok {
		return nil, store.NotFound(project, model, id)
	}
	return clone.Clone(rec)
}

// List implements store.Manager.
func (m *Manager) List(_ context.Context, project, model string) ([]string, error) {
	m.mu.RLock()
	recs := make([]*scorecard.Record, 0, len(m.records[modelKey{project: project, model: model}]))
	for _, rec := range m.records[modelKey{project: project, model: model}] {
		recs = append(recs, rec)
	}
	m.mu.RUnlock()
	slices.SortFunc(recs, func(a, b *scorecard.Record) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ID
	}
	return ids, nil
}

// Close implements store.Manager.
func (m *Manager) Close() error {
	return nil
}
