//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package local stores scorecard records as JSON files with derived minimal and console summaries.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/report"
	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
	"trpc.group/trpc-go/trpc-scorecard-go/store"
)

var _ store.Manager = (*Manager)(nil)

// Manager stores records on the local file system.
type Manager struct {
	mu      sync.Mutex
	baseDir string
	locator Locator
}

// New creates a local store.
func New(opts ...Option) *Manager {
	o := &options{baseDir: defaultBaseDir, locator: locator{}}
	for _, opt := range opts {
		opt(o)
	}
	return &Manager{baseDir: o.baseDir, locator: o.locator}
}

// Save writes the record and its summaries. Each file is replaced atomically.
// A failing summary is logged and does not fail the save.
func (m *Manager) Save(ctx context.Context, rec *scorecard.Record) (string, error) {
	if err := store.Validate(rec); err != nil {
		return "", err
	}
	if err := checkSegments(rec.Metadata.ProjectName, rec.Metadata.ModelName, rec.ID); err != nil {
		return "", err
	}
	path := m.locator.Build(m.baseDir, rec.Metadata.ProjectName, rec.Metadata.ModelName, rec.ID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := writeAtomic(path, func(w io.Writer) error { return encode(w, rec) }); err != nil {
		return "", fmt.Errorf("write scorecard %s: %w", rec.ID, err)
	}
	if err := writeAtomic(derivedPath(path, SuffixMinimal), func(w io.Writer) error {
		sum, err := report.Minimal(rec)
		if err != nil {
			return err
		}
		return encode(w, sum)
	}); err != nil {
		log.WarnfContext(ctx, "write minimal summary of scorecard %s: %v", rec.ID, err)
	}
	if err := writeAtomic(derivedPath(path, SuffixConsole), func(w io.Writer) error {
		return report.Console(w, rec)
	}); err != nil {
		log.WarnfContext(ctx, "write console summary of scorecard %s: %v", rec.ID, err)
	}
	return rec.ID, nil
}

// Get implements store.Manager.
func (m *Manager) Get(_ context.Context, project, model, id string) (*scorecard.Record, error) {
	if err := checkSegments(project, model, id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, err := m.load(m.locator.Build(m.baseDir, project, model, id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, store.NotFound(project, model, id)
	}
	return rec, err
}

// List implements store.Manager.
func (m *Manager) List(_ context.Context, project, model string) ([]string, error) {
	if err := checkSegments(project, model); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids, err := m.locator.List(m.baseDir, project, model)
	if err != nil {
		return nil, err
	}
	recs := make([]*scorecard.Record, 0, len(ids))
	for _, id := range ids {
		rec, err := m.load(m.locator.Build(m.baseDir, project, model, id))
		if err != nil {
			return nil, fmt.Errorf("load scorecard %s: %w", id, err)
		}
		recs = append(recs, rec)
	}
	slices.SortStableFunc(recs, func(a, b *scorecard.Record) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	out := make([]string, len(recs))
	for i, rec := range recs {
		out[i] = rec.ID
	}
	return out, nil
}

// Close implements store.Manager.
func (m *Manager) Close() error {
	return nil
}

func (m *Manager) load(path string) (*scorecard.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rec scorecard.Record
	if err := json.NewDecoder(f).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &rec, nil
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeAtomic writes through a temporary file in the target directory and renames it into place.
func writeAtomic(path string, write func(io.Writer) error) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := write(f); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// checkSegment rejects names that would escape their directory.
// checkSegments keeps project, model and id inside the base directory.
func checkSegments(parts ...string) error {
	for _, s := range parts {
		if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
			return fmt.Errorf("%w: %q cannot be used as a path segment", store.ErrInvalidRecord, s)
		}
	}
	return nil
}
