//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package local

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-scorecard-go/registry"
	"trpc.group/trpc-go/trpc-scorecard-go/report"
	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
	"trpc.group/trpc-go/trpc-scorecard-go/store"
)

func newRecord(t *testing.T, project, model string) *scorecard.Record {
	t.Helper()
	ctx := context.Background()
	s, err := scorecard.New(ctx, []float64{1, 2, 3}, []float64{1, 2, 4},
		scorecard.WithProjectName(project),
		scorecard.WithModelName(model),
		scorecard.WithPredefined(registry.MAE, registry.MSE),
	)
	require.NoError(t, err)
	require.NoError(t, s.Evaluate(ctx))
	rec, err := s.Record()
	require.NoError(t, err)
	return rec
}

func TestSaveWritesRecordAndSummaries(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	m := New(WithBaseDir(dir))
	rec := newRecord(t, "demand", "arima")

	id, err := m.Save(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, id)

	base := filepath.Join(dir, "demand", "arima", rec.ID)
	raw, err := os.ReadFile(base + SuffixRecord)
	require.NoError(t, err)
	var decoded scorecard.Record
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, rec.ID, decoded.ID)

	raw, err = os.ReadFile(base + SuffixMinimal)
	require.NoError(t, err)
	var sum report.Summary
	require.NoError(t, json.Unmarshal(raw, &sum))
	assert.Equal(t, "succeeded", sum.Status)
	assert.Len(t, sum.Metrics, 2)

	raw, err = os.ReadFile(base + SuffixConsole)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "model:   arima")

	entries, err := os.ReadDir(filepath.Join(dir, "demand", "arima"))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), e.Name())
	}

	got, err := m.Get(ctx, "demand", "arima", rec.ID)
	require.NoError(t, err)
	want, err := json.Marshal(rec)
	require.NoError(t, err)
	have, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(have))
}

func TestListOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	m := New(WithBaseDir(t.TempDir()))
	older, newer := newRecord(t, "demand", "arima"), newRecord(t, "demand", "arima")
	older.CreatedAt = newer.CreatedAt.Add(-time.Minute)
	for _, rec := range []*scorecard.Record{newer, older, newRecord(t, "demand", "prophet")} {
		_, err := m.Save(ctx, rec)
		require.NoError(t, err)
	}
	ids, err := m.List(ctx, "demand", "arima")
	require.NoError(t, err)
	assert.Equal(t, []string{older.ID, newer.ID}, ids)

	ids, err = m.List(ctx, "other", "arima")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	m := New(WithBaseDir(t.TempDir()))
	rec := newRecord(t, "demand", "arima")
	_, err := m.Save(ctx, rec)
	require.NoError(t, err)
	rec.Metadata.ModelDescription = "tuned"
	_, err = m.Save(ctx, rec)
	require.NoError(t, err)

	got, err := m.Get(ctx, "demand", "arima", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "tuned", got.Metadata.ModelDescription)
}

func TestGetMissing(t *testing.T) {
	_, err := New(WithBaseDir(t.TempDir())).Get(context.Background(), "demand", "arima", "nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRejectsUnsafeNames(t *testing.T) {
	m := New(WithBaseDir(t.TempDir()))
	for _, project := range []string{"..", "a/b", `a\b`} {
		_, err := m.Save(context.Background(), newRecord(t, project, "arima"))
		assert.ErrorIs(t, err, store.ErrInvalidRecord, project)
	}
}

func TestReadsRejectUnsafeNames(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	rec := newRecord(t, "demand", "arima")
	_, err := New(WithBaseDir(dir)).Save(ctx, rec)
	require.NoError(t, err)

	m := New(WithBaseDir(filepath.Join(dir, "nested")))
	_, err = m.Get(ctx, "../demand", "arima", rec.ID)
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
	_, err = m.Get(ctx, "demand", "arima", "../"+rec.ID)
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
	_, err = m.Get(ctx, "..", "demand", rec.ID)
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
	_, err = m.List(ctx, "..", "demand")
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
	_, err = m.List(ctx, "demand", "")
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
}

type flatLocator struct{}

func (flatLocator) Build(baseDir, project, model, id string) string {
	return filepath.Join(baseDir, project+"-"+model+"-"+id+".json")
}

func (flatLocator) List(string, string, string) ([]string, error) {
	return nil, nil
}

func TestCustomLocator(t *testing.T) {
	dir := t.TempDir()
	m := New(WithBaseDir(dir), WithLocator(flatLocator{}))
	rec := newRecord(t, "demand", "arima")
	_, err := m.Save(context.Background(), rec)
	require.NoError(t, err)

	path := filepath.Join(dir, "demand-arima-"+rec.ID+".json")
	_, err = os.Stat(path)
	require.NoError(t, err)
	_, err = os.Stat(path + SuffixMinimal)
	require.NoError(t, err)
}
