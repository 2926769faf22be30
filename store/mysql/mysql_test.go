//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-scorecard-go/registry"
	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
	"trpc.group/trpc-go/trpc-scorecard-go/store"
	storage "trpc.group/trpc-go/trpc-scorecard-go/storage/mysql"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	old := storage.GetClientBuilder()
	storage.SetClientBuilder(func(...storage.ClientBuilderOpt) (storage.Client, error) {
		return db, nil
	})
	t.Cleanup(func() { storage.SetClientBuilder(old) })
	return db, mock
}

func newRecord(t *testing.T) *scorecard.Record {
	t.Helper()
	ctx := context.Background()
	s, err := scorecard.New(ctx, []float64{1, 2, 3}, []float64{1, 2, 4},
		scorecard.WithProjectName("demand"),
		scorecard.WithModelName("arima"),
		scorecard.WithPredefined(registry.MAE),
	)
	require.NoError(t, err)
	require.NoError(t, s.Evaluate(ctx))
	rec, err := s.Record()
	require.NoError(t, err)
	return rec
}

func TestNewEnsuresSchema(t *testing.T) {
	_, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS dev_scorecard_records").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE UNIQUE INDEX").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX").WillReturnResult(sqlmock.NewResult(0, 0))

	m, err := New(WithMySQLClientDSN("dsn"), WithTablePrefix("dev"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	require.NoError(t, m.Close())
}

func TestNewFailsOnSchemaError(t *testing.T) {
	_, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("denied"))
	mock.ExpectClose()

	_, err := New(WithMySQLClientDSN("dsn"))
	assert.ErrorContains(t, err, "denied")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewUnknownInstance(t *testing.T) {
	_, err := New(WithMySQLInstance("missing"), WithSkipDBInit(true))
	assert.ErrorContains(t, err, "not found")
}

func TestSave(t *testing.T) {
	_, mock := newMock(t)
	m, err := New(WithMySQLClientDSN("dsn"), WithSkipDBInit(true))
	require.NoError(t, err)
	rec := newRecord(t)
	payload, err := json.Marshal(rec)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO scorecard_records").
		WithArgs(rec.ID, "demand", "arima", rec.Metadata.DatasetName, "outofsample", payload, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	id, err := m.Save(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, id)

	_, err = m.Save(context.Background(), &scorecard.Record{})
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	_, mock := newMock(t)
	m, err := New(WithMySQLClientDSN("dsn"), WithSkipDBInit(true))
	require.NoError(t, err)
	rec := newRecord(t)
	payload, err := json.Marshal(rec)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT record FROM scorecard_records").
		WithArgs("demand", "arima", rec.ID).
		WillReturnRows(sqlmock.NewRows([]string{"record"}).AddRow(payload))
	got, err := m.Get(context.Background(), "demand", "arima", rec.ID)
	require.NoError(t, err)
	again, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(payload), string(again))

	mock.ExpectQuery("SELECT record FROM scorecard_records").
		WithArgs("demand", "arima", "nope").
		WillReturnError(sql.ErrNoRows)
	_, err = m.Get(context.Background(), "demand", "arima", "nope")
	assert.ErrorIs(t, err, os.ErrNotExist)

	mock.ExpectQuery("SELECT record FROM scorecard_records").
		WillReturnRows(sqlmock.NewRows([]string{"record"}).AddRow([]byte("{")))
	_, err = m.Get(context.Background(), "demand", "arima", "broken")
	assert.ErrorContains(t, err, "unmarshal")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	_, mock := newMock(t)
	m, err := New(WithMySQLClientDSN("dsn"), WithSkipDBInit(true))
	require.NoError(t, err)

	mock.ExpectQuery("SELECT record_id FROM scorecard_records").
		WithArgs("demand", "arima").
		WillReturnRows(sqlmock.NewRows([]string{"record_id"}).AddRow("a").AddRow("b"))
	ids, err := m.List(context.Background(), "demand", "arima")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	mock.ExpectQuery("SELECT record_id FROM scorecard_records").
		WillReturnRows(sqlmock.NewRows([]string{"record_id"}))
	ids, err = m.List(context.Background(), "demand", "prophet")
	require.NoError(t, err)
	assert.Empty(t, ids)

	mock.ExpectQuery("SELECT record_id").WillReturnError(errors.New("gone"))
	_, err = m.List(context.Background(), "demand", "arima")
	assert.ErrorContains(t, err, "gone")
	require.NoError(t, mock.ExpectationsWereMet())
}
