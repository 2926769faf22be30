//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package mysql stores scorecard records in MySQL, one JSON document per row.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-scorecard-go/internal/mysqldb"
	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
	"trpc.group/trpc-go/trpc-scorecard-go/store"
	storage "trpc.group/trpc-go/trpc-scorecard-go/storage/mysql"
)

var _ store.Manager = (*Manager)(nil)

// Manager stores records in MySQL.
type Manager struct {
	db    storage.Client
	table string
}

// New connects to MySQL and ensures the schema unless WithSkipDBInit is set.
func New(opts ...Option) (*Manager, error) {
	o := newOptions(opts...)
	db, err := mysqldb.BuildClient(o.dsn, o.instanceName, o.extraOptions)
	if err != nil {
		return nil, fmt.Errorf("create mysql client: %w", err)
	}
	m := &Manager{db: db, table: mysqldb.TableName(o.tablePrefix, mysqldb.TableNameRecords)}
	if !o.skipDBInit {
		ctx, cancel := context.WithTimeout(context.Background(), o.initTimeout)
		defer cancel()
		if err := mysqldb.EnsureSchema(ctx, db, m.table); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init database: %w", err)
		}
	}
	return m, nil
}

// Save upserts the record.
func (m *Manager) Save(ctx context.Context, rec *scorecard.Record) (string, error) {
	if err := store.Validate(rec); err != nil {
		return "", err
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal scorecard %s: %w", rec.ID, err)
	}
	query := fmt.Sprintf(
		`INSERT INTO %s (record_id, project_name, model_name, dataset_name, sample_type, record, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   project_name = VALUES(project_name),
		   model_name = VALUES(model_name),
		   dataset_name = VALUES(dataset_name),
		   sample_type = VALUES(sample_type),
		   record = VALUES(record),
		   updated_at = CURRENT_TIMESTAMP(6)`,
		m.table,
	)
	md := rec.Metadata
	if _, err := m.db.ExecContext(ctx, query,
		rec.ID, md.ProjectName, md.ModelName, md.DatasetName, string(rec.SampleType), payload, rec.CreatedAt,
	); err != nil {
		return "", fmt.Errorf("store scorecard %s: %w", rec.ID, err)
	}
	return rec.ID, nil
}

// Get implements store.Manager.
func (m *Manager) Get(ctx context.Context, project, model, id string) (*scorecard.Record, error) {
	query := fmt.Sprintf(
		"SELECT record FROM %s WHERE project_name = ? AND model_name = ? AND record_id = ?",
		m.table,
	)
	var payload []byte
	if err := m.db.QueryRowContext(ctx, query, project, model, id).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

// List implements store.Manager.
func (m *Manager) List(ctx context.Context, project, model string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT record_id FROM %s WHERE project_name = ? AND model_name = ? ORDER BY created_at, record_id",
		m.table,
	)
	rows, err := m.db.QueryContext(ctx, query, project, model)
	if err != nil {
		return nil, fmt.Errorf("list scorecards of %s/%s: %w", project, model, err)
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the client.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
