//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package mysqldb holds the MySQL schema of the scorecard store and client helpers.
package mysqldb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	storage "trpc.group/trpc-go/trpc-scorecard-go/storage/mysql"
)

// TableNameRecords is the base table name of scorecard records.
const TableNameRecords = "scorecard_records"

// errDuplicateKeyName is returned when an index with the same name already exists.
const errDuplicateKeyName uint16 = 1061

// BuildClient builds a client from a DSN, or from a registered instance when dsn is empty.
func BuildClient(dsn, instance string, extra []any) (storage.Client, error) {
	opts := []storage.ClientBuilderOpt{
		storage.WithClientBuilderDSN(dsn),
		storage.WithExtraOptions(extra...),
	}
	if dsn == "" && instance != "" {
		var ok bool
		if opts, ok = storage.GetMySQLInstance(instance); !ok {
			return nil, fmt.Errorf("mysql instance %s not found", instance)
		}
	}
	return storage.GetClientBuilder()(opts...)
}

// TableName applies prefix to base, joined by an underscore.
func TableName(prefix, base string) string {
	if prefix == "" {
		return base
	}
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return prefix + base
}

// EnsureSchema creates the records table and its indexes if missing.
func EnsureSchema(ctx context.Context, db storage.Client, table string) error {
	query := strings.ReplaceAll(sqlCreateRecordsTable, "{{TABLE_NAME}}", table)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	for _, idx := range []struct{ name, template string }{
		{name: "uniq_records_id", template: sqlCreateRecordsUniqueIndex},
		{name: "idx_records_project_model_created", template: sqlCreateRecordsListIndex},
	} {
		query := strings.ReplaceAll(idx.template, "{{TABLE_NAME}}", table)
		query = strings.ReplaceAll(query, "{{INDEX_NAME}}", idx.name)
		if _, err := db.ExecContext(ctx, query); err != nil {
			if isMySQLError(err, errDuplicateKeyName) {
				continue
			}
			return fmt.Errorf("create index %s on %s: %w", idx.name, table, err)
		}
	}
	return nil
}

func isMySQLError(err error, number uint16) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == number
}

const (
	sqlCreateRecordsTable = `
		CREATE TABLE IF NOT EXISTS {{TABLE_NAME}} (
			id BIGINT NOT NULL AUTO_INCREMENT,
			record_id VARCHAR(64) NOT NULL,
			project_name VARCHAR(255) NOT NULL,
			model_name VARCHAR(255) NOT NULL,
			dataset_name VARCHAR(255) NOT NULL,
			sample_type VARCHAR(32) NOT NULL DEFAULT '',
			record JSON NOT NULL,
			created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			updated_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6),
			PRIMARY KEY (id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

	sqlCreateRecordsUniqueIndex = `
		CREATE UNIQUE INDEX {{INDEX_NAME}} ON {{TABLE_NAME}}(record_id)`

	sqlCreateRecordsListIndex = `
		CREATE INDEX {{INDEX_NAME}} ON {{TABLE_NAME}}(project_name, model_name, created_at)`
)
