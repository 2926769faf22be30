//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package store defines persistence of scorecard records.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
)

// ErrInvalidRecord is returned for records that cannot be stored.
var ErrInvalidRecord = errors.New("store: invalid record")

// Manager persists scorecard records by project, model and id.
type Manager interface {
	// Save stores rec, replacing a record with the same id, and returns the id.
	Save(ctx context.Context, rec *scorecard.Record) (string, error)
	// Get loads a record. Missing records return an error wrapping os.ErrNotExist.
	Get(ctx context.Context, project, model, id string) (*scorecard.Record, error)
	// List returns the ids stored for a project and model, oldest first.
	List(ctx context.Context, project, model string) ([]string, error)
	// Close releases resources held by the manager.
	Close() error
}

// Validate checks that rec has the fields used to address it.
func Validate(rec *scorecard.Record) error {
	switch {
	case rec == nil:
		return fmt.Errorf("%w: nil record", ErrInvalidRecord)
	case rec.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	case rec.Metadata.ProjectName == "":
		return fmt.Errorf("%w: empty project name", ErrInvalidRecord)
	case rec.Metadata.ModelName == "":
		return fmt.Errorf("%w: empty model name", ErrInvalidRecord)
	}
	return nil
}

// NotFound returns the error of a missing record.
func NotFound(project, model, id string) error {
	return fmt.Errorf("scorecard %s/%s/%s not found: %w", project, model, id, os.ErrNotExist)
}
