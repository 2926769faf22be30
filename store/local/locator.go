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
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// File suffixes of a stored record and its derived summaries.
const (
	SuffixRecord  = ".scorecard.json"
	SuffixMinimal = ".minimal.json"
	SuffixConsole = ".console.txt"
)

// Locator maps records to files.
type Locator interface {
	// Build returns the path of the record file.
	Build(baseDir, project, model, id string) string
	// List returns the ids of the record files of a project and model.
	List(baseDir, project, model string) ([]string, error)
}

// locator stores records as <baseDir>/<project>/<model>/<id>.scorecard.json.
type locator struct{}

func (locator) Build(baseDir, project, model, id string) string {
	return filepath.Join(baseDir, project, model, id+SuffixRecord)
}

func (locator) List(baseDir, project, model string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(baseDir, project, model))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	ids := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), SuffixRecord) {
			ids = append(ids, strings.TrimSuffix(e.Name(), SuffixRecord))
		}
	}
	return ids, nil
}

// derivedPath replaces the record suffix of path, or appends suffix when there is none.
func derivedPath(path, suffix string) string {
	return strings.TrimSuffix(path, SuffixRecord) + suffix
}
