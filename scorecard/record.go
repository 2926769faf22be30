//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package scorecard

import (
	"errors"
	"fmt"
	"time"

	"trpc.group/trpc-go/trpc-scorecard-go/internal/jsonnum"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/metric/group"
)

// Record is the serializable form of a scorecard. It holds no functions and no live references.
type Record struct {
	ID         string            `json:"id"`
	Metadata   Metadata          `json:"metadata"`
	SampleType metric.SampleType `json:"sample_type"`
	CreatedAt  time.Time         `json:"created_at"`
	Input      InputRecord       `json:"input"`
	Entries    []Entry           `json:"entries"`
}

// InputRecord holds the input series of a record.
type InputRecord struct {
	Targets       jsonnum.Floats   `json:"targets"`
	Predictions   jsonnum.Floats   `json:"predictions"`
	Probabilities []jsonnum.Floats `json:"probabilities,omitempty"`
	SampleWeight  jsonnum.Floats   `json:"sample_weight,omitempty"`
}

// Entry is one top-level metric or group of a record. Exactly one field is set.
type Entry struct {
	Metric *metric.State `json:"metric,omitempty"`
	Group  *group.State  `json:"group,omitempty"`
}

// Key returns the key of the entry.
func (e Entry) Key() string {
	switch {
	case e.Metric != nil:
		return e.Metric.Key
	case e.Group != nil:
		return e.Group.Key
	default:
		return ""
	}
}

// Record returns a snapshot of the scorecard.
func (s *ScoreCard) Record() (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec := &Record{
		ID:         s.id,
		Metadata:   s.metadata,
		SampleType: s.sampleType,
		CreatedAt:  s.createdAt,
		Input: InputRecord{
			Targets:       jsonnum.FromSlice(s.input.Targets),
			Predictions:   jsonnum.FromSlice(s.input.Predictions),
			Probabilities: jsonnum.FromMatrix(s.input.Probabilities),
			SampleWeight:  jsonnum.FromSlice(s.input.SampleWeight),
		},
		Entries: make([]Entry, 0, len(s.entries)),
	}
	for _, ev := range s.entries {
		switch v := ev.(type) {
		case *metric.Metric:
			st := v.State()
			rec.Entries = append(rec.Entries, Entry{Metric: &st})
		case *group.Group:
			st := v.State()
			rec.Entries = append(rec.Entries, Entry{Group: &st})
		default:
			return nil, fmt.Errorf("scorecard: cannot record %s of type %T", ev.Key(), ev)
		}
	}
	return rec, nil
}

// FromRecord rebuilds a read-only scorecard. Its metrics keep their results and comparisons
// but cannot be evaluated again.
func FromRecord(rec *Record) (*ScoreCard, error) {
	if rec == nil {
		return nil, errors.New("scorecard: nil record")
	}
	s := &ScoreCard{
		id:         rec.ID,
		metadata:   rec.Metadata,
		sampleType: rec.SampleType,
		createdAt:  rec.CreatedAt,
		input: metric.Input{
			Targets:       rec.Input.Targets.Slice(),
			Predictions:   rec.Input.Predictions.Slice(),
			Probabilities: jsonnum.Matrix(rec.Input.Probabilities),
			SampleWeight:  rec.Input.SampleWeight.Slice(),
		},
		top:       make(map[string]metric.Evaluable),
		members:   make(map[string]*metric.Metric),
		skipped:   make(map[string]bool),
		readOnly:  true,
		evaluated: true,
	}
	s.evaluatedRolled = true
	for i, e := range rec.Entries {
		var ev metric.Evaluable
		switch {
		case e.Metric != nil:
			m, err := metric.Restore(*e.Metric)
			if err != nil {
				return nil, fmt.Errorf("scorecard: entry %d: %w", i, err)
			}
			ev = m
		case e.Group != nil:
			g, err := group.Restore(*e.Group)
			if err != nil {
				return nil, fmt.Errorf("scorecard: entry %d: %w", i, err)
			}
			ev = g
		default:
			return nil, fmt.Errorf("scorecard: entry %d is empty", i)
		}
		if err := s.addLocked(ev); err != nil {
			return nil, err
		}
	}
	return s, nil
}
