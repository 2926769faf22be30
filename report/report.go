//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package report renders scorecard records for people: a minimal JSON summary,
// a console table and an HTML page.
package report

import (
	"time"

	istatus "trpc.group/trpc-go/trpc-scorecard-go/internal/status"
	"trpc.group/trpc-go/trpc-scorecard-go/internal/jsonnum"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/scorecard"
	"trpc.group/trpc-go/trpc-scorecard-go/status"
)

// Summary is the minimal form of a record: one display string per metric.
type Summary struct {
	ID         string             `json:"id"`
	Metadata   scorecard.Metadata `json:"metadata"`
	SampleType metric.SampleType  `json:"sample_type"`
	CreatedAt  time.Time          `json:"created_at"`
	Status     string             `json:"status"`
	Counts     istatus.Counts     `json:"counts"`
	Metrics    []MetricSummary    `json:"metrics"`
}

// MetricSummary is one metric of a Summary.
type MetricSummary struct {
	Key         string            `json:"key"`
	Name        string            `json:"name"`
	Group       string            `json:"group,omitempty"`
	Category    metric.Category   `json:"category"`
	Status      string            `json:"status"`
	Value       *jsonnum.Float    `json:"value,omitempty"`
	Display     string            `json:"display"`
	Comparisons map[string]string `json:"comparisons,omitempty"`
	Info        string            `json:"info,omitempty"`
}

// Minimal summarizes a record.
func Minimal(rec *scorecard.Record) (*Summary, error) {
	states := flatten(rec)
	out := &Summary{
		ID:         rec.ID,
		Metadata:   rec.Metadata,
		SampleType: rec.SampleType,
		CreatedAt:  rec.CreatedAt,
		Metrics:    make([]MetricSummary, 0, len(states)),
	}
	statuses := make([]status.EvalStatus, len(states))
	for i, fs := range states {
		statuses[i] = fs.State.Status()
		ms := MetricSummary{
			Key:      fs.State.Key,
			Name:     fs.State.Name,
			Group:    fs.Group,
			Category: fs.State.Category,
			Status:   statuses[i].String(),
			Display:  display(fs.State.Result),
			Info:     fs.State.Info,
		}
		if fs.State.Result != nil {
			if v, err := fs.State.Result.Scalar(); err == nil {
				f := jsonnum.Float(v)
				ms.Value = &f
			}
		}
		if len(fs.State.Comparisons) > 0 {
			ms.Comparisons = make(map[string]string, len(fs.State.Comparisons))
			for _, c := range fs.State.Comparisons {
				ms.Comparisons[c.Name] = c.String()
			}
		}
		out.Metrics = append(out.Metrics, ms)
	}
	overall, err := istatus.Summarize(statuses)
	if err != nil {
		return nil, err
	}
	counts, err := istatus.Count(statuses)
	if err != nil {
		return nil, err
	}
	out.Status = overall.String()
	out.Counts = counts
	return out, nil
}

// flatState is a metric snapshot with the key of its group, if any.
type flatState struct {
	Group string
	State metric.State
}

func flatten(rec *scorecard.Record) []flatState {
	var out []flatState
	for _, e := range rec.Entries {
		switch {
		case e.Metric != nil:
			out = append(out, flatState{State: *e.Metric})
		case e.Group != nil:
			for _, m := range e.Group.Members {
				out = append(out, flatState{Group: e.Group.Key, State: m})
			}
		}
	}
	return out
}

// comparisonNames returns every comparison name in order of first appearance.
func comparisonNames(states []flatState) []string {
	var names []string
	seen := make(map[string]bool)
	for _, fs := range states {
		for _, c := range fs.State.Comparisons {
			if !seen[c.Name] {
				seen[c.Name] = true
				names = append(names, c.Name)
			}
		}
	}
	return names
}

func comparisonOf(s metric.State, name string) string {
	for _, c := range s.Comparisons {
		if c.Name == name {
			return c.String()
		}
	}
	return ""
}

func display(r *metric.Result) string {
	if r == nil {
		return "n/a"
	}
	return r.String()
}
