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

	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

// Section is one category of a scorecard in display order.
type Section struct {
	Category   metric.Category
	Evaluables []metric.Evaluable
}

// Get returns the metric or group stored under key. Group children are found by their own key.
func (s *ScoreCard) Get(key string) (metric.Evaluable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ev, ok := s.top[key]; ok {
		return ev, true
	}
	if m, ok := s.members[key]; ok {
		return m, true
	}
	return nil, false
}

// Set adds ev at the end of the scorecard. Existing keys are never replaced.
func (s *ScoreCard) Set(ev metric.Evaluable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return fmt.Errorf("scorecard %s: %w", s.id, metric.ErrReadOnly)
	}
	return s.addLocked(ev)
}

// Delete removes the top-level entry stored under key, with its children for groups.
func (s *ScoreCard) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev, ok := s.top[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	for i, e := range s.entries {
		if e == ev {
			s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
			break
		}
	}
	delete(s.top, key)
	for _, m := range ev.Members() {
		delete(s.members, m.Key())
	}
	delete(s.skipped, key)
	return nil
}

// Annotate attaches descriptive info to the metric stored under key, or to every child of a group.
// Annotation is allowed on read-only scorecards.
func (s *ScoreCard) Annotate(key, info string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.members[key]; ok {
		m.Annotate(info)
		return nil
	}
	ev, ok := s.top[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	for _, m := range ev.Members() {
		m.Annotate(info)
	}
	return nil
}

// Keys returns the top-level keys in insertion order.
func (s *ScoreCard) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, len(s.entries))
	for i, ev := range s.entries {
		keys[i] = ev.Key()
	}
	return keys
}

// Evaluables returns the top-level metrics and groups in insertion order.
func (s *ScoreCard) Evaluables() []metric.Evaluable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]metric.Evaluable(nil), s.entries...)
}

// Metrics returns every metric with group children flattened in place.
func (s *ScoreCard) Metrics() []*metric.Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metricsLocked()
}

func (s *ScoreCard) metricsLocked() []*metric.Metric {
	var out []*metric.Metric
	for _, ev := range s.entries {
		out = append(out, ev.Members()...)
	}
	return out
}

// ByCategory returns the entries grouped by category, categories in order of first appearance.
func (s *ScoreCard) ByCategory() []Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sections []Section
	index := make(map[metric.Category]int)
	for _, ev := range s.entries {
		i, ok := index[ev.Category()]
		if !ok {
			i = len(sections)
			index[ev.Category()] = i
			sections = append(sections, Section{Category: ev.Category()})
		}
		sections[i].Evaluables = append(sections[i].Evaluables, ev)
	}
	return sections
}

func (s *ScoreCard) add(ev metric.Evaluable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ev)
}

func (s *ScoreCard) addLocked(ev metric.Evaluable) error {
	if ev == nil {
		return errors.New("scorecard: nil metric")
	}
	keys := []string{ev.Key()}
	self, _ := ev.(*metric.Metric)
	for _, m := range ev.Members() {
		if m != self {
			keys = append(keys, m.Key())
		}
	}
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		_, top := s.top[k]
		_, member := s.members[k]
		if top || member || seen[k] {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, k)
		}
		seen[k] = true
	}
	s.entries = append(s.entries, ev)
	s.top[ev.Key()] = ev
	for _, m := range ev.Members() {
		s.members[m.Key()] = m
	}
	return nil
}
