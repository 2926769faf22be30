//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package group

import "trpc.group/trpc-go/trpc-scorecard-go/metric"

// State is the serializable snapshot of a group and its children.
type State struct {
	Key               string            `json:"key"`
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	Category          metric.Category   `json:"category"`
	SampleRestriction metric.SampleType `json:"sample_restriction,omitempty"`
	Complexity        metric.Complexity `json:"complexity"`
	Members           []metric.State    `json:"members"`
}

// State returns a snapshot of g.
func (g *Group) State() State {
	s := State{
		Key:               g.key,
		Name:              g.name,
		Description:       g.description,
		Category:          g.category,
		SampleRestriction: g.restriction,
		Complexity:        g.complexity,
		Members:           make([]metric.State, len(g.children)),
	}
	for i, c := range g.children {
		s.Members[i] = c.State()
	}
	return s
}

// Restore rebuilds a read-only group from a snapshot.
func Restore(s State) (*Group, error) {
	children := make([]*metric.Metric, len(s.Members))
	for i, ms := range s.Members {
		c, err := metric.Restore(ms)
		if err != nil {
			return nil, err
		}
		children[i] = c
	}
	return build(s.Name, nil, children,
		WithKey(s.Key),
		WithDescription(s.Description),
		WithCategory(s.Category),
		WithSampleRestriction(s.SampleRestriction),
		WithComplexity(s.Complexity),
	)
}
