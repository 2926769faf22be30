//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package registry manages the predefined metrics a scorecard can be built from.
package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

// Factory builds a new, unevaluated instance of a predefined metric.
type Factory func() (metric.Evaluable, error)

// Registry defines the interface for predefined metric registries.
type Registry interface {
	// Register registers a factory. Same name factory will be overwritten.
	Register(name string, f Factory) error
	// Build returns a fresh instance of the named metric.
	Build(name string) (metric.Evaluable, error)
	// List returns the names of all registered metrics.
	List() []string
	// Defaults returns the names of the point-forecast metrics applicable to the sample type.
	Defaults(sampleType metric.SampleType) []string
}

// registry is the default implementation of Registry.
type registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// New creates a registry holding the predefined catalog.
func New() Registry {
	r := NewEmpty()
	for _, d := range predefined {
		// Only an empty name or a nil factory is rejected; such an entry is skipped.
		if err := r.Register(d.name, d.factory); err != nil {
			log.Errorf("register predefined metric %q: %v", d.name, err)
		}
	}
	return r
}

// NewEmpty creates a registry without predefined metrics.
func NewEmpty() Registry {
	return &registry{factories: make(map[string]Factory)}
}

// Register registers a factory.
func (r *registry) Register(name string, f Factory) error {
	if f == nil {
		return errors.New("factory is nil")
	}
	if name == "" {
		return errors.New("metric name is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
	return nil
}

// Build builds the named metric.
// Returns os.ErrNotExist if the metric is not registered.
func (r *registry) Build(name string) (metric.Evaluable, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("build metric %s: %w", name, os.ErrNotExist)
	}
	ev, err := f()
	if err != nil {
		return nil, fmt.Errorf("build metric %s: %w", name, err)
	}
	return ev, nil
}

// List returns the names of all registered metrics sorted lexicographically.
func (r *registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults returns, sorted, the registered metrics of the regression, residual and time series
// categories that are not expensive and whose restriction allows sampleType.
func (r *registry) Defaults(sampleType metric.SampleType) []string {
	var out []string
	for _, name := range r.List() {
		ev, err := r.Build(name)
		if err != nil {
			continue
		}
		switch ev.Category() {
		case metric.CategoryRegression, metric.CategoryResiduals, metric.CategoryTimeSeries:
		default:
			continue
		}
		if ev.Complexity() >= metric.ComplexityExpensive || !ev.SampleRestriction().Allows(sampleType) {
			continue
		}
		out = append(out, name)
	}
	return out
}
