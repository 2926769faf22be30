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
	"trpc.group/trpc-go/trpc-scorecard-go/benchmark"
	"trpc.group/trpc-go/trpc-scorecard-go/config"
	"trpc.group/trpc-go/trpc-scorecard-go/evaluator"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/registry"
)

type options struct {
	metadata      Metadata
	sampleType    *metric.SampleType
	probabilities [][]float64
	sampleWeight  []float64
	custom        []metric.Evaluable
	predefined    []string
	registry      registry.Registry
	refs          []benchmark.ReferenceModel
	comparator    *benchmark.Comparator
	evaluator     *evaluator.Evaluator
	config        *config.Config
}

// Option configures a ScoreCard.
type Option func(*options)

// WithMetadata sets all descriptive fields at once.
func WithMetadata(m Metadata) Option {
	return func(o *options) {
		o.metadata = m
	}
}

// WithModelName sets the model name.
func WithModelName(name string) Option {
	return func(o *options) {
		o.metadata.ModelName = name
	}
}

// WithDatasetName sets the dataset name.
func WithDatasetName(name string) Option {
	return func(o *options) {
		o.metadata.DatasetName = name
	}
}

// WithProjectName sets the project name.
func WithProjectName(name string) Option {
	return func(o *options) {
		o.metadata.ProjectName = name
	}
}

// WithSampleType declares whether the data is in-sample or out-of-sample.
// Defaults to the configured sample type, out-of-sample without configuration.
func WithSampleType(s metric.SampleType) Option {
	return func(o *options) {
		o.sampleType = &s
	}
}

// WithProbabilities sets the predicted class probabilities.
func WithProbabilities(p [][]float64) Option {
	return func(o *options) {
		o.probabilities = p
	}
}

// WithSampleWeight sets per-observation weights.
func WithSampleWeight(w []float64) Option {
	return func(o *options) {
		o.sampleWeight = w
	}
}

// WithMetrics adds caller supplied metrics and groups.
func WithMetrics(evs ...metric.Evaluable) Option {
	return func(o *options) {
		o.custom = append(o.custom, evs...)
	}
}

// WithPredefined adds predefined metrics by registry name.
// Without custom or predefined metrics the registry defaults for the sample type are used.
func WithPredefined(names ...string) Option {
	return func(o *options) {
		o.predefined = append(o.predefined, names...)
	}
}

// WithRegistry sets the registry predefined metrics are built from. Defaults to registry.New().
func WithRegistry(r registry.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithReferenceModels enables benchmarking of single-pass results.
func WithReferenceModels(refs ...benchmark.ReferenceModel) Option {
	return func(o *options) {
		o.refs = append(o.refs, refs...)
	}
}

// WithComparator sets the comparator. The caller keeps ownership and closes it.
func WithComparator(c *benchmark.Comparator) Option {
	return func(o *options) {
		o.comparator = c
	}
}

// WithEvaluator sets the evaluation driver.
func WithEvaluator(e *evaluator.Evaluator) Option {
	return func(o *options) {
		o.evaluator = e
	}
}

// WithConfig applies a run configuration: sample type, predefined metrics, evaluation
// settings, and reference models with their comparator. Explicit options take precedence.
func WithConfig(c *config.Config) Option {
	return func(o *options) {
		o.config = c
	}
}
