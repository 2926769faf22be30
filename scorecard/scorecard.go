//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package scorecard aggregates evaluated metrics of one model on one dataset.
//
// A ScoreCard owns its input series, metadata and an ordered collection of metrics and
// groups with unique keys. Evaluate and EvaluateOverTime populate results exactly once
// each. Afterwards the scorecard is read-mostly: it is compared, combined, rendered and
// persisted through Record.
package scorecard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"trpc.group/trpc-go/trpc-scorecard-go/benchmark"
	"trpc.group/trpc-go/trpc-scorecard-go/benchmark/reference"
	"trpc.group/trpc-go/trpc-scorecard-go/config"
	"trpc.group/trpc-go/trpc-scorecard-go/evaluator"
	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
	"trpc.group/trpc-go/trpc-scorecard-go/metric/group"
	"trpc.group/trpc-go/trpc-scorecard-go/registry"
)

// Metadata describes the model, dataset and project a scorecard belongs to.
type Metadata struct {
	ModelName          string `json:"model_name"`
	ModelDescription   string `json:"model_description,omitempty"`
	DatasetName        string `json:"dataset_name"`
	DatasetDescription string `json:"dataset_description,omitempty"`
	ProjectName        string `json:"project_name"`
	ProjectDescription string `json:"project_description,omitempty"`
}

// withPlaceholders fills empty names with generated ones.
func (m Metadata) withPlaceholders() Metadata {
	if m.ModelName == "" {
		m.ModelName = placeholder("model")
	}
	if m.DatasetName == "" {
		m.DatasetName = placeholder("dataset")
	}
	if m.ProjectName == "" {
		m.ProjectName = placeholder("project")
	}
	return m
}

func placeholder(prefix string) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + token[:12]
}

// ScoreCard is the result container for one model on one dataset.
type ScoreCard struct {
	mu sync.RWMutex

	id         string
	metadata   Metadata
	sampleType metric.SampleType
	createdAt  time.Time
	input      metric.Input

	entries []metric.Evaluable
	top     map[string]metric.Evaluable
	members map[string]*metric.Metric

	registry        registry.Registry
	evaluator       *evaluator.Evaluator
	refs            []benchmark.ReferenceModel
	comparator      *benchmark.Comparator
	ownsComparator  bool
	calculations    []evaluator.CalculationType
	window          int
	maxComplexity   metric.Complexity
	evaluated       bool
	evaluatedRolled bool
	readOnly        bool
	skipped         map[string]bool
	failures        error
}

// New creates a scorecard for the given series.
//
// The series are copied. Metrics come from WithMetrics and WithPredefined; without either,
// the configured metric names are used, and without configuration the registry defaults for
// the sample type. Metric keys must be unique across top-level entries and group children.
func New(ctx context.Context, targets, predictions []float64, opts ...Option) (*ScoreCard, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	in, err := metric.NewInput(targets, predictions,
		metric.WithProbabilities(o.probabilities),
		metric.WithSampleWeight(o.sampleWeight),
	)
	if err != nil {
		return nil, err
	}
	s := &ScoreCard{
		id:            uuid.NewString(),
		metadata:      o.metadata.withPlaceholders(),
		createdAt:     now(),
		input:         in,
		top:           make(map[string]metric.Evaluable),
		members:       make(map[string]*metric.Metric),
		registry:      o.registry,
		evaluator:     o.evaluator,
		refs:          append([]benchmark.ReferenceModel(nil), o.refs...),
		comparator:    o.comparator,
		calculations:  []evaluator.CalculationType{evaluator.CalculationSingle},
		maxComplexity: metric.ComplexityExpensive,
		skipped:       make(map[string]bool),
	}
	if s.registry == nil {
		s.registry = registry.New()
	}
	if err := s.configure(o); err != nil {
		return nil, err
	}

	evs := append([]metric.Evaluable(nil), o.custom...)
	names := o.predefined
	if len(evs) == 0 && len(names) == 0 {
		if o.config != nil && len(o.config.Metrics) > 0 {
			names = o.config.Metrics
		} else {
			names = s.registry.Defaults(s.sampleType)
		}
	}
	for _, name := range names {
		ev, err := s.registry.Build(name)
		if err != nil {
			s.Close()
			return nil, err
		}
		evs = append(evs, ev)
	}
	for _, ev := range evs {
		if err := s.add(ev); err != nil {
			s.Close()
			return nil, err
		}
	}
	log.DebugfContext(ctx, "scorecard %s created for model %s with %d metrics",
		s.id, s.metadata.ModelName, len(s.entries))
	return s, nil
}

// configure resolves options that fall back to the run configuration.
func (s *ScoreCard) configure(o *options) error {
	cfg := o.config
	s.sampleType = metric.SampleOutOfSample
	if cfg != nil {
		st, err := cfg.ParsedSampleType()
		if err != nil {
			return err
		}
		if st != metric.SampleAny {
			s.sampleType = st
		}
		if cfg.Evaluation.CalculationTypes != "" {
			types, err := evaluator.ParseCalculationType(cfg.Evaluation.CalculationTypes)
			if err != nil {
				return err
			}
			s.calculations = types
		}
		s.window = cfg.Evaluation.Window
		if s.maxComplexity, err = cfg.ParsedMaxComplexity(); err != nil {
			return err
		}
		if len(s.refs) == 0 {
			refs, err := referenceModels(cfg)
			if err != nil {
				return err
			}
			s.refs = refs
		}
	}
	if o.sampleType != nil {
		s.sampleType = *o.sampleType
	}
	if s.evaluator == nil {
		s.evaluator = evaluator.New(evaluator.WithMaxComplexity(s.maxComplexity))
	}
	if len(s.refs) > 0 && s.comparator == nil {
		var copts []benchmark.Option
		if cfg != nil && cfg.Benchmark.Iterations > 0 {
			copts = append(copts, benchmark.WithIterations(cfg.Benchmark.Iterations))
		}
		if cfg != nil && cfg.Benchmark.Parallelism > 0 {
			copts = append(copts, benchmark.WithParallelism(cfg.Benchmark.Parallelism))
		}
		c, err := benchmark.New(copts...)
		if err != nil {
			return err
		}
		s.comparator = c
		s.ownsComparator = true
	}
	return nil
}

func referenceModels(cfg *config.Config) ([]benchmark.ReferenceModel, error) {
	if len(cfg.Benchmark.References) == 0 {
		return nil, nil
	}
	seed := cfg.Seed()
	refs := make([]benchmark.ReferenceModel, 0, len(cfg.Benchmark.References))
	for _, name := range cfg.Benchmark.References {
		ref, err := reference.ByName(name, seed)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// now returns the creation time as stored in records.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// ID returns the unique id of the scorecard.
func (s *ScoreCard) ID() string { return s.id }

// Metadata returns the descriptive fields.
func (s *ScoreCard) Metadata() Metadata { return s.metadata }

// SampleType returns the declared sample type of the input.
func (s *ScoreCard) SampleType() metric.SampleType { return s.sampleType }

// CreatedAt returns the creation time in UTC.
func (s *ScoreCard) CreatedAt() time.Time { return s.createdAt }

// Input returns a copy of the input series.
func (s *ScoreCard) Input() metric.Input { return s.input.Clone() }

// ReadOnly reports whether the scorecard was rebuilt from a record or derived by arithmetic.
func (s *ScoreCard) ReadOnly() bool { return s.readOnly }

// Evaluate runs the single-pass evaluation and, when reference models are configured,
// the benchmark comparison. It may be called once.
func (s *ScoreCard) Evaluate(ctx context.Context) error {
	return s.Run(ctx, evaluator.CalculationSingle)
}

// EvaluateOverTime runs the rolling evaluation over windows of the given size.
// Zero or less means expanding windows. It may be called once.
func (s *ScoreCard) EvaluateOverTime(ctx context.Context, window int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runLocked(ctx, []evaluator.CalculationType{evaluator.CalculationRolling}, window)
}

// Run evaluates the given calculation types, defaulting to the configured ones.
// Rolling evaluation uses the configured window.
func (s *ScoreCard) Run(ctx context.Context, types ...evaluator.CalculationType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(types) == 0 {
		types = s.calculations
	}
	return s.runLocked(ctx, types, s.window)
}

func (s *ScoreCard) runLocked(ctx context.Context, types []evaluator.CalculationType, window int) error {
	if s.readOnly {
		return fmt.Errorf("scorecard %s: %w", s.id, metric.ErrReadOnly)
	}
	types, err := evaluator.NormalizeCalculationTypes(types)
	if err != nil {
		return fmt.Errorf("scorecard %s: %w", s.id, err)
	}
	var single bool
	for _, t := range types {
		switch t {
		case evaluator.CalculationSingle:
			if s.evaluated {
				return fmt.Errorf("scorecard %s: %w", s.id, metric.ErrAlreadyEvaluated)
			}
			single = true
		case evaluator.CalculationRolling:
			if s.evaluatedRolled {
				return fmt.Errorf("scorecard %s rolling: %w", s.id, metric.ErrAlreadyEvaluated)
			}
		}
	}
	for _, t := range types {
		switch t {
		case evaluator.CalculationSingle:
			s.evaluated = true
		case evaluator.CalculationRolling:
			s.evaluatedRolled = true
		}
	}
	out, err := s.evaluator.Run(ctx, evaluator.Request{
		Input:            s.input,
		Evaluables:       s.entries,
		CalculationTypes: types,
		Window:           window,
		SampleType:       s.sampleType,
		MaxComplexity:    s.maxComplexity,
	})
	if err != nil {
		return err
	}
	for _, key := range out.Skipped {
		s.skipped[key] = true
	}
	if out.Failures != nil {
		s.failures = multierror.Append(s.failures, out.Failures)
	}
	if single && len(s.refs) > 0 {
		return s.benchmarkLocked(ctx)
	}
	return nil
}

func (s *ScoreCard) benchmarkLocked(ctx context.Context) error {
	for _, ev := range s.entries {
		if s.skipped[ev.Key()] {
			continue
		}
		switch v := ev.(type) {
		case *metric.Metric:
			if _, err := s.comparator.Calculate(ctx, v, s.refs, s.input); err != nil {
				return err
			}
		case *group.Group:
			if err := s.comparator.ForGroup(s.refs...)(ctx, v, s.input); err != nil {
				return err
			}
		default:
			log.DebugfContext(ctx, "scorecard %s: no benchmark for %s of type %T", s.id, ev.Key(), ev)
		}
	}
	return nil
}

// Evaluated reports whether the single-pass and the rolling evaluation ran.
func (s *ScoreCard) Evaluated() (single, rolling bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluated, s.evaluatedRolled
}

// Skipped returns the keys left out of evaluation by sample type or complexity.
func (s *ScoreCard) Skipped() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for _, ev := range s.entries {
		if s.skipped[ev.Key()] {
			keys = append(keys, ev.Key())
		}
	}
	return keys
}

// Failures returns the group transform failures collected during evaluation, or nil.
func (s *ScoreCard) Failures() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.failures
}

// Close releases the comparator when the scorecard created it.
func (s *ScoreCard) Close() error {
	if s.ownsComparator && s.comparator != nil {
		return s.comparator.Close()
	}
	return nil
}
