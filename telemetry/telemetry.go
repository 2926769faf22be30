//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry reports evaluation metrics through OpenTelemetry.
// Instruments are no-ops until InitMeterProvider is called.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Names of the meter, its instruments and their attributes.
const (
	MeterNameEvaluation      = "trpc_scorecard_go.evaluation"
	MetricEvaluationCount    = "trpc_scorecard_go.evaluation.count"
	MetricEvaluationDuration = "trpc_scorecard_go.evaluation.duration"
	KeyMetricKey             = "trpc_scorecard_go.metric.key"
	KeyCalculation           = "trpc_scorecard_go.calculation"
	KeyStatus                = "trpc_scorecard_go.status"
	ValueStatusError         = "error"
)

var (
	// MeterProvider is the provider the instruments were created from.
	MeterProvider metric.MeterProvider = noop.NewMeterProvider()
	// EvaluationCount counts evaluations of metrics and groups.
	EvaluationCount metric.Int64Counter = noop.Int64Counter{}
	// EvaluationDuration records evaluation durations in seconds.
	EvaluationDuration metric.Float64Histogram = noop.Float64Histogram{}
)

// InitMeterProvider creates the evaluation instruments from mp.
func InitMeterProvider(mp metric.MeterProvider) error {
	meter := mp.Meter(MeterNameEvaluation)
	count, err := meter.Int64Counter(
		MetricEvaluationCount,
		metric.WithDescription("Total number of metric evaluations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation metric %s: %w", MetricEvaluationCount, err)
	}
	duration, err := meter.Float64Histogram(
		MetricEvaluationDuration,
		metric.WithDescription("Duration of metric evaluations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation metric %s: %w", MetricEvaluationDuration, err)
	}
	MeterProvider = mp
	EvaluationCount = count
	EvaluationDuration = duration
	return nil
}

// EvaluationAttributes describes one evaluation.
type EvaluationAttributes struct {
	Key         string
	Calculation string
	// Status is the evaluation status of the metric. It is replaced by "error" when Error is set.
	Status string
	Error  error
}

func (a EvaluationAttributes) toAttributes() []attribute.KeyValue {
	status := a.Status
	if a.Error != nil {
		status = ValueStatusError
	}
	return []attribute.KeyValue{
		attribute.String(KeyMetricKey, a.Key),
		attribute.String(KeyCalculation, a.Calculation),
		attribute.String(KeyStatus, status),
	}
}

// ReportEvaluation records one evaluation.
func ReportEvaluation(ctx context.Context, attrs EvaluationAttributes, duration time.Duration) {
	as := metric.WithAttributes(attrs.toAttributes()...)
	EvaluationCount.Add(ctx, 1, as)
	EvaluationDuration.Record(ctx, duration.Seconds(), as)
}
