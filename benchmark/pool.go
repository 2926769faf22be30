//
// Tencent is pleased to support the open source community by making trpc-scorecard-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-scorecard-go is licensed under the Apache License Version 2.0.
//
//

package benchmark

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/panjf2000/ants/v2"
	"trpc.group/trpc-go/trpc-scorecard-go/log"
	"trpc.group/trpc-go/trpc-scorecard-go/metric"
)

type iterationTask struct {
	ctx        context.Context
	metric     *metric.Metric
	ref        ReferenceModel
	in         metric.Input
	reevaluate Reevaluator
	wg         *sync.WaitGroup

	value float64
	err   error
}

func (t *iterationTask) run() {
	defer t.wg.Done()
	defer func() {
		if recovered := recover(); recovered != nil {
			log.ErrorfContext(t.ctx, "benchmark iteration of %s panicked: %v\n%s",
				t.metric.Key(), recovered, string(debug.Stack()))
			t.err = fmt.Errorf("benchmark iteration panic: %v", recovered)
		}
	}()
	t.value, t.err = t.evaluate()
}

func (t *iterationTask) evaluate() (float64, error) {
	p, err := t.ref.Predict(t.ctx, t.in)
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	refIn, err := referenceInput(t.in, p)
	if err != nil {
		return 0, err
	}
	fresh := t.metric.Fresh()
	if err := t.reevaluate(t.ctx, fresh, refIn); err != nil {
		return 0, fmt.Errorf("reevaluate: %w", err)
	}
	r, ok := fresh.Result()
	if !ok {
		return 0, metric.ErrNotEvaluated
	}
	return r.Scalar()
}

func createIterationPool(size int) (*ants.PoolWithFunc, error) {
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		task, ok := args.(*iterationTask)
		if !ok {
			panic("benchmark iteration pool args type error")
		}
		task.run()
	})
	if err != nil {
		return nil, fmt.Errorf("create benchmark iteration pool: %w", err)
	}
	return pool, nil
}
