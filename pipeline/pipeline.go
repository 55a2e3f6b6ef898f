// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pipeline provides Executor, which runs one stage's per-file work
// across a bounded worker pool and returns only once every item has
// finished, so a caller sequencing stages (cmd/svfront does) gets a barrier
// between them.
//
// Grounded on the executor/result/task concurrency pattern in compiler.go:
// a semaphore-gated goroutine per unit of work, a ready channel signaling
// completion, and a per-worker diagnostic sub-handler merged back into the
// parent handler once every worker in the stage has finished. Unlike that
// pattern, stage work here has no cross-file dependency graph to block on --
// every file in a stage is independent, and stages themselves are the only
// serialization point -- so there is no block/checkForDependencyCycle
// analogue.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/svfront/svfront/reporter"
)

// Executor runs bounded-parallelism stages against a shared diagnostic
// handler. It does not cancel the remainder of a stage when a worker
// reports a fatal diagnostic; the fatal count is visible on Handler once
// Run returns.
type Executor struct {
	sem     *semaphore.Weighted
	Handler *reporter.Handler
}

// New returns an Executor with maxParallelism workers, defaulting to
// runtime.GOMAXPROCS(-1) if maxParallelism is non-positive.
func New(handler *reporter.Handler, maxParallelism int) *Executor {
	if maxParallelism <= 0 {
		maxParallelism = runtime.GOMAXPROCS(-1)
	}
	return &Executor{
		sem:     semaphore.NewWeighted(int64(maxParallelism)),
		Handler: handler,
	}
}

// unitResult is one worker's outcome: grounded on compiler.go's result
// type, stripped of the blockedOn/dependency-graph fields this pipeline
// does not need.
type unitResult struct {
	ready chan struct{}
	err   error
	sub   *reporter.Handler
}

func (r *unitResult) fail(err error) {
	r.err = err
	close(r.ready)
}

func (r *unitResult) complete() {
	close(r.ready)
}

// Run executes fn once per item in items, honoring the Executor's
// parallelism bound, merging every worker's sub-handler diagnostics back
// into Handler on the calling goroutine, in item order, once every worker
// has finished, and returning the first non-diagnostic
// error encountered (a panic recovered from a worker, or ctx's error).
// A worker that only reports diagnostics through its handler -- the normal
// case -- returns a nil error and lets later stages observe the fatal
// count on Handler instead.
func (e *Executor) Run(ctx context.Context, n int, fn func(ctx context.Context, h *reporter.Handler, i int) error) error {
	results := make([]*unitResult, n)
	for i := range results {
		results[i] = &unitResult{ready: make(chan struct{})}
	}

	var firstErr error
	var firstErrOnce sync.Once
	recordErr := func(err error) {
		firstErrOnce.Do(func() { firstErr = err })
	}

	for i := 0; i < n; i++ {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			recordErr(err)
			results[i].fail(err)
			continue
		}
		go e.runOne(ctx, results[i], i, fn, recordErr)
	}

	for _, r := range results {
		<-r.ready
	}
	for _, r := range results {
		if r.sub != nil {
			e.Handler.Merge(r.sub)
		}
	}
	return firstErr
}

func (e *Executor) runOne(ctx context.Context, r *unitResult, i int, fn func(context.Context, *reporter.Handler, int) error, recordErr func(error)) {
	defer e.sem.Release(1)
	defer r.complete()

	sub := e.Handler.SubHandler()
	r.sub = sub

	defer func() {
		if rec := recover(); rec != nil {
			err := PanicError{Index: i, Value: rec}
			recordErr(err)
			r.err = err
		}
	}()

	if err := fn(ctx, sub, i); err != nil {
		recordErr(err)
		r.err = err
	}
}

// PanicError wraps a recovered panic from a single unit of stage work, so
// a crash in one file's worker is reported with which file triggered it
// instead of propagating as a bare runtime panic.
type PanicError struct {
	Index int
	Value any
}

func (p PanicError) Error() string {
	return fmt.Sprintf("panic processing item %d: %v", p.Index, p.Value)
}
