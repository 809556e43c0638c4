// Package stress drives a list with concurrent appenders, readers and removers, then checks
// that no element has been lost, duplicated or reordered.
package stress

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/a-peyrard/unrolled"
	"github.com/a-peyrard/unrolled/concurrent"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type (
	// Workload describes how many workers of each kind run, and how many operations each does.
	Workload struct {
		Appenders  int
		Readers    int
		Removers   int
		Operations int
	}

	// Report sums up what happened during a run.
	Report struct {
		Appended int64
		Read     int64
		Removed  int64
		Missed   int64
		Length   int
		Segments int
	}

	// Runnable represents a worker that can be run with a context.
	Runnable interface {
		Run(ctx context.Context) error
	}

	run struct {
		list     *unrolled.List[int]
		workload Workload
		removed  *concurrent.Slice[int]
		report   Report
	}
)

// Run executes the workload against an empty list and verifies the list afterward.
// Appended values are unique: appender w appends w*Operations, w*Operations+1, ...
// A nil logger disables logging.
func Run(ctx context.Context, list *unrolled.List[int], workload Workload, logger *zerolog.Logger) (*Report, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if list.Len() != 0 {
		return nil, fmt.Errorf("stress run needs an empty list, got %d elements", list.Len())
	}
	if workload.Operations <= 0 {
		return nil, fmt.Errorf("stress run needs a positive number of operations, got %d", workload.Operations)
	}

	r := &run{list: list, workload: workload, removed: concurrent.NewSlice[int]()}

	runnables := make([]Runnable, 0, workload.Appenders+workload.Readers+workload.Removers)
	for w := 0; w < workload.Appenders; w++ {
		runnables = append(runnables, &appender{run: r, id: w})
	}
	for w := 0; w < workload.Readers; w++ {
		runnables = append(runnables, &reader{run: r})
	}
	for w := 0; w < workload.Removers; w++ {
		runnables = append(runnables, &remover{run: r})
	}

	logger.Info().
		Int("appenders", workload.Appenders).
		Int("readers", workload.Readers).
		Int("removers", workload.Removers).
		Int("operations", workload.Operations).
		Msg("starting stress run")

	if err := RunAll(ctx, runnables...); err != nil {
		return nil, fmt.Errorf("stress run failed: %w", err)
	}

	report := r.report
	report.Length = list.Len()
	report.Segments = list.SegmentCount()

	if err := r.verify(); err != nil {
		return &report, err
	}

	logger.Info().
		Int64("appended", report.Appended).
		Int64("read", report.Read).
		Int64("removed", report.Removed).
		Int64("missed", report.Missed).
		Int("length", report.Length).
		Int("segments", report.Segments).
		Msg("stress run verified")

	return &report, nil
}

// RunAll runs all the provided runnables concurrently and waits for all of them to finish.
//
// This method is blocking and will return the first error returned by a runnable, the context
// given to the other runnables is then cancelled.
func RunAll(parentCtx context.Context, runnables ...Runnable) error {
	group, ctx := errgroup.WithContext(parentCtx)

	for _, runnable := range runnables {
		runnable := runnable
		group.Go(func() error {
			return runnable.Run(ctx)
		})
	}

	return group.Wait()
}

type appender struct {
	run *run
	id  int
}

func (a *appender) Run(ctx context.Context) error {
	base := a.id * a.run.workload.Operations
	for j := 0; j < a.run.workload.Operations; j++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.run.list.Append(base + j); err != nil {
			return fmt.Errorf("appender %d: %w", a.id, err)
		}
		atomic.AddInt64(&a.run.report.Appended, 1)
	}
	return nil
}

type reader struct {
	run *run
}

func (r *reader) Run(ctx context.Context) error {
	upper := r.run.workload.Appenders * r.run.workload.Operations
	for j := 0; j < r.run.workload.Operations; j++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		length := r.run.list.Len()
		if length == 0 {
			atomic.AddInt64(&r.run.report.Missed, 1)
			continue
		}
		value, found := r.run.list.Get(rand.Intn(length))
		if !found {
			atomic.AddInt64(&r.run.report.Missed, 1)
			continue
		}
		if value < 0 || value >= upper {
			return fmt.Errorf("read value out of range: %d", value)
		}
		atomic.AddInt64(&r.run.report.Read, 1)
	}
	return nil
}

type remover struct {
	run *run
}

func (r *remover) Run(ctx context.Context) error {
	for j := 0; j < r.run.workload.Operations; j++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		length := r.run.list.Len()
		if length == 0 {
			atomic.AddInt64(&r.run.report.Missed, 1)
			continue
		}
		value, found := r.run.list.Remove(rand.Intn(length))
		if !found {
			atomic.AddInt64(&r.run.report.Missed, 1)
			continue
		}
		r.run.removed.Append(value)
		atomic.AddInt64(&r.run.report.Removed, 1)
	}
	return nil
}

// verify checks, once every worker is done, that each appended value is either still in the
// list or has been removed exactly once, that values of a given appender are still in append
// order and that the segments respect the capacity and the no-empty-segment rules.
func (r *run) verify() error {
	var errs []error

	ops := r.workload.Operations
	total := r.workload.Appenders * ops
	seen := make([]int, total)
	for _, value := range r.removed.Snapshot() {
		seen[value]++
	}

	segments := r.list.Segments()
	lastByAppender := make(map[int]int)
	for s, elements := range segments {
		if len(elements) > r.list.Capacity() {
			errs = append(errs, fmt.Errorf("segment %d holds %d elements, capacity is %d", s, len(elements), r.list.Capacity()))
		}
		if len(elements) == 0 && len(segments) > 1 {
			errs = append(errs, fmt.Errorf("segment %d is empty but still linked", s))
		}
		for _, value := range elements {
			if value < 0 || value >= total {
				errs = append(errs, fmt.Errorf("unexpected value %d in the list", value))
				continue
			}
			seen[value]++
			if last, found := lastByAppender[value/ops]; found && last > value {
				errs = append(errs, fmt.Errorf("value %d found after %d, append order lost", value, last))
			}
			lastByAppender[value/ops] = value
		}
	}

	for value, count := range seen {
		switch {
		case count == 0:
			errs = append(errs, fmt.Errorf("value %d has been lost", value))
		case count > 1:
			errs = append(errs, fmt.Errorf("value %d has been seen %d times", value, count))
		}
	}

	return errors.Join(errs...)
}
