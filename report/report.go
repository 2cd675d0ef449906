// SPDX-License-Identifier: MIT

// Package report aggregates per-task timings against the wall clock of a
// batch and renders the human-readable summary.
//
// Aggregation is purely observational: values pass through untouched and
// in the order given.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Entry is one task's result with its self-reported run time.
type Entry[T any] struct {
	Value   T
	Elapsed time.Duration
}

// Summary is the aggregate of a batch.
type Summary[T any] struct {
	Values    []T
	TaskTimes []time.Duration
	SumTask   time.Duration // Σ TaskTimes
	Wall      time.Duration // dispatch start to last result, measured by the caller
}

// Aggregate sums the per-task times; wall comes from the caller's stopwatch.
func Aggregate[T any](entries []Entry[T], wall time.Duration) Summary[T] {
	s := Summary[T]{
		Values:    make([]T, len(entries)),
		TaskTimes: make([]time.Duration, len(entries)),
		Wall:      wall,
	}
	for i, e := range entries {
		s.Values[i] = e.Value
		s.TaskTimes[i] = e.Elapsed
		s.SumTask += e.Elapsed
	}
	return s
}

// Overlap returns SumTask/Wall: ~1 for serial execution, up to the worker
// count for perfectly parallel batches. Zero when Wall is zero.
func (s Summary[T]) Overlap() float64 {
	if s.Wall <= 0 {
		return 0
	}
	return s.SumTask.Seconds() / s.Wall.Seconds()
}

// DisplayOption tunes Display.
type DisplayOption func(*displayConfig)

type displayConfig struct {
	maxValues int // 0 = all
}

// WithMaxValues prints at most n values and a "+k more" marker. Panics on negative n.
func WithMaxValues(n int) DisplayOption {
	if n < 0 {
		panic("report: WithMaxValues(negative)")
	}
	return func(c *displayConfig) { c.maxValues = n }
}

// Display writes:
//
//	Running: <title>
//	Results: [v0 v1 ...]
//	Task times: t0 + t1 + ... = sum
//	Actual time: wall
//
// Times are seconds at three significant digits; the wall time is printed
// at full precision.
func Display[T any](w io.Writer, title string, s Summary[T], opts ...DisplayOption) error {
	var cfg displayConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	values := s.Values
	more := 0
	if cfg.maxValues > 0 && len(values) > cfg.maxValues {
		more = len(values) - cfg.maxValues
		values = values[:cfg.maxValues]
	}
	parts := make([]string, len(s.TaskTimes))
	for i, t := range s.TaskTimes {
		parts[i] = seconds3(t)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Running: %s\n", title)
	fmt.Fprintf(&sb, "Results: %v", values)
	if more > 0 {
		fmt.Fprintf(&sb, " (+%d more)", more)
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "Task times: %s = %s\n", strings.Join(parts, " + "), seconds3(s.SumTask))
	fmt.Fprintf(&sb, "Actual time: %s\n", strconv.FormatFloat(s.Wall.Seconds(), 'g', -1, 64))

	_, err := io.WriteString(w, sb.String())
	return err
}

func seconds3(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'g', 3, 64)
}
