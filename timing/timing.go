// SPDX-License-Identifier: MIT

// Package timing wraps functions so that every call also reports how long
// it took. Workers use it to self-report per-task elapsed time; callers
// use Stopwatch for wall-clock spans.
package timing

import "time"

// Timed returns f' such that f'(a) = (f(a), elapsed).
func Timed[A, R any](f func(A) R) func(A) (R, time.Duration) {
	return func(a A) (R, time.Duration) {
		t0 := time.Now()
		r := f(a)
		return r, time.Since(t0)
	}
}

// TimedErr is Timed for functions that can fail. Elapsed is reported even
// when f returns an error.
func TimedErr[A, R any](f func(A) (R, error)) func(A) (R, time.Duration, error) {
	return func(a A) (R, time.Duration, error) {
		t0 := time.Now()
		r, err := f(a)
		return r, time.Since(t0), err
	}
}

// Stopwatch measures a wall-clock span from Start.
type Stopwatch struct {
	start time.Time
}

// Start returns a running stopwatch.
func Start() Stopwatch { return Stopwatch{start: time.Now()} }

// Elapsed returns the time since Start.
func (s Stopwatch) Elapsed() time.Duration { return time.Since(s.start) }
