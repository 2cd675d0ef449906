// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over a matrix.Adjacency,
// returning unweighted shortest-path distances, parent links, and visit order.
//
// BFS explores vertices in increasing distance from a start vertex,
// with an optional hook, depth limit and early-exit target.
package bfs

import (
	"fmt"

	"github.com/katalvlaran/hopshare/matrix"
)

// queueItem pairs a vertex index with its BFS depth.
type queueItem struct {
	v     int
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	adj   *matrix.Adjacency
	opts  Options
	queue []queueItem
	res   *Result
	done  bool // target reached
}

// BFS runs breadth-first search on adj starting from start,
// applying any number of functional Options.
// Returns ErrMatrixNil or ErrStartOutOfRange for invalid input,
// ErrOptionViolation for bad options, ctx errors on cancellation,
// or any user-supplied hook error.
func BFS(adj *matrix.Adjacency, start int, opts ...Option) (*Result, error) {
	if adj == nil {
		return nil, ErrMatrixNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	n := adj.Size()
	if start < 0 || start >= n {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrStartOutOfRange, start, n)
	}

	w := &walker{
		adj:   adj,
		opts:  o,
		queue: make([]queueItem, 0, n),
		res: &Result{
			Start:  start,
			Order:  make([]int, 0, n),
			Depth:  make([]int, n),
			Parent: make([]int, n),
		},
	}
	for i := 0; i < n; i++ {
		w.res.Depth[i] = Unreached
		w.res.Parent[i] = Unreached
	}

	w.enqueue(start, 0, Unreached)

	return w.res, w.loop()
}

// enqueue marks v visited at depth d, records its parent and adds it to the queue.
func (w *walker) enqueue(v, d, parent int) {
	w.res.Depth[v] = d
	w.res.Parent[v] = parent
	w.queue = append(w.queue, queueItem{v: v, depth: d})
	if v == w.opts.Target {
		w.done = true
	}
}

// loop processes the queue until empty, target reached, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 && !w.done {
		select {
		case <-w.opts.Ctx.Done():
			return w.opts.Ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.v)
		if err := w.opts.OnVisit(item.v, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", item.v, err)
		}
		if err := w.enqueueNeighbors(item); err != nil {
			return err
		}
	}
	return nil
}

// enqueueNeighbors enqueues each unseen out-neighbor within MaxDepth.
func (w *walker) enqueueNeighbors(item queueItem) error {
	nextDepth := item.depth + 1
	if w.opts.MaxDepth > 0 && nextDepth > w.opts.MaxDepth {
		return nil
	}
	neighbors, err := w.adj.Neighbors(item.v)
	if err != nil {
		return fmt.Errorf("bfs: neighbors of %d: %w", item.v, err)
	}
	for _, nbr := range neighbors {
		if w.res.Depth[nbr] == Unreached {
			w.enqueue(nbr, nextDepth, item.v)
			if w.done {
				return nil
			}
		}
	}
	return nil
}

// HopDistance returns the fewest edges from i to j using at most maxHops
// edges, or Unreached. maxHops == 0 only reaches i itself.
func HopDistance(adj *matrix.Adjacency, i, j, maxHops int) (int, error) {
	if adj == nil {
		return Unreached, ErrMatrixNil
	}
	n := adj.Size()
	for _, v := range [2]int{i, j} {
		if v < 0 || v >= n {
			return Unreached, fmt.Errorf("%w: %d not in [0,%d)", ErrStartOutOfRange, v, n)
		}
	}
	if maxHops < 0 {
		return Unreached, fmt.Errorf("%w: maxHops cannot be negative (%d)", ErrOptionViolation, maxHops)
	}
	if i == j {
		return 0, nil
	}
	if maxHops == 0 {
		return Unreached, nil // WithMaxDepth(0) would mean "unlimited"
	}
	res, err := BFS(adj, i, WithMaxDepth(maxHops), WithTarget(j))
	if err != nil {
		return Unreached, err
	}

	return res.Depth[j], nil
}
