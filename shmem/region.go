// SPDX-License-Identifier: MIT

package shmem

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/katalvlaran/hopshare/matrix"
)

// registry maps region names to live regions created by this process, so
// in-process Opens share the creator's mapping and are reference counted.
var registry = struct {
	sync.Mutex
	regions map[string]*Region
}{regions: make(map[string]*Region)}

// Region is the creator side of a shared segment. It is safe for concurrent use.
type Region struct {
	handle Handle
	file   *os.File
	mem    []byte            // whole mapping, header included; read-only after sealing
	adj    *matrix.Adjacency // no-copy view over the payload, shared by in-process views

	mu       sync.Mutex
	views    int
	released bool
}

// Create writes rows×cols bytes of data into a new segment exactly once
// and returns the owning Region. data must already be a valid {0,1} layout.
func Create(data []byte, rows, cols int) (*Region, error) {
	if rows != cols {
		return nil, fmt.Errorf("shmem: Create: %dx%d: %w", rows, cols, matrix.ErrDimensionMismatch)
	}
	if err := matrix.ValidateLayout(rows, data); err != nil {
		return nil, fmt.Errorf("shmem: Create: %w", err)
	}
	return create(rows, cols, func(dst []byte) error {
		copy(dst, data)
		return nil
	})
}

// FromMatrix copies the raw layout of m straight into a new segment.
func FromMatrix(m *matrix.Adjacency) (*Region, error) {
	if err := matrix.ValidateNotNil(m); err != nil {
		return nil, fmt.Errorf("shmem: FromMatrix: %w", err)
	}
	return create(m.Rows(), m.Cols(), func(dst []byte) error {
		_, err := m.CopyTo(dst)
		return err
	})
}

// create maps a fresh segment, lets fill write the payload, then seals it.
func create(rows, cols int, fill func(dst []byte) error) (*Region, error) {
	h := newHandle(rows, cols)
	file, mem, err := createMapping(h.Path, HeaderSize+h.Bytes())
	if err != nil {
		return nil, fmt.Errorf("shmem: Create: %w", err)
	}

	r := &Region{handle: h, file: file, mem: mem}
	writeHeader(mem, h)
	if err := fill(payload(mem, h)); err != nil {
		r.destroy()
		return nil, fmt.Errorf("shmem: Create: %w", err)
	}
	if err := sealMapping(mem); err != nil {
		r.destroy()
		return nil, fmt.Errorf("shmem: Create: %w", err)
	}
	if r.adj, err = matrix.Wrap(rows, payload(mem, h)); err != nil {
		r.destroy()
		return nil, fmt.Errorf("shmem: Create: %w", err)
	}

	registry.Lock()
	registry.regions[h.Name] = r
	registry.Unlock()

	return r, nil
}

// Handle returns the reference workers use to attach.
func (r *Region) Handle() Handle { return r.handle }

// Size returns the mapping length in bytes, header included.
func (r *Region) Size() int { return len(r.mem) }

// Views returns the number of open in-process views.
func (r *Region) Views() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.views
}

// attach hands out an in-process view over the creator's mapping.
func (r *Region) attach() (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil, &LifecycleError{Op: "open", Name: r.handle.Name, Err: ErrBufferReleased}
	}
	r.views++
	return &View{handle: r.handle, adj: r.adj, region: r}, nil
}

// detach is called exactly once per in-process view.
func (r *Region) detach() {
	r.mu.Lock()
	r.views--
	r.mu.Unlock()
}

// Release unmaps and removes the segment. It must run after every consumer
// has finished: open in-process views make it fail with ErrBufferInUse and
// leave the region intact; a second Release fails with ErrBufferReleased.
func (r *Region) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return &LifecycleError{Op: "release", Name: r.handle.Name, Err: ErrBufferReleased}
	}
	if r.views > 0 {
		return &LifecycleError{Op: "release", Name: r.handle.Name, Views: r.views, Err: ErrBufferInUse}
	}
	r.released = true

	registry.Lock()
	delete(registry.regions, r.handle.Name)
	registry.Unlock()

	return r.destroy()
}

// destroy tears down the mapping, the descriptor and the backing file.
func (r *Region) destroy() error {
	var errs []error
	if err := unmap(r.mem); err != nil {
		errs = append(errs, err)
	}
	r.mem = nil
	r.adj = nil
	if err := r.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := os.Remove(r.handle.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WithRegion places m in a new region, runs fn with its handle and releases
// the region afterwards, whatever fn returned. fn must not return before
// every consumer of the handle has finished (its completion barrier); a
// release failure is joined with fn's error.
func WithRegion(m *matrix.Adjacency, fn func(h Handle) error) (err error) {
	r, err := FromMatrix(m)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, r.Release())
	}()

	return fn(r.Handle())
}
