// SPDX-License-Identifier: MIT

package shmem

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/katalvlaran/hopshare/matrix"
)

// View is a read-only attachment to a region. A *matrix.Adjacency obtained
// from it aliases the mapping and must not be used after Close.
type View struct {
	handle Handle
	adj    *matrix.Adjacency

	region *Region  // set for in-process views
	file   *os.File // set for views that own their mapping
	mem    []byte

	once   sync.Once
	closed bool
	mu     sync.RWMutex
}

// Open attaches to the region named by h. In the creating process the view
// shares the creator's mapping; elsewhere it maps the backing file PROT_READ.
//
// Errors: *LifecycleError wrapping ErrBufferReleased when the region is
// gone, ErrBadHeader when the mapping does not match h.
func Open(h Handle) (*View, error) {
	if err := h.validate(); err != nil {
		return nil, fmt.Errorf("shmem: Open: %w", err)
	}

	registry.Lock()
	r, local := registry.regions[h.Name]
	registry.Unlock()
	if local {
		return r.attach()
	}
	return openMapped(h)
}

// openMapped maps the backing file of h into this process.
func openMapped(h Handle) (*View, error) {
	file, mem, err := openMapping(h.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LifecycleError{Op: "open", Name: h.Name, Err: ErrBufferReleased}
		}
		return nil, fmt.Errorf("shmem: Open %s: %w", h.Name, err)
	}
	if err := checkHeader(mem, h); err != nil {
		unmap(mem)
		file.Close()
		return nil, fmt.Errorf("shmem: Open %s: %w", h.Name, err)
	}
	adj, err := matrix.Wrap(h.Rows, payload(mem, h))
	if err != nil {
		unmap(mem)
		file.Close()
		return nil, fmt.Errorf("shmem: Open %s: %w", h.Name, err)
	}

	return &View{handle: h, adj: adj, file: file, mem: mem}, nil
}

// Handle returns the handle this view was opened from.
func (v *View) Handle() Handle { return v.handle }

// Matrix returns the no-copy matrix over the mapping.
func (v *View) Matrix() (*matrix.Adjacency, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.closed {
		return nil, &LifecycleError{Op: "matrix", Name: v.handle.Name, Err: ErrViewClosed}
	}
	return v.adj, nil
}

// Close detaches the view. It is idempotent.
func (v *View) Close() error {
	var err error
	v.once.Do(func() {
		v.mu.Lock()
		v.closed = true
		v.adj = nil
		v.mu.Unlock()

		if v.region != nil {
			v.region.detach()
			return
		}
		err = errors.Join(unmap(v.mem), v.file.Close())
		v.mem = nil
	})
	return err
}
