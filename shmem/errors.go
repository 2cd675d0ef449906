// SPDX-License-Identifier: MIT

package shmem

import (
	"errors"
	"fmt"
)

var (
	// ErrBufferInUse is returned by Release while views are still open.
	ErrBufferInUse = errors.New("shmem: buffer still in use")

	// ErrBufferReleased is returned when a released region is used again.
	ErrBufferReleased = errors.New("shmem: buffer already released")

	// ErrViewClosed is returned when a closed view is used.
	ErrViewClosed = errors.New("shmem: view is closed")

	// ErrBadHeader indicates a mapping whose header does not match its Handle.
	ErrBadHeader = errors.New("shmem: invalid segment header")

	// ErrUnsupportedPlatform is returned where memory mapping is not wired.
	ErrUnsupportedPlatform = errors.New("shmem: shared memory not supported on this platform")
)

// LifecycleError reports a misuse of the create → open → close → release
// sequence. It is fatal: the caller is missing a barrier.
type LifecycleError struct {
	Op    string // "open", "release", "matrix"
	Name  string // region name
	Views int    // open in-process views at the time of the error
	Err   error  // ErrBufferInUse, ErrBufferReleased or ErrViewClosed
}

func (e *LifecycleError) Error() string {
	if e.Views > 0 {
		return fmt.Sprintf("shmem: %s %s: %d open views: %v", e.Op, e.Name, e.Views, e.Err)
	}
	return fmt.Sprintf("shmem: %s %s: %v", e.Op, e.Name, e.Err)
}

func (e *LifecycleError) Unwrap() error { return e.Err }
