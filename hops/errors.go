// SPDX-License-Identifier: MIT

package hops

import "errors"

var (
	// ErrIndexOutOfRange indicates that i or j is outside [0, M).
	ErrIndexOutOfRange = errors.New("hops: index out of range")

	// ErrInvalidMaxHops indicates a negative hop bound.
	ErrInvalidMaxHops = errors.New("hops: maxHops must be >= 0")

	// ErrUnknownKernel indicates an unsupported Kernel name.
	ErrUnknownKernel = errors.New("hops: unknown kernel")
)
