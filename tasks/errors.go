// SPDX-License-Identifier: MIT

package tasks

import "errors"

var (
	// ErrInvalidValue indicates a factorization target < 2.
	ErrInvalidValue = errors.New("tasks: value must be >= 2")

	// ErrInvalidSigma indicates a negative delay standard deviation.
	ErrInvalidSigma = errors.New("tasks: sigma must be >= 0")
)
