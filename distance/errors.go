// SPDX-License-Identifier: MIT

package distance

import "errors"

var (
	// ErrNoMatrix indicates a Job with neither a payload nor a handle.
	ErrNoMatrix = errors.New("distance: job carries no matrix")

	// ErrUnknownStrategy indicates a strategy name other than copy|shared.
	ErrUnknownStrategy = errors.New("distance: unknown strategy")

	// ErrUnknownPolicy indicates a policy name other than collect-all|fail-fast.
	ErrUnknownPolicy = errors.New("distance: unknown policy")

	// ErrAborted marks pairs a fail-fast batch never dispatched.
	ErrAborted = errors.New("distance: not dispatched after an earlier failure")
)
