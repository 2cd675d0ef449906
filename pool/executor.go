// SPDX-License-Identifier: MIT

package pool

import "fmt"

// New builds the executor named by kind. Thread pools run h directly;
// process pools start command, which must serve the same handler.
func New[J, R any](kind Kind, workers int, h Handler[J, R], command []string, opts ...Option) (Executor[J, R], error) {
	switch kind {
	case KindThread, "":
		tp, err := NewThreadPool(workers, h, opts...)
		if err != nil {
			return nil, err
		}
		return tp, nil
	case KindProcess:
		pp, err := NewProcessPool[J, R](workers, command, opts...)
		if err != nil {
			return nil, err
		}
		return pp, nil
	}
	return nil, fmt.Errorf("pool: New: unknown kind %q", kind)
}
