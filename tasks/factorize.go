// SPDX-License-Identifier: MIT

package tasks

import "fmt"

// DefaultBase is the base LongFactorize adds offsets to.
const DefaultBase = 100000001

// Factors is the result of LongFactorize: Value = F1 * F2 with F1 the
// greatest proper factor, or (1, Value) when Value is prime.
type Factors struct {
	Value int
	F1    int
	F2    int
}

func (f Factors) String() string { return fmt.Sprintf("%d=%d*%d", f.Value, f.F1, f.F2) }

// LongFactorize factorizes base+offset by trial division counting down
// from value/2. It is slow on purpose: the point is to keep a CPU busy.
func LongFactorize(offset, base int) (Factors, error) {
	value := base + offset
	if value < 2 {
		return Factors{}, fmt.Errorf("tasks: LongFactorize(%d+%d): %w", base, offset, ErrInvalidValue)
	}
	guess := value / 2
	for guess > 1 && value%guess != 0 {
		guess--
	}
	return Factors{Value: value, F1: guess, F2: value / guess}, nil
}
