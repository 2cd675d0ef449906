// SPDX-License-Identifier: MIT

package distance

import (
	"fmt"
	"math/rand"
)

// Pair is one (I, J) query; 0 ≤ I, J < M.
type Pair struct {
	I int
	J int
}

func (p Pair) String() string { return fmt.Sprintf("(%d,%d)", p.I, p.J) }

// Result is the answer for one Pair: Hops in [0, maxHops] or hops.Unreachable.
type Result struct {
	I    int
	J    int
	Hops int
}

func (r Result) String() string { return fmt.Sprintf("(%d,%d)=%d", r.I, r.J, r.Hops) }

// AllPairs returns every ordered pair of an m-vertex graph, row-major.
func AllPairs(m int) []Pair {
	if m <= 0 {
		return nil
	}
	out := make([]Pair, 0, m*m)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			out = append(out, Pair{I: i, J: j})
		}
	}
	return out
}

// SamplePairs draws k distinct ordered pairs, deterministic for a seed.
// k ≥ m*m returns AllPairs(m); k ≤ 0 returns nil.
func SamplePairs(m, k int, seed int64) []Pair {
	total := m * m
	if m <= 0 || k <= 0 {
		return nil
	}
	if k >= total {
		return AllPairs(m)
	}

	// Floyd's sampling: k distinct offsets from [0, total) in O(k).
	rng := rand.New(rand.NewSource(seed))
	picked := make(map[int]struct{}, k)
	out := make([]Pair, 0, k)
	for n := total - k; n < total; n++ {
		off := rng.Intn(n + 1)
		if _, dup := picked[off]; dup {
			off = n
		}
		picked[off] = struct{}{}
		out = append(out, Pair{I: off / m, J: off % m})
	}
	return out
}
