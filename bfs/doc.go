// Package bfs provides breadth-first search over a matrix.Adjacency,
// returning unweighted shortest-path distances, parent links, and visit order.
//
// What
//
//   - Explore vertices in non-decreasing distance (edge count) from a start vertex.
//   - Returns a Result containing Order, Depth (Unreached for unseen vertices)
//     and Parent (BFS tree).
//   - OnVisit hook (may abort with an error), MaxDepth limit (d>0) or explicit
//     "no limit" (d==0), early exit on a Target vertex.
//   - HopDistance answers "fewest hops from i to j within maxHops" and serves
//     as the frontier-based counterpart of the vector–matrix kernel in hops.
//
// Determinism
//
//	Neighbors are scanned in ascending column order, so the visit sequence
//	is fully reproducible.
//
// Complexity (M = matrix order)
//
//   - Time:   O(M²)   (each vertex's row scanned at most once)
//   - Memory: O(M)    (queue, depth and parent slices)
package bfs
