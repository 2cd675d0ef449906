// Package hopshare answers hop-limited distance queries over one large,
// read-only adjacency matrix and compares ways of spreading that work over
// a pool of workers.
//
// What is in the box?
//
//	• Generator: random {0,1} adjacency matrices, seeded or not
//	• Kernel: hop distance by iterated boolean vector–matrix steps (BFS as oracle)
//	• Pools: goroutine pools and child-process pools behind one Future API
//	• Strategies: ship the matrix by copy, or once through shared memory
//	• Reporting: Σ task time against wall-clock time, per batch
//
// Packages:
//
//	matrix/   - immutable row-major Adjacency, ReachStep
//	builder/  - Generate(m, density, opts...)
//	hops/     - Distance, Compute(kernel, ...)
//	bfs/      - frontier BFS, HopDistance
//	shmem/    - mmap-backed Region / View / Cache with a checked lifecycle
//	pool/     - ThreadPool, ProcessPool, Collect, Map, ServeWorker
//	distance/ - copy and shared Strategy, NewHandler
//	report/   - Aggregate, Display
//	tasks/    - DelayedReturn, LongFactorize demo workloads
//	config/   - YAML config, HOPSHARE_* env, slog setup
//	metrics/  - Prometheus collectors
//	cmd/hopshare - the CLI
//
// Quick picture:
//
//	Generate ─► Adjacency ─► Strategy ─► pool ─► Distance per (i,j) ─► Collect ─► Display
//
//	go install github.com/katalvlaran/hopshare/cmd/hopshare@latest
package hopshare
