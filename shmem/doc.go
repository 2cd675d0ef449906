// SPDX-License-Identifier: MIT

// Package shmem places an adjacency matrix in a memory-mapped file once and
// lets any number of workers, goroutines or child processes, map a
// read-only view of it by Handle instead of receiving a copy.
//
// Layout
//
//	offset 0   magic   [8]byte  "HOPSHM\x00\x00"
//	offset 8   version uint32
//	offset 12  dtype   uint32   (1 = uint8)
//	offset 16  rows    uint64
//	offset 24  cols    uint64
//	offset 32  payload uint64   payload offset (HeaderSize)
//	offset 40  length  uint64   payload length (rows*cols)
//	offset 48  reserved to 64
//	offset 64  row-major matrix bytes
//
// Lifecycle
//
//	Create / FromMatrix ─► Handle ─► Open × N ─► View.Close × N ─► Release
//
// The creator writes the region and then drops its own write permission
// (single writer at setup). Views are PROT_READ mappings, so a stray write
// faults instead of corrupting siblings. Release refuses to run while
// in-process views are still open (ErrBufferInUse) and a released region
// cannot be opened again (ErrBufferReleased). Both are *LifecycleError:
// they mean the caller skipped its completion barrier and must not be
// silently recovered. WithRegion wraps the whole sequence in one scope.
//
// Views opened in the creating process share the creator's mapping and are
// reference counted on the Region. Other processes map the file themselves;
// their barrier is the caller waiting for those processes to finish.
package shmem
