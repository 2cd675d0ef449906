// SPDX-License-Identifier: MIT

//go:build linux || darwin || freebsd

package shmem

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// createMapping creates path exclusively, sizes it and maps it read-write.
func createMapping(path string, size int) (*os.File, []byte, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create segment file %s: %w", path, err)
	}

	cleanup := func() {
		file.Close()
		os.Remove(path)
	}

	if err := file.Truncate(int64(size)); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to resize segment file: %w", err)
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("mmap failed: %w", err)
	}

	return file, mem, nil
}

// sealMapping drops write permission once the creator has filled the region.
func sealMapping(mem []byte) error {
	if err := unix.Mprotect(mem, unix.PROT_READ); err != nil {
		return fmt.Errorf("mprotect failed: %w", err)
	}
	return nil
}

// openMapping maps an existing segment read-only.
func openMapping(path string) (*os.File, []byte, error) {
	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat segment file: %w", err)
	}
	size := info.Size()
	if size < HeaderSize {
		file.Close()
		return nil, nil, fmt.Errorf("%w: segment file too small: %d bytes", ErrBadHeader, size)
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("mmap failed: %w", err)
	}

	return file, mem, nil
}

// unmap releases a mapping.
func unmap(mem []byte) error {
	if len(mem) == 0 {
		return nil
	}
	if err := unix.Munmap(mem); err != nil {
		return fmt.Errorf("munmap failed: %w", err)
	}
	return nil
}
