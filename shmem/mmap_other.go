// SPDX-License-Identifier: MIT

//go:build !(linux || darwin || freebsd)

package shmem

import "os"

func createMapping(string, int) (*os.File, []byte, error) {
	return nil, nil, ErrUnsupportedPlatform
}

func sealMapping([]byte) error { return ErrUnsupportedPlatform }

func openMapping(string) (*os.File, []byte, error) {
	return nil, nil, ErrUnsupportedPlatform
}

func unmap([]byte) error { return nil }
