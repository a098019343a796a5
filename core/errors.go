package core

import "errors"

// Error categories of Split, Join and Verify. Every returned error wraps one
// of these values and can be checked with errors.Is().
// Broken manifest content wraps manifest.ErrFormat instead.
var (
	// ErrInvalidArgument marks bad caller input like a chunk size <= 0 or a
	// folder as split source.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks a missing source file, manifest file or part file.
	ErrNotFound = errors.New("not found")

	// ErrChecksumMismatch marks a part whose content does not match the md5
	// from the manifest.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrIO marks filesystem trouble like permissions, short writes or a
	// full disk.
	ErrIO = errors.New("io error")
)
