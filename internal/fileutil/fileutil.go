// Package fileutil copies and fingerprints files for the organizer.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// ErrSizeMismatch reports a copy whose length differs from its source.
var ErrSizeMismatch = errors.New("copy size mismatch")

// CopyFile streams src to a new file dst carrying the source's permission
// bits. dst must not exist. The number of bytes written is returned; a
// short copy removes dst and reports ErrSizeMismatch.
func CopyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return written, err
	}
	if written != info.Size() {
		_ = os.Remove(dst)
		return written, fmt.Errorf("%w: source %d bytes, copied %d bytes", ErrSizeMismatch, info.Size(), written)
	}
	return written, nil
}

// VerifySize checks that path holds exactly want bytes, removing it otherwise.
// It guards copies made by external tools.
func VerifySize(path string, want int64) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat copy: %w", err)
	}
	if info.Size() != want {
		_ = os.Remove(path)
		return fmt.Errorf("%w: source %d bytes, copied %d bytes", ErrSizeMismatch, want, info.Size())
	}
	return nil
}

// HashFile returns the xxhash64 digest of the file's content.
func HashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, fmt.Errorf("hash %s: %w", path, err)
	}
	return h.Sum64(), nil
}

// SameContent reports whether a and b hash identically.
func SameContent(a, b string) (bool, error) {
	ha, err := HashFile(a)
	if err != nil {
		return false, err
	}
	hb, err := HashFile(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}
