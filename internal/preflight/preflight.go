package preflight

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Access is the permission set a directory must grant.
type Access uint32

const (
	// ReadAccess lists and reads a tree.
	ReadAccess Access = unix.R_OK | unix.X_OK
	// WriteAccess also creates entries in it.
	WriteAccess Access = unix.R_OK | unix.W_OK | unix.X_OK
)

func (a Access) String() string {
	if a&unix.W_OK != 0 {
		return "read/write"
	}
	return "read"
}

// CheckSource verifies that the source root is a readable directory.
func CheckSource(path string) Result {
	return CheckDirectoryAccess("Source directory", path, ReadAccess)
}

// CheckDestination verifies that the destination root is writable. A missing
// destination passes when its nearest existing ancestor is writable, since
// the run creates it.
func CheckDestination(path string) Result {
	const name = "Destination directory"
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		parent := nearestExistingAncestor(path)
		res := CheckDirectoryAccess(name, parent, WriteAccess)
		if res.Passed {
			res.Detail = fmt.Sprintf("%s (will be created under %s)", path, parent)
		}
		return res
	}
	return CheckDirectoryAccess(name, path, WriteAccess)
}

// CheckDirectoryAccess verifies that the directory exists and grants access.
func CheckDirectoryAccess(name, path string, access Access) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, uint32(access)); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s ok)", path, access)}
}

// RunAll checks both roots; empty paths are skipped.
func RunAll(source, dest string) []Result {
	var results []Result
	if source != "" {
		results = append(results, CheckSource(source))
	}
	if dest != "" {
		results = append(results, CheckDestination(dest))
	}
	return results
}

// FirstFailure returns the first failed result, if any.
func FirstFailure(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Passed {
			return r, true
		}
	}
	return Result{}, false
}

func nearestExistingAncestor(path string) string {
	dir := filepath.Clean(path)
	for {
		parent := filepath.Dir(dir)
		if _, err := os.Stat(parent); err == nil || parent == dir {
			return parent
		}
		dir = parent
	}
}
