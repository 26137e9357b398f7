// Package sys funnels all file creation and opening performed by the
// persistence writers through one small abstraction so tests and
// platform quirks have a single seam.
package sys

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileInterface is the subset of *os.File the writers rely on.
type FileInterface interface {
	io.ReadWriteCloser
	io.Seeker

	Stat() (os.FileInfo, error)
	Sync() error
	Truncate(size int64) error
	Name() string
}

// Create creates or truncates the named file.
func Create(name string) (FileInterface, error) {
	return os.Create(name)
}

// Open opens the named file for reading.
func Open(name string) (FileInterface, error) {
	return os.Open(name)
}

// OpenFile is the generalized open call.
func OpenFile(name string, flag int, perm os.FileMode) (FileInterface, error) {
	return os.OpenFile(name, flag, perm)
}

// EnsureParentDir makes sure the parent directory of an output file
// path exists, creating it recursively when missing.
func EnsureParentDir(filePath string) error {
	parent := filepath.Dir(filePath)
	if parent == "" || parent == "." {
		return nil
	}
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", parent, err)
	}
	return nil
}
