package task

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Target is a file-backed output location. Producers write it exactly once
// via Create; consumers check Exists and read via Open. Create stages the
// content in a temporary file in the same directory and renames it into
// place on success, so a Target either exists with complete content or not
// at all.
type Target struct{ path string }

// NewTarget returns a Target for the given filesystem path.
func NewTarget(path string) *Target { return &Target{path: path} }

// Path returns the target's filesystem path.
func (t *Target) Path() string { return t.path }

// Exists reports whether the target artifact is present.
func (t *Target) Exists() bool {
	_, err := os.Stat(t.path)
	return err == nil
}

// Open opens the artifact for reading.
func (t *Target) Open() (io.ReadCloser, error) {
	f, err := os.Open(t.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t.path, err)
	}
	return f, nil
}

// Create writes the artifact atomically: fn writes into a temporary file in
// the target's directory, which is renamed to the final path only when fn
// and the flush both succeed. On any error the temporary file is removed
// and the target is left absent.
func (t *Target) Create(fn func(io.Writer) error) error {
	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(t.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", t.path, err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := fn(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush %s: %w", t.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", t.path, err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return fmt.Errorf("rename into %s: %w", t.path, err)
	}
	return nil
}

// Remove deletes the artifact. A missing artifact is not an error; cleanup
// may run after partial failures or repeatedly. Any other filesystem error
// is returned.
func (t *Target) Remove() error {
	if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", t.path, err)
	}
	return nil
}
