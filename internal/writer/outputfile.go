package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// OutputFile is an output file that only becomes visible at its final path
// once it is committed. Closing an uncommitted file removes it.
type OutputFile struct {
	path      string
	file      *os.File
	committed bool
	closed    bool
}

// CreateOutputFile creates a temporary file in the directory of the path.
func CreateOutputFile(path string) (*OutputFile, error) {
	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	return &OutputFile{
		path: path,
		file: file,
	}, nil
}

// Path returns the final path of the file.
func (o *OutputFile) Path() string {
	return o.path
}

// Write writes to the temporary file.
func (o *OutputFile) Write(p []byte) (int, error) {
	if o.closed {
		return 0, os.ErrClosed
	}
	n, err := o.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing output file: %w", err)
	}
	return n, nil
}

// Commit closes the file and moves it to its final path.
func (o *OutputFile) Commit() error {
	if o.closed {
		return os.ErrClosed
	}
	o.closed = true

	if err := o.file.Close(); err != nil {
		_ = os.Remove(o.file.Name())
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Rename(o.file.Name(), o.path); err != nil {
		_ = os.Remove(o.file.Name())
		return fmt.Errorf("renaming output file: %w", err)
	}
	o.committed = true
	return nil
}

// Close closes and removes the file if it was not committed.
func (o *OutputFile) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	errClose := o.file.Close()
	errRemove := os.Remove(o.file.Name())
	if err := errors.Join(errClose, errRemove); err != nil {
		return fmt.Errorf("discarding output file: %w", err)
	}
	return nil
}
