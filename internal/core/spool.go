package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// ErrFileTooLarge is returned when an upload exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// Spool is an uploaded file parked in a private temp file for the
// duration of one request. Close removes it; call it in a defer right
// after NewSpool succeeds and every exit path is covered.
type Spool struct {
	name string
	path string
	size int64

	closeOnce sync.Once
	closeErr  error
}

// NewSpool copies at most maxBytes from r into a new temp file under dir
// (the OS default when dir is empty). On any error nothing is left behind.
func NewSpool(dir, name string, r io.Reader, maxBytes int64) (*Spool, error) {
	f, err := os.CreateTemp(dir, "upload-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("create spool: %w", err)
	}
	path := f.Name()

	n, copyErr := io.Copy(f, io.LimitReader(r, maxBytes+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("spool %s: %w", name, copyErr)
	case closeErr != nil:
		err = fmt.Errorf("spool %s: %w", name, closeErr)
	case n > maxBytes:
		err = fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, name, maxBytes)
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	return &Spool{name: name, path: path, size: n}, nil
}

// Name is the client-supplied file name.
func (s *Spool) Name() string { return s.name }

// Path is the temp file location.
func (s *Spool) Path() string { return s.path }

// Size is the number of bytes spooled.
func (s *Spool) Size() int64 { return s.size }

// Bytes reads the spooled file back into memory.
func (s *Spool) Bytes() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read spool %s: %w", s.name, err)
	}
	return data, nil
}

// Close deletes the temp file. Safe to call more than once.
func (s *Spool) Close() error {
	s.closeOnce.Do(func() {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.closeErr = fmt.Errorf("remove spool %s: %w", s.path, err)
		}
	})
	return s.closeErr
}
