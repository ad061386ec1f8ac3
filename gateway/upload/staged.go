// Package upload handles the short life of a browser-uploaded file
// between multipart decoding and the storage service call.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

// StagedFile is an uploaded file persisted to a scoped temporary location.
// It exists only while the upload request is in flight; callers must
// arrange for Discard on every exit path, typically with defer.
type StagedFile struct {
	// Name is the generated collision-resistant filename, derived from the
	// submission time plus the upload's original extension.
	Name string

	// Path is the absolute or directory-relative location on disk.
	Path string
}

// Stage copies a multipart upload into dir under a generated name and
// returns a handle to it.
func Stage(header *multipart.FileHeader, dir string) (*StagedFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(header.Filename))
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}

	if err := dst.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close staged file: %w", err)
	}

	return &StagedFile{Name: name, Path: path}, nil
}

// Bytes reads the staged file back off disk.
func (f *StagedFile) Bytes() ([]byte, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read staged file: %w", err)
	}
	return data, nil
}

// Discard removes the staged file. It is safe to call more than once.
func (f *StagedFile) Discard() error {
	err := os.Remove(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	return nil
}
