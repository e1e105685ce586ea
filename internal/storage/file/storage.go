// Package file provides the local-filesystem sink for rendered images.
package file

import (
	"context"
	"fmt"
	"os"
)

// Storage writes rendered files to the local filesystem.
type Storage struct{}

// NewStorage creates a filesystem Storage.
func NewStorage() *Storage {
	return &Storage{}
}

// Save writes data to path, creating or truncating the file. The
// parent directory must already exist; a missing directory surfaces as
// a write failure for the task, it is not created here.
func (s *Storage) Save(_ context.Context, path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
