package model

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Task represents one rendering request: an SVG source file, the
// destination path for the PNG result, and the target size in pixels
// (the output is always square).
type Task struct {
	ID     uuid.UUID `json:"id"`
	Input  string    `json:"input"`
	Output string    `json:"output"`
	Size   int       `json:"size"` // target width and height in pixels
}

// Stem returns the base name of the input file without directory or
// extension. It is the key under which the task is recorded in the
// dedup index.
func (t Task) Stem() string {
	base := filepath.Base(t.Input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// OutputDir returns the directory the rendered file will be written to.
func (t Task) OutputDir() string {
	return filepath.Dir(t.Output)
}
