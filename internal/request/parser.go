// Package request parses textual task definitions of the form
// "input.svg;output.png;size" into model.Task values.
package request

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mkarpenko/assetconv/internal/model"
)

// Delimiter separates the fields of a task definition line.
const Delimiter = ";"

// ErrBadFormat is returned when a line does not carry the three
// required fields.
var ErrBadFormat = errors.New("wrong line format")

// Parse turns one definition line into a Task.
//
// The line must contain at least three delimiter-separated fields:
// input path, output path and size. Extra fields are ignored. The size
// field is parsed as a decimal integer; a non-numeric or empty size
// yields 0. Fields are taken as-is, without trimming or path
// validation.
func Parse(line string) (model.Task, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) < 3 {
		return model.Task{}, fmt.Errorf("%w: %q (fields: %d)", ErrBadFormat, line, len(fields))
	}

	// Mirrors atoi semantics: garbage parses to zero, not an error.
	// Sizes are non-negative, so negative values collapse to zero too.
	size, err := strconv.Atoi(fields[2])
	if err != nil || size < 0 {
		size = 0
	}

	return model.Task{
		ID:     uuid.New(),
		Input:  fields[0],
		Output: fields[1],
		Size:   size,
	}, nil
}
