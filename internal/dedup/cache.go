// Package dedup keeps the persistent record of inputs already rendered
// into a given output directory.
//
// Each output directory owns a plain-text index file (cache.txt, one
// input stem per line). The file is append-only and is the sole durable
// state of the converter: restarting the process picks up exactly where
// the index left off. An in-memory set mirrors each file so repeat
// lookups stay O(1) while the on-disk format remains the flat list that
// earlier batches produced.
package dedup

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wb-go/wbf/zlog"
)

// IndexFileName is the per-directory index file.
const IndexFileName = "cache.txt"

// ErrBadDirectory is returned when the output directory is missing or
// not a directory. Callers treat it as a cache miss.
var ErrBadDirectory = errors.New("output directory does not exist")

// Cache is the process-wide dedup index. One lock serializes every
// lookup across all directories; directory cardinality is expected to
// be small, so contention is not a concern.
type Cache struct {
	mu   sync.Mutex
	dirs map[string]map[string]struct{} // directory -> set of recorded stems
}

// New creates an empty Cache. Index files are loaded lazily, the first
// time a directory is consulted.
func New() *Cache {
	return &Cache{dirs: make(map[string]map[string]struct{})}
}

// CheckAndRecord reports whether stem has already been processed for
// dir. On a miss the stem is recorded, in memory and appended to the
// directory's index file, before returning.
//
// Filesystem trouble (missing directory, unreadable index) is logged
// and reported as a miss together with the error, so the task still
// runs; a degraded cache must never block work.
func (c *Cache) CheckAndRecord(stem, dir string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		zlog.Logger.Warn().Str("dir", dir).Msg("output directory does not exist, skipping cache")
		return false, fmt.Errorf("%w: %s", ErrBadDirectory, dir)
	}

	set, ok := c.dirs[dir]
	if !ok {
		set, err = loadIndex(filepath.Join(dir, IndexFileName))
		if err != nil {
			zlog.Logger.Warn().Err(err).Str("dir", dir).Msg("failed to load cache index")
			return false, err
		}
		c.dirs[dir] = set
	}

	if _, hit := set[stem]; hit {
		zlog.Logger.Info().Str("stem", stem).Str("dir", dir).Msg("match found in cache")
		return true, nil
	}

	if err := appendStem(filepath.Join(dir, IndexFileName), stem); err != nil {
		zlog.Logger.Warn().Err(err).Str("stem", stem).Msg("failed to append to cache index")
		return false, err
	}
	set[stem] = struct{}{}

	zlog.Logger.Info().Str("stem", stem).Str("dir", dir).Msg("appended to cache")
	return false, nil
}

// loadIndex reads an existing index file into a set, creating the file
// if it does not exist yet.
func loadIndex(path string) (map[string]struct{}, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	defer f.Close()

	set := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			set[line] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read cache index: %w", err)
	}

	return set, nil
}

// appendStem writes one stem line to the index and flushes it before
// returning, so a crash right after cannot lose the entry.
func appendStem(path, stem string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open cache index for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(stem + "\n"); err != nil {
		return fmt.Errorf("append to cache index: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("flush cache index: %w", err)
	}

	return nil
}
