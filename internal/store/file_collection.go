package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// fileCollection is one JSON document on disk holding a whole collection.
// Every access holds mu, so read-modify-write cycles on the same
// collection never interleave. Writes go to a temp file that is synced and
// renamed over the original.
type fileCollection[T any] struct {
	mu    sync.Mutex
	path  string
	empty func() T
}

func newFileCollection[T any](dir, name string, empty func() T) (*fileCollection[T], error) {
	c := &fileCollection[T]{
		path:  filepath.Join(dir, name),
		empty: empty,
	}

	_, err := os.Stat(c.path)
	switch {
	case err == nil:
		return c, nil
	case errors.Is(err, fs.ErrNotExist):
		if err := c.write(empty()); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, unavailable(ErrReadingFile, err)
	}
}

// read returns the current content of the collection.
func (c *fileCollection[T]) read(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.load()
}

// mutate loads the collection, hands it to fn and persists the result when
// fn returns nil. Nothing is written when fn fails.
func (c *fileCollection[T]) mutate(ctx context.Context, fn func(*T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := c.load()
	if err != nil {
		return err
	}

	if err := fn(&data); err != nil {
		return err
	}

	return c.write(data)
}

func (c *fileCollection[T]) load() (T, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		var zero T
		return zero, unavailable(ErrReadingFile, err)
	}

	data := c.empty()
	if len(bytes.TrimSpace(raw)) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		var zero T
		return zero, unavailable(ErrReadingFile, fmt.Errorf("decoding %s: %w", filepath.Base(c.path), err))
	}

	return data, nil
}

func (c *fileCollection[T]) write(data T) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return unavailable(ErrWritingFile, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return unavailable(ErrWritingFile, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return unavailable(ErrWritingFile, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return unavailable(ErrWritingFile, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return unavailable(ErrWritingFile, err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return unavailable(ErrWritingFile, err)
	}

	// the rename is durable only once the directory entry is on disk
	if err := syncDir(filepath.Dir(c.path)); err != nil {
		return unavailable(ErrWritingFile, err)
	}

	return nil
}

var syncDir = func(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()
	return d.Sync()
}
