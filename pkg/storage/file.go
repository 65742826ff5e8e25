package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/harrisonrobin/dayplan/pkg/logging"
)

const (
	fileName      = "dayplan.json"
	corruptSuffix = ".corrupt"
)

// File is a Storage kept as one JSON object of key → serialized value. Every Set
// rewrites the file through a temp file and rename, so readers never observe a
// partial write.
type File struct {
	Values map[string]string `json:"values"`
	Path   string            `json:"-"`
	mu     sync.RWMutex
}

// NewFile opens (or prepares) the store under statePath.
func NewFile(statePath string) (*File, error) {
	f := &File{
		Values: make(map[string]string),
		Path:   filepath.Join(statePath, fileName),
	}

	if _, err := os.Stat(f.Path); err == nil {
		err := f.Load()
		switch {
		case errors.Is(err, ErrCorrupt):
			if err := f.quarantine(); err != nil {
				return nil, err
			}
			logging.Warn("storage", "%v; moved it to %s and starting empty", err, f.Path+corruptSuffix)
		case err != nil:
			return nil, err
		}
	}
	return f, nil
}

// quarantine moves an unparseable state file aside so the next write does not
// replace it.
func (f *File) quarantine() error {
	if err := os.Rename(f.Path, f.Path+corruptSuffix); err != nil {
		return fmt.Errorf("failed to move aside corrupt %s: %w", f.Path, err)
	}
	return nil
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return err
	}
	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("%w %s: %v", ErrCorrupt, f.Path, err)
	}
	f.Values = values
	return nil
}

func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.Values[key]
	return v, ok, nil
}

// Set persists the new value before exposing it to Get. On failure the
// previous value stays in place.
func (f *File) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]string, len(f.Values)+1)
	for k, v := range f.Values {
		next[k] = v
	}
	next[key] = value

	if err := f.write(next); err != nil {
		return err
	}
	f.Values = next
	return nil
}

func (f *File) write(values map[string]string) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp := f.Path + ".tmp"
	out, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s for writing: %w", tmp, err)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(values); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode store: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}
