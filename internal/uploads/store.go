package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DiskStore writes files below Root.
type DiskStore struct {
	Root string
}

func NewDiskStore(root string) *DiskStore {
	return &DiskStore{Root: root}
}

// Save streams body to Root/name through a temp file. Bodies longer than
// limit are discarded with ErrTooLarge.
func (d *DiskStore) Save(ctx context.Context, name string, body io.Reader, limit int64) (int64, error) {
	target, err := d.resolve(name)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("uploads: create dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("uploads: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	written, err := copyLimited(ctx, tmp, body, limit)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, fmt.Errorf("uploads: finalize: %w", err)
	}
	return written, nil
}

func (d *DiskStore) resolve(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("uploads: invalid name %q", name)
	}
	return filepath.Join(d.Root, clean), nil
}

// MemoryStore keeps files in memory.
type MemoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

func (m *MemoryStore) Save(ctx context.Context, name string, body io.Reader, limit int64) (int64, error) {
	var buf strings.Builder
	written, err := copyLimited(ctx, &buf, body, limit)
	if err != nil {
		return 0, err
	}
	m.mu.Lock()
	m.files[name] = []byte(buf.String())
	m.mu.Unlock()
	return written, nil
}

// File returns a stored file.
func (m *MemoryStore) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

func copyLimited(ctx context.Context, dst io.Writer, src io.Reader, limit int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	written, err := io.Copy(dst, io.LimitReader(src, limit+1))
	if err != nil {
		return 0, fmt.Errorf("uploads: copy: %w", err)
	}
	if written > limit {
		return 0, ErrTooLarge
	}
	return written, nil
}

// IsClientError reports whether err comes from the upload itself rather than
// storage.
func IsClientError(err error) bool {
	return errors.Is(err, ErrNotImage) || errors.Is(err, ErrTooLarge) || errors.Is(err, ErrEmpty)
}
