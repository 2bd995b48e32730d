package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// recordFileSuffix is appended to the limiter name to form the document
// filename. The suffix is part of the on-disk layout and must not change.
const recordFileSuffix = "_rate_limit.json"

// FileBackend implements Backend using one JSON document per limiter name
// in a directory. Writes are atomic: the document is written to a temporary
// file and renamed into place, so readers never observe a partial record.
//
// FileBackend is thread-safe using sync.Mutex around all filesystem access.
type FileBackend struct {
	dir string
	mu  sync.Mutex
}

// NewFileBackend creates a file storage backend rooted at dir.
// The directory is created if it does not exist.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %q: %w", dir, err)
	}

	return &FileBackend{dir: dir}, nil
}

// Save persists the day record for a limiter name.
func (f *FileBackend) Save(ctx context.Context, name string, rec *DayRecord) error {
	if err := validateName(name); err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record for %q: %w", name, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record for %q: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace record for %q: %w", name, err)
	}

	return nil
}

// Load retrieves the day record for a limiter name.
func (f *FileBackend) Load(ctx context.Context, name string) (*DayRecord, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(name))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record for %q: %w", name, err)
	}

	var rec DayRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse record for %q: %w", name, err)
	}

	return &rec, nil
}

// Delete removes the day record for a limiter name.
func (f *FileBackend) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete record for %q: %w", name, err)
	}
	return nil
}

// List returns the names of all stored records.
func (f *FileBackend) List(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), recordFileSuffix) {
			names = append(names, strings.TrimSuffix(entry.Name(), recordFileSuffix))
		}
	}

	return names, nil
}

// Cleanup removes records not modified since olderThan.
func (f *FileBackend) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read storage directory: %w", err)
	}

	deleted := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(olderThan) {
			if err := os.Remove(filepath.Join(f.dir, entry.Name())); err == nil {
				deleted++
			}
		}
	}

	return deleted, nil
}

// Close releases any resources held by the backend.
func (f *FileBackend) Close() error {
	return nil
}

// Dir returns the directory the backend stores records in.
func (f *FileBackend) Dir() string {
	return f.dir
}

func (f *FileBackend) path(name string) string {
	return filepath.Join(f.dir, name+recordFileSuffix)
}

// validateName rejects names that would escape the storage directory.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid limiter name %q", name)
	}
	return nil
}
