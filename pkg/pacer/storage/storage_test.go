package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryBackend_SaveAndLoad(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()

	ctx := context.Background()

	last := 1756600000.5
	rec := &DayRecord{
		Date:              "2026-08-31",
		OperationsCount:   42,
		LastOperationTime: &last,
	}

	if err := backend.Save(ctx, "linkedin_profiles", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := backend.Load(ctx, "linkedin_profiles")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected record, got nil")
	}

	if loaded.Date != "2026-08-31" {
		t.Errorf("Expected date 2026-08-31, got %s", loaded.Date)
	}
	if loaded.OperationsCount != 42 {
		t.Errorf("Expected count 42, got %d", loaded.OperationsCount)
	}
	if loaded.LastOperationTime == nil || *loaded.LastOperationTime != last {
		t.Errorf("Expected last operation time %v, got %v", last, loaded.LastOperationTime)
	}
}

func TestMemoryBackend_LoadNonExistent(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()

	loaded, err := backend.Load(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil for non-existent record, got %v", loaded)
	}
}

func TestMemoryBackend_LoadReturnsCopy(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()

	ctx := context.Background()

	rec := NewDayRecord("2026-08-31")
	if err := backend.Save(ctx, "test", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, _ := backend.Load(ctx, "test")
	loaded.OperationsCount = 99

	again, _ := backend.Load(ctx, "test")
	if again.OperationsCount != 0 {
		t.Errorf("Mutating a loaded record leaked into storage: count = %d", again.OperationsCount)
	}
}

func TestMemoryBackend_Delete(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()

	ctx := context.Background()

	if err := backend.Save(ctx, "test", NewDayRecord("2026-08-31")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := backend.Delete(ctx, "test"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	loaded, err := backend.Load(ctx, "test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Error("Expected record to be deleted")
	}

	// Deleting a missing record is a no-op
	if err := backend.Delete(ctx, "test"); err != nil {
		t.Errorf("Delete of missing record failed: %v", err)
	}
}

func TestMemoryBackend_List(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()

	ctx := context.Background()

	for _, name := range []string{"profiles", "search", "messages"} {
		if err := backend.Save(ctx, name, NewDayRecord("2026-08-31")); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}

	names, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 3 {
		t.Errorf("Expected 3 names, got %d", len(names))
	}
}

func TestMemoryBackend_Cleanup(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()

	ctx := context.Background()

	if err := backend.Save(ctx, "stale", NewDayRecord("2026-08-01")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Everything was written just now, so a cutoff in the past deletes nothing.
	deleted, err := backend.Cleanup(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected 0 deleted, got %d", deleted)
	}

	// A cutoff in the future deletes everything.
	deleted, err = backend.Cleanup(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted, got %d", deleted)
	}
	if backend.Size() != 0 {
		t.Errorf("Expected empty backend, got %d records", backend.Size())
	}
}

func TestMemoryBackend_EmptyName(t *testing.T) {
	backend := NewMemoryBackend()
	defer backend.Close()

	ctx := context.Background()

	if err := backend.Save(ctx, "", NewDayRecord("2026-08-31")); err == nil {
		t.Error("Expected error for empty name on Save")
	}
	if _, err := backend.Load(ctx, ""); err == nil {
		t.Error("Expected error for empty name on Load")
	}
}

func TestFileBackend_SaveAndLoad(t *testing.T) {
	backend := newTestFileBackend(t)

	ctx := context.Background()

	last := 1756600000.25
	rec := &DayRecord{
		Date:              "2026-08-31",
		OperationsCount:   7,
		LastOperationTime: &last,
	}

	if err := backend.Save(ctx, "linkedin_messages", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := backend.Load(ctx, "linkedin_messages")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected record, got nil")
	}
	if loaded.OperationsCount != 7 {
		t.Errorf("Expected count 7, got %d", loaded.OperationsCount)
	}
	if loaded.LastOperationTime == nil || *loaded.LastOperationTime != last {
		t.Errorf("Expected last operation time %v, got %v", last, loaded.LastOperationTime)
	}
}

// TestFileBackend_WireFormat pins the on-disk document layout: one
// <name>_rate_limit.json per limiter with snake_case fields and a null
// last_operation_time for fresh records.
func TestFileBackend_WireFormat(t *testing.T) {
	backend := newTestFileBackend(t)

	ctx := context.Background()

	if err := backend.Save(ctx, "linkedin_profiles", NewDayRecord("2026-08-31")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(backend.Dir(), "linkedin_profiles_rate_limit.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected document at %s: %v", path, err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Document is not valid JSON: %v", err)
	}

	if doc["date"] != "2026-08-31" {
		t.Errorf("Expected date field 2026-08-31, got %v", doc["date"])
	}
	if doc["operations_count"] != float64(0) {
		t.Errorf("Expected operations_count 0, got %v", doc["operations_count"])
	}
	if v, ok := doc["last_operation_time"]; !ok || v != nil {
		t.Errorf("Expected null last_operation_time, got %v (present=%v)", v, ok)
	}
}

// TestFileBackend_ReadsForeignDocument verifies that documents written by
// other implementations of the same layout load cleanly.
func TestFileBackend_ReadsForeignDocument(t *testing.T) {
	backend := newTestFileBackend(t)

	doc := `{
  "date": "2026-08-30",
  "operations_count": 153,
  "last_operation_time": 1756512000.123
}`
	path := filepath.Join(backend.Dir(), "imported_rate_limit.json")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	loaded, err := backend.Load(context.Background(), "imported")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected record, got nil")
	}
	if loaded.Date != "2026-08-30" {
		t.Errorf("Expected date 2026-08-30, got %s", loaded.Date)
	}
	if loaded.OperationsCount != 153 {
		t.Errorf("Expected count 153, got %d", loaded.OperationsCount)
	}
	if loaded.LastOperationTime == nil || *loaded.LastOperationTime != 1756512000.123 {
		t.Errorf("Unexpected last operation time: %v", loaded.LastOperationTime)
	}
}

func TestFileBackend_DeleteAndList(t *testing.T) {
	backend := newTestFileBackend(t)

	ctx := context.Background()

	for _, name := range []string{"profiles", "search"} {
		if err := backend.Save(ctx, name, NewDayRecord("2026-08-31")); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}

	names, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("Expected 2 names, got %d: %v", len(names), names)
	}

	if err := backend.Delete(ctx, "profiles"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	loaded, err := backend.Load(ctx, "profiles")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Error("Expected record to be deleted")
	}
}

func TestFileBackend_RejectsPathTraversal(t *testing.T) {
	backend := newTestFileBackend(t)

	ctx := context.Background()

	for _, name := range []string{"", "../escape", "a/b", `a\b`, ".", ".."} {
		if err := backend.Save(ctx, name, NewDayRecord("2026-08-31")); err == nil {
			t.Errorf("Expected error for name %q", name)
		}
	}
}

func newTestFileBackend(t *testing.T) *FileBackend {
	t.Helper()

	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	return backend
}
