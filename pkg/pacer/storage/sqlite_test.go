package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()

	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "pacing.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}
	t.Cleanup(func() { backend.Close() })

	return backend
}

func TestSQLiteBackend_SaveAndLoad(t *testing.T) {
	backend := newTestSQLiteBackend(t)

	ctx := context.Background()

	last := 1756600123.75
	rec := &DayRecord{
		Date:              "2026-08-31",
		OperationsCount:   12,
		LastOperationTime: &last,
	}

	if err := backend.Save(ctx, "linkedin_search", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := backend.Load(ctx, "linkedin_search")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected record, got nil")
	}
	if loaded.Date != "2026-08-31" {
		t.Errorf("Expected date 2026-08-31, got %s", loaded.Date)
	}
	if loaded.OperationsCount != 12 {
		t.Errorf("Expected count 12, got %d", loaded.OperationsCount)
	}
	if loaded.LastOperationTime == nil || *loaded.LastOperationTime != last {
		t.Errorf("Expected last operation time %v, got %v", last, loaded.LastOperationTime)
	}
}

func TestSQLiteBackend_NullLastOperationTime(t *testing.T) {
	backend := newTestSQLiteBackend(t)

	ctx := context.Background()

	if err := backend.Save(ctx, "fresh", NewDayRecord("2026-08-31")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := backend.Load(ctx, "fresh")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LastOperationTime != nil {
		t.Errorf("Expected nil last operation time, got %v", *loaded.LastOperationTime)
	}
}

func TestSQLiteBackend_Upsert(t *testing.T) {
	backend := newTestSQLiteBackend(t)

	ctx := context.Background()

	rec := NewDayRecord("2026-08-31")
	if err := backend.Save(ctx, "test", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	rec.OperationsCount = 5
	if err := backend.Save(ctx, "test", rec); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := backend.Load(ctx, "test")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OperationsCount != 5 {
		t.Errorf("Expected count 5 after upsert, got %d", loaded.OperationsCount)
	}

	names, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("Expected 1 record after upsert, got %d", len(names))
	}
}

func TestSQLiteBackend_LoadNonExistent(t *testing.T) {
	backend := newTestSQLiteBackend(t)

	loaded, err := backend.Load(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("Expected nil for non-existent record, got %v", loaded)
	}
}

func TestSQLiteBackend_DeleteAndCleanup(t *testing.T) {
	backend := newTestSQLiteBackend(t)

	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if err := backend.Save(ctx, name, NewDayRecord("2026-08-31")); err != nil {
			t.Fatalf("Save %s failed: %v", name, err)
		}
	}

	if err := backend.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	names, err := backend.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("Expected 2 records after delete, got %d", len(names))
	}

	deleted, err := backend.Cleanup(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}
}

func TestSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pacing.db")

	backend, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteBackend failed: %v", err)
	}

	ctx := context.Background()

	rec := NewDayRecord("2026-08-31")
	rec.OperationsCount = 9
	if err := backend.Save(ctx, "durable", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := backend.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewSQLiteBackend(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "durable")
	if err != nil {
		t.Fatalf("Load after reopen failed: %v", err)
	}
	if loaded == nil || loaded.OperationsCount != 9 {
		t.Errorf("Expected count 9 after reopen, got %v", loaded)
	}
}
