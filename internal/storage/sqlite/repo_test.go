package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"remap/internal/storage"
)

func openTestRepo(t *testing.T) storage.Repository {
	t.Helper()
	cfg := storage.Config{
		Kind:  "sqlite",
		DSN:   filepath.Join(t.TempDir(), "remap.db"),
		Table: "students",
		Columns: []storage.Column{
			{Name: "name"},
			{Name: "grade", Integer: true},
		},
	}
	repo, err := storage.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := openTestRepo(t)

	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	// EnsureTable is safe to repeat.
	if err := repo.EnsureTable(ctx); err != nil {
		t.Fatalf("EnsureTable (again): %v", err)
	}

	cols := []string{"name", "grade"}
	rows := [][]any{
		{"ann", int64(0)},
		{"bob", int64(1)},
		{nil, int64(2)},
	}
	n, err := repo.CopyFrom(ctx, cols, rows)
	if err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if n != 3 {
		t.Fatalf("inserted = %d, want 3", n)
	}

	// Verify through the concrete type's handle.
	r := repo.(*Repository)
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "students" WHERE grade < 3`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestCopyFromEmptyRows(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	if err := repo.EnsureTable(context.Background()); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	n, err := repo.CopyFrom(context.Background(), []string{"name", "grade"}, nil)
	if err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if n != 0 {
		t.Fatalf("inserted = %d, want 0", n)
	}
}

func TestCopyFromRaggedRow(t *testing.T) {
	t.Parallel()

	repo := openTestRepo(t)
	if err := repo.EnsureTable(context.Background()); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	_, err := repo.CopyFrom(context.Background(), []string{"name", "grade"}, [][]any{{"only"}})
	if err == nil {
		t.Fatal("expected error for ragged row")
	}
}

func TestOpenEmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", Table: "t"})
	if err == nil {
		t.Fatal("expected error for empty DSN")
	}
}
