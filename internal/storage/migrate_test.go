package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func TestMigrateUpIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-idem.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up: %v", err)
	}
}

func TestMigrateRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up after down: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	ctx := context.Background()
	created := time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC)
	if err := repo.CreateUser(ctx, User{
		ID: "u1", Email: "alice@example.com", Username: "alice",
		PasswordHash: "x", CreatedAt: created,
	}); err != nil {
		t.Fatalf("create user after roundtrip: %v", err)
	}
	if err := repo.CreateTask(ctx, Task{
		ID: "t1", OwnerID: "u1", Title: "standup",
		TaskDate: "2025-06-16", TaskTime: "09:00",
		Status: "pending", CreatedAt: created,
	}); err != nil {
		t.Fatalf("create task after roundtrip: %v", err)
	}
	got, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("get task after roundtrip: %v", err)
	}
	if got.Title != "standup" || got.TaskDate != "2025-06-16" {
		t.Fatalf("unexpected task after roundtrip: %+v", got)
	}
}
