package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "vassist-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository, id string) User {
	t.Helper()
	user := User{
		ID:           id,
		Email:        id + "@example.com",
		Username:     id,
		PasswordHash: "x",
		CreatedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestUserCreateAndLookup(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "alice")

	got, err := repo.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := repo.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestTaskCRUD(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "alice")

	task := Task{
		ID:        "t1",
		OwnerID:   "alice",
		Title:     "Morning Meeting",
		TaskDate:  "2025-06-16",
		TaskTime:  "09:00",
		Status:    "pending",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != task.Title || got.TaskDate != task.TaskDate || got.TaskTime != task.TaskTime {
		t.Fatalf("unexpected task: %+v", got)
	}

	got.Title = "Renamed"
	got.Status = "done"
	if err := repo.UpdateTask(ctx, got); err != nil {
		t.Fatalf("update task: %v", err)
	}
	updated, err := repo.GetTask(ctx, "t1")
	if err != nil {
		t.Fatalf("get task after update: %v", err)
	}
	if updated.Title != "Renamed" || updated.Status != "done" {
		t.Fatalf("update not applied: %+v", updated)
	}

	if err := repo.DeleteTask(ctx, "t1"); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := repo.GetTask(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got: %v", err)
	}
	if err := repo.DeleteTask(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got: %v", err)
	}
}

func TestListTasksFilters(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "alice")
	seedUser(t, repo, "bob")

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed := []Task{
		{ID: "t1", OwnerID: "alice", Title: "Mon", TaskDate: "2025-06-16", TaskTime: "09:00", Status: "pending", CreatedAt: created},
		{ID: "t2", OwnerID: "alice", Title: "Wed", TaskDate: "2025-06-18", TaskTime: "10:00", Status: "pending", CreatedAt: created},
		{ID: "t3", OwnerID: "alice", Title: "Next week", TaskDate: "2025-06-23", TaskTime: "09:00", Status: "pending", CreatedAt: created},
		{ID: "t4", OwnerID: "bob", Title: "Other owner", TaskDate: "2025-06-16", TaskTime: "09:00", Status: "pending", CreatedAt: created},
	}
	for _, task := range seed {
		if err := repo.CreateTask(ctx, task); err != nil {
			t.Fatalf("create %s: %v", task.ID, err)
		}
	}

	byDate, err := repo.ListTasks(ctx, TaskListFilter{OwnerID: "alice", Date: "2025-06-16"})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(byDate) != 1 || byDate[0].ID != "t1" {
		t.Fatalf("expected only t1, got %+v", byDate)
	}

	byRange, err := repo.ListTasks(ctx, TaskListFilter{OwnerID: "alice", Start: "2025-06-16", End: "2025-06-22"})
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(byRange) != 2 {
		t.Fatalf("expected t1 and t2 in range, got %+v", byRange)
	}
	if byRange[0].ID != "t1" || byRange[1].ID != "t2" {
		t.Fatalf("expected date ordering, got %+v", byRange)
	}
}

func TestListTasksIdempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "alice")
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.CreateTask(ctx, Task{ID: "t1", OwnerID: "alice", Title: "x", TaskDate: "2025-06-16", Status: "pending", CreatedAt: created}); err != nil {
		t.Fatalf("create: %v", err)
	}

	filter := TaskListFilter{OwnerID: "alice", Date: "2025-06-16"}
	first, err := repo.ListTasks(ctx, filter)
	if err != nil {
		t.Fatalf("first list: %v", err)
	}
	second, err := repo.ListTasks(ctx, filter)
	if err != nil {
		t.Fatalf("second list: %v", err)
	}
	if len(first) != len(second) || first[0].ID != second[0].ID {
		t.Fatalf("repeated list diverged: %+v vs %+v", first, second)
	}
}

func TestDeleteUserCascadesTasks(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	seedUser(t, repo, "alice")
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := repo.CreateTask(ctx, Task{ID: "t1", OwnerID: "alice", Title: "x", Status: "pending", CreatedAt: created}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := repo.DB().Exec(`DELETE FROM users WHERE id = 'alice'`); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := repo.GetTask(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected cascade delete, got: %v", err)
	}
}
