package storage

import "time"

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Task rows keep task_date and task_time as their wire strings
// (YYYY-MM-DD, HH:mm). Dates are calendar values, not instants, so a
// lexicographic comparison is also a chronological one.
type Task struct {
	ID        string
	OwnerID   string
	Title     string
	TaskDate  string
	TaskTime  string
	RRule     string
	Status    string
	CreatedAt time.Time
}

// TaskListFilter scopes a list. OwnerID is always required by the
// server; Date and Start/End are mutually exclusive.
type TaskListFilter struct {
	OwnerID string
	Date    string
	Start   string
	End     string
	Limit   int
	Offset  int
}
