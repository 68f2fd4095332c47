package update

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FanchonSora/V-Assistant/internal/api"
	"github.com/FanchonSora/V-Assistant/internal/calendar"
	"github.com/FanchonSora/V-Assistant/internal/model"
)

func someTasks() []model.Task {
	return []model.Task{
		{ID: "t1", Title: "standup", TaskDate: "2025-06-16", TaskTime: "09:00", Status: model.StatusPending},
		{ID: "t2", Title: "review", TaskDate: "2025-06-17", TaskTime: "14:00", Status: model.StatusPending},
	}
}

func TestGranularityKeysResolveWindow(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.now = func() time.Time { return time.Date(2025, 6, 16, 12, 0, 0, 0, time.Local) }

	updated, cmd := m.Update(keyRunes("m"))
	next := updated.(Model)
	if next.Window.Granularity != calendar.GranularityMonth {
		t.Fatalf("expected month window, got %q", next.Window.Granularity)
	}
	if len(next.Window.Cells) != calendar.MonthGridCells {
		t.Fatalf("expected %d cells, got %d", calendar.MonthGridCells, len(next.Window.Cells))
	}
	if cmd == nil {
		t.Fatal("expected refetch on granularity change")
	}

	updated, cmd = next.Update(keyRunes("d"))
	next = updated.(Model)
	if next.Window.Granularity != calendar.GranularityDay {
		t.Fatalf("expected day window, got %q", next.Window.Granularity)
	}
	if cmd == nil {
		t.Fatal("expected refetch on granularity change")
	}

	// Re-pressing the active granularity is a no-op.
	updated, cmd = next.Update(keyRunes("d"))
	next = updated.(Model)
	if cmd != nil {
		t.Fatal("expected no refetch for unchanged granularity")
	}
	if next.Window.Granularity != calendar.GranularityDay {
		t.Fatalf("granularity changed unexpectedly: %q", next.Window.Granularity)
	}
}

func TestShiftWindowMovesWholeWeek(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	before := m.Window.Start

	updated, cmd := m.Update(keyRunes("l"))
	next := updated.(Model)
	if got := next.Window.Start; !got.Equal(before.AddDate(0, 0, 7)) {
		t.Fatalf("expected start %s, got %s", before.AddDate(0, 0, 7), got)
	}
	if cmd == nil {
		t.Fatal("expected refetch on shift")
	}

	updated, _ = next.Update(keyRunes("h"))
	next = updated.(Model)
	if got := next.Window.Start; !got.Equal(before) {
		t.Fatalf("expected start back at %s, got %s", before, got)
	}
}

func TestStaleFetchResponseDiscarded(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.Tasks = someTasks()
	m.fetchEpoch = 2

	updated, _ := m.Update(TasksLoadedMsg{Epoch: 1, Tasks: []model.Task{{ID: "old"}}})
	next := updated.(Model)
	if len(next.Tasks) != 2 || next.Tasks[0].ID != "t1" {
		t.Fatalf("stale response must not replace the list: %+v", next.Tasks)
	}

	updated, _ = next.Update(TasksLoadedMsg{Epoch: 2, Tasks: []model.Task{{ID: "fresh"}}})
	next = updated.(Model)
	if len(next.Tasks) != 1 || next.Tasks[0].ID != "fresh" {
		t.Fatalf("current response must replace the list: %+v", next.Tasks)
	}
}

func TestFetchFailureKeepsExistingList(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.Tasks = someTasks()
	m.fetchEpoch = 1
	m.Loading = true

	updated, _ := m.Update(TasksLoadFailedMsg{Epoch: 1, Err: errors.New("connection refused")})
	next := updated.(Model)
	if len(next.Tasks) != 2 {
		t.Fatalf("failed fetch must keep the list: %+v", next.Tasks)
	}
	if next.Loading {
		t.Fatal("expected loading cleared")
	}
	if !next.Status.IsError {
		t.Fatalf("expected error status, got: %+v", next.Status)
	}
}

func TestCursorNavigationAndOpen(t *testing.T) {
	m := newTestModel(&fakeBackend{})
	m.Tasks = someTasks()

	updated, _ := m.Update(keyRunes("j"))
	next := updated.(Model)
	if next.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", next.Cursor)
	}

	updated, _ = next.Update(keyRunes("j"))
	next = updated.(Model)
	if next.Cursor != 1 {
		t.Fatalf("cursor must not pass the end, got %d", next.Cursor)
	}

	updated, _ = next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next = updated.(Model)
	if next.Modal.Phase != ModalViewing {
		t.Fatalf("expected viewing modal, got %q", next.Modal.Phase)
	}
	if next.Modal.Task.ID != "t2" {
		t.Fatalf("expected cursor task in modal, got %q", next.Modal.Task.ID)
	}
}

func TestSpaceTogglesStatusThroughServer(t *testing.T) {
	var gotPatch api.TaskPatch
	backend := &fakeBackend{
		update: func(id string, patch api.TaskPatch) (model.Task, error) {
			gotPatch = patch
			task := someTasks()[0]
			task.Status = *patch.Status
			return task, nil
		},
	}
	m := newTestModel(backend)
	m.Tasks = someTasks()
	m.Window = calendar.Resolve("2025-06-16", calendar.GranularityWeek, time.Now())

	updated, cmd := m.Update(keyRunes(" "))
	next := updated.(Model)
	if cmd == nil {
		t.Fatal("expected update command")
	}
	// The list does not change until the server confirms.
	if next.Tasks[0].Status != model.StatusPending {
		t.Fatalf("expected pending before confirmation, got %q", next.Tasks[0].Status)
	}

	updated, _ = next.Update(cmd())
	next = updated.(Model)
	if gotPatch.Status == nil || *gotPatch.Status != model.StatusDone {
		t.Fatalf("expected done patch, got %+v", gotPatch)
	}
	if next.Tasks[0].Status != model.StatusDone {
		t.Fatalf("expected done after confirmation, got %q", next.Tasks[0].Status)
	}
}
