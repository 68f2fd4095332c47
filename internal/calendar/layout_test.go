package calendar

import (
	"math"
	"testing"

	"github.com/FanchonSora/V-Assistant/internal/model"
)

func weekOf(t *testing.T, date string) Window {
	t.Helper()
	now, err := model.ParseDate("2026-01-05")
	if err != nil {
		t.Fatalf("parse now: %v", err)
	}
	return Resolve(date, GranularityWeek, now)
}

func task(id, date, clock string) model.Task {
	return model.Task{
		ID:       id,
		Title:    "task " + id,
		TaskDate: date,
		TaskTime: clock,
		Day:      model.Weekday(date),
		Status:   model.StatusPending,
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLayoutSingleTaskPosition(t *testing.T) {
	w := weekOf(t, "2024-03-20")
	placed := Layout([]model.Task{task("a", "2024-03-20", "09:30")}, w)
	if len(placed) != 1 {
		t.Fatalf("expected 1 positioned task, got %d", len(placed))
	}
	got := placed[0]
	if got.Col != 2 {
		t.Fatalf("Wednesday should be column 2, got %d", got.Col)
	}
	if !approx(got.Top, 9*HourHeight+30) {
		t.Fatalf("expected top %v, got %v", 9*HourHeight+30, got.Top)
	}
	if !approx(got.Width, 100) || !approx(got.Left, 0) {
		t.Fatalf("single task should span full column, got width=%v left=%v", got.Width, got.Left)
	}
}

func TestLayoutSameSlotSplitsColumn(t *testing.T) {
	w := weekOf(t, "2025-06-16")
	placed := Layout([]model.Task{
		task("a", "2025-06-16", "09:00"),
		task("b", "2025-06-16", "09:00"),
	}, w)
	if len(placed) != 2 {
		t.Fatalf("expected 2 positioned tasks, got %d", len(placed))
	}
	for _, p := range placed {
		if p.Width > 50+1e-9 {
			t.Fatalf("expected width <= 50, got %v", p.Width)
		}
	}
	if approx(placed[0].Left, placed[1].Left) {
		t.Fatalf("expected distinct left offsets, both %v", placed[0].Left)
	}
	if Overlaps(placed[0], placed[1]) {
		// Same vertical span is fine; rendered spans must not collide
		// horizontally.
		if placed[0].Left+placed[0].Width > placed[1].Left+1e-9 &&
			placed[1].Left+placed[1].Width > placed[0].Left+1e-9 {
			t.Fatal("rendered spans overlap horizontally")
		}
	}
}

func TestLayoutAdjacentHourOverlapDetected(t *testing.T) {
	// 09:30 and 10:00 live in different hour buckets but their hour-tall
	// spans intersect; interval intersection must catch that.
	w := weekOf(t, "2025-06-16")
	placed := Layout([]model.Task{
		task("a", "2025-06-16", "09:30"),
		task("b", "2025-06-16", "10:00"),
	}, w)
	if len(placed) != 2 {
		t.Fatalf("expected 2 positioned tasks, got %d", len(placed))
	}
	if !Overlaps(placed[0], placed[1]) {
		t.Fatal("expected vertical spans to intersect")
	}
	for _, p := range placed {
		if !approx(p.Width, 50) {
			t.Fatalf("expected width 50, got %v", p.Width)
		}
	}
}

func TestLayoutNonOverlappingKeepFullWidth(t *testing.T) {
	w := weekOf(t, "2025-06-16")
	placed := Layout([]model.Task{
		task("a", "2025-06-16", "09:00"),
		task("b", "2025-06-16", "11:00"),
	}, w)
	for _, p := range placed {
		if !approx(p.Width, 100) {
			t.Fatalf("expected full width for disjoint tasks, got %v", p.Width)
		}
	}
}

func TestLayoutThreeWayCluster(t *testing.T) {
	w := weekOf(t, "2025-06-16")
	placed := Layout([]model.Task{
		task("a", "2025-06-16", "09:00"),
		task("b", "2025-06-16", "09:15"),
		task("c", "2025-06-16", "09:45"),
	}, w)
	lefts := map[float64]bool{}
	for _, p := range placed {
		if !approx(p.Width, 100.0/3) {
			t.Fatalf("expected width 100/3, got %v", p.Width)
		}
		lefts[math.Round(p.Left)] = true
	}
	if len(lefts) != 3 {
		t.Fatalf("expected 3 distinct left offsets, got %v", lefts)
	}
}

func TestLayoutSkipsUnparsableAndOutOfWindow(t *testing.T) {
	w := weekOf(t, "2025-06-16")
	placed := Layout([]model.Task{
		task("a", "2025-06-16", "09:00"),
		task("bad-time", "2025-06-16", "late"),
		task("bad-date", "junk", "09:00"),
		task("next-week", "2025-06-23", "09:00"),
	}, w)
	if len(placed) != 1 || placed[0].Task.ID != "a" {
		t.Fatalf("expected only task a placed, got %+v", placed)
	}
}

func TestLayoutColumnsAreWindowRelative(t *testing.T) {
	// Day windows have a single column regardless of weekday.
	now, _ := model.ParseDate("2026-01-05")
	day := Resolve("2025-06-19", GranularityDay, now)
	placed := Layout([]model.Task{task("a", "2025-06-19", "08:00")}, day)
	if len(placed) != 1 || placed[0].Col != 0 {
		t.Fatalf("expected column 0 in day window, got %+v", placed)
	}
}
