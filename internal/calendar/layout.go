package calendar

import (
	"sort"

	"github.com/FanchonSora/V-Assistant/internal/model"
)

// HourHeight is the height of one hour row in layout units.
const HourHeight = 60.0

// PositionedTask is a task placed on the hour-by-day grid. Top and
// Height are in row units (one hour = HourHeight); Left and Width are
// percentages of the day column.
type PositionedTask struct {
	Task   model.Task
	Col    int
	Top    float64
	Left   float64
	Width  float64
	Height float64
}

func (p PositionedTask) bottom() float64 { return p.Top + p.Height }

// Layout places tasks onto the window's grid. Tasks whose date falls
// outside the window or whose time does not parse are not rendered;
// that is a display decision, never an error.
//
// Overlap uses true interval intersection of [top, top+height) within a
// column. Each cluster of mutually overlapping tasks splits the column
// evenly: width 100/N, left i*100/N. Equal partition over-compresses
// partially overlapping neighbors; conflicts are rare enough that the
// simpler packing wins over interval-graph coloring.
func Layout(tasks []model.Task, w Window) []PositionedTask {
	byCol := make(map[int][]PositionedTask)
	for _, task := range tasks {
		col := w.CellIndex(task.TaskDate)
		if col < 0 {
			continue
		}
		hour, minute, err := model.ParseClock(task.TaskTime)
		if err != nil {
			continue
		}
		byCol[col] = append(byCol[col], PositionedTask{
			Task:   task,
			Col:    col,
			Top:    float64(hour)*HourHeight + float64(minute)/60.0*HourHeight,
			Width:  100,
			Height: HourHeight,
		})
	}

	cols := make([]int, 0, len(byCol))
	for col := range byCol {
		cols = append(cols, col)
	}
	sort.Ints(cols)

	out := make([]PositionedTask, 0, len(tasks))
	for _, col := range cols {
		out = append(out, packColumn(byCol[col])...)
	}
	return out
}

// packColumn groups a column's tasks into clusters of transitively
// overlapping intervals and assigns each cluster an even split.
func packColumn(items []PositionedTask) []PositionedTask {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Top != items[j].Top {
			return items[i].Top < items[j].Top
		}
		if items[i].Task.Title != items[j].Task.Title {
			return items[i].Task.Title < items[j].Task.Title
		}
		return items[i].Task.ID < items[j].Task.ID
	})

	for start := 0; start < len(items); {
		end := start + 1
		clusterBottom := items[start].bottom()
		for end < len(items) && items[end].Top < clusterBottom {
			if b := items[end].bottom(); b > clusterBottom {
				clusterBottom = b
			}
			end++
		}
		n := float64(end - start)
		for i := start; i < end; i++ {
			items[i].Width = 100 / n
			items[i].Left = float64(i-start) * 100 / n
		}
		start = end
	}
	return items
}

// Overlaps reports whether two positioned tasks in the same column have
// intersecting vertical spans.
func Overlaps(a, b PositionedTask) bool {
	if a.Col != b.Col {
		return false
	}
	return a.Top < b.bottom() && b.Top < a.bottom()
}
