package api

import (
	"fmt"
	"strings"

	"github.com/FanchonSora/V-Assistant/internal/model"
)

// taskRecord is the loose wire shape the backend emits. Field types have
// drifted across backend versions, so everything funnels through
// normalize before the rest of the app sees it.
type taskRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	TaskDate string `json:"task_date"`
	TaskTime string `json:"task_time"`
	Day      string `json:"day"`
	RRule    string `json:"rrule"`
	Status   string `json:"status"`
}

// ParseError is a record the API boundary refused to admit.
type ParseError struct {
	ID     string
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("api: task %q: bad %s: %s", e.ID, e.Field, e.Reason)
}

// normalize maps a wire record into the canonical Task. The server's
// day field is discarded and recomputed from task_date; status defaults
// to pending when absent.
func normalize(rec taskRecord) (model.Task, error) {
	if strings.TrimSpace(rec.ID) == "" {
		return model.Task{}, &ParseError{ID: rec.ID, Field: "id", Reason: "missing"}
	}

	date := rec.TaskDate
	if date != "" {
		// Some backend versions send a full timestamp for task_date.
		if cut := strings.IndexAny(date, "T "); cut > 0 {
			date = date[:cut]
		}
		if _, err := model.ParseDate(date); err != nil {
			return model.Task{}, &ParseError{ID: rec.ID, Field: "task_date", Reason: rec.TaskDate}
		}
	}

	clock := rec.TaskTime
	if clock != "" {
		hour, minute, err := model.ParseClock(clock)
		if err != nil {
			return model.Task{}, &ParseError{ID: rec.ID, Field: "task_time", Reason: rec.TaskTime}
		}
		clock = fmt.Sprintf("%02d:%02d", hour, minute)
	}

	status := model.Status(rec.Status)
	if rec.Status == "" {
		status = model.StatusPending
	}
	if !status.IsValid() {
		return model.Task{}, &ParseError{ID: rec.ID, Field: "status", Reason: rec.Status}
	}

	task := model.Task{
		ID:       rec.ID,
		Title:    rec.Title,
		TaskDate: date,
		TaskTime: clock,
		RRule:    rec.RRule,
		Status:   status,
	}
	return task.WithDerivedDay(), nil
}

func normalizeAll(records []taskRecord) ([]model.Task, error) {
	out := make([]model.Task, 0, len(records))
	for _, rec := range records {
		task, err := normalize(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	return out, nil
}
