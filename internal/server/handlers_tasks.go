package server

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/google/uuid"

	applog "github.com/FanchonSora/V-Assistant/internal/log"
	"github.com/FanchonSora/V-Assistant/internal/model"
	"github.com/FanchonSora/V-Assistant/internal/storage"
)

// taskBody is the wire shape of a task. The day field is derived from
// task_date at serialization time and never stored.
type taskBody struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	TaskDate string `json:"task_date"`
	TaskTime string `json:"task_time"`
	Day      string `json:"day"`
	RRule    string `json:"rrule"`
	Status   string `json:"status"`
}

func toBody(t storage.Task) taskBody {
	body := taskBody{
		ID:       t.ID,
		Title:    t.Title,
		TaskDate: t.TaskDate,
		TaskTime: t.TaskTime,
		RRule:    t.RRule,
		Status:   t.Status,
	}
	body.Day = model.Weekday(t.TaskDate)
	return body
}

func toBodies(tasks []storage.Task) []taskBody {
	out := make([]taskBody, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toBody(t))
	}
	return out
}

type taskCreateRequest struct {
	Title    string `json:"title"`
	TaskDate string `json:"task_date"`
	TaskTime string `json:"task_time"`
	RRule    string `json:"rrule"`
}

// taskUpdateRequest is a partial update; absent fields keep their
// stored values.
type taskUpdateRequest struct {
	Title    *string `json:"title"`
	TaskDate *string `json:"task_date"`
	TaskTime *string `json:"task_time"`
	RRule    *string `json:"rrule"`
	Status   *string `json:"status"`
}

func validateDate(date string) bool {
	if date == "" {
		return true
	}
	_, err := model.ParseDate(date)
	return err == nil
}

// normalizeClock validates a wire clock and re-renders it zero-padded.
// Stored times are compared lexicographically, so "9:00" must become
// "09:00" before it hits the database.
func normalizeClock(clock string) (string, bool) {
	if clock == "" {
		return "", true
	}
	hour, minute, err := model.ParseClock(clock)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	var req taskCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "title is required")
		return
	}
	if !validateDate(req.TaskDate) {
		writeError(w, http.StatusUnprocessableEntity, "task_date must be YYYY-MM-DD")
		return
	}
	clock, ok := normalizeClock(req.TaskTime)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "task_time must be HH:mm")
		return
	}
	req.TaskTime = clock
	if req.RRule != "" {
		if _, err := parseRule(req.RRule, req.TaskDate, req.TaskTime); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "rrule is not a valid recurrence rule")
			return
		}
	}

	task := storage.Task{
		ID:        uuid.NewString(),
		OwnerID:   user.ID,
		Title:     req.Title,
		TaskDate:  req.TaskDate,
		TaskTime:  req.TaskTime,
		RRule:     req.RRule,
		Status:    string(model.StatusPending),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "could not create task")
		return
	}

	s.scheduleReminder(task)
	applog.Info("task created", "id", task.ID, "owner", user.Username)
	writeJSON(w, http.StatusCreated, toBody(task))
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	date := r.URL.Query().Get("date")
	if date != "" && !validateDate(date) {
		writeError(w, http.StatusUnprocessableEntity, "date must be YYYY-MM-DD")
		return
	}

	tasks, err := s.repo.ListTasks(r.Context(), storage.TaskListFilter{
		OwnerID: user.ID,
		Date:    date,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list tasks")
		return
	}
	writeJSON(w, http.StatusOK, toBodies(tasks))
}

func (s *Server) handleListTasksRange(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")
	if start == "" || end == "" || !validateDate(start) || !validateDate(end) || start > end {
		writeError(w, http.StatusUnprocessableEntity, "start_date and end_date must be YYYY-MM-DD with start_date <= end_date")
		return
	}

	// Recurring tasks can seed occurrences inside the window from a
	// task_date far before it, so the range filter cannot run in SQL
	// alone. Fetch the owner's tasks and window them here.
	tasks, err := s.repo.ListTasks(r.Context(), storage.TaskListFilter{OwnerID: user.ID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not list tasks")
		return
	}

	out := make([]storage.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.RRule == "" {
			if t.TaskDate >= start && t.TaskDate <= end {
				out = append(out, t)
			}
			continue
		}
		occurrences, err := expandRecurring(t, start, end)
		if err != nil {
			applog.Error("skip unexpandable rrule", err, "id", t.ID)
			continue
		}
		out = append(out, occurrences...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TaskDate != out[j].TaskDate {
			return out[i].TaskDate < out[j].TaskDate
		}
		if out[i].TaskTime != out[j].TaskTime {
			return out[i].TaskTime < out[j].TaskTime
		}
		return out[i].ID < out[j].ID
	})
	writeJSON(w, http.StatusOK, toBodies(out))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	task, ok := s.ownedTask(w, r, user)
	if !ok {
		return
	}

	var req taskUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeError(w, http.StatusUnprocessableEntity, "title cannot be empty")
			return
		}
		task.Title = title
	}
	if req.TaskDate != nil {
		if !validateDate(*req.TaskDate) {
			writeError(w, http.StatusUnprocessableEntity, "task_date must be YYYY-MM-DD")
			return
		}
		task.TaskDate = *req.TaskDate
	}
	if req.TaskTime != nil {
		clock, ok := normalizeClock(*req.TaskTime)
		if !ok {
			writeError(w, http.StatusUnprocessableEntity, "task_time must be HH:mm")
			return
		}
		task.TaskTime = clock
	}
	if req.RRule != nil {
		if *req.RRule != "" {
			if _, err := parseRule(*req.RRule, task.TaskDate, task.TaskTime); err != nil {
				writeError(w, http.StatusUnprocessableEntity, "rrule is not a valid recurrence rule")
				return
			}
		}
		task.RRule = *req.RRule
	}
	if req.Status != nil {
		if !model.Status(*req.Status).IsValid() {
			writeError(w, http.StatusUnprocessableEntity, "status must be pending or done")
			return
		}
		task.Status = *req.Status
	}

	if err := s.repo.UpdateTask(r.Context(), task); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update task")
		return
	}

	if s.engine != nil {
		s.engine.Cancel(task.ID)
	}
	s.scheduleReminder(task)
	writeJSON(w, http.StatusOK, toBody(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	task, ok := s.ownedTask(w, r, user)
	if !ok {
		return
	}

	if err := s.repo.DeleteTask(r.Context(), task.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "could not delete task")
		return
	}
	if s.engine != nil {
		s.engine.Cancel(task.ID)
	}
	applog.Info("task deleted", "id", task.ID, "owner", user.Username)
	w.WriteHeader(http.StatusNoContent)
}

// ownedTask loads the path's task and enforces ownership. A foreign
// task answers 404, not 403, so ids are not probeable.
func (s *Server) ownedTask(w http.ResponseWriter, r *http.Request, user storage.User) (storage.Task, bool) {
	id := r.PathValue("id")
	task, err := s.repo.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
		} else {
			writeError(w, http.StatusInternalServerError, "lookup failed")
		}
		return storage.Task{}, false
	}
	if task.OwnerID != user.ID {
		writeError(w, http.StatusNotFound, "task not found")
		return storage.Task{}, false
	}
	return task, true
}
