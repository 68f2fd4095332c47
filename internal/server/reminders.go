package server

import (
	"context"
	"time"

	applog "github.com/FanchonSora/V-Assistant/internal/log"
	"github.com/FanchonSora/V-Assistant/internal/model"
	"github.com/FanchonSora/V-Assistant/internal/scheduler"
	"github.com/FanchonSora/V-Assistant/internal/storage"
)

// sweepHorizon bounds how far ahead the cron sweep enqueues reminders.
// Anything further out is picked up by a later sweep.
const sweepHorizon = 24 * time.Hour

// dueTime resolves a task's reminder instant in local time. Tasks
// without both a date and a time have no reminder.
func dueTime(t storage.Task) (time.Time, bool) {
	if t.TaskDate == "" || t.TaskTime == "" {
		return time.Time{}, false
	}
	day, err := model.ParseDate(t.TaskDate)
	if err != nil {
		return time.Time{}, false
	}
	hour, minute, err := model.ParseClock(t.TaskTime)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.Local), true
}

func (s *Server) scheduleReminder(t storage.Task) {
	if s.engine == nil || t.Status == string(model.StatusDone) {
		return
	}
	due, ok := dueTime(t)
	if !ok || !due.After(s.now()) {
		return
	}
	err := s.engine.Schedule(scheduler.Reminder{TaskID: t.ID, Title: t.Title, DueAt: due})
	if err != nil {
		applog.Error("schedule reminder", err, "id", t.ID)
	}
}

// sweepReminders re-seeds the engine from storage. Runs at startup and
// on the configured cron so restarts do not lose pending reminders.
func (s *Server) sweepReminders(ctx context.Context) {
	tasks, err := s.repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		applog.Error("reminder sweep failed", err)
		return
	}

	horizon := s.now().Add(sweepHorizon)
	count := 0
	for _, t := range tasks {
		due, ok := dueTime(t)
		if !ok || !due.After(s.now()) || due.After(horizon) {
			continue
		}
		s.scheduleReminder(t)
		count++
	}
	applog.Debug("reminder sweep", "scheduled", count)
}

func (s *Server) consumeReminders() {
	for reminder := range s.engine.C() {
		applog.Info("reminder due",
			"task", reminder.TaskID,
			"title", reminder.Title,
			"at", reminder.DueAt.Format(time.RFC3339),
		)
	}
}
