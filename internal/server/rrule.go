package server

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/FanchonSora/V-Assistant/internal/model"
	"github.com/FanchonSora/V-Assistant/internal/storage"
)

// parseRule builds a recurrence rule anchored on the task's own date
// and time. Undated recurring tasks anchor at local midnight today.
func parseRule(raw, taskDate, taskTime string) (*rrule.RRule, error) {
	option, err := rrule.StrToROption(raw)
	if err != nil {
		return nil, fmt.Errorf("parse rrule %q: %w", raw, err)
	}

	anchor := time.Now().In(time.Local)
	if taskDate != "" {
		day, err := model.ParseDate(taskDate)
		if err != nil {
			return nil, err
		}
		anchor = day
	}
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.Local)
	if taskTime != "" {
		hour, minute, err := model.ParseClock(taskTime)
		if err != nil {
			return nil, err
		}
		anchor = anchor.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}

	option.Dtstart = anchor
	return rrule.NewRRule(*option)
}

// expandRecurring materializes the occurrences of a recurring task that
// fall inside [start, end]. Each occurrence carries the base task's id,
// so acting on one acts on the whole series.
func expandRecurring(base storage.Task, start, end string) ([]storage.Task, error) {
	rule, err := parseRule(base.RRule, base.TaskDate, base.TaskTime)
	if err != nil {
		return nil, err
	}

	from, err := model.ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := model.ParseDate(end)
	if err != nil {
		return nil, err
	}
	to = to.Add(24*time.Hour - time.Second)

	times := rule.Between(from, to, true)
	out := make([]storage.Task, 0, len(times))
	for _, at := range times {
		occurrence := base
		occurrence.TaskDate = at.In(time.Local).Format(model.DateLayout)
		out = append(out, occurrence)
	}
	return out, nil
}
