package views

import (
	"fmt"
	"strings"
)

type CalendarSlotData struct {
	ID       string
	Title    string
	Time     string
	Status   string
	Selected bool
	Top      float64
	Left     float64
	Width    float64
	Height   float64
}

type CalendarDayData struct {
	Date    string
	Weekday string
	Today   bool
	Slots   []CalendarSlotData
	Untimed []CalendarSlotData
}

type CalendarPanelData struct {
	Granularity string
	Start       string
	End         string
	Loading     bool
	Days        []CalendarDayData
}

type ModalData struct {
	Phase    string
	Creating bool
	Deleting bool
	ID       string
	Title    string
	Date     string
	Time     string
	Day      string
	Status   string
	Err      string

	TitleInput string
	DateInput  string
	TimeInput  string
	Field      int
	DraftDone  bool
}

type ChatEntryData struct {
	Role string
	Text string
}

type ChatPanelData struct {
	Entries   []ChatEntryData
	InputView string
	Waiting   bool
}

type LoginPanelData struct {
	UsernameView string
	PasswordView string
	Submitting   bool
}

func RenderCalendarPanel(data CalendarPanelData) string {
	var b strings.Builder
	b.WriteString("calendar:\n")
	b.WriteString(fmt.Sprintf("view: %s | %s .. %s", data.Granularity, data.Start, data.End))
	if data.Loading {
		b.WriteString(" | loading...")
	}
	b.WriteString("\n")

	if data.Granularity == "month" {
		renderMonthGrid(&b, data.Days)
		return strings.TrimSpace(b.String())
	}

	empty := true
	for _, day := range data.Days {
		if len(day.Slots) == 0 && len(day.Untimed) == 0 {
			continue
		}
		empty = false
		marker := ""
		if day.Today {
			marker = " *"
		}
		b.WriteString(fmt.Sprintf("\n%s %s%s:\n", day.Weekday, day.Date, marker))
		for _, slot := range day.Slots {
			b.WriteString(renderSlot(slot))
		}
		for _, slot := range day.Untimed {
			cursor := " "
			if slot.Selected {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s --:-- %s %s\n", cursor, statusBadge(slot.Status), slot.Title))
		}
	}
	if empty {
		b.WriteString("(no tasks in this window)")
	}
	return strings.TrimSpace(b.String())
}

// renderSlot prints one timed task. Left/Width carry the overlap
// packing: side-by-side tasks show their share of the day column.
func renderSlot(slot CalendarSlotData) string {
	cursor := " "
	if slot.Selected {
		cursor = ">"
	}
	share := ""
	if slot.Width < 100 {
		share = fmt.Sprintf(" [%.0f%%@%.0f%%]", slot.Width, slot.Left)
	}
	return fmt.Sprintf("%s %s %s %s%s\n", cursor, slot.Time, statusBadge(slot.Status), slot.Title, share)
}

func renderMonthGrid(b *strings.Builder, days []CalendarDayData) {
	const columns = 7
	for i, day := range days {
		if i%columns == 0 {
			b.WriteString("\n")
		}
		marker := " "
		if day.Today {
			marker = "*"
		}
		count := len(day.Slots) + len(day.Untimed)
		cell := fmt.Sprintf("%s%s(%d)", marker, day.Date[8:], count)
		if count == 0 {
			cell = fmt.Sprintf("%s%s   ", marker, day.Date[8:])
		}
		b.WriteString(fmt.Sprintf("%-9s", cell))
	}
	b.WriteString("\n")
}

func statusBadge(status string) string {
	if status == "done" {
		return "[x]"
	}
	return "[ ]"
}

func RenderTaskModal(data ModalData) string {
	var b strings.Builder
	switch {
	case data.Creating:
		b.WriteString("new task:\n")
	default:
		b.WriteString("task:\n")
	}

	editing := data.Phase == "editing" || (data.Phase == "saving" && !data.Deleting)
	if editing {
		fields := []struct {
			label string
			view  string
		}{
			{"title", data.TitleInput},
			{"date", data.DateInput},
			{"time", data.TimeInput},
		}
		for i, field := range fields {
			cursor := " "
			if data.Field == i {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %s: %s\n", cursor, field.label, field.view))
		}
		cursor := " "
		if data.Field == len(fields) {
			cursor = ">"
		}
		draftStatus := "pending"
		if data.DraftDone {
			draftStatus = "done"
		}
		b.WriteString(fmt.Sprintf("%s status: %s %s\n", cursor, statusBadge(draftStatus), draftStatus))
		if data.Err != "" {
			b.WriteString("error: " + data.Err + "\n")
		}
		if data.Phase == "saving" {
			b.WriteString("saving...\n")
		}
		b.WriteString("keys: [tab] field | [enter] save | [esc] cancel")
		return strings.TrimSpace(b.String())
	}

	b.WriteString(fmt.Sprintf("id: %s\n", data.ID))
	b.WriteString(fmt.Sprintf("title: %s\n", data.Title))
	when := data.Date
	if data.Day != "" {
		when = data.Day + " " + when
	}
	if data.Time != "" {
		when += " " + data.Time
	}
	b.WriteString(fmt.Sprintf("when: %s\n", strings.TrimSpace(when)))
	b.WriteString(fmt.Sprintf("status: %s %s\n", statusBadge(data.Status), data.Status))
	if data.Phase == "saving" && data.Deleting {
		b.WriteString("deleting...\n")
	}
	b.WriteString("keys: [e] edit | [x] delete | [esc] close")
	return strings.TrimSpace(b.String())
}

func RenderChatPanel(data ChatPanelData) string {
	var b strings.Builder
	b.WriteString("assistant:\n")
	if len(data.Entries) == 0 {
		b.WriteString("(no messages yet; try \"remind me to water plants tomorrow at 09:00\")\n")
	}
	for _, entry := range data.Entries {
		if entry.Role == "assistant" {
			b.WriteString("assistant:\n")
			b.WriteString(RenderMarkdown(entry.Text) + "\n")
			continue
		}
		b.WriteString("you: " + entry.Text + "\n")
	}
	if data.Waiting {
		b.WriteString("...\n")
	}
	b.WriteString("\n> " + data.InputView)
	return strings.TrimSpace(b.String())
}

func RenderLoginPanel(data LoginPanelData) string {
	var b strings.Builder
	b.WriteString("sign in:\n")
	b.WriteString("username: " + data.UsernameView + "\n")
	b.WriteString("password: " + data.PasswordView + "\n")
	if data.Submitting {
		b.WriteString("signing in...")
	}
	return strings.TrimSpace(b.String())
}
