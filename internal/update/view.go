package update

import (
	"fmt"

	"github.com/FanchonSora/V-Assistant/internal/calendar"
	"github.com/FanchonSora/V-Assistant/internal/model"
	"github.com/FanchonSora/V-Assistant/internal/views"
)

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = "status: error: " + m.Status.Text
		} else {
			status = "status: " + m.Status.Text
		}
	}

	leftPane := ""
	rightPane := ""
	footer := ""
	switch m.CurrentView {
	case ViewLogin:
		leftPane = views.RenderLoginPanel(views.LoginPanelData{
			UsernameView: m.Login.usernameInput.View(),
			PasswordView: m.Login.passwordInput.View(),
			Submitting:   m.Login.Submitting,
		})
		footer = "keys: [tab] field | [enter] sign in | [ctrl+c] quit"
	case ViewCalendar:
		leftPane = views.RenderCalendarPanel(m.calendarPanelData())
		if m.Modal.Phase != ModalClosed {
			rightPane = views.RenderTaskModal(m.modalData())
		}
		footer = fmt.Sprintf("keys: [d/w/m] view | [h/l] period | [t] today | [j/k] task | [enter] open | [n] new | [space] done | [p] profile | [%s] chat | [%s] quit",
			m.Keys.Chat, m.Keys.Quit)
	case ViewChat:
		leftPane = views.RenderChatPanel(m.chatPanelData())
		footer = fmt.Sprintf("keys: [enter] send | [esc] calendar | [%s] calendar", m.Keys.Calendar)
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("vassist | view: %s", m.CurrentView),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Footer:     footer,
	})
}

func (m Model) calendarPanelData() views.CalendarPanelData {
	positioned := calendar.Layout(m.Tasks, m.Window)
	byCol := make(map[int][]calendar.PositionedTask)
	for _, p := range positioned {
		byCol[p.Col] = append(byCol[p.Col], p)
	}

	selectedID := ""
	if task, ok := m.CursorTask(); ok {
		selectedID = task.ID
	}

	today := model.FormatDate(m.now())
	days := make([]views.CalendarDayData, len(m.Window.Cells))
	for i, cell := range m.Window.Cells {
		date := model.FormatDate(cell)
		day := views.CalendarDayData{
			Date:    date,
			Weekday: cell.Format("Mon"),
			Today:   date == today,
		}
		for _, p := range byCol[i] {
			day.Slots = append(day.Slots, views.CalendarSlotData{
				ID:       p.Task.ID,
				Title:    p.Task.Title,
				Time:     p.Task.TaskTime,
				Status:   string(p.Task.Status),
				Selected: p.Task.ID == selectedID,
				Top:      p.Top,
				Left:     p.Left,
				Width:    p.Width,
				Height:   p.Height,
			})
		}
		// Tasks without a parseable slot still belong to the day list.
		for _, t := range m.Tasks {
			if t.TaskDate != date || t.TaskTime != "" {
				continue
			}
			day.Untimed = append(day.Untimed, views.CalendarSlotData{
				ID:       t.ID,
				Title:    t.Title,
				Status:   string(t.Status),
				Selected: t.ID == selectedID,
			})
		}
		days[i] = day
	}

	return views.CalendarPanelData{
		Granularity: string(m.Window.Granularity),
		Start:       model.FormatDate(m.Window.Start),
		End:         model.FormatDate(m.Window.End),
		Loading:     m.Loading,
		Days:        days,
	}
}

func (m Model) modalData() views.ModalData {
	task := m.Modal.Task
	data := views.ModalData{
		Phase:    string(m.Modal.Phase),
		Creating: m.Modal.Creating,
		Deleting: m.Modal.Deleting,
		ID:       task.ID,
		Title:    task.Title,
		Date:     task.TaskDate,
		Time:     task.TaskTime,
		Day:      task.Day,
		Status:   string(task.Status),
		Err:      m.Modal.Err,
	}
	if m.Modal.Phase == ModalEditing || (m.Modal.Phase == ModalSaving && !m.Modal.Deleting) {
		data.TitleInput = m.Modal.titleInput.View()
		data.DateInput = m.Modal.dateInput.View()
		data.TimeInput = m.Modal.timeInput.View()
		data.Field = m.Modal.Field
		data.DraftDone = m.Modal.draftDone
	}
	return data
}

func (m Model) chatPanelData() views.ChatPanelData {
	entries := make([]views.ChatEntryData, 0, len(m.Chat.Log))
	for _, entry := range m.Chat.Log {
		entries = append(entries, views.ChatEntryData{Role: entry.Role, Text: entry.Text})
	}
	return views.ChatPanelData{
		Entries:   entries,
		InputView: m.Chat.input.View(),
		Waiting:   m.Chat.Waiting,
	}
}
