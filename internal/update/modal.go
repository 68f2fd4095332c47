package update

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FanchonSora/V-Assistant/internal/api"
	"github.com/FanchonSora/V-Assistant/internal/model"
)

const (
	modalFieldTitle = iota
	modalFieldDate
	modalFieldTime
	modalFieldStatus
)

func (m *Model) openModalViewing(task model.Task) {
	m.Modal.Phase = ModalViewing
	m.Modal.Task = task
	m.Modal.Creating = false
	m.Modal.Deleting = false
	m.Modal.Err = ""
}

func (m *Model) openModalCreating() {
	m.Modal.Phase = ModalEditing
	m.Modal.Task = model.Task{Status: model.StatusPending}
	m.Modal.Creating = true
	m.Modal.Deleting = false
	m.Modal.Err = ""
	m.loadDraft(model.Task{
		TaskDate: model.FormatDate(m.Window.Anchor),
		Status:   model.StatusPending,
	})
}

// loadDraft primes the edit inputs from a task.
func (m *Model) loadDraft(task model.Task) {
	m.Modal.titleInput.SetValue(task.Title)
	m.Modal.dateInput.SetValue(task.TaskDate)
	m.Modal.timeInput.SetValue(task.TaskTime)
	m.Modal.draftDone = task.Status == model.StatusDone
	m.Modal.Field = modalFieldTitle
	m.focusModalField()
}

func (m *Model) focusModalField() {
	m.Modal.titleInput.Blur()
	m.Modal.dateInput.Blur()
	m.Modal.timeInput.Blur()
	switch m.Modal.Field {
	case modalFieldTitle:
		m.Modal.titleInput.Focus()
	case modalFieldDate:
		m.Modal.dateInput.Focus()
	case modalFieldTime:
		m.Modal.timeInput.Focus()
	}
}

func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Modal.Phase {
	case ModalViewing:
		return m.handleViewingKey(msg)
	case ModalEditing:
		return m.handleEditingKey(msg)
	case ModalSaving:
		// A request is in flight; the overlay is inert until it lands.
		return m, nil
	}
	return m, nil
}

func (m Model) handleViewingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.Modal.Phase = ModalClosed
		return m, nil
	case "e":
		m.Modal.Phase = ModalEditing
		m.Modal.Err = ""
		m.loadDraft(m.Modal.Task)
		return m, nil
	case "x":
		m.Modal.Phase = ModalSaving
		m.Modal.Deleting = true
		return m, m.deleteTaskCmd(m.Modal.Task.ID)
	}
	return m, nil
}

func (m Model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Discard the draft. A brand-new task has nothing to fall back
		// to, so the overlay closes entirely.
		if m.Modal.Creating {
			m.Modal.Phase = ModalClosed
		} else {
			m.Modal.Phase = ModalViewing
		}
		m.Modal.Err = ""
		return m, nil
	case "tab", "down":
		m.Modal.Field = (m.Modal.Field + 1) % modalFieldCount
		m.focusModalField()
		return m, nil
	case "shift+tab", "up":
		m.Modal.Field = (m.Modal.Field + modalFieldCount - 1) % modalFieldCount
		m.focusModalField()
		return m, nil
	case "enter":
		return m.submitDraft()
	}

	if m.Modal.Field == modalFieldStatus {
		if msg.String() == " " {
			m.Modal.draftDone = !m.Modal.draftDone
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.Modal.Field {
	case modalFieldTitle:
		m.Modal.titleInput, cmd = m.Modal.titleInput.Update(msg)
	case modalFieldDate:
		m.Modal.dateInput, cmd = m.Modal.dateInput.Update(msg)
	case modalFieldTime:
		m.Modal.timeInput, cmd = m.Modal.timeInput.Update(msg)
	}
	return m, cmd
}

func (m Model) submitDraft() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.Modal.titleInput.Value())
	date := strings.TrimSpace(m.Modal.dateInput.Value())
	clock := strings.TrimSpace(m.Modal.timeInput.Value())

	if title == "" {
		m.Modal.Err = "title is required"
		return m, nil
	}
	if date != "" {
		if _, err := model.ParseDate(date); err != nil {
			m.Modal.Err = "date must be " + model.DateLayout
			return m, nil
		}
	}
	if clock != "" {
		if _, _, err := model.ParseClock(clock); err != nil {
			m.Modal.Err = "time must be " + model.TimeLayout
			return m, nil
		}
	}

	m.Modal.Err = ""
	m.Modal.Phase = ModalSaving
	m.Modal.Deleting = false

	if m.Modal.Creating {
		draft := api.TaskDraft{Title: title, TaskDate: date, TaskTime: clock}
		return m, m.createTaskCmd(draft)
	}

	status := model.StatusPending
	if m.Modal.draftDone {
		status = model.StatusDone
	}
	patch := api.TaskPatch{
		Title:    &title,
		TaskDate: &date,
		TaskTime: &clock,
		Status:   &status,
	}
	return m, m.updateTaskCmd(m.Modal.Task.ID, patch)
}

func (m Model) onTaskSaved(msg TaskSavedMsg) (tea.Model, tea.Cmd) {
	m.applySavedTask(msg.Task)
	if m.Modal.Phase == ModalSaving {
		m.Modal.Phase = ModalViewing
		m.Modal.Task = msg.Task
		m.Modal.Creating = false
		m.Modal.Err = ""
	}
	m.Status = StatusBar{Text: "saved: " + msg.Task.Title}
	// The local echo keeps the UI responsive; the refetch reconciles
	// anything the server derived (recurrence expansion, ordering).
	cmd := m.refetch()
	return m, cmd
}

func (m Model) onTaskSaveFailed(msg TaskSaveFailedMsg) (tea.Model, tea.Cmd) {
	m.LastError = msg.Err
	if m.Modal.Phase == ModalSaving {
		// Back to the editor with the draft untouched; the committed
		// task list never changes on a failed save.
		m.Modal.Phase = ModalEditing
		m.Modal.Err = msg.Err.Error()
	}
	m.Status = StatusBar{Text: "save failed: " + msg.Err.Error(), IsError: true}
	return m, nil
}

func (m Model) onTaskDeleted(msg TaskDeletedMsg) (tea.Model, tea.Cmd) {
	kept := m.Tasks[:0:0]
	for _, t := range m.Tasks {
		if t.ID != msg.ID {
			kept = append(kept, t)
		}
	}
	m.Tasks = kept
	m.clampCursor()
	m.Modal.Phase = ModalClosed
	m.Modal.Deleting = false
	m.Status = StatusBar{Text: "task deleted"}
	return m, nil
}

func (m Model) onTaskDeleteFailed(msg TaskDeleteFailedMsg) (tea.Model, tea.Cmd) {
	m.LastError = msg.Err
	if m.Modal.Phase == ModalSaving {
		m.Modal.Phase = ModalViewing
	}
	m.Modal.Deleting = false
	m.Status = StatusBar{Text: "delete failed: " + msg.Err.Error(), IsError: true}
	return m, nil
}

// applySavedTask folds a saved record into the visible list: replaced
// in place when known, appended when new, dropped when its date left
// the window.
func (m *Model) applySavedTask(task model.Task) {
	inWindow := m.Window.Contains(task.TaskDate) || task.TaskDate == ""

	replaced := false
	kept := m.Tasks[:0:0]
	for _, t := range m.Tasks {
		if t.ID != task.ID {
			kept = append(kept, t)
			continue
		}
		replaced = true
		if inWindow {
			kept = append(kept, task)
		}
	}
	if !replaced && inWindow {
		kept = append(kept, task)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].TaskDate != kept[j].TaskDate {
			return kept[i].TaskDate < kept[j].TaskDate
		}
		if kept[i].TaskTime != kept[j].TaskTime {
			return kept[i].TaskTime < kept[j].TaskTime
		}
		return kept[i].ID < kept[j].ID
	})
	m.Tasks = kept
	m.clampCursor()
}
