package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/FanchonSora/V-Assistant/internal/api"
	"github.com/FanchonSora/V-Assistant/internal/calendar"
	"github.com/FanchonSora/V-Assistant/internal/model"
)

func (m Model) handleCalendarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d":
		return m.setGranularity(calendar.GranularityDay)
	case "w":
		return m.setGranularity(calendar.GranularityWeek)
	case "m":
		return m.setGranularity(calendar.GranularityMonth)
	case "h", "left":
		return m.shiftWindow(-1)
	case "l", "right":
		return m.shiftWindow(1)
	case "t":
		m.Window = calendar.Resolve("", m.Window.Granularity, m.now())
		m.Status = StatusBar{Text: "jumped to today"}
		cmd := m.refetch()
		return m, cmd
	case "r":
		cmd := m.refetch()
		return m, cmd
	case "p":
		return m, m.fetchProfileCmd()
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case "down", "j":
		if m.Cursor < len(m.Tasks)-1 {
			m.Cursor++
		}
		return m, nil
	case "enter":
		if task, ok := m.CursorTask(); ok {
			m.openModalViewing(task)
		}
		return m, nil
	case "n":
		m.openModalCreating()
		return m, nil
	case " ":
		return m.toggleCursorTask()
	}
	return m, nil
}

func (m *Model) setGranularity(g calendar.Granularity) (tea.Model, tea.Cmd) {
	if m.Window.Granularity == g {
		return *m, nil
	}
	// Re-anchor on the current window's anchor so the focused period
	// stays in view across granularity switches.
	m.Window = calendar.Resolve(model.FormatDate(m.Window.Anchor), g, m.now())
	m.Status = StatusBar{Text: "view: " + string(g)}
	cmd := m.refetch()
	return *m, cmd
}

func (m *Model) shiftWindow(delta int) (tea.Model, tea.Cmd) {
	m.Window = m.Window.Shift(delta)
	m.Status = StatusBar{Text: m.Window.Start.Format("2006-01-02") + " .. " + m.Window.End.Format("2006-01-02")}
	cmd := m.refetch()
	return *m, cmd
}

// toggleCursorTask flips pending/done in place. The flip is
// server-first: the list only changes when the save lands.
func (m *Model) toggleCursorTask() (tea.Model, tea.Cmd) {
	task, ok := m.CursorTask()
	if !ok {
		return *m, nil
	}
	next := model.StatusDone
	if task.Status == model.StatusDone {
		next = model.StatusPending
	}
	patch := api.TaskPatch{Status: &next}
	return *m, m.updateTaskCmd(task.ID, patch)
}
