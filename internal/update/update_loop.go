package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// reloadMsg asks the update loop to issue a fresh range fetch. Init
// cannot call refetch directly: it runs on a copy of the model, so the
// epoch bump would be lost and the response dropped as stale.
type reloadMsg struct{}

func (m Model) Init() tea.Cmd {
	if m.CurrentView == ViewCalendar {
		return func() tea.Msg { return reloadMsg{} }
	}
	return nil
}

// refetch bumps the fetch epoch and issues a range query for the
// current window. Any in-flight response with the old epoch becomes
// stale and will be dropped when it lands.
func (m *Model) refetch() tea.Cmd {
	if m.backend == nil {
		return nil
	}
	m.fetchEpoch++
	m.Loading = true
	return m.fetchTasksCmd(m.fetchEpoch)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)

	case reloadMsg:
		cmd := m.refetch()
		return m, cmd

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil

	case TasksLoadedMsg:
		if typed.Epoch != m.fetchEpoch {
			return m, nil
		}
		m.Loading = false
		m.Tasks = typed.Tasks
		m.Cursor = 0
		m.Status = StatusBar{Text: fmt.Sprintf("%d tasks %s .. %s", len(m.Tasks), m.Window.Start.Format("2006-01-02"), m.Window.End.Format("2006-01-02"))}
		return m, nil
	case TasksLoadFailedMsg:
		if typed.Epoch != m.fetchEpoch {
			return m, nil
		}
		// The previous list stays on screen; only the status bar
		// reports the failure.
		m.Loading = false
		m.LastError = typed.Err
		m.Status = StatusBar{Text: "fetch failed: " + typed.Err.Error(), IsError: true}
		return m, nil

	case TaskSavedMsg:
		return m.onTaskSaved(typed)
	case TaskSaveFailedMsg:
		return m.onTaskSaveFailed(typed)
	case TaskDeletedMsg:
		return m.onTaskDeleted(typed)
	case TaskDeleteFailedMsg:
		return m.onTaskDeleteFailed(typed)

	case ProfileMsg:
		m.Status = StatusBar{Text: fmt.Sprintf("signed in as %s (%s)", typed.Profile.Username, typed.Profile.Email)}
		return m, nil

	case ChatReplyMsg:
		return m.onChatReply(typed)
	case ChatFailedMsg:
		return m.onChatFailed(typed)

	case LoginOKMsg:
		return m.onLoginOK(typed)
	case LoginFailedMsg:
		m.Login.Submitting = false
		m.LastError = typed.Err
		m.Status = StatusBar{Text: "login failed: " + typed.Err.Error(), IsError: true}
		return m, nil

	case SessionExpiredMsg:
		return m.onSessionExpired()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.CurrentView == ViewLogin {
		return m.handleLoginKey(msg)
	}
	if m.Modal.Phase != ModalClosed {
		return m.handleModalKey(msg)
	}
	if m.CurrentView == ViewChat && m.Chat.input.Focused() {
		return m.handleChatKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case m.Keys.Calendar:
		m.CurrentView = ViewCalendar
		return m, nil
	case m.Keys.Chat:
		m.CurrentView = ViewChat
		m.Chat.input.Focus()
		return m, nil
	}

	switch m.CurrentView {
	case ViewCalendar:
		return m.handleCalendarKey(msg)
	case ViewChat:
		return m.handleChatKey(msg)
	}
	return m, nil
}

func (m Model) onSessionExpired() (tea.Model, tea.Cmd) {
	if m.tokens != nil {
		_ = m.tokens.Clear()
	}
	m.CurrentView = ViewLogin
	m.Login.Submitting = false
	m.Login.Field = 0
	m.Login.usernameInput.Focus()
	m.Login.passwordInput.Blur()
	m.Modal = ModalState{
		Phase:      ModalClosed,
		titleInput: m.Modal.titleInput,
		dateInput:  m.Modal.dateInput,
		timeInput:  m.Modal.timeInput,
	}
	m.Status = StatusBar{Text: "session expired, please sign in again", IsError: true}
	return m, nil
}
