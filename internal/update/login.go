package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Login.Submitting {
		if msg.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.Login.Field = 1 - m.Login.Field
		if m.Login.Field == 0 {
			m.Login.usernameInput.Focus()
			m.Login.passwordInput.Blur()
		} else {
			m.Login.usernameInput.Blur()
			m.Login.passwordInput.Focus()
		}
		return m, nil
	case "enter":
		return m.submitLogin()
	}

	var cmd tea.Cmd
	if m.Login.Field == 0 {
		m.Login.usernameInput, cmd = m.Login.usernameInput.Update(msg)
	} else {
		m.Login.passwordInput, cmd = m.Login.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.Login.usernameInput.Value())
	password := m.Login.passwordInput.Value()
	if username == "" || password == "" {
		m.Status = StatusBar{Text: "username and password are required", IsError: true}
		return m, nil
	}
	m.Login.Submitting = true
	m.Status = StatusBar{Text: "signing in..."}
	return m, m.loginCmd(username, password)
}

func (m Model) onLoginOK(msg LoginOKMsg) (tea.Model, tea.Cmd) {
	m.Login.Submitting = false
	m.Login.passwordInput.SetValue("")
	if m.tokens != nil {
		if err := m.tokens.Set(msg.Token); err != nil {
			m.Status = StatusBar{Text: "could not store token: " + err.Error(), IsError: true}
		}
	}
	m.CurrentView = ViewCalendar
	m.Status = StatusBar{Text: "signed in"}
	cmd := m.refetch()
	return m, cmd
}
