package update

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	chatRoleUser      = "user"
	chatRoleAssistant = "assistant"
)

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "esc":
		m.Chat.input.Blur()
		m.CurrentView = ViewCalendar
		return m, nil
	case "enter":
		return m.submitChat()
	}

	if !m.Chat.input.Focused() {
		m.Chat.input.Focus()
	}
	var cmd tea.Cmd
	m.Chat.input, cmd = m.Chat.input.Update(msg)
	return m, cmd
}

func (m Model) submitChat() (tea.Model, tea.Cmd) {
	if m.Chat.Waiting {
		return m, nil
	}
	text := strings.TrimSpace(m.Chat.input.Value())
	if text == "" {
		return m, nil
	}

	m.Chat.Log = append(m.Chat.Log, ChatEntry{Role: chatRoleUser, Text: text})
	m.Chat.Waiting = true
	// The composed text stays in the input until the send succeeds, so
	// a failure costs nothing but a retry.
	return m, m.sendChatCmd(text)
}

func (m Model) onChatReply(msg ChatReplyMsg) (tea.Model, tea.Cmd) {
	m.Chat.Waiting = false
	m.Chat.input.SetValue("")
	m.Chat.Log = append(m.Chat.Log, ChatEntry{Role: chatRoleAssistant, Text: msg.Reply})
	return m, nil
}

func (m Model) onChatFailed(msg ChatFailedMsg) (tea.Model, tea.Cmd) {
	m.Chat.Waiting = false
	m.LastError = msg.Err
	m.Status = StatusBar{Text: "chat failed: " + msg.Err.Error(), IsError: true}
	return m, nil
}
