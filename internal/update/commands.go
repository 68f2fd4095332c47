package update

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/FanchonSora/V-Assistant/internal/api"
	"github.com/FanchonSora/V-Assistant/internal/model"
)

// defaultRequestTimeout backstops a zero-value model; the configured
// client timeout normally takes its place via NewModel.
const defaultRequestTimeout = 15 * time.Second

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	timeout := m.timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// sessionAware routes 401s to SessionExpiredMsg no matter which
// operation hit them; everything else goes to the given constructor.
func sessionAware(err error, wrap func(error) tea.Msg) tea.Msg {
	if errors.Is(err, api.ErrSessionExpired) {
		return SessionExpiredMsg{}
	}
	return wrap(err)
}

func (m Model) fetchTasksCmd(epoch int) tea.Cmd {
	start := model.FormatDate(m.Window.Start)
	end := model.FormatDate(m.Window.End)
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		tasks, err := m.backend.ListTasksRange(ctx, start, end)
		if err != nil {
			return sessionAware(err, func(err error) tea.Msg {
				return TasksLoadFailedMsg{Epoch: epoch, Err: err}
			})
		}
		return TasksLoadedMsg{Epoch: epoch, Tasks: tasks}
	}
}

func (m Model) createTaskCmd(draft api.TaskDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		task, err := m.backend.CreateTask(ctx, draft)
		if err != nil {
			return sessionAware(err, func(err error) tea.Msg {
				return TaskSaveFailedMsg{Err: err}
			})
		}
		return TaskSavedMsg{Task: task}
	}
}

func (m Model) updateTaskCmd(id string, patch api.TaskPatch) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		task, err := m.backend.UpdateTask(ctx, id, patch)
		if err != nil {
			return sessionAware(err, func(err error) tea.Msg {
				return TaskSaveFailedMsg{Err: err}
			})
		}
		return TaskSavedMsg{Task: task}
	}
}

func (m Model) deleteTaskCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		if err := m.backend.DeleteTask(ctx, id); err != nil {
			return sessionAware(err, func(err error) tea.Msg {
				return TaskDeleteFailedMsg{Err: err}
			})
		}
		return TaskDeletedMsg{ID: id}
	}
}

func (m Model) sendChatCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		reply, err := m.backend.SendChat(ctx, text)
		if err != nil {
			return sessionAware(err, func(err error) tea.Msg {
				return ChatFailedMsg{Err: err}
			})
		}
		return ChatReplyMsg{Reply: reply}
	}
}

func (m Model) fetchProfileCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		profile, err := m.backend.Me(ctx)
		if err != nil {
			return sessionAware(err, func(err error) tea.Msg {
				return AppErrorMsg{Err: err}
			})
		}
		return ProfileMsg{Profile: profile}
	}
}

func (m Model) loginCmd(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		token, err := m.backend.Login(ctx, username, password)
		if err != nil {
			return LoginFailedMsg{Err: err}
		}
		return LoginOKMsg{Token: token}
	}
}
