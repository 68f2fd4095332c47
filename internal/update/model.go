// Package update holds the Elm-style core of the vassist TUI: one
// Model, messages for everything asynchronous, and pure Update logic.
package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/FanchonSora/V-Assistant/internal/api"
	"github.com/FanchonSora/V-Assistant/internal/calendar"
	"github.com/FanchonSora/V-Assistant/internal/model"
)

type View string

const (
	ViewLogin    View = "Login"
	ViewCalendar View = "Calendar"
	ViewChat     View = "Chat"
)

// Backend is the slice of the API client the Update loop needs.
// *api.Client satisfies it; tests substitute a fake.
type Backend interface {
	ListTasksRange(ctx context.Context, start, end string) ([]model.Task, error)
	CreateTask(ctx context.Context, draft api.TaskDraft) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch api.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
	SendChat(ctx context.Context, text string) (string, error)
	Me(ctx context.Context) (api.Profile, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// TokenStore persists the bearer token between runs. *session.Store
// satisfies it.
type TokenStore interface {
	Token() string
	Set(token string) error
	Clear() error
}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Calendar string
	Chat     string
	Quit     string
}

type ModalPhase string

const (
	ModalClosed  ModalPhase = "closed"
	ModalViewing ModalPhase = "viewing"
	ModalEditing ModalPhase = "editing"
	ModalSaving  ModalPhase = "saving"
)

// ModalState is the task detail overlay. Task is the committed record;
// the inputs hold the uncommitted draft while editing. A failed save
// drops back to editing with the draft intact.
type ModalState struct {
	Phase    ModalPhase
	Task     model.Task
	Creating bool
	Deleting bool
	Field    int
	Err      string

	titleInput textinput.Model
	dateInput  textinput.Model
	timeInput  textinput.Model
	draftDone  bool
}

const modalFieldCount = 4

type ChatEntry struct {
	Role string
	Text string
}

type ChatState struct {
	Log     []ChatEntry
	Waiting bool
	input   textinput.Model
}

type LoginState struct {
	Submitting bool
	Field      int

	usernameInput textinput.Model
	passwordInput textinput.Model
}

type Model struct {
	CurrentView View
	Keys        GlobalKeyMap
	Status      StatusBar
	LastError   error
	Quitting    bool

	Window  calendar.Window
	Tasks   []model.Task
	Cursor  int
	Loading bool

	Modal ModalState
	Chat  ChatState
	Login LoginState

	backend Backend
	tokens  TokenStore
	now     func() time.Time
	// timeout bounds every backend call; it mirrors the client's
	// configured request timeout so the context never cuts a call
	// shorter than the transport would allow.
	timeout time.Duration

	// fetchEpoch stamps every list fetch; responses carrying an older
	// stamp are discarded so a slow fetch never clobbers a newer one.
	fetchEpoch int
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type TasksLoadedMsg struct {
	Epoch int
	Tasks []model.Task
}

type TasksLoadFailedMsg struct {
	Epoch int
	Err   error
}

type TaskSavedMsg struct {
	Task model.Task
}

type TaskSaveFailedMsg struct {
	Err error
}

type TaskDeletedMsg struct {
	ID string
}

type TaskDeleteFailedMsg struct {
	Err error
}

type ProfileMsg struct {
	Profile api.Profile
}

type ChatReplyMsg struct {
	Reply string
}

type ChatFailedMsg struct {
	Err error
}

type LoginOKMsg struct {
	Token string
}

type LoginFailedMsg struct {
	Err error
}

// SessionExpiredMsg is emitted by any command that hits a 401.
type SessionExpiredMsg struct{}

func NewModel(backend Backend, tokens TokenStore, granularity calendar.Granularity, timeout time.Duration) Model {
	now := time.Now
	m := Model{
		CurrentView: ViewLogin,
		Modal:       ModalState{Phase: ModalClosed},
		Keys: GlobalKeyMap{
			Calendar: "1",
			Chat:     "2",
			Quit:     "q",
		},
		Window:  calendar.Resolve("", granularity, now()),
		backend: backend,
		tokens:  tokens,
		now:     now,
		timeout: timeout,
	}
	m.initInputs()
	if tokens != nil && tokens.Token() != "" {
		m.CurrentView = ViewCalendar
	}
	return m
}

func (m *Model) initInputs() {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 200
	m.Modal.titleInput = title

	date := textinput.New()
	date.Placeholder = model.DateLayout
	date.CharLimit = len(model.DateLayout)
	m.Modal.dateInput = date

	clock := textinput.New()
	clock.Placeholder = model.TimeLayout
	clock.CharLimit = len("15:04:05")
	m.Modal.timeInput = clock

	chat := textinput.New()
	chat.Placeholder = "ask the assistant"
	chat.CharLimit = 500
	m.Chat.input = chat

	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 100
	m.Login.usernameInput = username

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 100
	m.Login.passwordInput = password
	m.Login.usernameInput.Focus()
}

// CursorTask is the task under the calendar cursor.
func (m Model) CursorTask() (model.Task, bool) {
	if len(m.Tasks) == 0 || m.Cursor < 0 || m.Cursor >= len(m.Tasks) {
		return model.Task{}, false
	}
	return m.Tasks[m.Cursor], true
}

func (m *Model) clampCursor() {
	if m.Cursor >= len(m.Tasks) {
		m.Cursor = len(m.Tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func isKnownView(v View) bool {
	switch v {
	case ViewLogin, ViewCalendar, ViewChat:
		return true
	default:
		return false
	}
}
