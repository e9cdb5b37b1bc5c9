// Package app is the Bubble Tea model of confide. It owns the session store,
// the transcript and the UI components, and turns user input and backend
// results into state changes.
package app

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/confide/internal/api"
	"github.com/zhubert/confide/internal/clipboard"
	"github.com/zhubert/confide/internal/config"
	"github.com/zhubert/confide/internal/logger"
	"github.com/zhubert/confide/internal/notification"
	"github.com/zhubert/confide/internal/session"
	"github.com/zhubert/confide/internal/transcript"
	"github.com/zhubert/confide/internal/typing"
	"github.com/zhubert/confide/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusChat Focus = iota
	FocusSidebar
)

// Backend is the conversation API. *api.Client implements it.
type Backend interface {
	NewSession(ctx context.Context) (string, error)
	ListConversations(ctx context.Context) ([]api.Conversation, error)
	History(ctx context.Context, id string) ([]api.Message, error)
	DeleteConversation(ctx context.Context, id string) error
	Ask(ctx context.Context, question, sessionID string) (string, error)
}

// StepRecorder receives the number of steps of each finished reveal.
// *telemetry.Metrics implements it.
type StepRecorder interface {
	RecordTypingSteps(ctx context.Context, steps int)
}

// TickFunc schedules fn after d. tea.Tick in production.
type TickFunc func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	backend Backend
	version string
	ctx     context.Context
	log     *slog.Logger

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	modal   *ui.Modal

	width         int
	height        int
	focus         Focus
	windowFocused bool

	store      *session.Store
	transcript *transcript.Transcript

	// State machine
	task Task

	// Send pipeline
	placeholder *transcript.Bubble
	presenter   *typing.Presenter

	tick     TickFunc
	recorder StepRecorder
	notify   func(title string) error
	copyText func(text string) error
}

// Option configures a Model.
type Option func(*Model)

// WithVersion sets the version shown in logs.
func WithVersion(v string) Option {
	return func(m *Model) { m.version = v }
}

// WithContext sets the parent context of every backend request.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithTick replaces tea.Tick, letting tests fire timers at once.
func WithTick(tick TickFunc) Option {
	return func(m *Model) { m.tick = tick }
}

// WithStepRecorder records typing steps, usually into telemetry.
func WithStepRecorder(r StepRecorder) Option {
	return func(m *Model) { m.recorder = r }
}

// WithNotifier replaces the desktop notification sender.
func WithNotifier(fn func(title string) error) Option {
	return func(m *Model) { m.notify = fn }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(text string) error) Option {
	return func(m *Model) { m.copyText = fn }
}

// New creates a new app model
func New(cfg *config.Config, backend Backend, opts ...Option) *Model {
	m := &Model{
		config:        cfg,
		backend:       backend,
		ctx:           context.Background(),
		log:           logger.WithComponent("app"),
		header:        ui.NewHeader(),
		footer:        ui.NewFooter(),
		sidebar:       ui.NewSidebar(),
		chat:          ui.NewChat(),
		modal:         ui.NewModal(),
		focus:         FocusChat,
		windowFocused: true,
		store:         session.NewStore(),
		transcript:    transcript.New(),
		tick:          tea.Tick,
		notify:        notification.ReplyReady,
		copyText:      clipboard.WriteText,
	}
	for _, opt := range opts {
		opt(m)
	}

	ui.GetViewContext().SetSidebarCollapsed(cfg.GetSidebarCollapsed())
	m.chat.SetTranscript(m.transcript)
	m.chat.SetFocused(true)
	return m
}

// Init starts loading the conversation list.
func (m *Model) Init() tea.Cmd {
	m.log.Info("starting", "version", m.version, "api", m.config.GetAPIBaseURL())
	return m.startup()
}

// Store exposes the session store, for tests and snapshots.
func (m *Model) Store() *session.Store {
	return m.store
}

// Transcript exposes the chat transcript.
func (m *Model) Transcript() *transcript.Transcript {
	return m.transcript
}

// Task returns the current task slot.
func (m *Model) Task() Task {
	return m.task
}

// Focus returns the focused panel.
func (m *Model) Focus() Focus {
	return m.focus
}

// toggleFocus switches between the sidebar and the chat. A collapsed
// sidebar cannot take focus.
func (m *Model) toggleFocus() {
	if m.focus == FocusChat && !ui.GetViewContext().SidebarCollapsed() {
		m.setFocus(FocusSidebar)
	} else {
		m.setFocus(FocusChat)
	}
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	m.sidebar.SetFocused(f == FocusSidebar)
	m.chat.SetFocused(f == FocusChat)
}

// toggleSidebar collapses or expands the conversation list and persists the
// choice.
func (m *Model) toggleSidebar() tea.Cmd {
	collapsed := !ui.GetViewContext().SidebarCollapsed()
	ui.GetViewContext().SetSidebarCollapsed(collapsed)
	m.config.SetSidebarCollapsed(collapsed)
	if collapsed && m.focus == FocusSidebar {
		m.setFocus(FocusChat)
	}
	m.updateSizes()

	if err := m.config.Save(); err != nil {
		m.log.Warn("failed to save sidebar state", "error", err)
		return m.showFlash("Couldn't save the sidebar setting", ui.FlashWarning)
	}
	return nil
}

// syncSidebar pushes the store into the sidebar and header.
func (m *Model) syncSidebar() {
	m.sidebar.SetConversations(m.store.Conversations(), m.store.ActiveID())
	m.syncHeader()
}

// syncHeader shows the full summary of the highlighted conversation.
func (m *Model) syncHeader() {
	conv, ok := m.sidebar.SelectedConversation()
	if !ok || !session.HasFullTitle(conv) {
		m.header.SetSummary("")
		return
	}
	m.header.SetSummary(conv.Summary)
}

// copyLastReply puts the newest assistant reply on the clipboard.
func (m *Model) copyLastReply() tea.Cmd {
	b := m.transcript.Last(transcript.RoleAssistant)
	if b == nil || b.Empty() {
		return m.showFlash("Nothing to copy yet", ui.FlashInfo)
	}
	if err := m.copyText(b.PlainText()); err != nil {
		m.log.Warn("copy failed", "error", err)
		return m.showFlash("Couldn't copy to the clipboard", ui.FlashError)
	}
	return m.showFlash("Reply copied", ui.FlashSuccess)
}
