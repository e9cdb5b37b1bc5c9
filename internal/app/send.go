package app

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/confide/internal/session"
	"github.com/zhubert/confide/internal/transcript"
	"github.com/zhubert/confide/internal/typing"
	"github.com/zhubert/confide/internal/ui"
)

// sendMessage submits the input. The input is cleared before any check, so
// a rejected message is gone just as a sent one is.
func (m *Model) sendMessage() tea.Cmd {
	text := m.chat.GetInput()
	m.chat.ClearInput()

	if !m.IsIdle() {
		m.log.Debug("send rejected", "task", m.task)
		return m.showFlash(BusyText, ui.FlashWarning)
	}
	sessionID := m.store.ActiveID()
	if sessionID == "" {
		return m.showFlash(NoSessionText, ui.FlashWarning)
	}
	question := strings.TrimSpace(text)
	if question == "" {
		return m.showFlash(EmptyInputText, ui.FlashWarning)
	}

	if err := m.begin(TaskSending); err != nil {
		return m.showFlash(BusyText, ui.FlashWarning)
	}
	m.placeholder = m.transcript.Append(transcript.NewBubble(transcript.RoleLoading, transcript.LoadingText))
	m.chat.Refresh()
	m.log.Info("sending question", "session", sessionID, "chars", len(question))

	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		answer, err := backend.Ask(ctx, question, sessionID)
		return AnswerMsg{SessionID: sessionID, Question: question, Answer: answer, Err: err}
	}
}

func (m *Model) handleAnswer(msg AnswerMsg) tea.Cmd {
	if m.placeholder != nil {
		m.transcript.Remove(m.placeholder)
		m.placeholder = nil
	}

	if msg.Err != nil {
		// The reason goes to the log; the user always sees the same apology.
		m.log.Error("ask failed", "session", msg.SessionID, "error", msg.Err)
		m.finish()
		m.chat.ClearInput()
		m.transcript.Append(transcript.NewBubble(transcript.RoleError, transcript.ApologyText))
		m.chat.Refresh()
		return nil
	}

	// Counts and previews move ahead of the refresh, which may fail.
	if conv, ok := m.store.At(m.store.Index(msg.SessionID)); ok {
		m.store.RecordExchange(msg.SessionID, conv.MessageCount+2, msg.Answer)
		m.syncSidebar()
	}

	m.transcript.Append(transcript.NewBubble(transcript.RoleUser, transcript.FormatUser(msg.Question)))
	target := m.transcript.Append(&transcript.Bubble{Role: transcript.RoleAssistant})
	m.presenter = typing.NewPresenter(target, transcript.FormatAssistant(msg.Answer))
	m.chat.Refresh()

	if m.presenter.Finished() {
		return m.completeSend()
	}
	return m.scheduleTypingTick()
}

func (m *Model) scheduleTypingTick() tea.Cmd {
	id := m.presenter.ID()
	return m.tick(m.config.TypingInterval(), func(time.Time) tea.Msg {
		return TypingTickMsg{ID: id}
	})
}

func (m *Model) handleTypingTick(msg TypingTickMsg) tea.Cmd {
	if m.presenter == nil || msg.ID != m.presenter.ID() {
		return nil
	}

	m.presenter.Advance()
	m.chat.Refresh()

	if m.presenter.Finished() {
		return m.completeSend()
	}
	return m.scheduleTypingTick()
}

// completeSend runs once the reveal is done: input comes back and the list
// is refreshed so counts and previews catch up.
func (m *Model) completeSend() tea.Cmd {
	p := m.presenter
	m.presenter = nil
	if m.recorder != nil {
		m.recorder.RecordTypingSteps(m.ctx, p.Applied())
	}
	m.finish()

	activeID := m.store.ActiveID()
	cmds := []tea.Cmd{m.refreshConversations()}

	if !m.windowFocused && m.config.GetNotificationsEnabled() {
		var title string
		if conv, ok := m.store.Active(); ok {
			title = session.Title(conv, m.store.Index(activeID))
		}
		notify := m.notify
		cmds = append(cmds, func() tea.Msg {
			return NotifiedMsg{Err: notify(title)}
		})
	}
	return tea.Batch(cmds...)
}

// cancelTyping stops a running reveal, leaving the bubble as it is.
func (m *Model) cancelTyping() {
	if m.presenter != nil {
		m.presenter.Cancel()
		m.presenter = nil
	}
}

// refreshConversations re-lists conversations. The result keeps whatever
// conversation is active when it arrives, not when it was requested.
func (m *Model) refreshConversations() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		list, err := backend.ListConversations(ctx)
		return ConversationsRefreshedMsg{Conversations: list, Err: err}
	}
}

func (m *Model) handleConversationsRefreshed(msg ConversationsRefreshedMsg) {
	if msg.Err != nil {
		// The previous list and active conversation stay as they were.
		m.log.Error("refresh failed", "error", msg.Err)
		m.transcript.Append(transcript.NewBubble(transcript.RoleNotice, RefreshFailText))
		m.chat.Refresh()
		return
	}
	m.store.Apply(msg.Conversations, m.store.ActiveID())
	m.syncSidebar()
}
