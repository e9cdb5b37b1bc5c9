package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/confide/internal/errors"
	"github.com/zhubert/confide/internal/keys"
	"github.com/zhubert/confide/internal/session"
	"github.com/zhubert/confide/internal/transcript"
	"github.com/zhubert/confide/internal/ui"
)

// startup lists conversations; the result decides between creating a chat
// and loading the active history.
func (m *Model) startup() tea.Cmd {
	if err := m.begin(TaskLoading); err != nil {
		m.log.Warn("startup while busy", "error", err)
	}
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		list, err := backend.ListConversations(ctx)
		return StartupLoadedMsg{Conversations: list, Err: err}
	}
}

func (m *Model) handleStartupLoaded(msg StartupLoadedMsg) tea.Cmd {
	m.finish()
	if msg.Err != nil {
		m.log.Error("initialization failed", "error", msg.Err)
		m.transcript.RenderError(transcript.InitFailedText)
		m.chat.Refresh()
		return nil
	}

	m.store.Apply(msg.Conversations, "")
	m.syncSidebar()

	if m.store.Len() == 0 {
		return m.createNewChat()
	}
	m.handover(TaskLoading)
	return m.loadHistory(m.store.ActiveID())
}

// createNewChat asks the backend for a new conversation and makes it active.
func (m *Model) createNewChat() tea.Cmd {
	if err := m.begin(TaskCreating); err != nil {
		m.log.Debug("create rejected", "error", err)
		return m.showFlash(BusyText, ui.FlashWarning)
	}
	m.log.Info("creating conversation")

	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		id, err := backend.NewSession(ctx)
		if err != nil {
			return ChatCreatedMsg{Err: err}
		}
		list, err := backend.ListConversations(ctx)
		return ChatCreatedMsg{SessionID: id, Conversations: list, Err: err}
	}
}

func (m *Model) handleChatCreated(msg ChatCreatedMsg) tea.Cmd {
	defer m.finish()

	if msg.Err != nil {
		m.log.Error("create failed", "error", msg.Err)
		return m.showFlash(CreateFailedText, ui.FlashError)
	}

	m.store.Apply(msg.Conversations, msg.SessionID)
	m.syncSidebar()
	m.transcript.Welcome()
	m.chat.Refresh()
	m.setFocus(FocusChat)
	m.log.Info("conversation created", "session", msg.SessionID, "active", m.store.ActiveID())
	return nil
}

// switchConversation makes id active and loads its history.
func (m *Model) switchConversation(id string) tea.Cmd {
	if id == m.store.ActiveID() {
		return nil
	}
	if err := m.begin(TaskLoading); err != nil {
		m.log.Debug("switch rejected", "error", err)
		return m.showFlash(BusyText, ui.FlashWarning)
	}
	if !m.store.SetActive(id) {
		m.finish()
		m.log.Warn("switch to unknown conversation", "session", id)
		return nil
	}
	m.sidebar.SetActive(id)
	m.syncHeader()
	return m.loadHistory(id)
}

// loadHistory fetches the messages of id. The caller holds the slot as
// TaskLoading; handleHistoryLoaded releases it.
func (m *Model) loadHistory(id string) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		history, err := backend.History(ctx, id)
		return HistoryLoadedMsg{ID: id, History: history, Err: err}
	}
}

func (m *Model) handleHistoryLoaded(msg HistoryLoadedMsg) {
	// Only one load runs under the slot, so this result ends it either way.
	if m.task == TaskLoading {
		m.finish()
	}
	// A late answer for a conversation that is no longer active.
	if msg.ID != m.store.ActiveID() {
		m.log.Debug("dropping stale history", "session", msg.ID)
		return
	}

	switch {
	case errors.Is(msg.Err, errors.KindNotFound):
		m.transcript.RenderNotice(transcript.NotFoundText)
	case msg.Err != nil:
		m.log.Error("history load failed", "session", msg.ID, "error", msg.Err)
		m.transcript.RenderError(transcript.HistoryFailedText)
	default:
		m.transcript.RenderHistory(msg.History)
		n := len(msg.History)
		if n == 0 {
			m.store.RecordExchange(msg.ID, 0, "")
		} else {
			m.store.RecordExchange(msg.ID, n, msg.History[n-1].Content)
		}
		m.syncSidebar()
	}
	m.chat.Refresh()
}

// requestDelete opens the confirmation for id.
func (m *Model) requestDelete(id string) tea.Cmd {
	if !m.IsIdle() {
		return m.showFlash(BusyText, ui.FlashWarning)
	}
	idx := m.store.Index(id)
	conv, ok := m.store.At(idx)
	if !ok {
		return nil
	}
	m.modal.Show(ui.NewConfirmDeleteState(id, session.Title(conv, idx)))
	return nil
}

// deleteConversation removes id on the backend and refreshes the list.
func (m *Model) deleteConversation(id string) tea.Cmd {
	if err := m.begin(TaskDeleting); err != nil {
		m.log.Debug("delete rejected", "error", err)
		return m.showFlash(BusyText, ui.FlashWarning)
	}
	wasActive := id == m.store.ActiveID()
	m.log.Info("deleting conversation", "session", id, "active", wasActive)

	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		if err := backend.DeleteConversation(ctx, id); err != nil {
			return ConversationDeletedMsg{ID: id, WasActive: wasActive, Err: err}
		}
		list, err := backend.ListConversations(ctx)
		return ConversationDeletedMsg{ID: id, WasActive: wasActive, Conversations: list, RefreshErr: err}
	}
}

func (m *Model) handleConversationDeleted(msg ConversationDeletedMsg) tea.Cmd {
	m.finish()
	if msg.Err != nil {
		m.log.Error("delete failed", "session", msg.ID, "error", msg.Err)
		m.transcript.Append(transcript.NewBubble(transcript.RoleError, transcript.DeleteFailedText))
		m.chat.Refresh()
		return nil
	}
	if msg.RefreshErr != nil {
		m.handleConversationsRefreshed(ConversationsRefreshedMsg{Err: msg.RefreshErr})
		return nil
	}

	preferred := m.store.ActiveID()
	if msg.WasActive {
		preferred = ""
	}
	m.store.Apply(msg.Conversations, preferred)
	m.syncSidebar()

	switch {
	case m.store.Len() == 0:
		m.transcript.Welcome()
		m.chat.Refresh()
	case msg.WasActive:
		m.handover(TaskLoading)
		return m.loadHistory(m.store.ActiveID())
	}
	return nil
}

// handleModalKey routes a key press while the confirmation is open.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) tea.Cmd {
	state, ok := m.modal.State.(*ui.ConfirmDeleteState)
	if !ok {
		m.modal.Hide()
		return nil
	}

	switch msg.String() {
	case keys.Escape:
		m.modal.Hide()
		return nil
	case keys.Enter:
		return m.resolveDelete(state)
	}

	_, cmd := m.modal.Update(msg)
	if state.Decided() {
		return tea.Batch(cmd, m.resolveDelete(state))
	}
	return cmd
}

// forwardToModal hands non-key messages to the open form, which needs its
// own follow-up messages to finish a y/n decision.
func (m *Model) forwardToModal(msg tea.Msg) tea.Cmd {
	state, ok := m.modal.State.(*ui.ConfirmDeleteState)
	if !ok {
		return nil
	}
	_, cmd := m.modal.Update(msg)
	if state.Decided() {
		return tea.Batch(cmd, m.resolveDelete(state))
	}
	return cmd
}

func (m *Model) resolveDelete(state *ui.ConfirmDeleteState) tea.Cmd {
	m.modal.Hide()
	if !state.Confirmed() {
		m.log.Debug("delete cancelled", "session", state.ConversationID)
		return nil
	}
	return m.deleteConversation(state.ConversationID)
}
