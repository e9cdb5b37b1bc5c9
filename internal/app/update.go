package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/confide/internal/keys"
)

// Update handles messages. This is the core Bubble Tea update function that
// routes every message to its handler.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.FocusMsg:
		m.windowFocused = true
		m.log.Debug("window focused")
		return m, nil

	case tea.BlurMsg:
		m.windowFocused = false
		m.log.Debug("window blurred")
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKeyPress(msg)

	case StartupLoadedMsg:
		return m, m.handleStartupLoaded(msg)

	case ChatCreatedMsg:
		return m, m.handleChatCreated(msg)

	case HistoryLoadedMsg:
		m.handleHistoryLoaded(msg)
		return m, nil

	case ConversationDeletedMsg:
		return m, m.handleConversationDeleted(msg)

	case AnswerMsg:
		return m, m.handleAnswer(msg)

	case TypingTickMsg:
		return m, m.handleTypingTick(msg)

	case ConversationsRefreshedMsg:
		m.handleConversationsRefreshed(msg)
		return m, nil

	case FlashExpiredMsg:
		m.handleFlashExpired(msg)
		return m, nil

	case NotifiedMsg:
		if msg.Err != nil {
			m.log.Warn("notification failed", "error", msg.Err)
		}
		return m, nil
	}

	if m.modal.IsVisible() {
		return m, m.forwardToModal(msg)
	}

	// Everything else (mouse wheel, cursor blink) goes to the focused panel.
	if m.focus == FocusSidebar {
		sidebar, cmd := m.sidebar.Update(msg)
		m.sidebar = sidebar
		return m, cmd
	}
	chat, cmd := m.chat.Update(msg)
	m.chat = chat
	return m, cmd
}

// handleKeyPress handles global shortcuts, then the focused panel's keys.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if key == keys.CtrlC {
		m.cancelTyping()
		return tea.Quit
	}
	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	switch key {
	case keys.Tab, keys.ShiftTab:
		m.toggleFocus()
		return nil
	case keys.CtrlN:
		return m.createNewChat()
	case keys.CtrlB:
		return m.toggleSidebar()
	case keys.CtrlY:
		return m.copyLastReply()
	}

	if m.focus == FocusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m *Model) handleSidebarKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		m.cancelTyping()
		return tea.Quit
	case keys.Enter:
		if conv, ok := m.sidebar.SelectedConversation(); ok {
			cmd := m.switchConversation(conv.SessionID)
			if m.store.ActiveID() == conv.SessionID {
				m.setFocus(FocusChat)
			}
			return cmd
		}
		return nil
	case "d", keys.Delete:
		if conv, ok := m.sidebar.SelectedConversation(); ok {
			return m.requestDelete(conv.SessionID)
		}
		return nil
	}

	sidebar, cmd := m.sidebar.Update(msg)
	m.sidebar = sidebar
	m.syncHeader()
	return cmd
}

func (m *Model) handleChatKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case keys.Enter:
		return m.sendMessage()
	case keys.AltEnter, keys.ShiftEnter:
		m.chat.InsertNewline()
		return nil
	}

	chat, cmd := m.chat.Update(msg)
	m.chat = chat
	return cmd
}
