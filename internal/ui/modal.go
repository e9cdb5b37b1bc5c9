package ui

import (
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/confide/internal/keys"
)

// ModalState is the content of an open modal.
type ModalState interface {
	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// Modal is a popup hosting one ModalState at a time.
type Modal struct {
	State ModalState
}

// NewModal creates a hidden modal
func NewModal() *Modal {
	return &Modal{}
}

// Show opens the modal with state.
func (m *Modal) Show(state ModalState) {
	m.State = state
}

// Hide closes the modal.
func (m *Modal) Hide() {
	m.State = nil
}

// IsVisible reports whether a modal is open.
func (m *Modal) IsVisible() bool {
	return m.State != nil
}

// Update forwards msg to the open state.
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if m.State == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.State, cmd = m.State.Update(msg)
	return m, cmd
}

// View renders the open modal, or nothing.
func (m *Modal) View() string {
	if m.State == nil {
		return ""
	}
	return ModalStyle.Render(m.State.Render())
}

// ConfirmDeleteState asks before a conversation is deleted.
type ConfirmDeleteState struct {
	ConversationID string
	DisplayTitle   string

	confirmed bool
	form      *huh.Form
}

// NewConfirmDeleteState builds the confirmation for the conversation id
// shown as title. Cancel is preselected.
func NewConfirmDeleteState(id, title string) *ConfirmDeleteState {
	s := &ConfirmDeleteState{ConversationID: id, DisplayTitle: title}
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description("This conversation and its history will be removed.").
			Affirmative("Delete").
			Negative("Cancel").
			Value(&s.confirmed),
	)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalWidth - 6)

	// The app owns the lifecycle; a completed form must not quit the program.
	s.form.SubmitCmd = nil
	s.form.CancelCmd = nil

	// Initialize eagerly so the first render is complete.
	s.form.Init()
	return s
}

func (s *ConfirmDeleteState) Title() string { return "Delete conversation?" }

func (s *ConfirmDeleteState) Help() string {
	return "←/→ or y/n to choose, Enter to confirm, Esc to cancel"
}

func (s *ConfirmDeleteState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

// Update delegates to the form. Enter and Escape are left to the app, which
// decides from Confirmed.
func (s *ConfirmDeleteState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Enter, keys.Escape:
			return s, nil
		}
	}

	m, cmd := s.form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		s.form = f
	}
	return s, cmd
}

// Confirmed reports whether Delete is selected.
func (s *ConfirmDeleteState) Confirmed() bool {
	return s.confirmed
}

// Decided reports whether the form submitted itself, which happens when y or
// n is pressed.
func (s *ConfirmDeleteState) Decided() bool {
	return s.form.State == huh.StateCompleted
}
