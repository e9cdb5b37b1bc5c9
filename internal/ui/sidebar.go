package ui

import (
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/confide/internal/api"
	"github.com/zhubert/confide/internal/keys"
	"github.com/zhubert/confide/internal/session"
)

const (
	sidebarTitle   = "Conversations"
	activeMarker   = "● "
	inactiveMarker = "  "
	truncationTail = "…"
)

// Sidebar represents the left panel with the conversation list
type Sidebar struct {
	width   int
	height  int
	focused bool

	conversations []api.Conversation
	activeID      string
	selectedIdx   int
	scrollOffset  int // first visible conversation
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	return &Sidebar{}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetConversations replaces the list. The highlight stays on the same
// conversation when it survives, otherwise it moves to the active one.
func (s *Sidebar) SetConversations(conversations []api.Conversation, activeID string) {
	var highlighted string
	if conv, ok := s.SelectedConversation(); ok {
		highlighted = conv.SessionID
	}

	s.conversations = conversations
	s.activeID = activeID

	switch {
	case highlighted != "" && s.indexOf(highlighted) >= 0:
		s.selectedIdx = s.indexOf(highlighted)
	case s.indexOf(activeID) >= 0:
		s.selectedIdx = s.indexOf(activeID)
	default:
		s.selectedIdx = 0
	}
}

// SetActive marks id as the active conversation and moves the highlight to it.
func (s *Sidebar) SetActive(id string) {
	s.activeID = id
	if idx := s.indexOf(id); idx >= 0 {
		s.selectedIdx = idx
	}
}

// ActiveID returns the conversation marked active.
func (s *Sidebar) ActiveID() string {
	return s.activeID
}

// SelectedConversation returns the highlighted conversation.
func (s *Sidebar) SelectedConversation() (api.Conversation, bool) {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.conversations) {
		return api.Conversation{}, false
	}
	return s.conversations[s.selectedIdx], true
}

// SelectedIndex returns the position of the highlight.
func (s *Sidebar) SelectedIndex() int {
	return s.selectedIdx
}

// Len returns the number of conversations listed.
func (s *Sidebar) Len() int {
	return len(s.conversations)
}

func (s *Sidebar) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, c := range s.conversations {
		if c.SessionID == id {
			return i
		}
	}
	return -1
}

// Update handles messages
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.focused || len(s.conversations) == 0 {
		return s, nil
	}

	switch keyMsg.String() {
	case keys.Up, "k":
		if s.selectedIdx > 0 {
			s.selectedIdx--
		}
	case keys.Down, "j":
		if s.selectedIdx < len(s.conversations)-1 {
			s.selectedIdx++
		}
	case keys.Home, "g":
		s.selectedIdx = 0
	case keys.End, "G":
		s.selectedIdx = len(s.conversations) - 1
	}
	return s, nil
}

// visibleItems is how many conversations fit below the title line.
func (s *Sidebar) visibleItems() int {
	inner := GetViewContext().InnerHeight(s.height) - 1
	return max(inner/SidebarItemHeight, 1)
}

// ensureVisible scrolls so the highlighted conversation is on screen.
func (s *Sidebar) ensureVisible() {
	visible := s.visibleItems()
	if s.selectedIdx < s.scrollOffset {
		s.scrollOffset = s.selectedIdx
	}
	if s.selectedIdx >= s.scrollOffset+visible {
		s.scrollOffset = s.selectedIdx - visible + 1
	}
	s.scrollOffset = max(min(s.scrollOffset, len(s.conversations)-visible), 0)
}

// View renders the sidebar
func (s *Sidebar) View() string {
	if s.width == 0 {
		return ""
	}

	ctx := GetViewContext()
	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}
	innerWidth := ctx.InnerWidth(s.width)

	lines := []string{PanelTitleStyle.Render(sidebarTitle)}

	if len(s.conversations) == 0 {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Padding(0, 1).
			Render("No conversations yet."))
		return style.Width(s.width).Height(s.height).Render(strings.Join(lines, "\n"))
	}

	s.ensureVisible()
	end := min(s.scrollOffset+s.visibleItems(), len(s.conversations))

	// Item styles pad one column each side.
	textWidth := max(innerWidth-2-runewidth.StringWidth(activeMarker), 1)

	for idx := s.scrollOffset; idx < end; idx++ {
		conv := s.conversations[idx]

		marker := inactiveMarker
		if conv.SessionID == s.activeID {
			marker = SidebarActiveMarkerStyle.Render(activeMarker)
		}
		title := runewidth.Truncate(session.Title(conv, idx), textWidth, truncationTail)

		preview := conv.LastMessagePreview
		if preview == "" {
			preview = strconv.Itoa(conv.MessageCount) + " messages"
		}
		preview = runewidth.Truncate(strings.Join(strings.Fields(preview), " "), textWidth, truncationTail)

		itemStyle := SidebarItemStyle.Width(innerWidth)
		if idx == s.selectedIdx {
			itemStyle = SidebarSelectedStyle.Width(innerWidth)
		}
		lines = append(lines,
			itemStyle.Render(marker+title),
			itemStyle.Render(inactiveMarker+SidebarPreviewStyle.Render(preview)),
		)
	}

	return style.Width(s.width).Height(s.height).Render(strings.Join(lines, "\n"))
}
