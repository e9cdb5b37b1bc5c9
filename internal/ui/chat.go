package ui

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/confide/internal/keys"
	"github.com/zhubert/confide/internal/logger"
	"github.com/zhubert/confide/internal/transcript"
)

// Labels printed above user and assistant bubbles.
const (
	UserLabel      = "You"
	AssistantLabel = "Xiaozhi"
)

const (
	inputPlaceholder    = "Share what's on your mind..."
	disabledPlaceholder = "Please wait..."
)

// Chat represents the right panel: the transcript viewport and the input.
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool
	disabled bool

	transcript *transcript.Transcript
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = inputPlaceholder
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport:   vp,
		input:      ti,
		transcript: transcript.New(),
	}
	c.Refresh()
	return c
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()

	// Chat panel height (excluding input area which is separate)
	chatPanelHeight := height - InputTotalHeight
	innerWidth := ctx.InnerWidth(width)
	viewportHeight := max(ctx.InnerHeight(chatPanelHeight), 1)

	c.viewport.SetWidth(innerWidth)
	c.viewport.SetHeight(viewportHeight)

	// Input width accounts for its own border AND padding
	c.input.SetWidth(max(innerWidth-InputPaddingWidth, 1))

	logger.WithComponent("ui").Debug("chat resized",
		"width", width, "height", height,
		"viewportWidth", c.viewport.Width(), "viewportHeight", c.viewport.Height())

	c.Refresh()
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	c.syncInputFocus()
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetDisabled blocks typing while a request is in flight.
func (c *Chat) SetDisabled(disabled bool) {
	c.disabled = disabled
	if disabled {
		c.input.Placeholder = disabledPlaceholder
	} else {
		c.input.Placeholder = inputPlaceholder
	}
	c.syncInputFocus()
}

// IsDisabled reports whether input is blocked.
func (c *Chat) IsDisabled() bool {
	return c.disabled
}

func (c *Chat) syncInputFocus() {
	if c.focused && !c.disabled {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// SetTranscript points the chat at t and re-renders.
func (c *Chat) SetTranscript(t *transcript.Transcript) {
	c.transcript = t
	c.Refresh()
}

// Transcript returns the transcript being shown.
func (c *Chat) Transcript() *transcript.Transcript {
	return c.transcript
}

// GetInput returns the current input text
func (c *Chat) GetInput() string {
	return c.input.Value()
}

// ClearInput clears the input field
func (c *Chat) ClearInput() {
	c.input.Reset()
}

// SetInput sets the input field value
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

// InsertNewline adds a line break at the cursor.
func (c *Chat) InsertNewline() {
	if !c.disabled {
		c.input.InsertString("\n")
	}
}

// Refresh re-renders the transcript and scrolls to the newest bubble.
func (c *Chat) Refresh() {
	c.viewport.SetContent(c.renderTranscript())
	c.viewport.GotoBottom()
}

// Content returns the rendered transcript, for tests and snapshots.
func (c *Chat) Content() string {
	return c.renderTranscript()
}

func (c *Chat) renderTranscript() string {
	wrapWidth := c.viewport.Width()
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	var parts []string
	for b := range c.transcript.All() {
		parts = append(parts, renderBubble(b, wrapWidth))
	}
	return strings.Join(parts, "\n\n")
}

func renderBubble(b *transcript.Bubble, width int) string {
	markup := b.Markup()
	switch b.Role {
	case transcript.RoleUser:
		return ChatUserStyle.Render(UserLabel+":") + "\n" + RenderMarkup(markup, ChatMessageStyle, width)
	case transcript.RoleAssistant:
		return ChatAssistantStyle.Render(AssistantLabel+":") + "\n" + RenderMarkup(markup, ChatMessageStyle, width)
	case transcript.RoleError:
		return RenderMarkup(markup, ChatErrorStyle, width)
	case transcript.RoleLoading:
		return RenderMarkup(markup, ChatLoadingStyle, width)
	default:
		return RenderMarkup(markup, ChatNoticeStyle, width)
	}
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey && c.focused {
		switch keyMsg.String() {
		case keys.PgUp, keys.PgDown, keys.CtrlUp, keys.CtrlDown, keys.Home, keys.End,
			keys.CtrlU, keys.CtrlD:
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}

		if c.disabled {
			return c, nil
		}

		// Key events never reach the viewport while typing, so space and
		// arrows edit the input instead of scrolling.
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return c, cmd
	}

	if c.focused && !c.disabled {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return c, tea.Batch(cmds...)
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	chatPanelHeight := c.height - InputTotalHeight
	chatPanel := panelStyle.Width(c.width).Height(chatPanelHeight).Render(c.viewport.View())

	inputStyle := ChatInputStyle
	switch {
	case c.disabled:
		inputStyle = ChatInputDisabledStyle
	case c.focused:
		inputStyle = ChatInputFocusedStyle
	}
	inputArea := inputStyle.Width(c.width).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, inputArea)
}
