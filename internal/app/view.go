package app

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/confide/internal/ui"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.ReportFocus = true
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current view as a string.
// This is useful for snapshots and testing.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	m.updateFooterContext()

	if m.modal.IsVisible() {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			m.modal.View(),
		)
	}

	panels := m.chat.View()
	if !ui.GetViewContext().SidebarCollapsed() {
		panels = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), panels)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		panels,
		m.footer.View(),
	)
}

// updateFooterContext updates the footer with current context for conditional bindings
func (m *Model) updateFooterContext() {
	m.footer.SetContext(
		m.focus == FocusSidebar,
		m.store.ActiveID() != "",
		!m.IsIdle(),
		m.modal.IsVisible(),
	)
}

// updateSizes updates component sizes based on terminal dimensions
func (m *Model) updateSizes() {
	if m.width == 0 || m.height == 0 {
		return
	}
	ctx := ui.GetViewContext()
	ctx.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(ctx.TerminalWidth)
	m.footer.SetWidth(ctx.TerminalWidth)
	m.sidebar.SetSize(ctx.SidebarWidth, ctx.ContentHeight)
	m.chat.SetSize(ctx.ChatWidth, ctx.ContentHeight)
}
