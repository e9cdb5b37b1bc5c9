package ui

import (
	"sync"

	"github.com/zhubert/confide/internal/logger"
)

// ViewContext holds centralized layout calculations and provides debug logging.
// All size calculations should go through this to avoid duplication.
type ViewContext struct {
	// Terminal dimensions
	TerminalWidth  int
	TerminalHeight int

	// Calculated dimensions
	HeaderHeight  int
	FooterHeight  int
	ContentHeight int
	SidebarWidth  int
	ChatWidth     int

	sidebarCollapsed bool

	mu sync.Mutex
}

// Global view context instance
var ctx *ViewContext
var ctxOnce sync.Once

// GetViewContext returns the singleton ViewContext instance
func GetViewContext() *ViewContext {
	ctxOnce.Do(func() {
		ctx = &ViewContext{
			HeaderHeight: HeaderHeight,
			FooterHeight: FooterHeight,
		}
		logger.WithComponent("ui").Debug("ViewContext initialized")
	})
	return ctx
}

// UpdateTerminalSize recalculates all dimensions when terminal size changes.
// It should be called from the main event loop when the terminal is resized.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	// Validate dimensions to prevent negative layout values
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	v.TerminalWidth = width
	v.TerminalHeight = height
	v.recalculate()
}

// SetSidebarCollapsed hides or shows the conversation list and gives the
// freed columns to the chat panel.
func (v *ViewContext) SetSidebarCollapsed(collapsed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.sidebarCollapsed = collapsed
	v.recalculate()
}

// SidebarCollapsed reports whether the conversation list is hidden.
func (v *ViewContext) SidebarCollapsed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sidebarCollapsed
}

func (v *ViewContext) recalculate() {
	v.HeaderHeight = HeaderHeight
	v.FooterHeight = FooterHeight

	// Content area is everything between header and footer
	v.ContentHeight = v.TerminalHeight - v.HeaderHeight - v.FooterHeight

	switch {
	case v.sidebarCollapsed:
		v.SidebarWidth = 0
	default:
		v.SidebarWidth = max(v.TerminalWidth/SidebarWidthRatio, MinSidebarWidth)
	}
	v.ChatWidth = v.TerminalWidth - v.SidebarWidth

	logger.WithComponent("ui").Debug("layout updated",
		"width", v.TerminalWidth,
		"height", v.TerminalHeight,
		"contentHeight", v.ContentHeight,
		"sidebarWidth", v.SidebarWidth,
		"chatWidth", v.ChatWidth,
		"sidebarCollapsed", v.sidebarCollapsed,
	)
}

// InnerWidth returns the usable width inside a panel with borders
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return max(panelWidth-BorderSize, 0)
}

// InnerHeight returns the usable height inside a panel with borders
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return max(panelHeight-BorderSize, 0)
}
