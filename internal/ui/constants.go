// Package ui provides constants for layout calculations and configuration.
package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/4 of total width)
	SidebarWidthRatio = 4

	// MinSidebarWidth keeps short titles readable on narrow terminals
	MinSidebarWidth = 24

	// TextareaHeight is the number of lines for the chat input textarea
	TextareaHeight = 3

	// TextareaBorderHeight is the border size around the textarea
	TextareaBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the input area (Padding(0, 1) = 1 left + 1 right)
	InputPaddingWidth = 2

	// InputTotalHeight is the total height of the input area (textarea + borders)
	InputTotalHeight = TextareaHeight + TextareaBorderHeight

	// SidebarItemHeight is the number of lines per conversation (title + preview)
	SidebarItemHeight = 2

	// DefaultWrapWidth is the default width for text wrapping when viewport width is unknown
	DefaultWrapWidth = 80

	// MinTerminalWidth and MinTerminalHeight clamp layout math on tiny terminals
	MinTerminalWidth  = 40
	MinTerminalHeight = 12
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60
)
