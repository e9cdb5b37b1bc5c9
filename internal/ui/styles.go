package ui

import "charm.land/lipgloss/v2"

// Hex values of the palette, kept as strings for the header gradient.
const (
	hexPrimary = "#7C3AED"
	hexBg      = "#1F2937"
)

// Color palette - Purple + Cyan/Teal theme
var (
	ColorPrimary     = lipgloss.Color(hexPrimary) // Purple
	ColorSecondary   = lipgloss.Color("#06B6D4")  // Cyan
	ColorMuted       = lipgloss.Color("#6B7280")  // Gray
	ColorBorder      = lipgloss.Color("#374151")  // Dark gray
	ColorBorderFocus = lipgloss.Color(hexPrimary) // Purple when focused
	ColorBg          = lipgloss.Color(hexBg)      // Dark background
	ColorBgSelected  = lipgloss.Color("#4C1D95")  // Deep purple for the highlighted row
	ColorText        = lipgloss.Color("#F9FAFB")  // Light text
	ColorTextMuted   = lipgloss.Color("#B0B8C4")  // Muted text
	ColorTextInverse = lipgloss.Color(hexBg)      // Dark text for light backgrounds
	ColorUser        = lipgloss.Color("#A78BFA")  // Light purple for user messages
	ColorAssistant   = lipgloss.Color("#22D3EE")  // Bright cyan for assistant messages
	ColorWarning     = lipgloss.Color("#F59E0B")  // Amber
	ColorInfo        = lipgloss.Color("#06B6D4")  // Cyan
	ColorError       = lipgloss.Color("#EF4444")  // Red for errors
	ColorSuccess     = lipgloss.Color("#10B981")  // Green for success
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)
)

// Footer styles
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Flash styles, one per FlashType
var (
	FlashErrorStyle   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	FlashWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	FlashInfoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)
	FlashSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1)
)

// Sidebar styles
var (
	SidebarItemStyle = lipgloss.NewStyle().
				Padding(0, 1)

	SidebarSelectedStyle = lipgloss.NewStyle().
				Background(ColorBgSelected).
				Foreground(ColorText).
				Bold(true).
				Padding(0, 1)

	SidebarActiveMarkerStyle = lipgloss.NewStyle().
					Foreground(ColorSecondary).
					Bold(true)

	SidebarPreviewStyle = lipgloss.NewStyle().
				Foreground(ColorMuted).
				Italic(true)
)

// Chat styles
var (
	ChatUserStyle = lipgloss.NewStyle().
			Foreground(ColorUser).
			Bold(true)

	ChatAssistantStyle = lipgloss.NewStyle().
				Foreground(ColorAssistant).
				Bold(true)

	ChatMessageStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	ChatNoticeStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	ChatErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	ChatLoadingStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Italic(true)

	ChatInputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	ChatInputFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus).
				Padding(0, 1)

	ChatInputDisabledStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorMuted).
				Foreground(ColorMuted).
				Padding(0, 1)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2).
			Width(ModalWidth)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	ModalHelpStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			MarginTop(1)
)
