package ui

import (
	"charm.land/bubbles/v2/help"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"
)

// ModalTheme returns a huh theme that matches the modal color palette.
func ModalTheme() huh.Theme {
	return huh.ThemeFunc(func(isDark bool) *huh.Styles {
		t := huh.ThemeBase(isDark)

		// Focused field: left border marks the active field
		t.Focused.Base = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(ColorPrimary)
		t.Focused.Card = t.Focused.Base
		t.Focused.Title = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
		t.Focused.Description = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true)
		t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorWarning).SetString(" *")
		t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorWarning)

		// Confirm button styles
		t.Focused.FocusedButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(ColorTextInverse).
			Background(ColorError)
		t.Focused.BlurredButton = lipgloss.NewStyle().
			Padding(0, 2).
			MarginRight(1).
			Foreground(ColorTextMuted)

		t.Blurred = t.Focused
		t.Blurred.Base = lipgloss.NewStyle().PaddingLeft(2)
		t.Blurred.Card = t.Blurred.Base

		t.FieldSeparator = lipgloss.NewStyle().SetString("\n")
		t.Help = help.New().Styles

		return t
	})
}
