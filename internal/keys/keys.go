// Package keys provides string constants for the Bubble Tea v2 key presses
// confide reacts to.
//
// Each value is derived from tea.KeyPressMsg{...}.String(), so it always
// matches what the runtime reports. Single printable characters ("j", "k",
// "d", "q") are compared literally at the call site.
package keys

import tea "charm.land/bubbletea/v2"

// Navigation keys
var (
	Up     = tea.KeyPressMsg{Code: tea.KeyUp}.String()     // "up"
	Down   = tea.KeyPressMsg{Code: tea.KeyDown}.String()   // "down"
	Home   = tea.KeyPressMsg{Code: tea.KeyHome}.String()   // "home"
	End    = tea.KeyPressMsg{Code: tea.KeyEnd}.String()    // "end"
	PgUp   = tea.KeyPressMsg{Code: tea.KeyPgUp}.String()   // "pgup"
	PgDown = tea.KeyPressMsg{Code: tea.KeyPgDown}.String() // "pgdown"
)

// Action keys
var (
	Enter      = tea.KeyPressMsg{Code: tea.KeyEnter}.String()                      // "enter"
	ShiftEnter = (tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModShift}).String() // "shift+enter"
	AltEnter   = (tea.KeyPressMsg{Code: tea.KeyEnter, Mod: tea.ModAlt}).String()   // "alt+enter"
	Tab        = tea.KeyPressMsg{Code: tea.KeyTab}.String()                        // "tab"
	ShiftTab   = (tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}).String()   // "shift+tab"
	Delete     = tea.KeyPressMsg{Code: tea.KeyDelete}.String()                     // "delete"
	Escape     = tea.KeyPressMsg{Code: tea.KeyEscape}.String()                     // "esc"
	Left       = tea.KeyPressMsg{Code: tea.KeyLeft}.String()                       // "left"
	Right      = tea.KeyPressMsg{Code: tea.KeyRight}.String()                      // "right"
)

// Ctrl combinations
var (
	CtrlC    = (tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}).String()         // "ctrl+c"
	CtrlN    = (tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}).String()         // "ctrl+n" new chat
	CtrlB    = (tea.KeyPressMsg{Code: 'b', Mod: tea.ModCtrl}).String()         // "ctrl+b" toggle sidebar
	CtrlY    = (tea.KeyPressMsg{Code: 'y', Mod: tea.ModCtrl}).String()         // "ctrl+y" copy reply
	CtrlU    = (tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl}).String()         // "ctrl+u"
	CtrlD    = (tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl}).String()         // "ctrl+d"
	CtrlUp   = (tea.KeyPressMsg{Code: tea.KeyUp, Mod: tea.ModCtrl}).String()   // "ctrl+up"
	CtrlDown = (tea.KeyPressMsg{Code: tea.KeyDown, Mod: tea.ModCtrl}).String() // "ctrl+down"
)
