package keys

import "testing"

// The bindings are derived from Bubble Tea's key formatting; the literal
// strings below are what footer help and the huh keymaps expect.
func TestBindingStrings(t *testing.T) {
	want := map[string]string{
		Up: "up", Down: "down", Home: "home", End: "end", PgUp: "pgup", PgDown: "pgdown",
		Enter: "enter", ShiftEnter: "shift+enter", AltEnter: "alt+enter",
		Tab: "tab", ShiftTab: "shift+tab", Delete: "delete", Escape: "esc",
		Left: "left", Right: "right",
		CtrlC: "ctrl+c", CtrlN: "ctrl+n", CtrlB: "ctrl+b", CtrlY: "ctrl+y",
		CtrlU: "ctrl+u", CtrlD: "ctrl+d", CtrlUp: "ctrl+up", CtrlDown: "ctrl+down",
	}
	for got, expected := range want {
		if got != expected {
			t.Errorf("binding %q, want %q", got, expected)
		}
	}
}

func TestBindingsAreDistinct(t *testing.T) {
	all := []string{
		Up, Down, Home, End, PgUp, PgDown, Enter, ShiftEnter, AltEnter, Tab, ShiftTab,
		Delete, Escape, Left, Right, CtrlC, CtrlN, CtrlB, CtrlY, CtrlU, CtrlD, CtrlUp, CtrlDown,
	}
	seen := make(map[string]bool)
	for _, k := range all {
		if seen[k] {
			t.Errorf("binding %q defined twice", k)
		}
		seen[k] = true
	}
}
