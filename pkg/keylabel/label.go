package keylabel

import "strings"

// Label is the canonical name of a key as it is drawn in the diagram.
type Label string

const (
	Shift     Label = "Shift"
	Control   Label = "Control"
	Alt       Label = "Alt"
	AltGr     Label = "AltGr"
	Meta      Label = "Meta"
	Caps      Label = "Caps"
	Tab       Label = "Tab"
	Enter     Label = "Enter"
	Space     Label = "Space"
	Backspace Label = "Backspace"
	Delete    Label = "Delete"
	Esc       Label = "Esc"

	// Exit closes the window instead of being highlighted.
	Exit Label = "x"
)

// IsExit reports whether l is the reserved exit label, in any case.
func IsExit(l Label) bool {
	return strings.EqualFold(string(l), string(Exit))
}

type Source int

const (
	SourceFocus Source = iota
	SourceHook
	SourceDevice
)

func (s Source) String() string {
	switch s {
	case SourceFocus:
		return "focus"
	case SourceHook:
		return "hook"
	case SourceDevice:
		return "device"
	}

	return "unknown"
}

// RawEvent is a key event as reported by an input backend, before it is
// mapped to a label.
type RawEvent struct {
	Source  Source
	Code    string
	Pressed bool
}
