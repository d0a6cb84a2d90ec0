package keylabel

// focusNames are the key names reported for the focused window (tcell key
// names plus the modifier pseudo keys).
var focusNames = map[string]Label{
	"Shift":      Shift,
	"Ctrl":       Control,
	"Alt":        Alt,
	"Meta":       Meta,
	"Tab":        Tab,
	"Backtab":    Tab,
	"Enter":      Enter,
	" ":          Space,
	"Backspace":  Backspace,
	"Backspace2": Backspace,
	"Delete":     Delete,
	"Esc":        Esc,
}

// hookNames are the names the global hook reports for non-printable keys.
var hookNames = map[string]Label{
	"shift":     Shift,
	"lshift":    Shift,
	"rshift":    Shift,
	"ctrl":      Control,
	"lctrl":     Control,
	"rctrl":     Control,
	"control":   Control,
	"alt":       Alt,
	"lalt":      Alt,
	"ralt":      AltGr,
	"altgr":     AltGr,
	"cmd":       Meta,
	"lcmd":      Meta,
	"rcmd":      Meta,
	"meta":      Meta,
	"super":     Meta,
	"capslock":  Caps,
	"caps lock": Caps,
	"tab":       Tab,
	"enter":     Enter,
	"return":    Enter,
	"space":     Space,
	" ":         Space,
	"backspace": Backspace,
	"delete":    Delete,
	"esc":       Esc,
	"escape":    Esc,
}

// deviceAliases map evdev code names, stripped of "KEY_" and lowercased.
var deviceAliases = buildDeviceAliases()

func buildDeviceAliases() map[string]Label {
	aliases := map[string]Label{
		"leftshift":  Shift,
		"rightshift": Shift,
		"leftctrl":   Control,
		"rightctrl":  Control,
		"leftalt":    Alt,
		"rightalt":   AltGr,
		"leftmeta":   Meta,
		"rightmeta":  Meta,
		"capslock":   Caps,
		"tab":        Tab,
		"enter":      Enter,
		"kpenter":    Enter,
		"space":      Space,
		"backspace":  Backspace,
		"delete":     Delete,
		"esc":        Esc,

		"minus":      "-",
		"equal":      "=",
		"leftbrace":  "[",
		"rightbrace": "]",
		"semicolon":  ";",
		"apostrophe": "'",
		"grave":      "`",
		"backslash":  "\\",
		"comma":      ",",
		"dot":        ".",
		"slash":      "/",
	}

	for c := 'a'; c <= 'z'; c++ {
		aliases[string(c)] = Label(string(c - 'a' + 'A'))
	}
	for c := '0'; c <= '9'; c++ {
		aliases[string(c)] = Label(string(c))
	}

	return aliases
}
