package keylabel

import "testing"

func TestMapPrintablePassThrough(t *testing.T) {
	m := NewMapper()

	for _, code := range []string{"a", "A", "1", ";", "é"} {
		for _, src := range []Source{SourceFocus, SourceHook} {
			label, ok := m.Map(RawEvent{Source: src, Code: code, Pressed: true})
			if !ok {
				t.Errorf("%s %q: expected a label", src, code)
				continue
			}
			if string(label) != code {
				t.Errorf("%s %q: got %q, case must be preserved", src, code, label)
			}
		}
	}
}

func TestMapModifierTables(t *testing.T) {
	m := NewMapper()

	cases := []struct {
		src  Source
		code string
		want Label
	}{
		{SourceFocus, "Shift", Shift},
		{SourceFocus, "Ctrl", Control},
		{SourceFocus, " ", Space},
		{SourceFocus, "Backspace2", Backspace},
		{SourceFocus, "Esc", Esc},
		{SourceHook, "lshift", Shift},
		{SourceHook, "rshift", Shift},
		{SourceHook, "ralt", AltGr},
		{SourceHook, "caps lock", Caps},
		{SourceHook, "enter", Enter},
		{SourceDevice, "KEY_LEFTSHIFT", Shift},
		{SourceDevice, "KEY_RIGHTSHIFT", Shift},
		{SourceDevice, "KEY_LEFTCTRL", Control},
		{SourceDevice, "KEY_RIGHTALT", AltGr},
		{SourceDevice, "KEY_LEFTMETA", Meta},
		{SourceDevice, "KEY_CAPSLOCK", Caps},
		{SourceDevice, "KEY_SPACE", Space},
		{SourceDevice, "KEY_A", "A"},
		{SourceDevice, "KEY_7", "7"},
		{SourceDevice, "KEY_SEMICOLON", ";"},
	}

	for _, c := range cases {
		got, ok := m.Map(RawEvent{Source: c.src, Code: c.code})
		if !ok {
			t.Errorf("%s %q: no mapping", c.src, c.code)
			continue
		}
		if got != c.want {
			t.Errorf("%s %q: got %q, want %q", c.src, c.code, got, c.want)
		}
	}
}

func TestMapUnknown(t *testing.T) {
	m := NewMapper()

	cases := []RawEvent{
		{Source: SourceFocus, Code: ""},
		{Source: SourceFocus, Code: "F13"},
		{Source: SourceFocus, Code: "\t"},
		{Source: SourceHook, Code: "volumeup"},
		{Source: SourceDevice, Code: "KEY_VOLUMEUP"},
		{Source: SourceDevice, Code: "BTN_LEFT"},
	}

	for _, ev := range cases {
		if label, ok := m.Map(ev); ok {
			t.Errorf("%s %q: expected no mapping, got %q", ev.Source, ev.Code, label)
		}
	}
}

func TestIsExit(t *testing.T) {
	for _, l := range []Label{"x", "X"} {
		if !IsExit(l) {
			t.Errorf("%q should be the exit label", l)
		}
	}

	for _, l := range []Label{"xx", "Shift", "", "y"} {
		if IsExit(l) {
			t.Errorf("%q should not be the exit label", l)
		}
	}
}

func TestDeviceExitKey(t *testing.T) {
	label, ok := NewMapper().Map(RawEvent{Source: SourceDevice, Code: "KEY_X", Pressed: true})
	if !ok || !IsExit(label) {
		t.Fatalf("KEY_X should map to the exit label, got %q (%v)", label, ok)
	}
}
