package keylabel

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Mapper turns backend specific key identifiers into diagram labels.
// It holds no mutable state and is safe for concurrent use.
type Mapper struct {
	tables map[Source]map[string]Label
}

func NewMapper() *Mapper {
	return &Mapper{
		tables: map[Source]map[string]Label{
			SourceFocus:  focusNames,
			SourceHook:   hookNames,
			SourceDevice: deviceAliases,
		},
	}
}

// Map returns the label for ev, or false if the key is not known.
func (m *Mapper) Map(ev RawEvent) (Label, bool) {
	code := ev.Code
	if code == "" {
		return "", false
	}

	if ev.Source == SourceDevice {
		code = strings.ToLower(strings.TrimPrefix(code, "KEY_"))
		label, ok := m.tables[SourceDevice][code]
		return label, ok
	}

	if label, ok := m.tables[ev.Source][code]; ok {
		return label, true
	}

	return printable(code)
}

func printable(code string) (Label, bool) {
	if utf8.RuneCountInString(code) != 1 {
		return "", false
	}

	r, _ := utf8.DecodeRuneInString(code)
	if !unicode.IsPrint(r) || unicode.IsSpace(r) {
		return "", false
	}

	return Label(code), true
}
