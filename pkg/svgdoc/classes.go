package svgdoc

import (
	"slices"
	"strings"
)

// Classes returns the class tokens of id, deduplicated and sorted.
func (d *Document) Classes(id int) []string {
	value, _ := d.Attr(id, "class")
	return ParseClasses(value)
}

// SetClasses writes tokens back as a sorted, space separated class string.
func (d *Document) SetClasses(id int, tokens []string) {
	d.SetAttr(id, "class", JoinClasses(tokens))
}

func ParseClasses(value string) []string {
	tokens := strings.Fields(value)
	slices.Sort(tokens)
	return slices.Compact(tokens)
}

func JoinClasses(tokens []string) string {
	sorted := slices.Clone(tokens)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), " ")
}

func HasClass(value, token string) bool {
	return slices.Contains(strings.Fields(value), token)
}

// WithClass returns the token set with token added.
func WithClass(tokens []string, token string) []string {
	if slices.Contains(tokens, token) {
		return slices.Clone(tokens)
	}

	out := append(slices.Clone(tokens), token)
	slices.Sort(out)
	return out
}

// WithoutClass returns the token set with every occurrence of token removed.
func WithoutClass(tokens []string, token string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != token {
			out = append(out, t)
		}
	}

	return out
}
