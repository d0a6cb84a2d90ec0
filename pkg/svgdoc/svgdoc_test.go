package svgdoc

import (
	"errors"
	"strings"
	"testing"

	"codeberg.org/miketth/keylive/pkg/keylabel"
)

const layout = `<?xml version="1.0" encoding="UTF-8"?>
<svg width="120" height="60" viewBox="0 0 120 60" class="keymap" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
<style>rect.held { fill: #fdd; }</style>
<g class="key keypos-0"><rect rx="6" ry="6" x="0" y="0" width="52" height="52" class="key"/><text x="26" y="26" class="key tap">A</text></g>
<g class="key keypos-1"><rect x="56" y="0" width="52" height="52" class="key side"/><text x="82" y="26" class="key tap"> Shift </text><use xlink:href="#icon" x="60" y="4"/></g>
<g class="key keypos-2"><text x="0" y="56" class="key hold">Shift</text><rect x="0" y="56" width="52" height="4" class="key"/></g>
<g><text class="legend">B</text><rect class="key"/></g>
<g><text class="key tap">C</text></g>
<text class="key tap">D</text>
</svg>
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()

	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return doc
}

func TestBuildIndex(t *testing.T) {
	doc := mustParse(t, layout)
	index := BuildIndex(doc)

	if len(index) != 2 {
		t.Fatalf("expected 2 indexed labels, got %d: %v", len(index), index)
	}

	a, ok := index.Lookup("A")
	if !ok {
		t.Fatal("A not indexed")
	}
	if x, _ := doc.Attr(a, "x"); x != "0" {
		t.Errorf("A points at the wrong rect (x=%s)", x)
	}

	shift, ok := index.Lookup(keylabel.Shift)
	if !ok {
		t.Fatal("Shift not indexed")
	}
	if x, _ := doc.Attr(shift, "x"); x != "56" {
		t.Errorf("Shift must keep the first occurrence, got rect x=%s", x)
	}

	for _, missing := range []keylabel.Label{"B", "C", "D", "Z"} {
		if _, ok := index.Lookup(missing); ok {
			t.Errorf("%q should not be indexed", missing)
		}
	}

	nested := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg">`+
		`<g><rect class="key" x="1"/><text class="key tap"><tspan x="0">A</tspan></text></g>`+
		`<g><rect class="key" x="2"/><text class="key tap">`+"\n"+`<tspan x="0">Ent</tspan><tspan x="0">er</tspan>`+"\n"+`</text></g>`+
		`</svg>`)
	nestedIndex := BuildIndex(nested)

	for label, x := range map[keylabel.Label]string{"A": "1", keylabel.Enter: "2"} {
		id, ok := nestedIndex.Lookup(label)
		if !ok {
			t.Errorf("tspan legend %q not indexed: %v", label, nestedIndex)
			continue
		}
		if got, _ := nested.Attr(id, "x"); got != x {
			t.Errorf("%q points at rect x=%s, want %s", label, got, x)
		}
	}
}

func TestBuildIndexEmpty(t *testing.T) {
	doc := mustParse(t, `<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`)
	if index := BuildIndex(doc); len(index) != 0 {
		t.Errorf("expected empty index, got %v", index)
	}
}

func TestSerializeKeepsPrefixes(t *testing.T) {
	doc := mustParse(t, layout)

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	s := string(out)

	if !strings.Contains(s, `<use xlink:href="#icon"`) {
		t.Errorf("xlink prefix lost:\n%s", s)
	}
	if strings.Contains(s, "ns0") || strings.Contains(s, "_xmlns") {
		t.Errorf("synthetic prefix introduced:\n%s", s)
	}
	if strings.Count(s, `xmlns="http://www.w3.org/2000/svg"`) != 1 {
		t.Errorf("default namespace must be declared exactly once:\n%s", s)
	}

	again, err := mustParse(t, s).Bytes()
	if err != nil {
		t.Fatalf("serialize again: %v", err)
	}
	if string(again) != s {
		t.Errorf("serialization is not stable:\n%s\n---\n%s", s, again)
	}
}

func TestSerializeDeclaresNamespaces(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 1 1"><rect class="key"/></svg>`)

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}

	s := string(out)
	for _, want := range []string{`xmlns="` + SVGNamespace + `"`, `xmlns:xlink="` + XLinkNamespace + `"`} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
}

func TestSerializeEscapes(t *testing.T) {
	doc := mustParse(t, `<svg><text class="key">&lt;&amp;&gt;</text><text class="key">&quot;</text></svg>`)

	index := BuildIndex(doc)
	if len(index) != 0 {
		t.Fatalf("texts without a rect must not be indexed")
	}

	text := doc.Elements("text")[0]
	if got := doc.Text(text); got != "<&>" {
		t.Errorf("unexpected text %q", got)
	}

	doc.SetAttr(text, "data-label", `a"b<c`)
	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !strings.Contains(string(out), `data-label="a&quot;b&lt;c"`) {
		t.Errorf("attribute not escaped: %s", out)
	}
	if !strings.Contains(string(out), `&lt;&amp;&gt;`) {
		t.Errorf("text not escaped: %s", out)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(strings.NewReader(`<svg><g></svg>`)); !errors.Is(err, ErrUnbalanced) {
		t.Errorf("expected ErrUnbalanced, got %v", err)
	}
	if _, err := Parse(strings.NewReader(`<html/>`)); !errors.Is(err, ErrNoRoot) {
		t.Errorf("expected ErrNoRoot, got %v", err)
	}
	if _, err := Parse(strings.NewReader(`<svg><g>`)); err == nil {
		t.Error("expected an error for a truncated document")
	}
}

func TestClassHelpers(t *testing.T) {
	if got := JoinClasses([]string{"key", "held", "key"}); got != "held key" {
		t.Errorf("JoinClasses: got %q", got)
	}

	tokens := ParseClasses("  key   side key ")
	if strings.Join(tokens, ",") != "key,side" {
		t.Errorf("ParseClasses: got %v", tokens)
	}

	with := WithClass(tokens, "held")
	if strings.Join(with, ",") != "held,key,side" {
		t.Errorf("WithClass: got %v", with)
	}
	if again := WithClass(with, "held"); len(again) != len(with) {
		t.Errorf("WithClass duplicated a token: %v", again)
	}

	without := WithoutClass(with, "held")
	if strings.Join(without, ",") != "key,side" {
		t.Errorf("WithoutClass: got %v", without)
	}

	if !HasClass("key tap", "key") || HasClass("keyboard", "key") {
		t.Error("HasClass must match whole tokens")
	}
}
