package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
<style>
/* base */
rect.key { fill: #ffffff; }
rect.held { fill: #ff0000; }
</style>
<rect x="0" y="0" width="10" height="10" class="%s"/>
</svg>`

func renderSquare(t *testing.T, class string, opts Options) image.Image {
	t.Helper()

	s := New(opts)
	src := []byte(fmt.Sprintf(square, class))
	if err := s.LoadDocument(src); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !s.Dirty() {
		t.Fatal("surface should be dirty after load")
	}

	target := &Offscreen{Size: image.Pt(10, 10)}
	if err := s.Render(target); err != nil {
		t.Fatalf("render: %v", err)
	}
	if s.Dirty() {
		t.Error("surface should be clean after render")
	}

	return target.Frame()
}

func isRed(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r>>8 > 200 && g>>8 < 60 && b>>8 < 60
}

func TestRenderHeldClass(t *testing.T) {
	idle := renderSquare(t, "key", Options{})
	if isRed(idle.At(5, 5)) {
		t.Error("idle key rendered with the held fill")
	}

	held := renderSquare(t, "held key", Options{})
	if !isRed(held.At(5, 5)) {
		t.Errorf("held key not highlighted, got %v", held.At(5, 5))
	}

	smooth := renderSquare(t, "held key", Options{Smooth: true})
	if !isRed(smooth.At(5, 5)) {
		t.Errorf("smooth render lost the highlight, got %v", smooth.At(5, 5))
	}
}

func TestLoadRejectsEmptyViewBox(t *testing.T) {
	s := New(Options{})
	err := s.LoadDocument([]byte(`<svg xmlns="http://www.w3.org/2000/svg"><rect width="1" height="1"/></svg>`))
	if err == nil {
		t.Fatal("expected an error for a diagram without size")
	}
}

func TestParseRules(t *testing.T) {
	rules := parseRules(`
		/* comment { x: y } */
		rect.key, text.key { fill: none; }
		.held { stroke: red }
		g > rect { fill: blue }
		@media print { rect { fill: black } }
		:hover { fill: green }
	`)

	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d: %+v", len(rules), rules)
	}
	if rules[0].tag != "rect" || rules[0].specificity != 11 {
		t.Errorf("unexpected first rule %+v", rules[0])
	}
	if !rules[2].matches("circle", []string{"a", "held"}) {
		t.Error("class-only rule should match any tag")
	}
	if rules[0].matches("rect", []string{"held"}) {
		t.Error("rect.key should not match a rect without the key class")
	}
}

func TestTerminalPresent(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(2, 1)

	term := Terminal{Screen: screen}
	if got := term.Bounds(); got != image.Rect(0, 0, 2, 2) {
		t.Fatalf("unexpected bounds %v", got)
	}

	frame := image.NewRGBA(image.Rect(0, 0, 2, 2))
	frame.Set(0, 0, color.RGBA{R: 255, A: 255})
	frame.Set(0, 1, color.RGBA{B: 255, A: 255})

	if err := term.Present(frame); err != nil {
		t.Fatalf("present: %v", err)
	}

	r, _, style, _ := screen.GetContent(0, 0)
	if r != upperHalfBlock {
		t.Errorf("expected half block, got %q", r)
	}
	fg, bg, _ := style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("unexpected colors fg=%v bg=%v", fg, bg)
	}
}

func TestWriteSnapshot(t *testing.T) {
	frame := renderSquare(t, "held key", Options{})
	path := filepath.Join(t.TempDir(), "snap.png")

	if err := WriteSnapshot(path, frame, "held: A Shift"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if got := img.Bounds().Dy(); got != 10+captionHeight {
		t.Errorf("expected height %d, got %d", 10+captionHeight, got)
	}
}
