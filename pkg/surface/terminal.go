package surface

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

const upperHalfBlock = '▀'

// Terminal paints frames into a tcell screen. Each cell shows two pixels
// stacked vertically: the upper one as the foreground of a half block and
// the lower one as the background.
type Terminal struct {
	Screen tcell.Screen
}

func (t Terminal) Bounds() image.Rectangle {
	w, h := t.Screen.Size()
	return image.Rect(0, 0, w, h*2)
}

func (t Terminal) Present(frame image.Image) error {
	b := frame.Bounds()
	w, h := t.Screen.Size()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top := frame.At(b.Min.X+x, b.Min.Y+2*y)
			bottom := frame.At(b.Min.X+x, b.Min.Y+2*y+1)

			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			t.Screen.SetContent(x, y, upperHalfBlock, nil, style)
		}
	}

	t.Screen.Show()
	return nil
}

func rgb(c color.Color) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
