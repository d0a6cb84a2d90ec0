package surface

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	captionHeight   = 24
	captionFontSize = 12.0
)

// WriteSnapshot saves frame as a PNG with a caption line underneath.
func WriteSnapshot(path string, frame image.Image, caption string) error {
	b := frame.Bounds()

	dc := gg.NewContext(b.Dx(), b.Dy()+captionHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(frame, -b.Min.X, -b.Min.Y)

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttf, &truetype.Options{
		Size:    captionFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	dc.SetColor(color.Black)
	dc.DrawStringAnchored(caption, 8, float64(b.Dy())+captionHeight/2, 0, 0.5)

	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png: %w", err)
	}

	return nil
}
