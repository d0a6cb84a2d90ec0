package surface

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"codeberg.org/miketth/keylive/pkg/svgdoc"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

var errEmptyViewBox = errors.New("svg has an empty viewBox")

// Target is something a frame can be painted into.
type Target interface {
	// Bounds is the pixel area available for the frame.
	Bounds() image.Rectangle
	Present(frame image.Image) error
}

type Options struct {
	// Smooth supersamples the diagram and scales it down with Catmull-Rom.
	Smooth     bool
	Background color.Color
}

// Surface holds the rasterizer's view of the diagram. It never edits the
// document; it only renders whatever was loaded last.
type Surface struct {
	opts  Options
	icon  *oksvg.SvgIcon
	dirty bool
	frame *image.RGBA
}

func New(opts Options) *Surface {
	if opts.Background == nil {
		opts.Background = color.White
	}

	return &Surface{opts: opts}
}

// LoadDocument replaces the rasterizer source and marks the surface dirty.
func (s *Surface) LoadDocument(renderable []byte) error {
	doc, err := svgdoc.Parse(bytes.NewReader(renderable))
	if err != nil {
		return fmt.Errorf("parse renderable: %w", err)
	}

	inlineStyles(doc)

	flat, err := doc.Bytes()
	if err != nil {
		return fmt.Errorf("serialize inlined: %w", err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(flat), oksvg.IgnoreErrorMode)
	if err != nil {
		return fmt.Errorf("read svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return errEmptyViewBox
	}

	s.icon = icon
	s.dirty = true

	return nil
}

func (s *Surface) Dirty() bool {
	return s.dirty
}

// PreferredSize is the diagram's intrinsic size in pixels.
func (s *Surface) PreferredSize() image.Point {
	if s.icon == nil {
		return image.Point{}
	}

	return image.Pt(int(math.Ceil(s.icon.ViewBox.W)), int(math.Ceil(s.icon.ViewBox.H)))
}

// Frame returns the last presented frame, or nil before the first render.
func (s *Surface) Frame() *image.RGBA {
	return s.frame
}

// Render draws the diagram into t, scaled to fit and centered.
func (s *Surface) Render(t Target) error {
	bounds := t.Bounds()
	frame := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(frame, frame.Bounds(), image.NewUniform(s.opts.Background), image.Point{}, draw.Src)

	if s.icon != nil && bounds.Dx() > 0 && bounds.Dy() > 0 {
		fit := s.fit(bounds.Size())
		if fit.X > 0 && fit.Y > 0 {
			img := s.rasterize(fit)
			offset := image.Pt((bounds.Dx()-fit.X)/2, (bounds.Dy()-fit.Y)/2)
			draw.Draw(frame, img.Bounds().Add(offset), img, image.Point{}, draw.Over)
		}
	}

	if err := t.Present(frame); err != nil {
		return fmt.Errorf("present: %w", err)
	}

	s.frame = frame
	s.dirty = false
	return nil
}

// fit returns the largest size with the diagram's aspect ratio inside limit.
func (s *Surface) fit(limit image.Point) image.Point {
	vb := s.icon.ViewBox
	scale := math.Min(float64(limit.X)/vb.W, float64(limit.Y)/vb.H)

	return image.Pt(int(vb.W*scale), int(vb.H*scale))
}

func (s *Surface) rasterize(size image.Point) *image.RGBA {
	factor := 1
	if s.opts.Smooth {
		factor = 2
	}

	w, h := size.X*factor, size.Y*factor
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	s.icon.SetTarget(0, 0, float64(w), float64(h))
	s.icon.Draw(rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, img, img.Bounds())), 1)

	if factor == 1 {
		return img
	}

	out := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}
