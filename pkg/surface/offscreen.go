package surface

import "image"

// Offscreen is a target that keeps the frame in memory.
type Offscreen struct {
	Size  image.Point
	frame image.Image
}

func (o *Offscreen) Bounds() image.Rectangle {
	return image.Rectangle{Max: o.Size}
}

func (o *Offscreen) Present(frame image.Image) error {
	o.frame = frame
	return nil
}

func (o *Offscreen) Frame() image.Image {
	return o.frame
}
