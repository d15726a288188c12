/*
Package fbdev implements a display surface on the Linux framebuffer device.
*/
package fbdev

import (
	"errors"
	"image"

	"github.com/bodgit/slideshow/framebuffer"
	"github.com/u-root/u-root/pkg/fb"
)

var drawImageAt = fb.DrawImageAt

// Surface draws each transfer straight to /dev/fb0.
type Surface struct {
	mode image.Rectangle
}

// New returns a Surface for a framebuffer of width by height pixels.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("fbdev: invalid mode")
	}
	return &Surface{
		mode: image.Rect(0, 0, width, height),
	}, nil
}

// Blt implements the framebuffer.Surface interface.
func (s *Surface) Blt(op framebuffer.BufferToVideo) error {
	if !(image.Rectangle{Min: op.Dest, Max: op.Dest.Add(op.Dims)}).In(s.mode) {
		return framebuffer.ErrInvalidParameter
	}

	m, err := op.Image()
	if err != nil {
		return err
	}

	return drawImageAt(m, op.Dest.X, op.Dest.Y)
}
