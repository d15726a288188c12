/*
Package record implements a display surface that captures full frame
transfers into an animated GIF.

Each frame is reduced to a palette of at most 256 colors with a median cut
quantizer and dithered. Transfers of part of a frame update the video memory
but are only visible in the next captured frame.
*/
package record

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"time"

	"github.com/bodgit/slideshow/framebuffer"
	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

const maxColors = 256

// ErrComplete is returned by Blt once the requested number of frames have
// been captured.
var ErrComplete = errors.New("record: complete")

// Surface records frames written to its video memory.
type Surface struct {
	w       io.Writer
	video   *framebuffer.Video
	frames  int
	delay   int
	anim    gif.GIF
	written bool
}

// New returns a Surface with a video mode of width by height pixels that
// writes captured frames to w, each shown for interval.
func New(w io.Writer, width, height, frames int, interval time.Duration) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("record: invalid mode")
	}
	if frames <= 0 {
		return nil, errors.New("record: invalid number of frames")
	}
	return &Surface{
		w:      w,
		video:  framebuffer.NewVideo(width, height),
		frames: frames,
		delay:  int(interval / (10 * time.Millisecond)),
	}, nil
}

func (s *Surface) capture() {
	b := s.video.Bounds()

	q := quantize.MedianCutQuantizer{}
	pm := image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxColors), s.video))
	draw.FloydSteinberg.Draw(pm, b, s.video, b.Min)

	s.anim.Image = append(s.anim.Image, pm)
	s.anim.Delay = append(s.anim.Delay, s.delay)
}

// Blt implements the framebuffer.Surface interface.
func (s *Surface) Blt(op framebuffer.BufferToVideo) error {
	if len(s.anim.Image) >= s.frames {
		return ErrComplete
	}

	if err := s.video.Blt(op); err != nil {
		return err
	}

	if op.Src != nil {
		return nil
	}

	s.capture()

	if len(s.anim.Image) == s.frames {
		return s.Close()
	}

	return nil
}

// Close writes any captured frames if they haven't been written already.
func (s *Surface) Close() error {
	if s.written || len(s.anim.Image) == 0 {
		return nil
	}
	s.written = true
	return gif.EncodeAll(s.w, &s.anim)
}
