/*
Package bmp implements a decoder for uncompressed 24-bit Windows bitmaps.

Only the fields needed to locate the pixels are read, all at fixed offsets
from the start of the file:

	offset 10  uint32  start of the pixel data
	offset 18  uint32  width
	offset 22  uint32  height
	offset 28  uint16  bits per pixel

The pixel data is expected to be tightly packed blue, green, red triples with
no row padding, which only holds for images whose width is a multiple of
four. Rows are written to the frame in the order they are stored.
*/
package bmp

import (
	"errors"
	"fmt"
	"math"

	"github.com/bodgit/slideshow/framebuffer"
)

const (
	offsetOffset       = 10
	widthOffset        = 18
	heightOffset       = 22
	bitsPerPixelOffset = 28

	bitsPerPixel  = 24
	bytesPerPixel = bitsPerPixel / 8
)

var (
	// ErrUnsupportedFormat is returned for anything other than 24 bits per
	// pixel.
	ErrUnsupportedFormat = errors.New("bmp: unsupported format")
	// ErrTruncated is returned when a field or the pixel data extends past
	// the end of the input.
	ErrTruncated = errors.New("bmp: truncated data")
)

// Config holds the header fields of a bitmap.
type Config struct {
	Offset       uint32
	Width        uint32
	Height       uint32
	BitsPerPixel uint16
}

// DecodeOptions alter how pixel rows are placed in the frame.
type DecodeOptions struct {
	// Flip writes the stored rows bottom-up, as bitmaps are normally laid
	// out, rather than in the order they appear in the file.
	Flip bool
}

func decodeConfig(r reader) (Config, error) {
	var (
		c   Config
		err error
	)
	if c.Width, err = r.uint32(widthOffset); err != nil {
		return Config{}, err
	}
	if c.Height, err = r.uint32(heightOffset); err != nil {
		return Config{}, err
	}
	if c.BitsPerPixel, err = r.uint16(bitsPerPixelOffset); err != nil {
		return Config{}, err
	}
	if c.BitsPerPixel != bitsPerPixel {
		return Config{}, fmt.Errorf("%w: %d bits per pixel", ErrUnsupportedFormat, c.BitsPerPixel)
	}
	if c.Offset, err = r.uint32(offsetOffset); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DecodeConfig returns the header fields of the bitmap in b without decoding
// the pixels.
func DecodeConfig(b []byte) (Config, error) {
	return decodeConfig(reader(b))
}

// Decode decodes the bitmap in b, writing rows in stored order.
func Decode(b []byte) (*framebuffer.FrameBuffer, error) {
	return DecodeWithOptions(b, DecodeOptions{})
}

// DecodeWithOptions decodes the bitmap in b using opts.
func DecodeWithOptions(b []byte, opts DecodeOptions) (*framebuffer.FrameBuffer, error) {
	r := reader(b)

	c, err := decodeConfig(r)
	if err != nil {
		return nil, err
	}

	// Both are at most 32 bits so only the multiplication by three can
	// overflow
	n := uint64(c.Width) * uint64(c.Height)
	if n > math.MaxUint64/bytesPerPixel {
		return nil, ErrTruncated
	}

	// Check the whole payload is present before allocating anything
	payload, err := r.slice(uint64(c.Offset), n*bytesPerPixel)
	if err != nil {
		return nil, err
	}

	width, height := int(c.Width), int(c.Height)
	fb := framebuffer.New(width, height)

	for y := 0; y < height; y++ {
		dy := y
		if opts.Flip {
			dy = height - y - 1
		}
		for x := 0; x < width; x++ {
			i := (y*width + x) * bytesPerPixel
			*fb.PixelAt(x, dy) = framebuffer.Pixel{
				Red:   payload[i+2],
				Green: payload[i+1],
				Blue:  payload[i+0],
			}
		}
	}

	return fb, nil
}
