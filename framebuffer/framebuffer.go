/*
Package framebuffer implements an in-memory frame of RGB pixels and the
transfer of that frame to a display surface.

Pixels are stored row-major, so the pixel at (x, y) is found at index
y*width+x. A frame is transferred either in full, to the origin of the
surface, or one pixel at a time.
*/
package framebuffer

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
	"math/bits"
)

const headerLen = 8

var errInsufficientData = errors.New("framebuffer: insufficient data")

// Pixel is a single opaque RGB pixel.
type Pixel struct {
	Red, Green, Blue uint8
}

// RGBA implements the color.Color interface.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	r = uint32(p.Red)
	r |= r << 8
	g = uint32(p.Green)
	g |= g << 8
	b = uint32(p.Blue)
	b |= b << 8
	return r, g, b, 0xffff
}

func pixelModel(c color.Color) color.Color {
	if p, ok := c.(Pixel); ok {
		return p
	}
	r, g, b, _ := c.RGBA()
	return Pixel{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// PixelModel converts any color to a Pixel, discarding alpha.
var PixelModel = color.ModelFunc(pixelModel)

// FrameBuffer owns width*height pixels. It implements the image.Image
// interface.
type FrameBuffer struct {
	width, height int
	pixels        []Pixel
}

// New returns a black frame of the given size. Either dimension may be zero.
func New(width, height int) *FrameBuffer {
	if width < 0 || height < 0 {
		panic("framebuffer: negative dimensions")
	}
	hi, lo := bits.Mul(uint(width), uint(height))
	if hi != 0 || lo > uint(maxInt) {
		panic("framebuffer: dimensions overflow")
	}
	return &FrameBuffer{
		width:  width,
		height: height,
		pixels: make([]Pixel, width*height),
	}
}

const maxInt = int(^uint(0) >> 1)

// Width returns the width of the frame in pixels.
func (fb *FrameBuffer) Width() int { return fb.width }

// Height returns the height of the frame in pixels.
func (fb *FrameBuffer) Height() int { return fb.height }

// Pixels returns the backing pixels in row-major order.
func (fb *FrameBuffer) Pixels() []Pixel { return fb.pixels }

// PixelAt returns the pixel at (x, y) for modification, or nil if the
// coordinates are outside of the frame.
func (fb *FrameBuffer) PixelAt(x, y int) *Pixel {
	if x < 0 || y < 0 || x >= fb.width || y >= fb.height {
		return nil
	}
	return &fb.pixels[y*fb.width+x]
}

// Blit transfers the whole frame to the origin of s.
func (fb *FrameBuffer) Blit(s Surface) error {
	op := BufferToVideo{
		Buffer: fb.pixels,
		Dims:   image.Pt(fb.width, fb.height),
	}
	if err := s.Blt(op); err != nil {
		return &TransferError{Op: "blit", Err: err}
	}
	return nil
}

// BlitPixel transfers the single pixel at p to the same coordinates on s.
// p is not checked against the frame, callers must do that first.
func (fb *FrameBuffer) BlitPixel(s Surface, p image.Point) error {
	op := BufferToVideo{
		Buffer: fb.pixels,
		Src: &SubRectangle{
			Point:  p,
			Stride: fb.width,
		},
		Dest: p,
		Dims: image.Pt(1, 1),
	}
	if err := s.Blt(op); err != nil {
		return &TransferError{Op: "blit pixel", Err: err}
	}
	return nil
}

// ColorModel implements the image.Image interface.
func (fb *FrameBuffer) ColorModel() color.Model { return PixelModel }

// Bounds implements the image.Image interface.
func (fb *FrameBuffer) Bounds() image.Rectangle { return image.Rect(0, 0, fb.width, fb.height) }

// At implements the image.Image interface.
func (fb *FrameBuffer) At(x, y int) color.Color {
	if p := fb.PixelAt(x, y); p != nil {
		return *p
	}
	return Pixel{}
}

// MarshalBinary encodes the frame as its dimensions followed by packed RGB
// triples.
func (fb *FrameBuffer) MarshalBinary() ([]byte, error) {
	b := bytes.NewBuffer(make([]byte, 0, headerLen+len(fb.pixels)*3))

	for _, v := range []uint32{uint32(fb.width), uint32(fb.height)} {
		if err := binary.Write(b, binary.LittleEndian, v); err != nil {
			return nil, err
		}
	}

	for _, p := range fb.pixels {
		b.Write([]byte{p.Red, p.Green, p.Blue})
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes a frame previously encoded with MarshalBinary.
func (fb *FrameBuffer) UnmarshalBinary(b []byte) error {
	if len(b) < headerLen {
		return errInsufficientData
	}

	width := binary.LittleEndian.Uint32(b[0:])
	height := binary.LittleEndian.Uint32(b[4:])

	// Both dimensions must fit an int and the pixel count times three must
	// not overflow
	n := uint64(width) * uint64(height)
	if uint64(width) > uint64(maxInt) || uint64(height) > uint64(maxInt) || n > uint64(maxInt)/3 || uint64(len(b)-headerLen) != n*3 {
		return errInsufficientData
	}

	fb.width, fb.height = int(width), int(height)
	fb.pixels = make([]Pixel, n)

	r := bytes.NewReader(b[headerLen:])
	var tmp [3]byte
	for i := range fb.pixels {
		if _, err := io.ReadFull(r, tmp[:]); err != nil {
			return errInsufficientData
		}
		fb.pixels[i] = Pixel{tmp[0], tmp[1], tmp[2]}
	}

	return nil
}
