package framebuffer

import (
	"errors"
	"image"
	"image/color"
)

// ErrInvalidParameter is returned by a surface when a transfer does not fit
// either the source buffer or the video memory.
var ErrInvalidParameter = errors.New("framebuffer: invalid parameter")

// Surface is a display device that accepts pixel transfers.
type Surface interface {
	Blt(op BufferToVideo) error
}

// SubRectangle selects a block of a larger buffer. Stride is the number of
// pixels in each row of the buffer.
type SubRectangle struct {
	image.Point
	Stride int
}

// BufferToVideo copies a Dims sized block of Buffer to Dest in video memory.
// A nil Src means Buffer is exactly Dims in size.
type BufferToVideo struct {
	Buffer []Pixel
	Src    *SubRectangle
	Dest   image.Point
	Dims   image.Point
}

func (op BufferToVideo) source() (image.Point, int) {
	if op.Src == nil {
		return image.Point{}, op.Dims.X
	}
	return op.Src.Point, op.Src.Stride
}

// Validate checks the source block lies within Buffer.
func (op BufferToVideo) Validate() error {
	sp, stride := op.source()
	switch {
	case op.Dims.X < 0 || op.Dims.Y < 0:
		return ErrInvalidParameter
	case op.Dims.X == 0 || op.Dims.Y == 0:
		return nil
	case sp.X < 0 || sp.Y < 0 || stride <= 0:
		return ErrInvalidParameter
	case sp.X+op.Dims.X > stride:
		return ErrInvalidParameter
	}
	if last := (sp.Y+op.Dims.Y-1)*stride + sp.X + op.Dims.X; last > len(op.Buffer) {
		return ErrInvalidParameter
	}
	return nil
}

// Row returns row y of the source block.
func (op BufferToVideo) Row(y int) []Pixel {
	sp, stride := op.source()
	i := (sp.Y+y)*stride + sp.X
	return op.Buffer[i : i+op.Dims.X]
}

// Image copies the source block into a new image with its top left corner
// at the origin.
func (op BufferToVideo) Image() (*image.RGBA, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}
	m := image.NewRGBA(image.Rectangle{Max: op.Dims})
	for y := 0; y < op.Dims.Y; y++ {
		for x, p := range op.Row(y) {
			m.SetRGBA(x, y, color.RGBA{p.Red, p.Green, p.Blue, 0xff})
		}
	}
	return m, nil
}

// TransferError records a transfer rejected by a surface.
type TransferError struct {
	Op  string
	Err error
}

func (e *TransferError) Error() string { return "framebuffer: " + e.Op + ": " + e.Err.Error() }

// Unwrap returns the underlying surface error.
func (e *TransferError) Unwrap() error { return e.Err }

// Video is a surface backed by memory with a fixed mode. It implements the
// image.Image interface so the contents can be inspected or presented.
type Video struct {
	fb *FrameBuffer
}

// NewVideo returns a black video memory of the given mode.
func NewVideo(width, height int) *Video {
	return &Video{fb: New(width, height)}
}

// Mode returns the resolution of the video memory.
func (v *Video) Mode() image.Point { return image.Pt(v.fb.width, v.fb.height) }

// Blt implements the Surface interface.
func (v *Video) Blt(op BufferToVideo) error {
	if err := op.Validate(); err != nil {
		return err
	}
	if op.Dims.X == 0 || op.Dims.Y == 0 {
		return nil
	}
	if r := (image.Rectangle{Min: op.Dest, Max: op.Dest.Add(op.Dims)}); !r.In(v.fb.Bounds()) {
		return ErrInvalidParameter
	}
	for y := 0; y < op.Dims.Y; y++ {
		i := (op.Dest.Y+y)*v.fb.width + op.Dest.X
		copy(v.fb.pixels[i:i+op.Dims.X], op.Row(y))
	}
	return nil
}

// PixelAt returns the pixel at (x, y) in video memory, or nil.
func (v *Video) PixelAt(x, y int) *Pixel { return v.fb.PixelAt(x, y) }

// ColorModel implements the image.Image interface.
func (v *Video) ColorModel() color.Model { return PixelModel }

// Bounds implements the image.Image interface.
func (v *Video) Bounds() image.Rectangle { return v.fb.Bounds() }

// At implements the image.Image interface.
func (v *Video) At(x, y int) color.Color { return v.fb.At(x, y) }
