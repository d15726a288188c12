package slideshow

import (
	"fmt"
	"time"

	"github.com/bodgit/slideshow/framebuffer"
)

// Staller blocks the caller for a fixed duration.
type Staller interface {
	Stall(d time.Duration)
}

// StallFunc adapts a function to the Staller interface.
type StallFunc func(time.Duration)

// Stall calls f(d).
func (f StallFunc) Stall(d time.Duration) { f(d) }

// Sleep stalls using time.Sleep.
var Sleep Staller = StallFunc(time.Sleep)

// Cycle returns frames in order, wrapping back to the first after the last.
type Cycle struct {
	frames []*framebuffer.FrameBuffer
	next   int
}

// NewCycle returns a Cycle over frames.
func NewCycle(frames []*framebuffer.FrameBuffer) *Cycle {
	return &Cycle{frames: frames}
}

// Next returns the next frame and its index, or -1 and nil if there are no
// frames.
func (c *Cycle) Next() (int, *framebuffer.FrameBuffer) {
	if len(c.frames) == 0 {
		return -1, nil
	}
	i := c.next
	c.next = (c.next + 1) % len(c.frames)
	return i, c.frames[i]
}

// Reset restarts the cycle from the first frame.
func (c *Cycle) Reset() {
	c.next = 0
}

// Run shows each frame on surface in turn, stalling for s.Interval after
// each one. It only returns if frames is empty or a frame cannot be
// transferred.
func (s *Slideshow) Run(frames []*framebuffer.FrameBuffer, surface framebuffer.Surface, staller Staller) error {
	if len(frames) == 0 {
		return ErrNoImages
	}

	c := NewCycle(frames)
	for {
		i, fb := c.Next()
		if err := fb.Blit(surface); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		staller.Stall(s.Interval)
	}
}
