/*
Package terminal implements a display surface that renders video memory to a
terminal.

Each character cell shows two pixels using an upper half block, the top
pixel as the foreground color and the bottom pixel as the background color.
The video memory is scaled to fit the terminal whenever it is redrawn.
Pressing Escape, Ctrl-C or q closes the surface. A Surface is also a
staller that returns early once closed, so a slideshow using it for both
stops without waiting out the current interval.
*/
package terminal

import (
	"errors"
	"image"
	"sync"
	"time"

	"github.com/bodgit/slideshow/framebuffer"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/image/draw"
)

const halfBlock = '▀'

// ErrClosed is returned by Blt once the user has asked to quit.
var ErrClosed = errors.New("terminal: closed")

// Surface is a terminal backed display surface.
type Surface struct {
	screen tcell.Screen
	video  *framebuffer.Video

	quit chan struct{}
	once sync.Once
}

// New initializes screen and returns a Surface with a video mode of width
// by height pixels.
func New(screen tcell.Screen, width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("terminal: invalid mode")
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	screen.Clear()

	s := &Surface{
		screen: screen,
		video:  framebuffer.NewVideo(width, height),
		quit:   make(chan struct{}),
	}
	go s.poll()

	return s, nil
}

func (s *Surface) close() {
	s.once.Do(func() { close(s.quit) })
}

func (s *Surface) poll() {
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			// Screen has been finalized
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				s.close()
				return
			}
		}
	}
}

// Blt implements the framebuffer.Surface interface.
func (s *Surface) Blt(op framebuffer.BufferToVideo) error {
	select {
	case <-s.quit:
		return ErrClosed
	default:
	}

	if err := s.video.Blt(op); err != nil {
		return err
	}

	s.draw()

	return nil
}

func (s *Surface) draw() {
	cols, rows := s.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows*2))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), s.video, s.video.Bounds(), draw.Src, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top, bottom := dst.RGBAAt(x, y*2), dst.RGBAAt(x, y*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			s.screen.SetContent(x, y, halfBlock, nil, style)
		}
	}

	s.screen.Show()
}

// Stall waits for d, or until the surface is closed.
func (s *Surface) Stall(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
	case <-s.quit:
	}
}

// Close restores the terminal.
func (s *Surface) Close() error {
	s.close()
	s.screen.Fini()
	return nil
}
