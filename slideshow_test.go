package slideshow

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"io/ioutil"
	"log"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/bodgit/slideshow/framebuffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bitmap returns a width by height 24-bit bitmap with every pixel set to c
func bitmap(width, height int, c framebuffer.Pixel) []byte {
	b := make([]byte, 54, 54+width*height*3)
	b[0], b[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(b[10:], 54)
	binary.LittleEndian.PutUint32(b[14:], 40)
	binary.LittleEndian.PutUint32(b[18:], uint32(width))
	binary.LittleEndian.PutUint32(b[22:], uint32(height))
	binary.LittleEndian.PutUint16(b[26:], 1)
	binary.LittleEndian.PutUint16(b[28:], 24)
	for i := 0; i < width*height; i++ {
		b = append(b, c.Blue, c.Green, c.Red)
	}
	return b
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	if buf == nil {
		return log.New(ioutil.Discard, "", 0)
	}
	return log.New(buf, "", 0)
}

var (
	red   = framebuffer.Pixel{Red: 0xff}
	green = framebuffer.Pixel{Green: 0xff}
	blue  = framebuffer.Pixel{Blue: 0xff}
)

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"images/a.bmp":       {Data: bitmap(4, 2, red)},
		"images/b.bmp":       {Data: bitmap(4, 1, green)},
		"images/c.txt":       {Data: []byte("not a bitmap")},
		"images/d.bmp":       {Data: bitmap(4, 4, blue)[:60]},
		"images/sub/e.bmp":   {Data: bitmap(4, 4, blue)},
		"images/sub/.hidden": {Data: nil},
	}

	buf := new(bytes.Buffer)
	s := New(nil, testLogger(buf))

	frames, err := s.Load(fsys, "images")
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, 4, frames[0].Width())
	assert.Equal(t, 2, frames[0].Height())
	assert.Equal(t, red, *frames[0].PixelAt(3, 1))
	assert.Equal(t, green, *frames[1].PixelAt(0, 0))

	assert.Contains(t, buf.String(), "Reading images/a.bmp")
	assert.Contains(t, buf.String(), "Skipping \"images/c.txt\"")
	assert.Contains(t, buf.String(), "Skipping \"images/d.bmp\"")
	assert.NotContains(t, buf.String(), "e.bmp")
}

func TestLoadNoImages(t *testing.T) {
	tables := map[string]fstest.MapFS{
		"empty": {
			"images": {Mode: fs.ModeDir},
		},
		"only directories": {
			"images/sub/a.bmp": {Data: bitmap(4, 4, red)},
		},
		"only bad files": {
			"images/a.bmp": {Data: []byte("BM")},
		},
	}

	for name, fsys := range tables {
		frames, err := New(nil, testLogger(nil)).Load(fsys, "images")
		assert.Nil(t, frames, name)
		assert.True(t, errors.Is(err, ErrNoImages), name)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := New(nil, testLogger(nil)).Load(fstest.MapFS{}, "images")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoImages))
}

func TestLoadCached(t *testing.T) {
	db, err := NewFrameDB(filepath.Join(t.TempDir(), "frames.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"images/a.bmp": {Data: bitmap(4, 2, red)},
		"images/b.bmp": {Data: bitmap(4, 2, red)},
		"images/c.bmp": {Data: bitmap(8, 1, blue)},
	}

	s := New(db, testLogger(nil))

	first, err := s.Load(fsys, "images")
	require.NoError(t, err)

	n, err := db.Length()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	second, err := s.Load(fsys, "images")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	s.Options.Flip = true
	_, err = s.Load(fsys, "images")
	require.NoError(t, err)

	n, err = db.Length()
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestLoadCorruptCache(t *testing.T) {
	db, err := NewFrameDB(filepath.Join(t.TempDir(), "frames.db"))
	require.NoError(t, err)
	defer db.Close()

	b := bitmap(4, 2, red)
	_, err = db.db.Exec("INSERT INTO frame (sha1, flip, pixels) VALUES (?, ?, ?)", checksum(b), false, []byte{1, 2, 3})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	frames, err := New(db, testLogger(buf)).Load(fstest.MapFS{"images/a.bmp": {Data: b}}, "images")
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, red, *frames[0].PixelAt(3, 1))
	assert.NotContains(t, buf.String(), "Skipping")

	// The corrupt row has been replaced
	fb, err := db.FindFrame(checksum(b), false)
	require.NoError(t, err)
	assert.Equal(t, frames[0], fb)

	n, err := db.Length()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoadWarnings(t *testing.T) {
	info, warnings := new(bytes.Buffer), new(bytes.Buffer)

	s := New(nil, testLogger(info))
	s.Warnings = testLogger(warnings)

	_, err := s.Load(fstest.MapFS{
		"images/a.bmp": {Data: bitmap(4, 1, red)},
		"images/b.bmp": {Data: []byte("BM")},
	}, "images")
	require.NoError(t, err)

	assert.Contains(t, info.String(), "Reading images/b.bmp")
	assert.NotContains(t, info.String(), "Skipping")
	assert.Equal(t, "Skipping \"images/b.bmp\": bmp: truncated data\n", warnings.String())
}

func TestFrameDB(t *testing.T) {
	db, err := NewFrameDB(filepath.Join(t.TempDir(), "frames.db"))
	require.NoError(t, err)
	defer db.Close()

	fb, err := db.FindFrame("ABCDEF", false)
	assert.NoError(t, err)
	assert.Nil(t, fb)

	want := framebuffer.New(2, 2)
	*want.PixelAt(1, 0) = blue
	require.NoError(t, db.AddFrame("ABCDEF", false, want))

	fb, err = db.FindFrame("ABCDEF", false)
	require.NoError(t, err)
	assert.Equal(t, want, fb)

	fb, err = db.FindFrame("ABCDEF", true)
	assert.NoError(t, err)
	assert.Nil(t, fb)
}

type recordSurface struct {
	shown []*framebuffer.FrameBuffer
	limit int
}

var errStop = errors.New("stop")

func (s *recordSurface) Blt(op framebuffer.BufferToVideo) error {
	if len(s.shown) == s.limit {
		return errStop
	}
	fb := framebuffer.New(op.Dims.X, op.Dims.Y)
	copy(fb.Pixels(), op.Buffer)
	s.shown = append(s.shown, fb)
	return nil
}

func TestCycle(t *testing.T) {
	frames := []*framebuffer.FrameBuffer{
		framebuffer.New(1, 1),
		framebuffer.New(2, 2),
		framebuffer.New(3, 3),
	}

	c := NewCycle(frames)

	var got []int
	for i := 0; i < 7; i++ {
		n, fb := c.Next()
		assert.Same(t, frames[n], fb)
		got = append(got, n)
	}
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2, 0}, got)

	c.Reset()
	n, _ := c.Next()
	assert.Equal(t, 0, n)

	n, fb := NewCycle(nil).Next()
	assert.Equal(t, -1, n)
	assert.Nil(t, fb)
}

func TestRun(t *testing.T) {
	frames := make([]*framebuffer.FrameBuffer, 3)
	for i := range frames {
		frames[i] = framebuffer.New(i+1, 1)
	}

	var stalls []time.Duration
	surface := &recordSurface{limit: 7}

	s := New(nil, testLogger(nil))
	s.Interval = time.Second

	err := s.Run(frames, surface, StallFunc(func(d time.Duration) {
		stalls = append(stalls, d)
	}))
	assert.True(t, errors.Is(err, errStop))
	assert.EqualError(t, err, "frame 1: framebuffer: blit: stop")

	var widths []int
	for _, fb := range surface.shown {
		widths = append(widths, fb.Width())
	}
	assert.Equal(t, []int{1, 2, 3, 1, 2, 3, 1}, widths)
	assert.Len(t, stalls, 7)
	assert.Equal(t, time.Second, stalls[0])
}

func TestRunNoImages(t *testing.T) {
	surface := &recordSurface{limit: 1}
	err := New(nil, testLogger(nil)).Run(nil, surface, Sleep)
	assert.True(t, errors.Is(err, ErrNoImages))
	assert.Empty(t, surface.shown)
}
