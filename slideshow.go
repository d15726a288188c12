/*
Package slideshow is a library for loading 24-bit bitmaps from a directory and
displaying them one after another, forever, on a pixel surface.
*/
package slideshow

import (
	"errors"
	"log"
	"time"

	"github.com/bodgit/slideshow/bmp"
)

// DefaultInterval is how long each image is shown for.
const DefaultInterval = 3 * time.Second

// ErrNoImages is returned when there is nothing to show.
var ErrNoImages = errors.New("no images found")

type Slideshow struct {
	db     *FrameDB
	logger *log.Logger

	// Warnings receives a message for every file that is skipped
	Warnings *log.Logger

	// Interval is the time spent stalled after each image is shown
	Interval time.Duration
	// Options are passed to the decoder for every image
	Options bmp.DecodeOptions
}

// New returns a Slideshow. db may be nil in which case every image is
// decoded each time it is loaded. Warnings are sent to logger until
// Warnings is changed.
func New(db *FrameDB, logger *log.Logger) *Slideshow {
	return &Slideshow{
		db:       db,
		logger:   logger,
		Warnings: logger,
		Interval: DefaultInterval,
	}
}
