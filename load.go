package slideshow

import (
	"crypto/sha1"
	"fmt"
	"io/fs"
	"path"

	"github.com/bodgit/slideshow/bmp"
	"github.com/bodgit/slideshow/framebuffer"
)

func checksum(b []byte) string {
	return fmt.Sprintf("%X", sha1.Sum(b))
}

func (s *Slideshow) decode(b []byte) (*framebuffer.FrameBuffer, error) {
	if s.db == nil {
		return bmp.DecodeWithOptions(b, s.Options)
	}

	sha := checksum(b)

	fb, err := s.db.FindFrame(sha, s.Options.Flip)
	if err != nil {
		return nil, err
	}
	if fb != nil {
		return fb, nil
	}

	if fb, err = bmp.DecodeWithOptions(b, s.Options); err != nil {
		return nil, err
	}

	if err := s.db.AddFrame(sha, s.Options.Flip, fb); err != nil {
		return nil, err
	}

	return fb, nil
}

// Load decodes every file in dir. Files that cannot be read or decoded are
// logged and skipped. If no file could be decoded ErrNoImages is returned.
func (s *Slideshow) Load(fsys fs.FS, dir string) ([]*framebuffer.FrameBuffer, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var frames []*framebuffer.FrameBuffer
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		file := path.Join(dir, entry.Name())
		s.logger.Printf("Reading %s\n", file)

		b, err := fs.ReadFile(fsys, file)
		if err != nil {
			s.Warnings.Printf("Skipping \"%s\": %s\n", file, err)
			continue
		}

		fb, err := s.decode(b)
		if err != nil {
			s.Warnings.Printf("Skipping \"%s\": %s\n", file, err)
			continue
		}

		frames = append(frames, fb)
	}

	if len(frames) == 0 {
		return nil, ErrNoImages
	}

	return frames, nil
}
