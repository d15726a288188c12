package slideshow

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	dir := t.TempDir()

	files := map[string][]byte{
		"a.bmp":             bitmap(4, 4, red),
		"nested/b.BMP":      bitmap(4, 2, green),
		"nested/c.bmp":      []byte("BM"),
		"nested/d.png":      bitmap(4, 1, blue),
		".hidden/e.bmp":     bitmap(8, 1, blue),
		"nested/deep/f.bmp": bitmap(4, 4, red),
	}
	for name, b := range files {
		file := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
		require.NoError(t, ioutil.WriteFile(file, b, 0644))
	}

	db, err := NewFrameDB(filepath.Join(t.TempDir(), "frames.db"))
	require.NoError(t, err)
	defer db.Close()

	s := New(db, testLogger(nil))
	require.NoError(t, s.Scan(dir))

	// a.bmp and f.bmp are identical
	n, err := db.Length()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	fb, err := db.FindFrame(checksum(files["nested/b.BMP"]), false)
	require.NoError(t, err)
	require.NotNil(t, fb)
	assert.Equal(t, green, *fb.PixelAt(3, 1))
}

func TestScanNoDatabase(t *testing.T) {
	assert.Equal(t, errNoDatabase, New(nil, testLogger(nil)).Scan(t.TempDir()))
}
