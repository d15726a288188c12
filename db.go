package slideshow

import (
	"database/sql"
	"fmt"

	"github.com/bodgit/slideshow/framebuffer"
	_ "github.com/mattn/go-sqlite3"
)

// FrameDB caches decoded frames keyed by the SHA-1 of the original file.
type FrameDB struct {
	db *sql.DB
}

// NewFrameDB opens or creates the cache in file.
func NewFrameDB(file string) (*FrameDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS frame (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, flip INTEGER NOT NULL, pixels BLOB NOT NULL, UNIQUE(sha1, flip))"); err != nil {
		db.Close()
		return nil, err
	}

	return &FrameDB{
		db: db,
	}, nil
}

func (db *FrameDB) Close() error {
	return db.db.Close()
}

// FindFrame returns the cached frame for sha, or nil if there isn't one or it
// can't be decoded.
func (db *FrameDB) FindFrame(sha string, flip bool) (*framebuffer.FrameBuffer, error) {
	var pixels []byte
	switch err := db.db.QueryRow("SELECT pixels FROM frame WHERE sha1 = ? AND flip = ?", sha, flip).Scan(&pixels); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		fb := new(framebuffer.FrameBuffer)
		if err := fb.UnmarshalBinary(pixels); err != nil {
			return nil, nil
		}
		return fb, nil
	default:
		return nil, err
	}
}

// AddFrame stores fb against sha, replacing any existing frame.
func (db *FrameDB) AddFrame(sha string, flip bool, fb *framebuffer.FrameBuffer) error {
	b, err := fb.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := db.db.Exec("INSERT OR REPLACE INTO frame (sha1, flip, pixels) VALUES (?, ?, ?)", sha, flip, b); err != nil {
		return err
	}
	return nil
}

// Length returns the number of cached frames.
func (db *FrameDB) Length() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM frame").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
