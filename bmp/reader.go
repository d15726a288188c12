package bmp

import "encoding/binary"

// reader reads little-endian fields at fixed offsets of a byte slice,
// failing with ErrTruncated instead of reading past the end.
type reader []byte

func (r reader) slice(off, n uint64) ([]byte, error) {
	if off > uint64(len(r)) || n > uint64(len(r))-off {
		return nil, ErrTruncated
	}
	return r[off : off+n], nil
}

func (r reader) uint16(off uint64) (uint16, error) {
	b, err := r.slice(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r reader) uint32(off uint64) (uint32, error) {
	b, err := r.slice(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
