package midi

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// errTruncated stops a single track walk. It never leaves the package.
var errTruncated = errors.New("read past end of track")

// Cursor is a read position over a byte buffer it never modifies.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Len() int {
	return len(c.buf)
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

// Seek moves to pos, clamped to the buffer.
func (c *Cursor) Seek(pos int) {
	switch {
	case pos < 0:
		c.pos = 0
	case pos > len(c.buf):
		c.pos = len(c.buf)
	default:
		c.pos = pos
	}
}

func (c *Cursor) HasTag(tag string) bool {
	if c.Remaining() < len(tag) {
		return false
	}
	return string(c.buf[c.pos:c.pos+len(tag)]) == tag
}

func (c *Cursor) Peek() (byte, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	return c.buf[c.pos], true
}

// Next reads one byte, refusing to read at or beyond limit.
func (c *Cursor) Next(limit int) (byte, error) {
	if c.pos >= limit || c.pos >= len(c.buf) {
		return 0, errTruncated
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

// ReadUint32 reads a big-endian chunk length.
func (c *Cursor) ReadUint32() (uint32, error) {
	if c.Remaining() < 4 {
		return 0, errTruncated
	}
	v := binary.BigEndian.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return v, nil
}

// ReadVLQ decodes a variable-length quantity, most significant group first.
func (c *Cursor) ReadVLQ(limit int) (uint64, error) {
	var v uint64
	for {
		b, err := c.Next(limit)
		if err != nil {
			return v, err
		}
		v = v<<7 | uint64(b&0x7F)
		if b&0x80 == 0 {
			return v, nil
		}
	}
}

// Skip advances n bytes. When that would cross limit the cursor is parked
// on limit and errTruncated is returned.
func (c *Cursor) Skip(n uint64, limit int) error {
	if limit > len(c.buf) {
		limit = len(c.buf)
	}
	avail := limit - c.pos
	if avail < 0 {
		avail = 0
	}
	if n > uint64(avail) {
		c.Seek(limit)
		return errTruncated
	}
	c.pos += int(n)
	return nil
}
