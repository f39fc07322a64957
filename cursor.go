package cfb

import (
	"encoding/binary"
	"fmt"
)

// Cursor is a minimal little-endian binary reader/writer over a
// growable byte buffer with a movable offset. The allocator,
// directory, and header codecs only ever need a handful of
// fixed-width fields, so this stays small rather than pulling in a
// general-purpose binary reader/writer.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor wraps an existing buffer for reading and/or writing.
// Writes past the end of buf grow it.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Bytes returns the underlying buffer.
func (c *Cursor) Bytes() []byte { return c.buf }

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.buf) }

// Offset returns the current read/write offset.
func (c *Cursor) Offset() int { return c.off }

// Seek moves the cursor to an absolute offset.
func (c *Cursor) Seek(off int) { c.off = off }

func (c *Cursor) requireReadable(n int) error {
	if c.off+n > len(c.buf) {
		return fmt.Errorf("cfb: short read at offset %d, need %d more bytes, have %d: %w",
			c.off, n, len(c.buf)-c.off, ErrTruncatedTable)
	}
	return nil
}

// ReadU8 reads one byte and advances the offset.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.requireReadable(1); err != nil {
		return 0, err
	}
	v := c.buf[c.off]
	c.off++
	return v, nil
}

// ReadU16 reads a little-endian uint16 and advances the offset.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.requireReadable(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32 and advances the offset.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.requireReadable(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.off:])
	c.off += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64 and advances the offset.
func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.requireReadable(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

// ReadI32 reads a little-endian int32 and advances the offset.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadSectorID reads a little-endian sector id.
func (c *Cursor) ReadSectorID() (SectorID, error) {
	v, err := c.ReadI32()
	return SectorID(v), err
}

// ReadBytes reads n raw bytes and advances the offset.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.requireReadable(n); err != nil {
		return nil, err
	}
	v := make([]byte, n)
	copy(v, c.buf[c.off:c.off+n])
	c.off += n
	return v, nil
}

func (c *Cursor) ensureWritable(n int) {
	need := c.off + n
	if need > len(c.buf) {
		grown := make([]byte, need)
		copy(grown, c.buf)
		c.buf = grown
	}
}

// WriteU8 writes one byte, growing the buffer if necessary.
func (c *Cursor) WriteU8(v uint8) {
	c.ensureWritable(1)
	c.buf[c.off] = v
	c.off++
}

// WriteU16 writes a little-endian uint16, growing the buffer if
// necessary.
func (c *Cursor) WriteU16(v uint16) {
	c.ensureWritable(2)
	binary.LittleEndian.PutUint16(c.buf[c.off:], v)
	c.off += 2
}

// WriteU32 writes a little-endian uint32, growing the buffer if
// necessary.
func (c *Cursor) WriteU32(v uint32) {
	c.ensureWritable(4)
	binary.LittleEndian.PutUint32(c.buf[c.off:], v)
	c.off += 4
}

// WriteU64 writes a little-endian uint64, growing the buffer if
// necessary.
func (c *Cursor) WriteU64(v uint64) {
	c.ensureWritable(8)
	binary.LittleEndian.PutUint64(c.buf[c.off:], v)
	c.off += 8
}

// WriteI32 writes a little-endian int32, growing the buffer if
// necessary.
func (c *Cursor) WriteI32(v int32) {
	c.WriteU32(uint32(v))
}

// WriteSectorID writes a little-endian sector id.
func (c *Cursor) WriteSectorID(id SectorID) {
	c.WriteI32(int32(id))
}

// WriteBytes appends raw bytes, growing the buffer if necessary.
func (c *Cursor) WriteBytes(b []byte) {
	c.ensureWritable(len(b))
	copy(c.buf[c.off:], b)
	c.off += len(b)
}

// WriteZeros writes n zero bytes, growing the buffer if necessary.
func (c *Cursor) WriteZeros(n int) {
	c.ensureWritable(n)
	for i := 0; i < n; i++ {
		c.buf[c.off+i] = 0
	}
	c.off += n
}
