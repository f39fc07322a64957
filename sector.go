package cfb

import (
	"errors"
	"fmt"
	"io"
)

// sectorOffset returns the absolute byte offset of sector id within
// the backing stream.
func (d *Document) sectorOffset(id SectorID) int64 {
	return int64(HeaderLen) + int64(d.header.SectorSize())*int64(id)
}

func (d *Document) readAt(off int64, n int) ([]byte, error) {
	if d.r == nil {
		return nil, fmt.Errorf("cfb: document is not open for reading: %w", ErrInvariant)
	}
	if _, err := d.r.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("cfb: short read at offset %d: %w", off, ErrTruncatedTable)
		}
		return nil, fmt.Errorf("cfb: reading at offset %d: %w", off, err)
	}
	return buf, nil
}

func (d *Document) writeAt(off int64, data []byte, maxLen int) error {
	if d.w == nil {
		return fmt.Errorf("cfb: document is not open for writing: %w", ErrInvariant)
	}
	if _, err := d.w.Seek(off, io.SeekStart); err != nil {
		return err
	}
	n := len(data)
	if n > maxLen {
		n = maxLen
	}
	_, err := d.w.Write(data[:n])
	return err
}

// readSector returns the full contents of one data sector.
func (d *Document) readSector(id SectorID) ([]byte, error) {
	if !id.IsData() {
		return nil, fmt.Errorf("cfb: cannot read sentinel sector %s: %w", id, ErrInvariant)
	}
	return d.readAt(d.sectorOffset(id), d.header.SectorSize())
}

// writeSector overwrites the full contents of one data sector. data
// longer than a sector is truncated; shorter data leaves the
// remainder of the sector whatever the writer already held there
// (callers that need zero-padding, e.g. freshly allocated or
// partially filled stream sectors, pad before calling).
func (d *Document) writeSector(id SectorID, data []byte) error {
	if !id.IsData() {
		return fmt.Errorf("cfb: cannot write sentinel sector %s: %w", id, ErrInvariant)
	}
	return d.writeAt(d.sectorOffset(id), data, d.header.SectorSize())
}

// shortSectorLocation resolves a short sector id to an absolute byte
// offset inside the mini-stream container, which is the root entry's
// own ordinary sector chain.
func (d *Document) shortSectorLocation(id SectorID) (int64, error) {
	chain, err := d.followChain(d.entries[0].Start, d.sat)
	if err != nil {
		return 0, err
	}
	ratio := d.header.SectorSize() / d.header.ShortSectorSize()
	idx := int(id) / ratio
	if idx >= len(chain) {
		return 0, fmt.Errorf("cfb: short sector %s outside mini-stream container of %d sectors: %w", id, len(chain), ErrInvariant)
	}
	within := (int(id) % ratio) * d.header.ShortSectorSize()
	return d.sectorOffset(chain[idx]) + int64(within), nil
}

// readShortSector returns the contents of one short sector, read
// through the mini-stream container chain.
func (d *Document) readShortSector(id SectorID) ([]byte, error) {
	off, err := d.shortSectorLocation(id)
	if err != nil {
		return nil, err
	}
	return d.readAt(off, d.header.ShortSectorSize())
}

// writeShortSector overwrites one short sector through the
// mini-stream container chain.
func (d *Document) writeShortSector(id SectorID, data []byte) error {
	off, err := d.shortSectorLocation(id)
	if err != nil {
		return err
	}
	return d.writeAt(off, data, d.header.ShortSectorSize())
}

// followChain walks table starting at start, collecting every data
// sector visited until EndOfChain, and fails on a repeated sector
// (table corruption) rather than looping forever.
func (d *Document) followChain(start SectorID, table []SectorID) ([]SectorID, error) {
	var chain []SectorID
	seen := make(map[SectorID]bool)
	cur := start
	for cur.IsData() {
		if seen[cur] {
			return nil, fmt.Errorf("cfb: sector %s revisited while following chain: %w", cur, ErrCycle)
		}
		seen[cur] = true
		if int(cur) >= len(table) {
			return nil, fmt.Errorf("cfb: sector %s outside a table of %d entries: %w", cur, len(table), ErrInvariant)
		}
		chain = append(chain, cur)
		cur = table[cur]
	}
	return chain, nil
}
