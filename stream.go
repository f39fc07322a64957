package cfb

import (
	"bytes"
	"fmt"
	"io"
)

// readStreamData materializes an entry's full contents in memory,
// choosing the mini-stream or the ordinary sector chain by size
// exactly as open_write_stream decided when the data was written.
func (d *Document) readStreamData(entry *DirEntry) ([]byte, error) {
	if entry.Size == 0 {
		return nil, nil
	}
	if entry.Size < uint64(d.header.MiniCutoff) {
		return d.readMiniStreamData(entry.Start, entry.Size)
	}
	return d.readFullStreamData(entry.Start, entry.Size)
}

func (d *Document) readFullStreamData(start SectorID, size uint64) ([]byte, error) {
	chain, err := d.followChain(start, d.sat)
	if err != nil {
		return nil, err
	}
	needed := ceilDiv(size, uint64(d.header.SectorSize()))
	if uint64(len(chain)) < needed {
		return nil, fmt.Errorf("cfb: stream chain has %d sectors, needs %d for %d bytes: %w", len(chain), needed, size, ErrTruncatedTable)
	}
	buf := make([]byte, 0, len(chain)*d.header.SectorSize())
	for _, id := range chain {
		sec, err := d.readSector(id)
		if err != nil {
			return nil, err
		}
		buf = append(buf, sec...)
	}
	return buf[:size], nil
}

func (d *Document) readMiniStreamData(start SectorID, size uint64) ([]byte, error) {
	chain, err := d.followChain(start, d.ssat)
	if err != nil {
		return nil, err
	}
	needed := ceilDiv(size, uint64(d.header.ShortSectorSize()))
	if uint64(len(chain)) < needed {
		return nil, fmt.Errorf("cfb: mini-stream chain has %d short sectors, needs %d for %d bytes: %w", len(chain), needed, size, ErrTruncatedTable)
	}
	buf := make([]byte, 0, len(chain)*d.header.ShortSectorSize())
	for _, id := range chain {
		sec, err := d.readShortSector(id)
		if err != nil {
			return nil, err
		}
		buf = append(buf, sec...)
	}
	return buf[:size], nil
}

// OpenReadStream returns the full contents of the stream at p. The
// returned Reader is backed by an in-memory copy; there is no partial
// read path, since a stream small enough to live in a CFBF document
// is small enough to materialize wholesale.
func (d *Document) OpenReadStream(p string) (io.Reader, error) {
	id, err := d.findEntry(p, UserStream)
	if err != nil {
		return nil, err
	}
	data, err := d.readStreamData(d.entries[id])
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// writeStreamHandle buffers writes until Close, at which point the
// final length decides whether the payload lands in the mini-stream
// or in ordinary sectors.
type writeStreamHandle struct {
	doc *Document
	id  DirectoryID
	buf bytes.Buffer
}

func (h *writeStreamHandle) Write(p []byte) (int, error) { return h.buf.Write(p) }

func (h *writeStreamHandle) Close() error {
	return h.doc.commitStream(h.id, h.buf.Bytes())
}

// OpenWriteStream returns a handle that buffers the stream's contents
// and commits them to the document on Close. If p doesn't already
// name a stream, one (and any missing intermediate storages) is
// created immediately; its data isn't allocated until Close, once the
// final size is known. A p whose final name matches an existing
// stream's only after case folding is a naming collision and fails
// with ErrNaming.
func (d *Document) OpenWriteStream(p string) (io.WriteCloser, error) {
	id, err := d.findEntry(p, UserStream)
	if err == nil {
		names := NameChainFromPath(p)
		if existing := d.entries[id].Name; existing != names[len(names)-1] {
			return nil, fmt.Errorf("cfb: %q collides with existing stream %q: %w", p, existing, ErrNaming)
		}
	}
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		id, err = d.insertEntry(p, UserStream)
		if err != nil {
			return nil, err
		}
	}
	return &writeStreamHandle{doc: d, id: id}, nil
}

// commitStream writes data into the entry's chain (mini or full,
// chosen by len(data) against the mini-stream cutoff) and updates its
// size on disk.
func (d *Document) commitStream(id DirectoryID, data []byte) error {
	entry := d.entries[id]
	size := uint64(len(data))

	if size < uint64(d.header.MiniCutoff) {
		if err := d.writeMiniStreamData(entry, data); err != nil {
			return err
		}
	} else {
		if err := d.writeFullStreamData(entry, data); err != nil {
			return err
		}
	}

	entry.Size = size
	return d.writeEntry(id)
}

func (d *Document) writeFullStreamData(entry *DirEntry, data []byte) error {
	sectorSize := d.header.SectorSize()
	count := int(ceilDiv(uint64(len(data)), uint64(sectorSize)))
	chain, err := d.allocateChain(count)
	if err != nil {
		return err
	}
	entry.Start = EndOfChain
	if len(chain) > 0 {
		entry.Start = chain[0]
	}
	for i, id := range chain {
		lo := i * sectorSize
		hi := lo + sectorSize
		if hi > len(data) {
			hi = len(data)
		}
		payload := make([]byte, sectorSize)
		copy(payload, data[lo:hi])
		if err := d.writeSector(id, payload); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) writeMiniStreamData(entry *DirEntry, data []byte) error {
	shortSize := d.header.ShortSectorSize()
	count := int(ceilDiv(uint64(len(data)), uint64(shortSize)))
	chain, err := d.allocateShortChain(count)
	if err != nil {
		return err
	}
	entry.Start = EndOfChain
	if len(chain) > 0 {
		entry.Start = chain[0]
	}
	for i, id := range chain {
		lo := i * shortSize
		hi := lo + shortSize
		if hi > len(data) {
			hi = len(data)
		}
		payload := make([]byte, shortSize)
		copy(payload, data[lo:hi])
		if err := d.writeShortSector(id, payload); err != nil {
			return err
		}
	}
	return nil
}
