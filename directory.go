package cfb

import "fmt"

// entriesPerSector is how many fixed-size directory records fit in
// one sector.
func (d *Document) entriesPerSector() int {
	return d.header.SectorSize() / DirEntryLen
}

// directoryChain follows the directory's own sector chain.
func (d *Document) directoryChain() ([]SectorID, error) {
	return d.followChain(d.header.DirectoryStart, d.sat)
}

// readDirectory loads every directory entry record from the
// directory chain. Entry 0 must be the root storage; everything else
// about tree shape is reconstructed afterward by rebuildTreeIndex.
func (d *Document) readDirectory() error {
	chain, err := d.directoryChain()
	if err != nil {
		return err
	}
	perSector := d.entriesPerSector()
	entries := make([]*DirEntry, 0, len(chain)*perSector)
	for _, sectorID := range chain {
		buf, err := d.readSector(sectorID)
		if err != nil {
			return err
		}
		for i := 0; i < perSector; i++ {
			rec := buf[i*DirEntryLen : (i+1)*DirEntryLen]
			entry, err := DecodeDirEntry(rec)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
	}
	if len(entries) == 0 || entries[0].Type != RootStorage {
		return fmt.Errorf("cfb: directory entry 0 is not the root storage: %w", ErrInvariant)
	}
	d.entries = entries
	return nil
}

// writeEntry persists one directory entry back to its slot in the
// directory chain.
func (d *Document) writeEntry(id DirectoryID) error {
	chain, err := d.directoryChain()
	if err != nil {
		return err
	}
	perSector := d.entriesPerSector()
	sectorIdx := int(id) / perSector
	if sectorIdx >= len(chain) {
		return fmt.Errorf("cfb: directory id %d outside a %d-sector directory chain: %w", id, len(chain), ErrInvariant)
	}
	offsetInSector := (int(id) % perSector) * DirEntryLen

	buf, err := d.entries[id].Encode()
	if err != nil {
		return err
	}

	off := d.sectorOffset(chain[sectorIdx]) + int64(offsetInSector)
	return d.writeAt(off, buf, DirEntryLen)
}

// nextEmptyEntry returns the id of a directory slot ready to hold a
// new entry: the first Empty-typed record if one exists, otherwise a
// freshly allocated directory sector's worth of new Empty slots,
// spliced onto the tail of the directory chain (or installed as its
// head, for the very first directory sector).
func (d *Document) nextEmptyEntry() (DirectoryID, error) {
	for i, e := range d.entries {
		if e.Type == Empty {
			return DirectoryID(i), nil
		}
	}

	firstNew := DirectoryID(len(d.entries))

	newSector, err := d.allocateSector()
	if err != nil {
		return 0, err
	}

	if !d.header.DirectoryStart.IsData() {
		d.header.DirectoryStart = newSector
		if err := d.writeHeader(); err != nil {
			return 0, err
		}
	} else {
		chain, err := d.directoryChain()
		if err != nil {
			return 0, err
		}
		d.sat[chain[len(chain)-1]] = newSector
		if err := d.writeSAT(); err != nil {
			return 0, err
		}
	}

	perSector := d.entriesPerSector()
	for i := 0; i < perSector; i++ {
		d.entries = append(d.entries, NewDirEntry("", Empty))
		d.parent = append(d.parent, NoStream)
		d.parentStorage = append(d.parentStorage, NoStream)
		if err := d.writeEntry(DirectoryID(len(d.entries) - 1)); err != nil {
			return 0, err
		}
	}

	return firstNew, nil
}
