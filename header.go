package cfb

import "fmt"

// Header is the 512-byte record at the start of every CFBF document:
// magic, version, sector geometry, and the locations of the
// directory chain, SSAT chain, and the inline+extension MSAT.
//
// ClassID and Reserved are opaque and preserved verbatim on
// round-trip so a read-modify-write cycle of an existing file doesn't
// clobber them; a freshly constructed Header zero-initializes both.
type Header struct {
	ClassID                [16]byte
	SectorSizePower        uint16
	ShortSectorSizePower   uint16
	Reserved               [6]byte
	NumDirectorySectors    uint32 // always 0 for v3, kept for round-trip fidelity
	NumSATSectors          uint32
	DirectoryStart         SectorID
	MiniCutoff             uint32
	SSATStart              SectorID
	NumShortSectors        uint32
	ExtraMSATStart         SectorID
	NumMSATSectors         uint32
	InlineMSAT             [NumInlineMSATEntries]SectorID
}

// NewHeader returns the header for a freshly created document: an
// empty MSAT/SAT/SSAT/directory, all reserved fields zeroed.
func NewHeader() *Header {
	h := &Header{
		SectorSizePower:      SectorSizePower,
		ShortSectorSizePower: ShortSectorSizePower,
		DirectoryStart:       EndOfChain,
		MiniCutoff:           DefaultMiniCutoff,
		SSATStart:            EndOfChain,
		ExtraMSATStart:       EndOfChain,
	}
	for i := range h.InlineMSAT {
		h.InlineMSAT[i] = Free
	}
	return h
}

// SectorSize returns 2^SectorSizePower.
func (h *Header) SectorSize() int { return 1 << h.SectorSizePower }

// ShortSectorSize returns 2^ShortSectorSizePower.
func (h *Header) ShortSectorSize() int { return 1 << h.ShortSectorSizePower }

// Decode parses a 512-byte header record. Validation beyond the
// magic/version/BOM/sector-shift checks (which are always enforced)
// depends on v: Strict rejects any structural inconsistency, while
// Permissive tolerates the handful of quirks real-world writers are
// known to produce (see the FreeSector-as-EndOfChain accommodation
// below).
func (h *Header) Decode(buf []byte, v Validation) error {
	if len(buf) < HeaderLen {
		return fmt.Errorf("cfb: header is %d bytes, need %d: %w", len(buf), HeaderLen, ErrTruncatedTable)
	}

	c := NewCursor(buf)

	magic, _ := c.ReadBytes(8)
	for i, b := range magic {
		if b != MagicNumber[i] {
			return fmt.Errorf("cfb: %w", ErrBadMagic)
		}
	}

	classID, _ := c.ReadBytes(16)
	copy(h.ClassID[:], classID)

	minor, _ := c.ReadU16()
	major, _ := c.ReadU16()
	if major != majorVersion3 {
		return fmt.Errorf("cfb: major version 0x%04x: %w", major, ErrUnsupportedVersion)
	}
	if v.IsStrict() && minor != minorVersion {
		return fmt.Errorf("cfb: minor version 0x%04x: %w", minor, ErrMalformedHeader)
	}

	bom, _ := c.ReadU16()
	if bom != byteOrderMark {
		return fmt.Errorf("cfb: byte order mark 0x%04x: %w", bom, ErrMalformedHeader)
	}

	h.SectorSizePower, _ = c.ReadU16()
	if h.SectorSizePower != SectorSizePower {
		return fmt.Errorf("cfb: sector size power %d: %w", h.SectorSizePower, ErrMalformedHeader)
	}

	h.ShortSectorSizePower, _ = c.ReadU16()
	if h.ShortSectorSizePower != ShortSectorSizePower {
		return fmt.Errorf("cfb: short sector size power %d: %w", h.ShortSectorSizePower, ErrMalformedHeader)
	}

	reserved, _ := c.ReadBytes(6)
	copy(h.Reserved[:], reserved)

	h.NumDirectorySectors, _ = c.ReadU32()
	if v.IsStrict() && h.NumDirectorySectors != 0 {
		return fmt.Errorf("cfb: v3 directory sector count must be 0: %w", ErrMalformedHeader)
	}

	h.NumSATSectors, _ = c.ReadU32()
	h.DirectoryStart, _ = c.ReadSectorID()

	if _, err := c.ReadU32(); err != nil { // transaction signature, ignored
		return err
	}

	h.MiniCutoff, _ = c.ReadU32()

	h.SSATStart, _ = c.ReadSectorID()
	// Some CFB writers use FreeSector where they mean EndOfChain for
	// an empty SSAT chain; only Permissive accepts that.
	if h.SSATStart == Free {
		if v.IsStrict() {
			return fmt.Errorf("cfb: SSAT start is FREE, not END_OF_CHAIN: %w", ErrMalformedHeader)
		}
		h.SSATStart = EndOfChain
	}

	h.NumShortSectors, _ = c.ReadU32()
	h.ExtraMSATStart, _ = c.ReadSectorID()
	if h.ExtraMSATStart == Free {
		if v.IsStrict() {
			return fmt.Errorf("cfb: extra MSAT start is FREE, not END_OF_CHAIN: %w", ErrMalformedHeader)
		}
		h.ExtraMSATStart = EndOfChain
	}

	h.NumMSATSectors, _ = c.ReadU32()

	for i := range h.InlineMSAT {
		id, err := c.ReadSectorID()
		if err != nil {
			return err
		}
		h.InlineMSAT[i] = id
	}

	return nil
}

// Encode serializes the header to a fresh 512-byte buffer.
func (h *Header) Encode() []byte {
	c := NewCursor(make([]byte, 0, HeaderLen))

	c.WriteBytes(MagicNumber[:])
	c.WriteBytes(h.ClassID[:])
	c.WriteU16(minorVersion)
	c.WriteU16(majorVersion3)
	c.WriteU16(byteOrderMark)
	c.WriteU16(SectorSizePower)
	c.WriteU16(ShortSectorSizePower)
	c.WriteBytes(h.Reserved[:])
	c.WriteU32(h.NumDirectorySectors)
	c.WriteU32(h.NumSATSectors)
	c.WriteSectorID(h.DirectoryStart)
	c.WriteU32(0) // transaction signature, always 0
	c.WriteU32(h.MiniCutoff)
	c.WriteSectorID(h.SSATStart)
	c.WriteU32(h.NumShortSectors)
	c.WriteSectorID(h.ExtraMSATStart)
	c.WriteU32(h.NumMSATSectors)

	for _, id := range h.InlineMSAT {
		c.WriteSectorID(id)
	}

	return c.Bytes()
}
