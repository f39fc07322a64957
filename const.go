package cfb

// Package-wide constants describing the on-disk shape of a Compound
// File Binary Format (CFBF) v3 document: header layout, directory
// entry layout, and the handful of magic numbers a parser has to
// check against.

const (
	// HeaderLen is the fixed size, in bytes, of the CFBF header.
	HeaderLen = 512

	// DirEntryLen is the fixed size, in bytes, of one directory entry
	// record.
	DirEntryLen = 128

	// NumInlineMSATEntries is the number of MSAT slots carried inline
	// in the header before the extension chain takes over.
	NumInlineMSATEntries = 109

	// MaxNameLen is the maximum number of UTF-16 code units a name may
	// contain, not counting the terminator.
	MaxNameLen = 31

	// SectorSizePower and ShortSectorSizePower are the only values a
	// v3 document ever uses (512-byte sectors, 64-byte short sectors).
	SectorSizePower      = 9
	ShortSectorSizePower = 6

	// DefaultMiniCutoff is the stream-size threshold below which a
	// stream is packed into the mini-stream instead of full sectors.
	DefaultMiniCutoff = 4096

	majorVersion3 uint16 = 0x0003
	minorVersion  uint16 = 0x003e
	byteOrderMark uint16 = 0xfffe
)

// MagicNumber is the 8-byte signature every CFBF file begins with.
var MagicNumber = [8]byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1, 0x1a, 0xe1}

// rootEntryName is the fixed name of directory entry 0.
const rootEntryName = "Root Entry"
