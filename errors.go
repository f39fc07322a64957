package cfb

import "errors"

// Sentinel errors identifying the error kinds this engine reports.
// Concrete errors returned by the package wrap one of these with
// fmt.Errorf("...: %w", ...) so callers can classify failures with
// errors.Is without depending on message text.
var (
	// ErrBadMagic means the first 8 bytes of the stream are not the
	// CFBF magic number.
	ErrBadMagic = errors.New("cfb: bad magic number")

	// ErrUnsupportedVersion means the header declares a major version
	// other than 3.
	ErrUnsupportedVersion = errors.New("cfb: unsupported version")

	// ErrMalformedHeader means a header field failed a structural
	// check other than magic/major version (bad byte-order mark, bad
	// sector shift; where strict validation is on, also a non-canonical
	// minor version, a non-zero directory sector count, a FREE chain
	// start, or an MSAT whose length disagrees with the SAT sector
	// count).
	ErrMalformedHeader = errors.New("cfb: malformed header")

	// ErrTruncatedTable means a table (MSAT/SAT/SSAT/directory) ended
	// before its declared length, or the backing stream ended before
	// a full sector could be read.
	ErrTruncatedTable = errors.New("cfb: truncated allocation table")

	// ErrCycle means following a sector chain revisited a sector
	// instead of terminating at EndOfChain.
	ErrCycle = errors.New("cfb: cycle in sector chain")

	// ErrNaming means an insert violated the naming invariant: a
	// duplicate case-folded name within a storage, or a name longer
	// than MaxNameLen UTF-16 units.
	ErrNaming = errors.New("cfb: naming violation")

	// ErrNotFound means open_read_stream (or a lookup) named an entry
	// that doesn't exist, or exists with the wrong type.
	ErrNotFound = errors.New("cfb: entry not found")

	// ErrInvariant means an internal consistency check failed after a
	// successful parse — a state that should be structurally
	// impossible and is therefore fatal rather than recoverable.
	ErrInvariant = errors.New("cfb: invariant violation")
)
