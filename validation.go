package cfb

// Validation controls how tolerant header/table parsing is of the
// kind of quirks real-world CFBF writers are known to produce.
// Mirrors asalih/go-mscfb's Validation enum.
type Validation int

const (
	// Permissive tolerates known writer quirks (e.g. FreeSector used
	// in place of EndOfChain for an empty chain start). It is the
	// default, matching how most consumers of legacy .xls files in
	// the wild behave.
	Permissive Validation = iota
	// Strict rejects any header or table field that doesn't exactly
	// match the format's canonical on-disk layout.
	Strict
)

// IsStrict reports whether v is Strict.
func (v Validation) IsStrict() bool {
	return v == Strict
}
