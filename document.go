package cfb

import (
	"errors"
	"fmt"
	"io"
)

// Document is an open Compound File Binary Format container: the
// header, the three allocation tables (MSAT/SAT/SSAT), and the full
// directory, all held in memory and kept in sync with the backing
// stream as they're modified.
//
// A Document opened with Open is read-only; one created with Create
// is write-only. Both shapes share every allocator/directory/tree
// method below, which is why the backing streams are two separate,
// possibly-nil fields rather than one io.ReadWriteSeeker.
type Document struct {
	r io.ReadSeeker
	w io.WriteSeeker

	validation Validation
	header     *Header

	msat               []SectorID
	msatExtensionChain []SectorID
	sat                []SectorID
	ssat               []SectorID

	entries       []*DirEntry
	parent        []DirectoryID
	parentStorage []DirectoryID
}

// Option configures a Document at construction.
type Option func(*Document)

// WithValidation selects Strict or Permissive header/table checking.
// The default is Permissive.
func WithValidation(v Validation) Option {
	return func(d *Document) { d.validation = v }
}

// Open parses an existing CFBF document for reading.
func Open(r io.ReadSeeker, opts ...Option) (*Document, error) {
	d := &Document{r: r, validation: Permissive}
	for _, opt := range opts {
		opt(d)
	}

	hdrBuf, err := d.readAt(0, HeaderLen)
	if err != nil {
		return nil, fmt.Errorf("cfb: reading header: %w", err)
	}
	h := &Header{}
	if err := h.Decode(hdrBuf, d.validation); err != nil {
		return nil, err
	}
	d.header = h

	if err := d.readMSAT(); err != nil {
		return nil, err
	}
	if err := d.readSAT(); err != nil {
		return nil, err
	}
	if err := d.readDirectory(); err != nil {
		return nil, err
	}
	if err := d.readSSAT(); err != nil {
		return nil, err
	}

	d.rebuildTreeIndex()

	return d, nil
}

// Create initializes a fresh, empty CFBF document for writing: an
// empty root storage with no children, ready to accept OpenWriteStream
// calls.
func Create(w io.WriteSeeker, opts ...Option) (*Document, error) {
	d := &Document{w: w, validation: Permissive}
	for _, opt := range opts {
		opt(d)
	}
	d.header = NewHeader()

	if err := d.writeHeader(); err != nil {
		return nil, err
	}
	if err := d.bootstrapRoot(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) writeHeader() error {
	return d.writeAt(0, d.header.Encode(), HeaderLen)
}

// bootstrapRoot creates directory entry 0, the root storage, and
// registers it with the RB-tree machinery as its own storage.
func (d *Document) bootstrapRoot() error {
	id, err := d.nextEmptyEntry()
	if err != nil {
		return err
	}
	if id != 0 {
		return fmt.Errorf("cfb: root storage must be directory entry 0, got %d: %w", id, ErrInvariant)
	}

	entry := d.entries[id]
	entry.Name = rootEntryName
	entry.Type = RootStorage
	entry.Start = EndOfChain
	if err := d.writeEntry(id); err != nil {
		return err
	}

	dirty := map[DirectoryID]bool{}
	d.treeInsert(id, id, dirty)
	return d.persistDirty(dirty)
}

// rebuildTreeIndex rebuilds the in-memory parent/parentStorage side
// tables by a depth-first walk of every storage's child tree,
// starting from the root. These relationships are never stored on
// disk, only derivable from Left/Right/Child.
func (d *Document) rebuildTreeIndex() {
	n := len(d.entries)
	d.parent = make([]DirectoryID, n)
	d.parentStorage = make([]DirectoryID, n)
	for i := range d.parent {
		d.parent[i] = NoStream
		d.parentStorage[i] = NoStream
	}

	storageStack := []DirectoryID{0}
	for len(storageStack) > 0 {
		storageID := storageStack[len(storageStack)-1]
		storageStack = storageStack[:len(storageStack)-1]

		root := d.entries[storageID].Child
		if root == NoStream {
			continue
		}

		nodeStack := []DirectoryID{root}
		d.parent[root] = NoStream
		for len(nodeStack) > 0 {
			id := nodeStack[len(nodeStack)-1]
			nodeStack = nodeStack[:len(nodeStack)-1]

			d.parentStorage[id] = storageID
			if d.entries[id].Type == UserStorage {
				storageStack = append(storageStack, id)
			}

			if left := d.entries[id].Left; left != NoStream {
				d.parent[left] = id
				nodeStack = append(nodeStack, left)
			}
			if right := d.entries[id].Right; right != NoStream {
				d.parent[right] = id
				nodeStack = append(nodeStack, right)
			}
		}
	}
}

// findEntry resolves p to a directory id, requiring the final
// component to have type t.
func (d *Document) findEntry(p string, t ObjectType) (DirectoryID, error) {
	names := NameChainFromPath(p)
	if len(names) == 0 {
		if t == RootStorage {
			return 0, nil
		}
		return 0, fmt.Errorf("cfb: %q: %w", p, ErrNotFound)
	}

	parent := DirectoryID(0)
	for i, name := range names {
		child, ok := d.lookupChild(parent, name)
		if !ok {
			return 0, fmt.Errorf("cfb: %q: %w", p, ErrNotFound)
		}
		if i == len(names)-1 {
			if d.entries[child].Type != t {
				return 0, fmt.Errorf("cfb: %q is not a %v: %w", p, t, ErrNotFound)
			}
			return child, nil
		}
		parent = child
	}
	return 0, fmt.Errorf("cfb: %q: %w", p, ErrNotFound)
}

// insertEntry creates the entry named by the final component of p,
// with type t, creating any missing intermediate storages along the
// way as plain UserStorage entries.
func (d *Document) insertEntry(p string, t ObjectType) (DirectoryID, error) {
	names := NameChainFromPath(p)
	if len(names) == 0 {
		return 0, fmt.Errorf("cfb: invalid path %q: %w", p, ErrNaming)
	}

	parent := DirectoryID(0)
	for i, name := range names {
		isLeaf := i == len(names)-1

		if err := ValidateName(name); err != nil {
			return 0, err
		}

		if child, ok := d.lookupChild(parent, name); ok {
			if isLeaf {
				return 0, fmt.Errorf("cfb: %q already exists: %w", p, ErrNaming)
			}
			if d.entries[child].Type != UserStorage && d.entries[child].Type != RootStorage {
				return 0, fmt.Errorf("cfb: %q is not a storage: %w", p, ErrNotFound)
			}
			parent = child
			continue
		}

		entryType := UserStorage
		if isLeaf {
			entryType = t
		}
		newID, err := d.createEntry(name, entryType, parent)
		if err != nil {
			return 0, err
		}
		parent = newID
	}
	return parent, nil
}

func (d *Document) createEntry(name string, t ObjectType, parentStorage DirectoryID) (DirectoryID, error) {
	id, err := d.nextEmptyEntry()
	if err != nil {
		return 0, err
	}

	entry := d.entries[id]
	entry.Name = name
	entry.Type = t
	entry.Start = EndOfChain
	if err := d.writeEntry(id); err != nil {
		return 0, err
	}

	dirty := map[DirectoryID]bool{}
	d.treeInsert(id, parentStorage, dirty)
	if err := d.persistDirty(dirty); err != nil {
		return 0, err
	}

	return id, nil
}

// Contains reports whether p names an entry of type t.
func (d *Document) Contains(p string, t ObjectType) bool {
	_, err := d.findEntry(p, t)
	return err == nil
}

// Walk calls fn once for every stream in the document, in directory
// order (not tree order), with its full path.
func (d *Document) Walk(fn func(path string, entry *DirEntry) error) error {
	for id, e := range d.entries {
		if e.Type != UserStream {
			continue
		}
		if err := fn(d.treePath(DirectoryID(id)), e); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the Document's in-memory tables. Every mutation is
// already persisted eagerly by the allocator and directory methods,
// so there is nothing left to flush.
func (d *Document) Close() error {
	d.entries = nil
	d.sat = nil
	d.ssat = nil
	d.msat = nil
	d.msatExtensionChain = nil
	d.parent = nil
	d.parentStorage = nil
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
