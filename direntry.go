package cfb

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
)

// ObjectType is the kind of object a directory entry describes.
type ObjectType uint8

const (
	Empty ObjectType = iota
	UserStorage
	UserStream
	LockBytes
	Property
	RootStorage
)

func (t ObjectType) onDisk() uint8 { return uint8(t) }

func objectTypeFromDisk(b uint8) (ObjectType, error) {
	if b > uint8(RootStorage) {
		return 0, fmt.Errorf("cfb: object type %d: %w", b, ErrInvariant)
	}
	return ObjectType(b), nil
}

// Color is the red-black tree node color of a directory entry.
type Color uint8

const (
	Red Color = iota
	Black
)

func (c Color) onDisk() uint8 { return uint8(c) }

func colorFromDisk(b uint8) Color {
	if b == uint8(Red) {
		return Red
	}
	return Black
}

// nameCodec encodes/decodes the UTF-16LE name field. Names are
// case-preserved on disk; only lookups fold case (see rbtree.go).
var nameCodec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DirEntry is one 128-byte directory entry record. It doubles as the
// red-black tree node for its containing storage: Left, Right, and
// Color are the tree's own pointers/color, and Child is the root of
// the RB-tree of this entry's children (meaningful only when Type is
// UserStorage or RootStorage).
type DirEntry struct {
	Name  string
	Type  ObjectType
	Color Color

	Left  DirectoryID
	Right DirectoryID
	Child DirectoryID

	CLSID        uuid.UUID
	StateBits    uint32
	CreationTime uint64
	ModifiedTime uint64

	Start SectorID
	Size  uint64
}

// NewDirEntry returns a zeroed entry of the given type and name, with
// siblings/child cleared and color black (new nodes are colored red
// by treeInsert, not here; an entry not yet spliced into a
// tree has no meaningful color). Start is EndOfChain: a plain
// UserStorage owns no sector chain of its own, and the root's
// mini-stream container start is only ever allocated lazily, on the
// root entry specifically, by allocateShortSector.
func NewDirEntry(name string, t ObjectType) *DirEntry {
	return &DirEntry{
		Name:  name,
		Type:  t,
		Color: Black,
		Left:  NoStream,
		Right: NoStream,
		Child: NoStream,
		Start: EndOfChain,
	}
}

// Encode serializes the entry to a fresh 128-byte buffer.
func (e *DirEntry) Encode() ([]byte, error) {
	utf16Bytes, err := nameCodec.NewEncoder().Bytes([]byte(e.Name))
	if err != nil {
		return nil, fmt.Errorf("cfb: encoding name %q: %w", e.Name, err)
	}
	if len(utf16Bytes) > MaxNameLen*2 {
		return nil, fmt.Errorf("cfb: name %q exceeds %d UTF-16 units: %w", e.Name, MaxNameLen, ErrNaming)
	}

	c := NewCursor(make([]byte, 0, DirEntryLen))
	nameField := make([]byte, (MaxNameLen+1)*2)
	copy(nameField, utf16Bytes)
	c.WriteBytes(nameField)

	nameLen := uint16(0)
	if e.Name != "" {
		nameLen = uint16(len(utf16Bytes) + 2) // + UTF-16 terminator
	}
	c.WriteU16(nameLen)
	c.WriteU8(e.Type.onDisk())
	c.WriteU8(e.Color.onDisk())
	c.WriteI32(int32(e.Left))
	c.WriteI32(int32(e.Right))
	c.WriteI32(int32(e.Child))
	c.WriteBytes(e.CLSID[:])
	c.WriteU32(e.StateBits)
	c.WriteU64(e.CreationTime)
	c.WriteU64(e.ModifiedTime)
	c.WriteSectorID(e.Start)
	c.WriteU32(uint32(e.Size))
	c.WriteU32(uint32(e.Size >> 32))

	return c.Bytes(), nil
}

// DecodeDirEntry parses one 128-byte directory entry record.
func DecodeDirEntry(buf []byte) (*DirEntry, error) {
	if len(buf) < DirEntryLen {
		return nil, fmt.Errorf("cfb: entry record is %d bytes, need %d: %w", len(buf), DirEntryLen, ErrTruncatedTable)
	}

	c := NewCursor(buf)
	nameField, _ := c.ReadBytes((MaxNameLen + 1) * 2)
	nameLen, _ := c.ReadU16()

	e := &DirEntry{}

	if nameLen >= 2 {
		trimmed := nameField[:nameLen-2]
		decoded, err := nameCodec.NewDecoder().Bytes(trimmed)
		if err != nil {
			return nil, fmt.Errorf("cfb: decoding name: %w", err)
		}
		e.Name = string(decoded)
	}

	typeByte, _ := c.ReadU8()
	t, err := objectTypeFromDisk(typeByte)
	if err != nil {
		return nil, err
	}
	e.Type = t

	colorByte, _ := c.ReadU8()
	e.Color = colorFromDisk(colorByte)

	left, _ := c.ReadI32()
	right, _ := c.ReadI32()
	child, _ := c.ReadI32()
	e.Left = DirectoryID(left)
	e.Right = DirectoryID(right)
	e.Child = DirectoryID(child)

	clsid, _ := c.ReadBytes(16)
	copy(e.CLSID[:], clsid)

	e.StateBits, _ = c.ReadU32()
	e.CreationTime, _ = c.ReadU64()
	e.ModifiedTime, _ = c.ReadU64()
	e.Start, _ = c.ReadSectorID()

	sizeLow, _ := c.ReadU32()
	sizeHigh, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	e.Size = uint64(sizeHigh)<<32 | uint64(sizeLow)

	return e, nil
}
