package cfb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// newTestStorage builds a bare in-memory Document with one storage
// entry (id 0) ready to receive children via treeInsert, with no
// backing stream — these tests exercise the tree algorithms directly,
// not persistence.
func newTestStorage() *Document {
	d := &Document{}
	d.entries = []*DirEntry{NewDirEntry(rootEntryName, RootStorage)}
	d.parent = []DirectoryID{NoStream}
	d.parentStorage = []DirectoryID{NoStream}
	return d
}

func (d *Document) insertName(name string) DirectoryID {
	e := NewDirEntry(name, UserStream)
	id := DirectoryID(len(d.entries))
	d.entries = append(d.entries, e)
	d.parent = append(d.parent, NoStream)
	d.parentStorage = append(d.parentStorage, NoStream)
	d.treeInsert(id, 0, map[DirectoryID]bool{})
	return id
}

func TestTreeInsertPreservesBSTOrder(t *testing.T) {
	d := newTestStorage()
	names := []string{"Workbook", "SummaryInformation", "DocumentSummaryInformation", "Data", "CompObj", "ObjectPool"}
	for _, n := range names {
		d.insertName(n)
	}

	var inOrder []string
	var walk func(id DirectoryID)
	walk = func(id DirectoryID) {
		if id == NoStream {
			return
		}
		walk(d.entries[id].Left)
		inOrder = append(inOrder, d.entries[id].Name)
		walk(d.entries[id].Right)
	}
	walk(d.treeRoot(0))

	for i := 1; i < len(inOrder); i++ {
		require.LessOrEqual(t, CompareNames(inOrder[i-1], inOrder[i]), 0, "in-order traversal must be sorted by folded name")
	}
	require.Len(t, inOrder, len(names))
}

func TestTreeInsertLookupFindsEveryChild(t *testing.T) {
	d := newTestStorage()
	names := []string{"Workbook", "SummaryInformation", "DocumentSummaryInformation", "Data", "CompObj", "ObjectPool", "Book", "Zebra"}
	for _, n := range names {
		d.insertName(n)
	}

	for _, n := range names {
		_, ok := d.lookupChild(0, n)
		require.True(t, ok, "expected to find %q", n)
	}
	_, ok := d.lookupChild(0, "Nonexistent")
	require.False(t, ok)
}

func TestTreeInsertRootIsAlwaysBlack(t *testing.T) {
	d := newTestStorage()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	for _, n := range names {
		d.insertName(n)
		require.Equal(t, Black, d.entries[d.treeRoot(0)].Color)
	}
}

func TestTreeInsertNoRedRedViolation(t *testing.T) {
	d := newTestStorage()
	names := []string{"m", "c", "s", "a", "e", "p", "x", "b", "d", "n", "r", "v", "z"}
	for _, n := range names {
		d.insertName(n)
	}

	var check func(id DirectoryID) bool
	check = func(id DirectoryID) bool {
		if id == NoStream {
			return true
		}
		if d.entries[id].Color == Red {
			for _, child := range []DirectoryID{d.entries[id].Left, d.entries[id].Right} {
				if child != NoStream && d.entries[child].Color == Red {
					return false
				}
			}
		}
		return check(d.entries[id].Left) && check(d.entries[id].Right)
	}
	require.True(t, check(d.treeRoot(0)))
}

func TestTreeInsertBlackHeightBalanced(t *testing.T) {
	d := newTestStorage()
	for _, n := range []string{"m", "c", "s", "a", "e", "p", "x", "b", "d", "n", "r", "v", "z", "f", "g"} {
		d.insertName(n)
	}

	var blackHeight func(id DirectoryID) (int, bool)
	blackHeight = func(id DirectoryID) (int, bool) {
		if id == NoStream {
			return 1, true
		}
		lh, lok := blackHeight(d.entries[id].Left)
		rh, rok := blackHeight(d.entries[id].Right)
		if !lok || !rok || lh != rh {
			return 0, false
		}
		if d.entries[id].Color == Black {
			return lh + 1, true
		}
		return lh, true
	}

	_, ok := blackHeight(d.treeRoot(0))
	require.True(t, ok, "every path from root to leaf must carry the same number of black nodes")
}
