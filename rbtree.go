package cfb

// Each storage (a UserStorage or the RootStorage entry) roots a
// red-black tree over its own children, threaded through every
// child's Left/Right/Color directory-entry fields and ordered by
// CompareNames. Child is the tree's root pointer, stored on the
// storage entry itself. Parent pointers are not persisted on disk —
// they live only in d.parent, rebuilt by a DFS after a document is
// opened (see rebuildTreeIndex in document.go) and maintained
// in-memory thereafter.

func (d *Document) treeRoot(storage DirectoryID) DirectoryID {
	return d.entries[storage].Child
}

func (d *Document) setTreeRoot(storage, v DirectoryID, dirty map[DirectoryID]bool) {
	d.entries[storage].Child = v
	dirty[storage] = true
}

func (d *Document) treeLeft(id DirectoryID) DirectoryID { return d.entries[id].Left }

func (d *Document) setTreeLeft(id, v DirectoryID, dirty map[DirectoryID]bool) {
	d.entries[id].Left = v
	dirty[id] = true
}

func (d *Document) treeRight(id DirectoryID) DirectoryID { return d.entries[id].Right }

func (d *Document) setTreeRight(id, v DirectoryID, dirty map[DirectoryID]bool) {
	d.entries[id].Right = v
	dirty[id] = true
}

func (d *Document) treeColor(id DirectoryID) Color { return d.entries[id].Color }

func (d *Document) setTreeColor(id DirectoryID, c Color, dirty map[DirectoryID]bool) {
	d.entries[id].Color = c
	dirty[id] = true
}

func (d *Document) treeParent(id DirectoryID) DirectoryID { return d.parent[id] }

func (d *Document) setTreeParent(id, v DirectoryID) { d.parent[id] = v }

func (d *Document) treeKey(id DirectoryID) string { return d.entries[id].Name }

// treeRotateLeft is the standard CLRS left rotation of x with its
// right child, within the tree rooted at storage.
func (d *Document) treeRotateLeft(storage, x DirectoryID, dirty map[DirectoryID]bool) {
	y := d.treeRight(x)
	d.setTreeRight(x, d.treeLeft(y), dirty)
	if d.treeLeft(y) != NoStream {
		d.setTreeParent(d.treeLeft(y), x)
	}
	d.setTreeParent(y, d.treeParent(x))

	switch {
	case d.treeParent(x) == NoStream:
		d.setTreeRoot(storage, y, dirty)
	case x == d.treeLeft(d.treeParent(x)):
		d.setTreeLeft(d.treeParent(x), y, dirty)
	default:
		d.setTreeRight(d.treeParent(x), y, dirty)
	}

	d.setTreeLeft(y, x, dirty)
	d.setTreeParent(x, y)
}

// treeRotateRight is the mirror image of treeRotateLeft.
func (d *Document) treeRotateRight(storage, y DirectoryID, dirty map[DirectoryID]bool) {
	x := d.treeLeft(y)
	d.setTreeLeft(y, d.treeRight(x), dirty)
	if d.treeRight(x) != NoStream {
		d.setTreeParent(d.treeRight(x), y)
	}
	d.setTreeParent(x, d.treeParent(y))

	switch {
	case d.treeParent(y) == NoStream:
		d.setTreeRoot(storage, x, dirty)
	case y == d.treeLeft(d.treeParent(y)):
		d.setTreeLeft(d.treeParent(y), x, dirty)
	default:
		d.setTreeRight(d.treeParent(y), x, dirty)
	}

	d.setTreeRight(x, y, dirty)
	d.setTreeParent(y, x)
}

// treeInsertFixup restores the red-black invariants after a plain BST
// insert colored the new node red.
func (d *Document) treeInsertFixup(storage, z DirectoryID, dirty map[DirectoryID]bool) {
	for d.treeParent(z) != NoStream && d.treeColor(d.treeParent(z)) == Red {
		p := d.treeParent(z)
		gp := d.treeParent(p)
		if p == d.treeLeft(gp) {
			y := d.treeRight(gp)
			if y != NoStream && d.treeColor(y) == Red {
				d.setTreeColor(p, Black, dirty)
				d.setTreeColor(y, Black, dirty)
				d.setTreeColor(gp, Red, dirty)
				z = gp
				continue
			}
			if z == d.treeRight(p) {
				z = p
				d.treeRotateLeft(storage, z, dirty)
				p = d.treeParent(z)
				gp = d.treeParent(p)
			}
			d.setTreeColor(p, Black, dirty)
			d.setTreeColor(gp, Red, dirty)
			d.treeRotateRight(storage, gp, dirty)
		} else {
			y := d.treeLeft(gp)
			if y != NoStream && d.treeColor(y) == Red {
				d.setTreeColor(p, Black, dirty)
				d.setTreeColor(y, Black, dirty)
				d.setTreeColor(gp, Red, dirty)
				z = gp
				continue
			}
			if z == d.treeLeft(p) {
				z = p
				d.treeRotateRight(storage, z, dirty)
				p = d.treeParent(z)
				gp = d.treeParent(p)
			}
			d.setTreeColor(p, Black, dirty)
			d.setTreeColor(gp, Red, dirty)
			d.treeRotateLeft(storage, gp, dirty)
		}
	}
	d.setTreeColor(d.treeRoot(storage), Black, dirty)
}

// treeInsert splices newID into storage's child tree, keyed by its
// own (already-set) Name, and restores the red-black invariants.
// dirty collects the directory id of every entry whose Left/Right/
// Child/Color field this call changed, for the caller to persist.
//
// newID == storage is the one case with no actual splicing to do:
// that's how the root storage (directory entry 0) registers itself
// as colored black with no parent, since it is simultaneously the
// storage and the would-be first child of itself.
func (d *Document) treeInsert(newID, storage DirectoryID, dirty map[DirectoryID]bool) {
	d.parentStorage[newID] = storage
	d.setTreeLeft(newID, NoStream, dirty)
	d.setTreeRight(newID, NoStream, dirty)

	root := d.treeRoot(storage)
	if root == NoStream {
		if newID != storage {
			d.setTreeRoot(storage, newID, dirty)
		}
		d.setTreeColor(newID, Black, dirty)
		d.setTreeParent(newID, NoStream)
		return
	}

	x := root
	var y DirectoryID = NoStream
	for x != NoStream {
		y = x
		if CompareNames(d.treeKey(newID), d.treeKey(x)) > 0 {
			x = d.treeRight(x)
		} else {
			x = d.treeLeft(x)
		}
	}
	d.setTreeParent(newID, y)
	if CompareNames(d.treeKey(newID), d.treeKey(y)) > 0 {
		d.setTreeRight(y, newID, dirty)
	} else {
		d.setTreeLeft(y, newID, dirty)
	}

	d.setTreeColor(newID, Red, dirty)
	d.treeInsertFixup(storage, newID, dirty)
}

// lookupChild finds storage's direct child named name, folding case
// the same way the tree itself orders keys.
func (d *Document) lookupChild(storage DirectoryID, name string) (DirectoryID, bool) {
	cur := d.entries[storage].Child
	for cur != NoStream {
		switch cmp := CompareNames(name, d.entries[cur].Name); {
		case cmp == 0:
			return cur, true
		case cmp < 0:
			cur = d.entries[cur].Left
		default:
			cur = d.entries[cur].Right
		}
	}
	return 0, false
}

// treePath reconstructs id's full "/"-separated path by walking
// parentStorage up to the root.
func (d *Document) treePath(id DirectoryID) string {
	var names []string
	cur := id
	for cur > 0 {
		names = append([]string{d.entries[cur].Name}, names...)
		cur = d.parentStorage[cur]
	}
	return PathFromNameChain(names)
}

// persistDirty writes back every directory entry dirty names.
func (d *Document) persistDirty(dirty map[DirectoryID]bool) error {
	for id := range dirty {
		if err := d.writeEntry(id); err != nil {
			return err
		}
	}
	return nil
}
