package rbtree

// Insert adds key to the tree and returns a handle to the new node. Keys equal
// to an existing key are accepted and placed in its right subtree.
func (tree *Tree) Insert(key Key) Handle {
	nodeIdx := tree.newNode(key)
	alloc := tree.storage()

	parent := sentinel
	cursor := tree.root
	dir := Left

	for cursor != sentinel {
		parent = cursor

		if key < alloc[cursor].key {
			dir = Left
		} else {
			dir = Right
		}

		cursor = alloc[cursor].child[dir]
	}

	alloc[nodeIdx].parent = parent

	if parent == sentinel {
		tree.root = nodeIdx
	} else {
		alloc[parent].child[dir] = nodeIdx
	}

	tree.count++
	tree.stats.Inserts++

	tree.insertFixup(nodeIdx)
	tree.observer.Inserted(key)
	tree.afterMutation("insert")

	return tree.handle(nodeIdx)
}

// classifyInsert picks the rebalancing step for a red nodeIdx.
func (tree *Tree) classifyInsert(nodeIdx uint32) FixupCase {
	alloc := tree.storage()
	parent := alloc[nodeIdx].parent

	// The root's parent is the black sentinel.
	if alloc[parent].color == black {
		return fixupDone
	}

	grandparent := alloc[parent].parent
	side := childDir(parent, alloc)
	uncle := alloc[grandparent].child[side.opposite()]

	switch {
	case alloc[uncle].color == red:
		return InsertRedUncle
	case childDir(nodeIdx, alloc) != side:
		return InsertInner
	default:
		return InsertOuter
	}
}

// insertFixup restores the no-red-red rule upwards from the freshly
// attached red nodeIdx.
func (tree *Tree) insertFixup(nodeIdx uint32) {
	alloc := tree.storage()

fixup:
	for {
		fc := tree.classifyInsert(nodeIdx)
		if fc == fixupDone {
			break
		}

		tree.recordFixup(fc)

		parent := alloc[nodeIdx].parent
		grandparent := alloc[parent].parent
		side := childDir(parent, alloc)

		switch fc {
		case InsertRedUncle:
			alloc[parent].color = black
			alloc[alloc[grandparent].child[side.opposite()]].color = black
			alloc[grandparent].color = red
			nodeIdx = grandparent
		case InsertInner:
			tree.rotate(parent, side)
			nodeIdx = parent
		case InsertOuter:
			alloc[parent].color = black
			alloc[grandparent].color = red
			tree.rotate(grandparent, side.opposite())

			break fixup
		}
	}

	alloc[tree.root].color = black
}
