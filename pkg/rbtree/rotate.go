package rbtree

// rotate moves pivot one level down towards dir and lifts its child on the
// opposite side into its place.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
// The sentinel's parent link is never written here; Delete relies on the
// value transplant stored there.
func (tree *Tree) rotate(pivot uint32, dir Direction) {
	alloc := tree.storage()
	up := dir.opposite()

	child := alloc[pivot].child[up]
	doAssert(child != sentinel)

	inner := alloc[child].child[dir]
	alloc[pivot].child[up] = inner

	if inner != sentinel {
		alloc[inner].parent = pivot
	}

	parent := alloc[pivot].parent
	alloc[child].parent = parent

	if parent == sentinel {
		tree.root = child
	} else {
		alloc[parent].child[childDir(pivot, alloc)] = child
	}

	alloc[child].child[dir] = pivot
	alloc[pivot].parent = child

	tree.stats.Rotations[dir]++
	tree.observer.Rotated(dir)
}

// childDir returns which child slot of its parent nodeIdx occupies.
// Both slots may hold the sentinel, in which case Left wins; callers that pass
// the sentinel must make sure the parent has a real child on the other side.
func childDir(nodeIdx uint32, alloc []node) Direction {
	if alloc[alloc[nodeIdx].parent].child[Left] == nodeIdx {
		return Left
	}

	return Right
}
