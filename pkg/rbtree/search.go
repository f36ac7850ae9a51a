package rbtree

// Find returns a node whose key equals key. With duplicate keys the one
// closest to the root is returned.
func (tree *Tree) Find(key Key) (Handle, bool) {
	nodeIdx := tree.find(key)
	if nodeIdx == sentinel {
		return Handle{}, false
	}

	return tree.handle(nodeIdx), true
}

// Min returns the node with the smallest key.
func (tree *Tree) Min() (Handle, error) {
	if tree.root == sentinel {
		return Handle{}, ErrEmptyTree
	}

	return tree.handle(minNode(tree.root, tree.storage())), nil
}

// Max returns the node with the largest key.
func (tree *Tree) Max() (Handle, error) {
	if tree.root == sentinel {
		return Handle{}, ErrEmptyTree
	}

	return tree.handle(maxNode(tree.root, tree.storage())), nil
}

// FindGE returns the first node in order whose key is >= key.
func (tree *Tree) FindGE(key Key) (Handle, bool) {
	alloc := tree.storage()
	found := sentinel

	for cursor := tree.root; cursor != sentinel; {
		if alloc[cursor].key >= key {
			found = cursor
			cursor = alloc[cursor].child[Left]
		} else {
			cursor = alloc[cursor].child[Right]
		}
	}

	if found == sentinel {
		return Handle{}, false
	}

	return tree.handle(found), true
}

// FindLE returns the last node in order whose key is <= key.
func (tree *Tree) FindLE(key Key) (Handle, bool) {
	alloc := tree.storage()
	found := sentinel

	for cursor := tree.root; cursor != sentinel; {
		if alloc[cursor].key <= key {
			found = cursor
			cursor = alloc[cursor].child[Right]
		} else {
			cursor = alloc[cursor].child[Left]
		}
	}

	if found == sentinel {
		return Handle{}, false
	}

	return tree.handle(found), true
}

func (tree *Tree) find(key Key) uint32 {
	alloc := tree.storage()
	cursor := tree.root

	for cursor != sentinel {
		nd := &alloc[cursor]

		switch {
		case key == nd.key:
			return cursor
		case key < nd.key:
			cursor = nd.child[Left]
		default:
			cursor = nd.child[Right]
		}
	}

	return sentinel
}

func minNode(nodeIdx uint32, alloc []node) uint32 {
	for alloc[nodeIdx].child[Left] != sentinel {
		nodeIdx = alloc[nodeIdx].child[Left]
	}

	return nodeIdx
}

func maxNode(nodeIdx uint32, alloc []node) uint32 {
	for alloc[nodeIdx].child[Right] != sentinel {
		nodeIdx = alloc[nodeIdx].child[Right]
	}

	return nodeIdx
}

// Return the minimum node that's larger than N. Return the sentinel if no
// such node is found.
func doNext(nodeIdx uint32, alloc []node) uint32 {
	if right := alloc[nodeIdx].child[Right]; right != sentinel {
		return minNode(right, alloc)
	}

	for parent := alloc[nodeIdx].parent; parent != sentinel; parent = alloc[parent].parent {
		if alloc[parent].child[Left] == nodeIdx {
			return parent
		}

		nodeIdx = parent
	}

	return sentinel
}

// Return the maximum node that's smaller than N. Return the sentinel if no
// such node is found.
func doPrev(nodeIdx uint32, alloc []node) uint32 {
	if left := alloc[nodeIdx].child[Left]; left != sentinel {
		return maxNode(left, alloc)
	}

	for parent := alloc[nodeIdx].parent; parent != sentinel; parent = alloc[parent].parent {
		if alloc[parent].child[Right] == nodeIdx {
			return parent
		}

		nodeIdx = parent
	}

	return sentinel
}
