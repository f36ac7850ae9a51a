package rbtree

import "fmt"

// ToArray writes the keys in non-decreasing order into dst and returns how
// many were written. Nothing is written past len(dst): if dst is shorter
// than the tree, it receives the len(dst) smallest keys and the error wraps
// ErrCapacityExceeded.
func (tree *Tree) ToArray(dst []Key) (int, error) {
	written := tree.inorder(dst)

	if written < tree.count {
		return written, fmt.Errorf("%w: %d keys, room for %d", ErrCapacityExceeded, tree.count, len(dst))
	}

	return written, nil
}

// Keys returns every key in non-decreasing order.
func (tree *Tree) Keys() []Key {
	keys := make([]Key, tree.count)
	tree.inorder(keys)

	return keys
}

// Ascend calls fn for each key in non-decreasing order until fn returns false.
func (tree *Tree) Ascend(fn func(key Key) bool) {
	alloc := tree.storage()

	for cursor := tree.leftmost(); cursor != sentinel; cursor = doNext(cursor, alloc) {
		if !fn(alloc[cursor].key) {
			return
		}
	}
}

func (tree *Tree) leftmost() uint32 {
	if tree.root == sentinel {
		return sentinel
	}

	return minNode(tree.root, tree.storage())
}

// inorder fills dst from a left-self-right walk and stops once dst is full.
func (tree *Tree) inorder(dst []Key) int {
	alloc := tree.storage()
	written := 0

	for cursor := tree.leftmost(); cursor != sentinel && written < len(dst); cursor = doNext(cursor, alloc) {
		dst[written] = alloc[cursor].key
		written++
	}

	return written
}
