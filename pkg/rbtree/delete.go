package rbtree

import "fmt"

// Delete removes the node behind h and frees its slot.
//
// A node with two children is replaced by its in-order successor, which also
// takes over its color. Handles to other nodes remain valid.
func (tree *Tree) Delete(h Handle) error {
	err := tree.checkHandle(h)
	if err != nil {
		tree.logger.Warn("delete rejected", "slot", h.idx, "error", err)

		return fmt.Errorf("delete: %w", err)
	}

	key := tree.storage()[h.idx].key
	tree.doDelete(h.idx)
	tree.observer.Deleted(key)
	tree.afterMutation("delete")

	return nil
}

// DeleteKey removes one node whose key equals key. It returns false if there
// is none.
func (tree *Tree) DeleteKey(key Key) bool {
	nodeIdx := tree.find(key)
	if nodeIdx == sentinel {
		return false
	}

	tree.doDelete(nodeIdx)
	tree.observer.Deleted(key)
	tree.afterMutation("delete")

	return true
}

// transplant puts the subtree rooted at newn where the subtree rooted at oldn
// hangs. newn's parent is set even when newn is the sentinel so that
// deleteFixup can climb from an empty position.
func (tree *Tree) transplant(oldn, newn uint32) {
	alloc := tree.storage()
	parent := alloc[oldn].parent

	if parent == sentinel {
		tree.root = newn
	} else {
		alloc[parent].child[childDir(oldn, alloc)] = newn
	}

	alloc[newn].parent = parent
}

func (tree *Tree) doDelete(nodeIdx uint32) {
	alloc := tree.storage()
	target := alloc[nodeIdx]
	removed := target.color

	var replacement uint32

	switch {
	case target.child[Left] == sentinel:
		replacement = target.child[Right]
		tree.transplant(nodeIdx, replacement)
	case target.child[Right] == sentinel:
		replacement = target.child[Left]
		tree.transplant(nodeIdx, replacement)
	default:
		succ := minNode(target.child[Right], alloc)
		removed = alloc[succ].color
		replacement = alloc[succ].child[Right]

		if alloc[succ].parent == nodeIdx {
			alloc[replacement].parent = succ
		} else {
			tree.transplant(succ, replacement)
			alloc[succ].child[Right] = target.child[Right]
			alloc[target.child[Right]].parent = succ
		}

		tree.transplant(nodeIdx, succ)
		alloc[succ].child[Left] = target.child[Left]
		alloc[target.child[Left]].parent = succ
		alloc[succ].color = target.color
	}

	if removed == black {
		tree.deleteFixup(replacement)
	}

	alloc[sentinel].parent = sentinel

	tree.alloc.free(nodeIdx)
	tree.count--
	tree.stats.Deletes++
}

// classifyDelete picks the rebalancing step for the doubly black position x.
func (tree *Tree) classifyDelete(x uint32) FixupCase {
	alloc := tree.storage()

	if x == tree.root || alloc[x].color == red {
		return fixupDone
	}

	side := childDir(x, alloc)
	sibling := alloc[alloc[x].parent].child[side.opposite()]
	doAssert(sibling != sentinel)

	near := alloc[sibling].child[side]
	far := alloc[sibling].child[side.opposite()]

	switch {
	case alloc[sibling].color == red:
		return DeleteRedSibling
	case alloc[near].color == black && alloc[far].color == black:
		return DeleteBlackNephews
	case alloc[far].color == black:
		return DeleteNearNephew
	default:
		return DeleteFarNephew
	}
}

// deleteFixup pushes the extra black carried by x upwards until it can be
// absorbed by a red node or by the root.
func (tree *Tree) deleteFixup(x uint32) {
	alloc := tree.storage()

	for {
		fc := tree.classifyDelete(x)
		if fc == fixupDone {
			break
		}

		tree.recordFixup(fc)

		parent := alloc[x].parent
		side := childDir(x, alloc)
		sibling := alloc[parent].child[side.opposite()]

		switch fc {
		case DeleteRedSibling:
			alloc[sibling].color = black
			alloc[parent].color = red
			tree.rotate(parent, side)
		case DeleteBlackNephews:
			alloc[sibling].color = red
			x = parent
		case DeleteNearNephew:
			alloc[alloc[sibling].child[side]].color = black
			alloc[sibling].color = red
			tree.rotate(sibling, side.opposite())
		case DeleteFarNephew:
			alloc[sibling].color = alloc[parent].color
			alloc[parent].color = black
			alloc[alloc[sibling].child[side.opposite()]].color = black
			tree.rotate(parent, side)
			x = tree.root
		}
	}

	alloc[x].color = black
}
