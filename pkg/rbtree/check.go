package rbtree

import (
	"errors"
	"fmt"
)

// Invariant violations reported by Verify.
var (
	ErrSentinelColor = errors.New("sentinel is not black")
	ErrRedRoot       = errors.New("root is red")
	ErrRedViolation  = errors.New("red node has a red child")
	ErrBlackHeight   = errors.New("black height mismatch")
	ErrOrder         = errors.New("keys out of order")
	ErrBrokenLink    = errors.New("parent link mismatch")
	ErrCount         = errors.New("node count mismatch")
)

// Verify checks the red-black properties, the in-order key order, the
// parent links and the node count. It returns the first violation found.
func (tree *Tree) Verify() error {
	alloc := tree.storage()

	if alloc[sentinel].color != black {
		return ErrSentinelColor
	}

	if tree.root == sentinel {
		if tree.count != 0 {
			return fmt.Errorf("%w: empty tree counts %d nodes", ErrCount, tree.count)
		}

		return nil
	}

	if alloc[tree.root].color != black {
		return fmt.Errorf("%w: key %d", ErrRedRoot, alloc[tree.root].key)
	}

	if alloc[tree.root].parent != sentinel {
		return fmt.Errorf("%w: root slot %d has parent %d", ErrBrokenLink, tree.root, alloc[tree.root].parent)
	}

	seen := 0

	_, err := verifySubtree(tree.root, alloc, &seen)
	if err != nil {
		return err
	}

	if seen != tree.count {
		return fmt.Errorf("%w: reached %d nodes, expected %d", ErrCount, seen, tree.count)
	}

	prev := tree.leftmost()
	for cursor := doNext(prev, alloc); cursor != sentinel; prev, cursor = cursor, doNext(cursor, alloc) {
		if alloc[cursor].key < alloc[prev].key {
			return fmt.Errorf("%w: %d follows %d", ErrOrder, alloc[cursor].key, alloc[prev].key)
		}
	}

	return nil
}

// verifySubtree returns the number of black nodes on every path from
// nodeIdx down to a sentinel, nodeIdx included.
func verifySubtree(nodeIdx uint32, alloc []node, seen *int) (int, error) {
	if nodeIdx == sentinel {
		return 0, nil
	}

	*seen++
	nd := &alloc[nodeIdx]

	var heights [2]int

	for dir, childIdx := range nd.child {
		if childIdx == sentinel {
			continue
		}

		if alloc[childIdx].parent != nodeIdx {
			return 0, fmt.Errorf("%w: slot %d points up to %d instead of %d",
				ErrBrokenLink, childIdx, alloc[childIdx].parent, nodeIdx)
		}

		if nd.color == red && alloc[childIdx].color == red {
			return 0, fmt.Errorf("%w: keys %d and %d", ErrRedViolation, nd.key, alloc[childIdx].key)
		}

		height, err := verifySubtree(childIdx, alloc, seen)
		if err != nil {
			return 0, err
		}

		heights[dir] = height
	}

	if heights[Left] != heights[Right] {
		return 0, fmt.Errorf("%w: key %d has %d on the left and %d on the right",
			ErrBlackHeight, nd.key, heights[Left], heights[Right])
	}

	if nd.color == black {
		return heights[Left] + 1, nil
	}

	return heights[Left], nil
}

// Height returns the number of nodes on the longest root to leaf path.
func (tree *Tree) Height() int {
	return subtreeHeight(tree.root, tree.storage())
}

func subtreeHeight(nodeIdx uint32, alloc []node) int {
	if nodeIdx == sentinel {
		return 0
	}

	return 1 + max(subtreeHeight(alloc[nodeIdx].child[Left], alloc), subtreeHeight(alloc[nodeIdx].child[Right], alloc))
}

// BlackHeight returns the number of black nodes on any path from the root
// to a sentinel, the root included and the sentinel excluded.
func (tree *Tree) BlackHeight() int {
	alloc := tree.storage()
	height := 0

	for cursor := tree.root; cursor != sentinel; cursor = alloc[cursor].child[Left] {
		if alloc[cursor].color == black {
			height++
		}
	}

	return height
}
