package rbtree //nolint:testpackage // shapes are assembled slot by slot.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// attach hangs a new node under parent without any rebalancing.
func attach(tree *Tree, parent uint32, dir Direction, key Key, c color) uint32 {
	nodeIdx := tree.newNode(key)
	alloc := tree.storage()
	alloc[nodeIdx].color = c
	alloc[nodeIdx].parent = parent

	if parent == sentinel {
		tree.root = nodeIdx
	} else {
		alloc[parent].child[dir] = nodeIdx
	}

	tree.count++

	return nodeIdx
}

func TestInsertFixupCases(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		build func(tree *Tree) uint32
		want  FixupCase
		root  Key
	}{
		{
			name: "red uncle",
			build: func(tree *Tree) uint32 {
				grandparent := attach(tree, sentinel, Left, 20, black)
				parent := attach(tree, grandparent, Left, 10, red)
				attach(tree, grandparent, Right, 30, red)

				return attach(tree, parent, Left, 5, red)
			},
			want: InsertRedUncle,
			root: 20,
		},
		{
			name: "inner grandchild",
			build: func(tree *Tree) uint32 {
				grandparent := attach(tree, sentinel, Left, 20, black)
				parent := attach(tree, grandparent, Left, 10, red)

				return attach(tree, parent, Right, 15, red)
			},
			want: InsertInner,
			root: 15,
		},
		{
			name: "outer grandchild",
			build: func(tree *Tree) uint32 {
				grandparent := attach(tree, sentinel, Left, 20, black)
				parent := attach(tree, grandparent, Right, 30, red)

				return attach(tree, parent, Right, 40, red)
			},
			want: InsertOuter,
			root: 30,
		},
		{
			name: "black parent",
			build: func(tree *Tree) uint32 {
				parent := attach(tree, sentinel, Left, 20, black)

				return attach(tree, parent, Right, 30, red)
			},
			want: fixupDone,
			root: 20,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tree := New()
			nodeIdx := tc.build(tree)
			require.Equal(t, tc.want, tree.classifyInsert(nodeIdx))

			tree.insertFixup(nodeIdx)
			require.NoError(t, tree.Verify())
			assert.Equal(t, tc.root, tree.storage()[tree.root].key)

			if tc.want != fixupDone {
				assert.Equal(t, uint64(1), tree.Stats().Fixups[tc.want])
			}
		})
	}
}

func TestDeleteFixupCases(t *testing.T) {
	t.Parallel()

	// Every shape is a black 20 whose left child was a black leaf that has
	// just been removed: the sentinel stands in its place, one black short.
	cases := []struct {
		name    string
		sibling func(tree *Tree, parent uint32)
		want    FixupCase
		keys    []Key
	}{
		{
			name: "red sibling",
			sibling: func(tree *Tree, parent uint32) {
				sibling := attach(tree, parent, Right, 30, red)
				attach(tree, sibling, Left, 25, black)
				attach(tree, sibling, Right, 35, black)
			},
			want: DeleteRedSibling,
			keys: []Key{20, 25, 30, 35},
		},
		{
			name: "black nephews",
			sibling: func(tree *Tree, parent uint32) {
				attach(tree, parent, Right, 30, black)
			},
			want: DeleteBlackNephews,
			keys: []Key{20, 30},
		},
		{
			name: "red near nephew",
			sibling: func(tree *Tree, parent uint32) {
				sibling := attach(tree, parent, Right, 30, black)
				attach(tree, sibling, Left, 25, red)
			},
			want: DeleteNearNephew,
			keys: []Key{20, 25, 30},
		},
		{
			name: "red far nephew",
			sibling: func(tree *Tree, parent uint32) {
				sibling := attach(tree, parent, Right, 30, black)
				attach(tree, sibling, Right, 35, red)
			},
			want: DeleteFarNephew,
			keys: []Key{20, 30, 35},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tree := New()
			parent := attach(tree, sentinel, Left, 20, black)
			tc.sibling(tree, parent)
			tree.storage()[sentinel].parent = parent

			require.Equal(t, tc.want, tree.classifyDelete(sentinel))

			tree.deleteFixup(sentinel)
			require.NoError(t, tree.Verify())
			assert.Equal(t, tc.keys, tree.Keys())
			assert.Equal(t, uint64(1), tree.Stats().Fixups[tc.want])
		})
	}
}

func TestDeleteFixupStopsAtRedPosition(t *testing.T) {
	t.Parallel()

	tree := New()
	parent := attach(tree, sentinel, Left, 20, black)
	x := attach(tree, parent, Left, 10, red)
	attach(tree, parent, Right, 30, black)

	assert.Equal(t, fixupDone, tree.classifyDelete(x))
	tree.deleteFixup(x)
	assert.Equal(t, black, tree.storage()[x].color)
	require.NoError(t, tree.Verify())
}

func TestRotateRoot(t *testing.T) {
	t.Parallel()

	tree := New()
	pivot := attach(tree, sentinel, Left, 10, black)
	attach(tree, pivot, Left, 5, black)
	child := attach(tree, pivot, Right, 20, black)
	attach(tree, child, Left, 15, black)
	attach(tree, child, Right, 25, black)

	tree.rotate(pivot, Left)

	alloc := tree.storage()
	assert.Equal(t, child, tree.root)
	assert.Equal(t, sentinel, alloc[child].parent)
	assert.Equal(t, pivot, alloc[child].child[Left])
	assert.Equal(t, child, alloc[pivot].parent)
	assert.Equal(t, Key(15), alloc[alloc[pivot].child[Right]].key)
	assert.Equal(t, pivot, alloc[alloc[pivot].child[Right]].parent)
	assert.Equal(t, []Key{5, 10, 15, 20, 25}, tree.Keys())

	tree.rotate(child, Right)
	assert.Equal(t, pivot, tree.root)
	assert.Equal(t, []Key{5, 10, 15, 20, 25}, tree.Keys())
	assert.Equal(t, uint64(1), tree.Stats().Rotations[Left])
	assert.Equal(t, uint64(1), tree.Stats().Rotations[Right])
}
