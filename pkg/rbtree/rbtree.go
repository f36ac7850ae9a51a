// Package rbtree implements an ordered multiset of integer keys as a red-black
// tree whose nodes live in an index-addressed arena.
//
// Slot 0 of the arena is a shared black sentinel standing in for every absent
// child and for the root's parent, so rotation and rebalancing never test for
// nil. Callers only ever see Handles; the sentinel is never handed out.
//
// A Tree is not safe for concurrent use.
package rbtree

import (
	"errors"
	"fmt"
	"log/slog"
)

// Key is the scalar stored in each tree node.
type Key = int64

var (
	// ErrEmptyTree is returned by Min and Max on a tree without nodes.
	ErrEmptyTree = errors.New("empty tree")
	// ErrInvalidHandle is returned when a zero Handle is passed to Delete.
	ErrInvalidHandle = errors.New("invalid handle")
	// ErrForeignHandle is returned when a Handle obtained from another tree is passed to Delete.
	ErrForeignHandle = errors.New("handle belongs to another tree")
	// ErrStaleHandle is returned when the node behind a Handle was already deleted.
	ErrStaleHandle = errors.New("stale handle")
	// ErrCapacityExceeded is returned by ToArray when the destination is shorter than the tree.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

type color bool

const (
	red   color = false
	black color = true
)

func (c color) String() string {
	if c == black {
		return "B"
	}

	return "R"
}

// Direction selects a child slot and, for rotations, the way the pivot moves.
type Direction uint8

// Child slots. A left rotation moves the pivot down to the left.
const (
	Left Direction = iota
	Right
)

func (dir Direction) opposite() Direction {
	return 1 - dir
}

func (dir Direction) String() string {
	if dir == Left {
		return "left"
	}

	return "right"
}

type node struct {
	key    Key
	parent uint32
	child  [2]uint32
	gen    uint32
	color  color
}

// Tree is a red-black tree. The zero value is not usable; call New.
type Tree struct {
	alloc    *Allocator
	logger   *slog.Logger
	observer Observer
	root     uint32
	count    int
	verify   bool
	stats    Stats
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for arena growth, teardown and rejected handles.
func WithLogger(logger *slog.Logger) Option {
	return func(tree *Tree) {
		if logger != nil {
			tree.logger = logger
		}
	}
}

// WithCapacity preallocates room for n nodes. n is clamped to
// [0, MaxCapacity].
func WithCapacity(n int) Option {
	return func(tree *Tree) {
		tree.alloc = newAllocator(n)
	}
}

// WithVerify makes every mutating call check all invariants before returning.
// A violation is logged and then panics.
func WithVerify(enabled bool) Option {
	return func(tree *Tree) {
		tree.verify = enabled
	}
}

// WithObserver reports structural events to obs.
func WithObserver(obs Observer) Option {
	return func(tree *Tree) {
		if obs != nil {
			tree.observer = obs
		}
	}
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	tree := &Tree{
		alloc:    nil,
		logger:   slog.New(slog.DiscardHandler),
		observer: nopObserver{},
		root:     sentinel,
	}

	for _, opt := range opts {
		opt(tree)
	}

	if tree.alloc == nil {
		tree.alloc = newAllocator(0)
	}

	return tree
}

func (tree *Tree) storage() []node {
	return tree.alloc.storage
}

// SetObserver replaces the observer; nil detaches it.
func (tree *Tree) SetObserver(obs Observer) {
	if obs == nil {
		obs = nopObserver{}
	}

	tree.observer = obs
}

// Allocator returns the arena backing the tree.
func (tree *Tree) Allocator() *Allocator {
	return tree.alloc
}

// Len returns the number of nodes in the tree.
func (tree *Tree) Len() int {
	return tree.count
}

// Empty reports whether the tree has no nodes.
func (tree *Tree) Empty() bool {
	return tree.root == sentinel
}

// Stats returns the cumulative structural counters.
func (tree *Tree) Stats() Stats {
	return tree.stats
}

// Clone returns a deep copy of the tree. Handles of the original are foreign to
// the copy. The copy keeps the logger and the counters but reports to no
// observer; attach one with SetObserver.
func (tree *Tree) Clone() *Tree {
	clone := *tree
	clone.alloc = tree.alloc.clone()
	clone.observer = nopObserver{}

	return &clone
}

// Clear frees every node and returns how many were freed. Each node is
// visited exactly once, children before their parent.
func (tree *Tree) Clear() int {
	alloc := tree.storage()
	freed := 0
	stack := make([]uint32, 0, 2*tree.Height()+1)

	var last uint32

	cursor := tree.root

	for cursor != sentinel || len(stack) > 0 {
		if cursor != sentinel {
			stack = append(stack, cursor)
			cursor = alloc[cursor].child[Left]

			continue
		}

		top := stack[len(stack)-1]

		if right := alloc[top].child[Right]; right != sentinel && right != last {
			cursor = right

			continue
		}

		stack = stack[:len(stack)-1]
		last = top

		tree.alloc.free(top)
		freed++
	}

	doAssert(freed == tree.count)

	tree.root = sentinel
	tree.count = 0
	tree.logger.Debug("tree cleared", "freed", freed, "arena", tree.alloc.String())

	return freed
}

func (tree *Tree) newNode(key Key) uint32 {
	nodeIdx, grown := tree.alloc.malloc()
	if grown {
		tree.logger.Debug("arena grown", "slots", tree.alloc.Size(), "cap", tree.alloc.Cap())
	}

	nd := &tree.storage()[nodeIdx]
	nd.key = key
	nd.parent = sentinel
	nd.child = [2]uint32{sentinel, sentinel}
	nd.color = red

	return nodeIdx
}

func (tree *Tree) handle(nodeIdx uint32) Handle {
	return Handle{tree: tree, idx: nodeIdx, gen: tree.storage()[nodeIdx].gen}
}

func (tree *Tree) checkHandle(h Handle) error {
	switch {
	case h.tree == nil || h.idx == sentinel:
		return ErrInvalidHandle
	case h.tree != tree:
		return ErrForeignHandle
	case int(h.idx) >= len(tree.storage()) || tree.storage()[h.idx].gen != h.gen:
		return fmt.Errorf("%w: slot %d", ErrStaleHandle, h.idx)
	}

	return nil
}

func (tree *Tree) afterMutation(op string) {
	if !tree.verify {
		return
	}

	err := tree.Verify()
	if err != nil {
		tree.logger.Error("red-black invariant violated", "op", op, "error", err)
		panic(fmt.Sprintf("rbtree: %s broke the tree: %v", op, err))
	}
}

// Handle refers to one node of a Tree. The zero value refers to no node.
//
// A Handle stays valid until its node is deleted; deleting other nodes does
// not invalidate it.
type Handle struct {
	tree *Tree
	idx  uint32
	gen  uint32
}

// Valid reports whether the handle still refers to a node of its tree.
func (h Handle) Valid() bool {
	return h.tree != nil && h.tree.checkHandle(h) == nil
}

// Key returns the key of the node.
//
// REQUIRES: h.Valid().
func (h Handle) Key() Key {
	return h.tree.storage()[h.idx].key
}

// Red reports whether the node is currently colored red.
//
// REQUIRES: h.Valid().
func (h Handle) Red() bool {
	return h.tree.storage()[h.idx].color == red
}

// Next returns the in-order successor of the node.
//
// REQUIRES: h.Valid().
func (h Handle) Next() (Handle, bool) {
	succ := doNext(h.idx, h.tree.storage())
	if succ == sentinel {
		return Handle{}, false
	}

	return h.tree.handle(succ), true
}

// Prev returns the in-order predecessor of the node.
//
// REQUIRES: h.Valid().
func (h Handle) Prev() (Handle, bool) {
	pred := doPrev(h.idx, h.tree.storage())
	if pred == sentinel {
		return Handle{}, false
	}

	return h.tree.handle(pred), true
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}
