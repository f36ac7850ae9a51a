package rbtree

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/ordmap/pkg/safeconv"
)

// sentinel is the arena slot shared by every leaf and by the root's parent.
const sentinel uint32 = 0

// maxSlots bounds the arena so that every index fits into uint32.
const maxSlots = math.MaxUint32

// MaxCapacity is the largest number of nodes a tree can hold.
const MaxCapacity = maxSlots - 1

// NodeSize is the number of bytes one arena slot occupies.
const NodeSize = int(unsafe.Sizeof(node{}))

// Allocator is the arena holding the nodes of one Tree.
//
// Slot 0 is the sentinel. Freed slots are recycled last-in first-out; every
// free bumps the slot generation so that stale handles can be told apart
// from the node that later reuses the slot.
type Allocator struct {
	storage []node
	gaps    []uint32
}

func newAllocator(capacity int) *Allocator {
	storage := make([]node, 1, clampCapacity(capacity)+1)
	storage[sentinel].color = black

	return &Allocator{storage: storage, gaps: []uint32{}}
}

// clampCapacity bounds a requested node capacity to [0, MaxCapacity].
func clampCapacity(capacity int) int {
	return min(max(capacity, 0), MaxCapacity)
}

// Size returns the number of slots in the arena, the sentinel included.
func (allocator *Allocator) Size() int {
	return len(allocator.storage)
}

// Used returns the number of live slots, the sentinel included.
func (allocator *Allocator) Used() int {
	return len(allocator.storage) - len(allocator.gaps)
}

// Cap returns the number of slots the arena can hold before it grows.
func (allocator *Allocator) Cap() int {
	return cap(allocator.storage)
}

// String summarizes the arena occupancy.
func (allocator *Allocator) String() string {
	used := allocator.Used() - 1

	return fmt.Sprintf("%s nodes, %s free slots, %s reserved",
		humanize.Comma(int64(used)),
		humanize.Comma(int64(len(allocator.gaps))),
		humanize.IBytes(uint64(allocator.Cap())*uint64(NodeSize)))
}

func (allocator *Allocator) clone() *Allocator {
	clone := &Allocator{
		storage: make([]node, len(allocator.storage), cap(allocator.storage)),
		gaps:    make([]uint32, len(allocator.gaps)),
	}
	copy(clone.storage, allocator.storage)
	copy(clone.gaps, allocator.gaps)

	return clone
}

// malloc returns a zeroed slot and reports whether the backing array grew.
func (allocator *Allocator) malloc() (uint32, bool) {
	if gapsLen := len(allocator.gaps); gapsLen > 0 {
		idx := allocator.gaps[gapsLen-1]
		allocator.gaps = allocator.gaps[:gapsLen-1]

		return idx, false
	}

	nodeLen := len(allocator.storage)
	if nodeLen == maxSlots {
		panic("rbtree: the arena reached the maximum number of uint32 slots")
	}

	grown := nodeLen == cap(allocator.storage)
	allocator.storage = append(allocator.storage, node{})

	return safeconv.MustIntToUint32(nodeLen), grown
}

func (allocator *Allocator) free(nodeIdx uint32) {
	if nodeIdx == sentinel {
		panic("rbtree: the sentinel cannot be deallocated")
	}

	gen := allocator.storage[nodeIdx].gen + 1
	allocator.storage[nodeIdx] = node{gen: gen}
	allocator.gaps = append(allocator.gaps, nodeIdx)
}
