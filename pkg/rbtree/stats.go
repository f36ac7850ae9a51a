package rbtree

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FixupCase names one rebalancing step of InsertFixup or DeleteFixup.
type FixupCase uint8

// Insert and delete fixup cases, numbered as in the classic presentation.
const (
	// InsertRedUncle recolors parent, uncle and grandparent and moves up two levels.
	InsertRedUncle FixupCase = iota
	// InsertInner rotates an inner grandchild into the outer position.
	InsertInner
	// InsertOuter recolors and rotates at the grandparent, ending the fixup.
	InsertOuter
	// DeleteRedSibling turns a red sibling black by rotating at the parent.
	DeleteRedSibling
	// DeleteBlackNephews paints the sibling red and moves the deficit up.
	DeleteBlackNephews
	// DeleteNearNephew rotates at the sibling so that the far nephew becomes red.
	DeleteNearNephew
	// DeleteFarNephew absorbs the deficit by rotating at the parent, ending the fixup.
	DeleteFarNephew

	// NumFixupCases is the number of fixup cases.
	NumFixupCases = int(DeleteFarNephew) + 1

	// fixupDone stops a fixup loop.
	fixupDone FixupCase = 0xff
)

var fixupCaseNames = [NumFixupCases]string{
	"insert-red-uncle",
	"insert-inner",
	"insert-outer",
	"delete-red-sibling",
	"delete-black-nephews",
	"delete-near-nephew",
	"delete-far-nephew",
}

func (fc FixupCase) String() string {
	if int(fc) < NumFixupCases {
		return fixupCaseNames[fc]
	}

	return "fixup(" + strconv.Itoa(int(fc)) + ")"
}

// Observer receives structural events as they happen. Calls are made
// synchronously from the mutating Tree method.
type Observer interface {
	Inserted(key Key)
	Deleted(key Key)
	Rotated(dir Direction)
	Fixup(fc FixupCase)
}

type nopObserver struct{}

func (nopObserver) Inserted(Key) {}
func (nopObserver) Deleted(Key) {}
func (nopObserver) Rotated(Direction) {}
func (nopObserver) Fixup(FixupCase) {}

// Stats holds cumulative counters of a Tree since its creation.
type Stats struct {
	Inserts   uint64
	Deletes   uint64
	Rotations [2]uint64
	Fixups    [NumFixupCases]uint64
}

func (tree *Tree) recordFixup(fc FixupCase) {
	tree.stats.Fixups[fc]++
	tree.observer.Fixup(fc)
}

// Table renders the counters as a plain text table.
func (s Stats) Table() string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"event", "count"})
	tbl.AppendRow(table.Row{"insert", s.Inserts})
	tbl.AppendRow(table.Row{"delete", s.Deletes})
	tbl.AppendRow(table.Row{"rotate-left", s.Rotations[Left]})
	tbl.AppendRow(table.Row{"rotate-right", s.Rotations[Right]})

	for fc, count := range s.Fixups {
		tbl.AppendRow(table.Row{FixupCase(fc).String(), count})
	}

	return tbl.Render()
}
