package rbtree

import (
	"errors"
	"fmt"
	"io"

	fcolor "github.com/fatih/color"
)

// to control the print routine
type branch int

const (
	rootBranch branch = iota
	leftBranch
	rightBranch
)

var redNode = fcolor.New(fcolor.FgRed, fcolor.Bold)

// Dump writes a sideways drawing of the tree to w: the right subtree above
// each node, the left subtree below. Red nodes are highlighted unless
// fatih/color has colors disabled; that switch follows stdout, not w.
func (tree *Tree) Dump(w io.Writer) error {
	if tree.root == sentinel {
		_, err := fmt.Fprintln(w, "(empty)")

		return err
	}

	dumper := treeDumper{w: w, alloc: tree.storage()}
	dumper.dump(tree.root, "", rootBranch)

	return dumper.err
}

type treeDumper struct {
	w     io.Writer
	err   error
	alloc []node
}

func (d *treeDumper) dump(nodeIdx uint32, prefix string, br branch) {
	nd := &d.alloc[nodeIdx]

	if right := nd.child[Right]; right != sentinel {
		pad := "       "
		if br == leftBranch {
			pad = "|      "
		}

		d.dump(right, prefix+pad, rightBranch)
	}

	switch br {
	case rootBranch:
		d.printf("%s|------+ ", prefix)
	case leftBranch:
		d.printf("%s\\------+ ", prefix)
	case rightBranch:
		d.printf("%s/------+ ", prefix)
	}

	label := fmt.Sprintf("%d(%s)", nd.key, nd.color)
	if nd.color == red {
		label = redNode.Sprint(label)
	}

	d.printf("%s\n", label)

	if left := nd.child[Left]; left != sentinel {
		pad := "       "
		if br == rightBranch {
			pad = "|      "
		}

		d.dump(left, prefix+pad, leftBranch)
	}
}

func (d *treeDumper) printf(format string, args ...any) {
	_, err := fmt.Fprintf(d.w, format, args...)
	d.err = errors.Join(d.err, err)
}
