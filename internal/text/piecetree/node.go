// Package piecetree implements PieceTree (spec §4.3): a persistent
// red-black tree keyed by left-subtree byte length, whose nodes each hold
// one Piece value. Structural operations perform copy-on-write: a mutation
// never modifies an existing node, it builds new nodes along the affected
// path and reuses every untouched subtree by reference, so a retained root
// pointer (a Snapshot) keeps observing the tree exactly as it was.
//
// Balancing uses the join-based construction for persistent red-black
// trees (Blelloch, Ferizovic & Sun, "Just Join for Parallel Ordered Sets"):
// every structural change is expressed as split(tree, pos) and
// join(left, piece, right), which together make insert, remove, and
// replace a handful of lines each while keeping the red-black invariants
// (no red node has a red parent; every root-to-leaf path has the same
// black-height) as local, checkable properties of join itself.
package piecetree

import "github.com/inkwell-editor/inkwell/internal/text/piece"

// color is red or black, per standard red-black tree rules.
type color uint8

const (
	black color = iota
	red
)

// node is one internal node of the persistent tree. leftSize is the cached
// byte length of the entire left subtree (spec §3's augmentation
// requirement); size is the total byte length of this node's subtree,
// kept alongside leftSize purely as a traversal convenience.
type node struct {
	color color
	left  *node
	right *node
	p     piece.Piece

	leftSize uint64
	size     uint64
	// blackHeight is the number of black nodes on any path from this node
	// down to a nil leaf, counting this node itself when it is black and
	// not counting nil leaves. It never needs recomputing
	// after construction because join only ever builds new nodes bottom-up.
	blackHeight int
}

func blackHeightOf(n *node) int {
	if n == nil {
		return 0
	}
	return n.blackHeight
}

func sizeOf(n *node) uint64 {
	if n == nil {
		return 0
	}
	return n.size
}

func isRed(n *node) bool {
	return n != nil && n.color == red
}

// mk builds a new node, computing its cached size and black-height from its
// (already-correct) children. Callers are responsible for only ever passing
// children whose black-heights already match, which join maintains as an
// invariant.
func mk(c color, left *node, p piece.Piece, right *node) *node {
	bh := blackHeightOf(left)
	if c == black {
		bh++
	}
	return &node{
		color:       c,
		left:        left,
		right:       right,
		p:           p,
		leftSize:    sizeOf(left),
		size:        sizeOf(left) + p.Length + sizeOf(right),
		blackHeight: bh,
	}
}

// paintBlack returns n with its color forced to black. Used to restore the
// "root is black" invariant and to clear red-red violations during join.
// n itself is never mutated; when n is already black it is returned as-is
// (sharing, not copying).
func paintBlack(n *node) *node {
	if n == nil || n.color == black {
		return n
	}
	return mk(black, n.left, n.p, n.right)
}

func singleton(p piece.Piece) *node {
	return mk(black, nil, p, nil)
}

// rotateLeft and rotateRight reshape a 3-node subtree while preserving
// in-order sequence; they are only ever applied to fix a local red-red
// violation created by join, never as a general-purpose operation.
func rotateLeft(t *node) *node {
	r := t.right
	newLeft := mk(t.color, t.left, t.p, r.left)
	return mk(r.color, newLeft, r.p, r.right)
}

func rotateRight(t *node) *node {
	l := t.left
	newRight := mk(t.color, l.right, t.p, t.right)
	return mk(l.color, l.left, l.p, newRight)
}
