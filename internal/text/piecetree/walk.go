package piecetree

import "github.com/inkwell-editor/inkwell/internal/text/piece"

// Walkable exposes read-only, in-order tree structure to sibling packages
// (mark) without leaking the unexported node type or any mutation
// capability — callers can only ever observe a tree, never change it
// through this interface.
type Walkable interface {
	// IsNil reports whether this position is the empty subtree.
	IsNil() bool
	// LeftSize is the cached byte length of the entire left subtree.
	LeftSize() uint64
	// Size is the total byte length of this subtree.
	Size() uint64
	// Piece is this node's own piece. Only valid when !IsNil().
	Piece() piece.Piece
	Left() Walkable
	Right() Walkable
}

type walkNode struct{ n *node }

func (w walkNode) IsNil() bool         { return w.n == nil }
func (w walkNode) LeftSize() uint64    { return w.n.leftSize }
func (w walkNode) Size() uint64        { return w.n.size }
func (w walkNode) Piece() piece.Piece  { return w.n.p }
func (w walkNode) Left() Walkable      { return walkNode{w.n.left} }
func (w walkNode) Right() Walkable     { return walkNode{w.n.right} }
