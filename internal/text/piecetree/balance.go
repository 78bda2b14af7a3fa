package piecetree

import "github.com/inkwell-editor/inkwell/internal/text/piece"

// join concatenates left, a single new piece p, and right into one balanced
// tree, in that in-order sequence. left and/or right may be nil. This is
// the sole balancing primitive: insert, remove, and replace are all
// expressed as split followed by join.
func join(left *node, p piece.Piece, right *node) *node {
	switch {
	case left == nil && right == nil:
		return singleton(p)
	case left == nil:
		t := joinLeft(nil, p, right)
		if isRed(t) && isRed(t.left) {
			return paintBlack(t)
		}
		return t
	case right == nil:
		t := joinRight(left, p, nil)
		if isRed(t) && isRed(t.right) {
			return paintBlack(t)
		}
		return t
	case blackHeightOf(left) == blackHeightOf(right):
		return mk(black, left, p, right)
	case blackHeightOf(left) > blackHeightOf(right):
		t := joinRight(left, p, right)
		if isRed(t) && isRed(t.right) {
			return paintBlack(t)
		}
		return t
	default:
		t := joinLeft(left, p, right)
		if isRed(t) && isRed(t.left) {
			return paintBlack(t)
		}
		return t
	}
}

// joinRight handles blackHeightOf(left) >= blackHeightOf(right): it
// descends down left's right spine until it finds a black (or nil) subtree
// of matching black height, attaches a new red node there, and fixes any
// red-red violation introduced on the way back up with a rotation.
func joinRight(left *node, p piece.Piece, right *node) *node {
	if !isRed(left) && blackHeightOf(left) == blackHeightOf(right) {
		return mk(red, left, p, right)
	}

	newRight := joinRight(left.right, p, right)
	t := mk(left.color, left.left, left.p, newRight)

	if left.color == black && isRed(newRight) && isRed(newRight.right) {
		fixed := mk(black, t.left, t.p, mk(red, newRight.left, newRight.p, paintBlack(newRight.right)))
		return rotateLeft(fixed)
	}
	return t
}

// joinLeft is the mirror image of joinRight, used when right is the taller
// (or equally-nil) tree.
func joinLeft(left *node, p piece.Piece, right *node) *node {
	if !isRed(right) && blackHeightOf(left) == blackHeightOf(right) {
		return mk(red, left, p, right)
	}

	newLeft := joinLeft(left, p, right.left)
	t := mk(right.color, newLeft, right.p, right.right)

	if right.color == black && isRed(newLeft) && isRed(newLeft.left) {
		fixed := mk(black, mk(red, paintBlack(newLeft.left), newLeft.p, newLeft.right), t.p, t.right)
		return rotateRight(fixed)
	}
	return t
}

// merge concatenates two trees with no piece in between, by borrowing the
// rightmost piece of left as the join pivot. Used by remove, which splits
// out and discards a middle range and must then stitch the two remaining
// halves back together without inserting anything new.
func merge(left, right *node) *node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	rest, last := splitLast(left)
	return join(rest, last, right)
}

// splitLast removes and returns the rightmost piece of t.
func splitLast(t *node) (rest *node, last piece.Piece) {
	if t.right == nil {
		return t.left, t.p
	}
	rest, last = splitLast(t.right)
	return join(t.left, t.p, rest), last
}
