package piecetree

// split divides t at absolute byte offset pos into (left, right) such that
// left has exactly pos bytes and right has size(t)-pos bytes. If pos falls
// strictly inside a node's piece, that piece is itself split via
// piece.Piece.Split so neither half crosses the cut.
func split(t *node, pos uint64) (left, right *node) {
	if t == nil {
		return nil, nil
	}

	switch {
	case pos < t.leftSize:
		ll, lr := split(t.left, pos)
		return ll, join(lr, t.p, t.right)

	case pos >= t.leftSize+t.p.Length:
		rl, rr := split(t.right, pos-t.leftSize-t.p.Length)
		return join(t.left, t.p, rl), rr

	case pos == t.leftSize:
		return t.left, join(nil, t.p, t.right)

	default:
		offset := pos - t.leftSize
		lp, rp := t.p.Split(offset)
		l := join(t.left, lp, nil)
		r := join(nil, rp, t.right)
		return l, r
	}
}
