package piecetree

import (
	"math/rand"
	"testing"
	"testing/quick"
)

// op is one randomized edit against both a PieceTree and a plain byte slice
// acting as the reference model for spec §8 property 1 ("round-trip").
type op struct {
	Kind byte // 0=insert, 1=remove, 2=replace
	Pos  uint32
	N    uint32 // remove/replace length
	Text string
}

// apply mutates both pt and ref identically, clamping op's fields against
// ref's current length the same way a fuzzer narrows a random seed to a
// legal operation.
func (o op) apply(t *testing.T, pt *PieceTree, ref []byte) []byte {
	t.Helper()
	length := uint64(len(ref))
	pos := uint64(o.Pos)
	if length > 0 {
		pos %= length + 1
	} else {
		pos = 0
	}

	switch o.Kind % 3 {
	case 0: // insert
		if err := pt.Insert(pos, []byte(o.Text)); err != nil {
			t.Fatalf("Insert(%d): %v", pos, err)
		}
		out := make([]byte, 0, len(ref)+len(o.Text))
		out = append(out, ref[:pos]...)
		out = append(out, []byte(o.Text)...)
		out = append(out, ref[pos:]...)
		return out
	default: // remove or replace
		n := uint64(o.N)
		if length-pos > 0 {
			n %= length - pos + 1
		} else {
			n = 0
		}
		hi := pos + n
		var replacement []byte
		if o.Kind%3 == 2 {
			replacement = []byte(o.Text)
		}
		if err := pt.Replace(pos, hi, replacement); err != nil {
			t.Fatalf("Replace(%d,%d): %v", pos, hi, err)
		}
		out := make([]byte, 0, len(ref)-int(n)+len(replacement))
		out = append(out, ref[:pos]...)
		out = append(out, replacement...)
		out = append(out, ref[hi:]...)
		return out
	}
}

// TestRoundTripProperty is spec §8 property 1: for any sequence of
// inserts/removes/replaces against an empty buffer, the tree's contents
// match an ordinary byte slice driven through the same operations.
func TestRoundTripProperty(t *testing.T) {
	f := func(ops []op) bool {
		pt := New()
		var ref []byte
		for _, o := range ops {
			ref = o.apply(t, pt, ref)
		}
		got, err := pt.Slice(0, pt.Len())
		if err != nil {
			t.Fatalf("Slice: %v", err)
		}
		return string(got) == string(ref)
	}

	cfg := &quick.Config{Rand: rand.New(rand.NewSource(1))}
	if err := quick.Check(f, cfg); err != nil {
		t.Error(err)
	}
}

// TestSnapshotStabilityProperty is spec §8 property 2: a snapshot taken
// mid-sequence keeps reading the bytes as of that moment no matter what
// happens to the live tree afterward.
func TestSnapshotStabilityProperty(t *testing.T) {
	f := func(before, after []op) bool {
		pt := New()
		var ref []byte
		for _, o := range before {
			ref = o.apply(t, pt, ref)
		}
		snap := pt.Snapshot()
		snapRef := append([]byte(nil), ref...)

		for _, o := range after {
			ref = o.apply(t, pt, ref)
		}

		if err := pt.Restore(snap); err != nil {
			t.Fatalf("Restore: %v", err)
		}
		got, err := pt.Slice(0, pt.Len())
		if err != nil {
			t.Fatalf("Slice: %v", err)
		}
		return string(got) == string(snapRef)
	}

	cfg := &quick.Config{Rand: rand.New(rand.NewSource(2))}
	if err := quick.Check(f, cfg); err != nil {
		t.Error(err)
	}
}

// TestNoMutationOfSourceBytes is spec §8 property 7: editing never rewrites
// a byte once read out of the Add buffer — every historical piece
// (reachable via an earlier snapshot) keeps observing its original bytes.
func TestNoMutationOfSourceBytes(t *testing.T) {
	pt := New()
	_ = pt.Insert(0, []byte("hello world"))
	snap1 := pt.Snapshot()
	want1, _ := pt.Slice(0, pt.Len())
	want1 = append([]byte(nil), want1...)

	_ = pt.Replace(6, 11, []byte("there"))
	snap2 := pt.Snapshot()
	want2, _ := pt.Slice(0, pt.Len())
	want2 = append([]byte(nil), want2...)

	_ = pt.Insert(0, []byte(">> "))
	_ = pt.Remove(0, 3)

	if err := pt.Restore(snap1); err != nil {
		t.Fatal(err)
	}
	got1, _ := pt.Slice(0, pt.Len())
	if string(got1) != string(want1) {
		t.Errorf("snap1 mutated: got %q, want %q", got1, want1)
	}

	if err := pt.Restore(snap2); err != nil {
		t.Fatal(err)
	}
	got2, _ := pt.Slice(0, pt.Len())
	if string(got2) != string(want2) {
		t.Errorf("snap2 mutated: got %q, want %q", got2, want2)
	}
}
