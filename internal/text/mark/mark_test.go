package mark

import (
	"testing"

	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

func TestCaptureResolveStable(t *testing.T) {
	pt := piecetree.New()
	if err := pt.Insert(0, []byte("hello world")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	m := Capture(pt, 6) // points at 'w'

	if err := pt.Insert(0, []byte("XXX ")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got := Resolve(pt, m)
	want := uint64(6 + len("XXX "))
	if got != want {
		t.Errorf("Resolve after leading insert = %d, want %d", got, want)
	}
}

func TestMarkShiftsLeftOnPrecedingDelete(t *testing.T) {
	pt := piecetree.New()
	if err := pt.Insert(0, []byte("hello world")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	m := Capture(pt, 6)

	if err := pt.Remove(0, 5); err != nil { // delete "hello"
		t.Fatalf("remove: %v", err)
	}

	got := Resolve(pt, m)
	want := uint64(1) // " world" now starts at 0; 'w' at 1
	if got != want {
		t.Errorf("Resolve after leading delete = %d, want %d", got, want)
	}
}

func TestMarkDestroyedByOverlappingDelete(t *testing.T) {
	pt := piecetree.New()
	if err := pt.Insert(0, []byte("hello world")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	m := Capture(pt, 6)

	if err := pt.Remove(4, 8); err != nil { // removes the byte at 6
		t.Fatalf("remove: %v", err)
	}

	got := Resolve(pt, m)
	length := pt.Len()
	if got != length && got != m.Fallback {
		t.Errorf("Resolve after destructive delete = %d, want fallback clamp", got)
	}
	if got > length {
		t.Errorf("Resolve returned %d past length %d", got, length)
	}
}

func TestMarkAtEndOfBuffer(t *testing.T) {
	pt := piecetree.New()
	if err := pt.Insert(0, []byte("abc")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	m := Capture(pt, 3)
	if !m.After {
		t.Fatal("expected After=true for a mark at len()")
	}

	if err := pt.Insert(3, []byte("def")); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got := Resolve(pt, m)
	if got != 3 {
		t.Errorf("Resolve end-of-buffer mark = %d, want 3", got)
	}
}
