package writeback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkwell-editor/inkwell/internal/text/origbuffer"
	"github.com/inkwell-editor/inkwell/internal/text/piece"
	"github.com/inkwell-editor/inkwell/internal/text/piecetree"
)

func newFileBackedTree(t *testing.T, content string) (*piecetree.PieceTree, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "content.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	t.Cleanup(func() { f.Close() })

	orig, err := origbuffer.FromFile(f)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	return piecetree.NewFromOriginal(orig), path
}

func TestPlanSimpleAppend(t *testing.T) {
	pt, _ := newFileBackedTree(t, "hello world")
	if err := pt.Append([]byte("!")); err != nil {
		t.Fatalf("Append: %v", err)
	}

	ops, err := Plan(pt)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	var sawExtend, sawAddOverwrite bool
	for _, op := range ops {
		switch op.Kind {
		case OpExtend:
			sawExtend = true
			if op.NewLength != 12 {
				t.Errorf("extend length = %d, want 12", op.NewLength)
			}
		case OpOverwrite:
			sawAddOverwrite = true
		}
	}
	if !sawExtend {
		t.Error("expected an Extend op for a length-increasing append")
	}
	if !sawAddOverwrite {
		t.Error("expected an overwrite op for the appended byte")
	}
}

func TestPlanNoDependencyOverlap(t *testing.T) {
	pt, _ := newFileBackedTree(t, "0123456789")
	if err := pt.Insert(5, []byte("XX")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := pt.Remove(0, 2); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	ops, err := Plan(pt)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	// Every Original overwrite's target must come before any later
	// overwrite whose dependency it would clobber: simulate execution
	// order and verify no emitted target overlaps a not-yet-emitted
	// Original's source dependency.
	for i, op := range ops {
		if op.Kind != OpOverwrite {
			continue
		}
		for j := i + 1; j < len(ops); j++ {
			later := ops[j]
			if later.Kind != OpOverwrite || later.SrcKind != piece.Original {
				continue
			}
			if rangesOverlap(op.Target, later.SrcRange) {
				t.Errorf("op %d target %v overlaps op %d's still-unread source %v", i, op.Target, j, later.SrcRange)
			}
		}
	}
}

func TestExecuteWritesExpectedContent(t *testing.T) {
	pt, path := newFileBackedTree(t, "hello world")
	if err := pt.Replace(6, 11, []byte("there")); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if err := Execute(pt, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := "hello there"; string(got) != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestExecuteShrinkTruncates(t *testing.T) {
	pt, path := newFileBackedTree(t, "hello world")
	if err := pt.Remove(5, 11); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if err := Execute(pt, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if want := "hello"; string(got) != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}
