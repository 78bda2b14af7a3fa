package buffer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inkwell-editor/inkwell/internal/engineconfig"
	"github.com/inkwell-editor/inkwell/internal/text/change"
)

func defaultTestOptions() engineconfig.Options {
	opts := engineconfig.Default()
	opts.WatchFileOnSave = false
	return opts
}

func TestNewApplyAndText(t *testing.T) {
	e := New()
	kind, err := e.Apply([]change.Change{{Start: 0, End: 0, Replacement: []byte("hello")}}, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if kind != BatchInsert {
		t.Errorf("kind = %v, want BatchInsert", kind)
	}
	got, err := e.Text()
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("Text() = %q, want %q", got, "hello")
	}
}

func TestUndoRedoThroughEngine(t *testing.T) {
	e := New()
	if _, err := e.Apply([]change.Change{{Start: 0, End: 0, Replacement: []byte("abc")}}, false); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !e.CanUndo() {
		t.Fatalf("expected CanUndo after an edit")
	}
	if ok, err := e.Undo(); err != nil || !ok {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}
	if e.Len() != 0 {
		t.Errorf("Len() = %d after undo, want 0", e.Len())
	}
	if ok, err := e.Redo(); err != nil || !ok {
		t.Fatalf("Redo() = %v, %v", ok, err)
	}
	if e.Len() != 3 {
		t.Errorf("Len() = %d after redo, want 3", e.Len())
	}
}

func TestMarkSurvivesEditBeforeIt(t *testing.T) {
	e := New()
	if _, err := e.Apply([]change.Change{{Start: 0, End: 0, Replacement: []byte("hello world")}}, false); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	m := e.Mark(6)

	if _, err := e.Apply([]change.Change{{Start: 0, End: 0, Replacement: []byte("XYZ")}}, false); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := e.ResolveMark(m); got != 9 {
		t.Errorf("ResolveMark() = %d, want 9", got)
	}
}

func TestNewFromFileAndSaveInPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	opts := defaultTestOptions()
	e, err := NewFromFile(f, WithOptions(opts))
	if err != nil {
		t.Fatalf("NewFromFile: %v", err)
	}
	defer e.Close()

	if _, err := e.Apply([]change.Change{{Start: 11, End: 11, Replacement: []byte("!")}}, false); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := e.SaveInPlace(); err != nil {
		t.Fatalf("SaveInPlace: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello world!" {
		t.Errorf("file content = %q, want %q", got, "hello world!")
	}
}

func TestSaveInPlaceRequiresFileBacking(t *testing.T) {
	e := New()
	if err := e.SaveInPlace(); err == nil {
		t.Errorf("expected an error saving a non-file-backed engine")
	}
}
