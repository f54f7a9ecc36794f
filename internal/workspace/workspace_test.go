package workspace

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResetCreatesEmptyDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "scratch")
	m := New(root)

	if err := m.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty directory, found %d entries", len(entries))
	}
}

func TestResetRemovesPreviousContents(t *testing.T) {
	root := filepath.Join(t.TempDir(), "scratch")
	m := New(root)

	if err := m.Reset(); err != nil {
		t.Fatalf("first Reset() error: %v", err)
	}
	if _, err := m.Stage(0, []byte{1, 2, 3}); err != nil {
		t.Fatalf("Stage() error: %v", err)
	}

	if err := m.Reset(); err != nil {
		t.Fatalf("second Reset() error: %v", err)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected Reset to remove staged files, found %d entries", len(entries))
	}
}

func TestStageWritesChunkFile(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "scratch"))
	if err := m.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	data := []byte{0xde, 0xad, 0xbe, 0xef}
	path, err := m.Stage(3, data)
	if err != nil {
		t.Fatalf("Stage() error: %v", err)
	}

	if filepath.Base(path) != "chunk_3.bin" {
		t.Errorf("staged file name = %s, want chunk_3.bin", filepath.Base(path))
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("staged contents = %x, want %x", got, data)
	}
}

func TestStageRefusesExistingFile(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "scratch"))
	if err := m.Reset(); err != nil {
		t.Fatalf("Reset() error: %v", err)
	}

	if _, err := m.Stage(0, []byte{1}); err != nil {
		t.Fatalf("first Stage() error: %v", err)
	}

	_, err := m.Stage(0, []byte{2})
	if err == nil {
		t.Fatal("expected error staging the same chunk index twice")
	}

	var wsErr *Error
	if !errors.As(err, &wsErr) {
		t.Fatalf("expected workspace.Error, got %T", err)
	}
	if wsErr.Op != "stage" {
		t.Errorf("Op = %q, want %q", wsErr.Op, "stage")
	}
}

func TestStageWithoutResetFails(t *testing.T) {
	m := New(filepath.Join(t.TempDir(), "missing", "scratch"))

	if _, err := m.Stage(0, []byte{1}); err == nil {
		t.Fatal("expected error staging into a directory that does not exist")
	}
}

func TestNewTempUsesUniqueRoots(t *testing.T) {
	a := NewTemp()
	b := NewTemp()

	if a.Root() == b.Root() {
		t.Errorf("expected distinct roots, both are %s", a.Root())
	}
	if !strings.HasPrefix(filepath.Base(a.Root()), "gdbflash-") {
		t.Errorf("root %s does not carry the gdbflash- prefix", a.Root())
	}
}
