package flash

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/marcinbor85/gohex"
)

func TestLoadImageRawBinary(t *testing.T) {
	want := []byte{0x00, 0x11, 0x22, 0x33}
	path := filepath.Join(t.TempDir(), "fw.bin")
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("LoadImage() = %x, want %x", got, want)
	}
}

func TestLoadImageIntelHexFillsGaps(t *testing.T) {
	// Two segments with a 4-byte hole between them; the flattened image
	// must fill the hole with the erased flash value.
	mem := gohex.NewMemory()
	mem.AddBinary(0x08000000, []byte{1, 2, 3, 4})
	mem.AddBinary(0x08000008, []byte{5, 6})

	path := filepath.Join(t.TempDir(), "fw.hex")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := mem.DumpIntelHex(f, 16); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage() error: %v", err)
	}

	want := []byte{1, 2, 3, 4, 0xff, 0xff, 0xff, 0xff, 5, 6}
	if !bytes.Equal(got, want) {
		t.Errorf("LoadImage() = %x, want %x", got, want)
	}
}

func TestLoadImageHexWithNoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.hex")
	// EOF record only.
	if err := os.WriteFile(path, []byte(":00000001FF\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadImage(path); err == nil {
		t.Fatal("expected error for hex file with no data records")
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.bin")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
