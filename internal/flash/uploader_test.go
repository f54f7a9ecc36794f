package flash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/stmtools/gdbflash/internal/workspace"
)

// fakeTarget simulates the debug session and the target-side copy routine.
// It reads back each staged file (like GDB's restore would) and computes the
// checksum the copy routine would return, optionally corrupting one chunk.
type fakeTarget struct {
	corruptChunk int // index whose checksum to corrupt; -1 for none

	writes    int
	lastChunk []byte
	callArgs  [][]uint32
	valueID   int
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{corruptChunk: -1}
}

func (f *fakeTarget) WriteFileToMemory(buffer, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	f.lastChunk = data
	f.writes++
	return len(data), nil
}

func (f *fakeTarget) Call(symbol string, args []uint32, expectReturn bool) (string, error) {
	f.callArgs = append(f.callArgs, args)
	sum := Checksum(f.lastChunk)
	if len(f.callArgs)-1 == f.corruptChunk {
		sum++
	}
	f.valueID++
	return fmt.Sprintf("$%d = %d", f.valueID, sum), nil
}

func writeSource(t *testing.T, size int) string {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i * 7)
	}
	path := filepath.Join(t.TempDir(), "firmware.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testOptions(t *testing.T, sourcePath string) Options {
	t.Helper()
	return Options{
		SourcePath: sourcePath,
		BufferName: "ram_chunk_buffer",
		ChunkSize:  65536,
		FlashBase:  0,
		CopyFunc:   "copy_chunk_to_flash",
		Workspace:  workspace.New(filepath.Join(t.TempDir(), "staging")),
	}
}

func TestUploadEndToEnd(t *testing.T) {
	target := newFakeTarget()
	u := NewUploader(zap.NewNop())

	var snapshots []Progress
	opts := testOptions(t, writeSource(t, 150000))
	opts.OnProgress = func(p Progress) { snapshots = append(snapshots, p) }

	if err := u.Upload(target, opts); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	if target.writes != 3 {
		t.Fatalf("wrote %d chunks, want 3", target.writes)
	}

	// Copy routine receives (flashOffset, byteCount) per chunk.
	wantArgs := [][]uint32{
		{0, 65536},
		{65536, 65536},
		{131072, 18928},
	}
	for i, want := range wantArgs {
		got := target.callArgs[i]
		if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("chunk %d call args = %v, want %v", i, got, want)
		}
	}

	if len(snapshots) != 3 {
		t.Fatalf("got %d progress snapshots, want 3", len(snapshots))
	}
	last := snapshots[2]
	if last.ChunkIndex != 2 || last.ChunkCount != 3 {
		t.Errorf("last snapshot chunk %d/%d, want 2/3", last.ChunkIndex, last.ChunkCount)
	}
	if last.BytesTransferred != 150000 || last.TotalBytes != 150000 {
		t.Errorf("last snapshot bytes %d/%d, want 150000/150000",
			last.BytesTransferred, last.TotalBytes)
	}
}

func TestUploadRespectsFlashBase(t *testing.T) {
	target := newFakeTarget()
	u := NewUploader(zap.NewNop())

	opts := testOptions(t, writeSource(t, 1000))
	opts.ChunkSize = 400
	opts.FlashBase = 0x80000

	if err := u.Upload(target, opts); err != nil {
		t.Fatalf("Upload() error: %v", err)
	}

	wantOffsets := []uint32{0x80000, 0x80000 + 400, 0x80000 + 800}
	for i, want := range wantOffsets {
		if got := target.callArgs[i][0]; got != want {
			t.Errorf("chunk %d flash offset = %#x, want %#x", i, got, want)
		}
	}
}

func TestUploadChecksumMismatchAborts(t *testing.T) {
	target := newFakeTarget()
	target.corruptChunk = 1
	u := NewUploader(zap.NewNop())

	staging := filepath.Join(t.TempDir(), "staging")
	opts := testOptions(t, writeSource(t, 150000))
	opts.Workspace = workspace.New(staging)

	err := u.Upload(target, opts)

	var mismatch *ChecksumMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected ChecksumMismatchError, got %v", err)
	}
	if mismatch.Chunk != 1 {
		t.Errorf("Chunk = %d, want 1", mismatch.Chunk)
	}
	if mismatch.Target != mismatch.Host+1 {
		t.Errorf("corrupted target checksum %d should be host %d + 1",
			mismatch.Target, mismatch.Host)
	}

	// Nothing past the offending chunk may be staged or written.
	if target.writes != 2 {
		t.Errorf("wrote %d chunks, want 2 (chunks 0 and 1 only)", target.writes)
	}
	entries, readErr := os.ReadDir(staging)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 2 {
		t.Errorf("staged %d files, want 2", len(entries))
	}
}

func TestUploadEmptySource(t *testing.T) {
	target := newFakeTarget()
	u := NewUploader(zap.NewNop())

	if err := u.Upload(target, testOptions(t, writeSource(t, 0))); err != nil {
		t.Fatalf("Upload() of empty file error: %v", err)
	}
	if target.writes != 0 {
		t.Errorf("empty source wrote %d chunks, want 0", target.writes)
	}
}

func TestUploadRejectsInvalidChunkSize(t *testing.T) {
	u := NewUploader(zap.NewNop())

	for _, size := range []int{0, -1} {
		opts := testOptions(t, writeSource(t, 10))
		opts.ChunkSize = size
		if err := u.Upload(newFakeTarget(), opts); err == nil {
			t.Errorf("chunk size %d accepted, want error", size)
		}
	}
}

func TestUploadMissingSource(t *testing.T) {
	u := NewUploader(zap.NewNop())

	opts := testOptions(t, filepath.Join(t.TempDir(), "nope.bin"))
	err := u.Upload(newFakeTarget(), opts)

	var imgErr *ImageError
	if !errors.As(err, &imgErr) {
		t.Fatalf("expected ImageError, got %v", err)
	}
}

// brokenTarget returns malformed call results.
type brokenTarget struct{ fakeTarget }

func (b *brokenTarget) Call(symbol string, args []uint32, expectReturn bool) (string, error) {
	return "not a value line", nil
}

func TestUploadMalformedCallResult(t *testing.T) {
	u := NewUploader(zap.NewNop())

	target := &brokenTarget{fakeTarget: *newFakeTarget()}
	err := u.Upload(target, testOptions(t, writeSource(t, 100)))
	if err == nil {
		t.Fatal("expected error for malformed call result")
	}
}
