// Package workspace manages the scratch directory used to stage firmware
// chunks as files. The GDB restore command reads staged chunks from disk by
// path, so every chunk must be fully flushed before the session references
// it.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Manager owns one scratch directory. A Manager is created per upload run;
// the directory is wiped by Reset and repopulated by Stage, one file per
// chunk.
type Manager struct {
	root string
}

// New creates a manager rooted at the given directory. The directory is not
// created until Reset is called.
func New(root string) *Manager {
	return &Manager{root: root}
}

// NewTemp creates a manager rooted at a uniquely named directory under the
// system temp dir, so concurrent invocations of the tool cannot stage into
// each other's workspace.
func NewTemp() *Manager {
	return New(filepath.Join(os.TempDir(), "gdbflash-"+uuid.NewString()))
}

// Root returns the scratch directory path.
func (m *Manager) Root() string {
	return m.root
}

// Reset removes the scratch directory and everything in it, then recreates
// it empty. Called once per upload run before any chunk is staged.
func (m *Manager) Reset() error {
	if _, err := os.Stat(m.root); err == nil {
		if err := os.RemoveAll(m.root); err != nil {
			return &Error{Op: "reset", Path: m.root, Err: err}
		}
	}

	if err := os.MkdirAll(m.root, 0o755); err != nil {
		return &Error{Op: "reset", Path: m.root, Err: err}
	}
	return nil
}

// Stage writes one chunk's bytes to a fresh file named by chunk index and
// returns its absolute path. The file must not already exist; a collision
// means Reset was skipped or the same index was staged twice. Contents are
// synced to disk before returning so the external debugger process observes
// the complete file.
func (m *Manager) Stage(chunkIndex int, data []byte) (string, error) {
	path := filepath.Join(m.root, fmt.Sprintf("chunk_%d.bin", chunkIndex))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", &Error{Op: "stage", Path: path, Err: err}
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", &Error{Op: "stage", Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", &Error{Op: "stage", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &Error{Op: "stage", Path: path, Err: err}
	}

	return path, nil
}

// Error represents a filesystem failure while preparing or staging the
// workspace.
type Error struct {
	// Op is the workspace operation that failed ("reset" or "stage")
	Op string
	// Path is the directory or file involved
	Path string
	// Underlying error
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("workspace %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
