package flash

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stmtools/gdbflash/internal/parse"
	"github.com/stmtools/gdbflash/internal/workspace"
)

// Target is the slice of the debug session the uploader needs: write a
// staged file into a named RAM buffer, and invoke a target-side routine.
// *session.Session implements it; tests substitute a simulated target.
type Target interface {
	// WriteFileToMemory restores a local file into the named RAM buffer and
	// returns the byte count actually written.
	WriteFileToMemory(buffer, path string) (int, error)

	// Call invokes a target function with up to two unsigned integer
	// arguments, returning the raw result line when a return value is
	// expected.
	Call(symbol string, args []uint32, expectReturn bool) (string, error)
}

// Progress is a snapshot of upload progress handed to the OnProgress
// callback after each verified chunk.
type Progress struct {
	ChunkIndex       int
	ChunkCount       int
	BytesTransferred int
	TotalBytes       int
	Elapsed          time.Duration
}

// ProgressFunc receives progress snapshots. It is called from the upload
// loop, so it should return promptly.
type ProgressFunc func(Progress)

// Options configures one upload run.
type Options struct {
	// SourcePath is the firmware image (raw binary, or Intel HEX by .hex
	// extension).
	SourcePath string

	// BufferName is the symbol of the target RAM buffer used as the relay
	// point for each chunk.
	BufferName string

	// ChunkSize is the transfer unit in bytes; must be positive and no
	// larger than the RAM buffer.
	ChunkSize int

	// FlashBase is the offset in external flash where the image starts.
	FlashBase uint32

	// CopyFunc is the target routine copying the RAM buffer into flash. It
	// is invoked as CopyFunc(flashOffset, byteCount) and must return the
	// wraparound checksum of the bytes it copied.
	CopyFunc string

	// Workspace stages chunk files. When nil a fresh temp workspace is used.
	Workspace *workspace.Manager

	// OnProgress, when set, is invoked after each verified chunk.
	OnProgress ProgressFunc
}

// Uploader orchestrates chunked, checksum-verified firmware uploads over a
// debug session.
type Uploader struct {
	logger *zap.Logger
	parser *parse.Parser
}

// NewUploader creates an uploader logging to the given handle.
func NewUploader(logger *zap.Logger) *Uploader {
	return &Uploader{
		logger: logger,
		parser: parse.NewParser(),
	}
}

// Upload transfers the source image into target flash, one chunk at a time,
// strictly in order. Each chunk is staged to disk, restored into the RAM
// buffer, copied to flash by the target routine and verified against the
// host checksum. The first error of any kind aborts the run; chunks already
// flashed stay in place.
func (u *Uploader) Upload(target Target, opts Options) error {
	if opts.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", opts.ChunkSize)
	}

	image, err := LoadImage(opts.SourcePath)
	if err != nil {
		return err
	}

	ws := opts.Workspace
	if ws == nil {
		ws = workspace.NewTemp()
	}

	chunkCount := ChunkCount(len(image), opts.ChunkSize)
	u.logger.Info("starting upload",
		zap.String("source", opts.SourcePath),
		zap.Int("total_bytes", len(image)),
		zap.Int("chunk_size", opts.ChunkSize),
		zap.Int("chunks", chunkCount),
		zap.String("buffer", opts.BufferName),
		zap.String("copy_func", opts.CopyFunc),
		zap.Uint32("flash_base", opts.FlashBase),
	)

	if err := ws.Reset(); err != nil {
		return err
	}

	start := time.Now()
	flashOffset := opts.FlashBase
	bytesTransferred := 0

	for i := 0; i < chunkCount; i++ {
		chunk := chunkAt(image, i, opts.ChunkSize)
		hostSum := Checksum(chunk)

		path, err := ws.Stage(i, chunk)
		if err != nil {
			return err
		}

		written, err := target.WriteFileToMemory(opts.BufferName, path)
		if err != nil {
			return err
		}
		if written != len(chunk) {
			// The reported range is authoritative for accounting, but a
			// disagreement with the staged size is worth surfacing.
			u.logger.Warn("reported write size differs from chunk size",
				zap.Int("chunk", i),
				zap.Int("staged", len(chunk)),
				zap.Int("reported", written),
			)
		}

		result, err := target.Call(opts.CopyFunc, []uint32{flashOffset, uint32(written)}, true)
		if err != nil {
			return err
		}

		targetSum, ok := u.parser.TrailingInteger(result)
		if !ok {
			return &parse.MalformedResponseError{Want: "$N = <checksum>", Line: result}
		}

		if targetSum != hostSum {
			u.logger.Error("chunk checksum mismatch",
				zap.Int("chunk", i),
				zap.Uint32("host", hostSum),
				zap.Uint32("target", targetSum),
			)
			return &ChecksumMismatchError{Host: hostSum, Target: targetSum, Chunk: i}
		}

		flashOffset += uint32(written)
		bytesTransferred += written

		u.logger.Debug("chunk verified",
			zap.Int("chunk", i),
			zap.Int("chunks", chunkCount),
			zap.Int("bytes", written),
			zap.Uint32("checksum", hostSum),
			zap.Int("transferred", bytesTransferred),
		)

		if opts.OnProgress != nil {
			opts.OnProgress(Progress{
				ChunkIndex:       i,
				ChunkCount:       chunkCount,
				BytesTransferred: bytesTransferred,
				TotalBytes:       len(image),
				Elapsed:          time.Since(start),
			})
		}
	}

	u.logger.Info("upload complete",
		zap.Int("bytes", bytesTransferred),
		zap.Int("chunks", chunkCount),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
