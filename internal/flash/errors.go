package flash

import "fmt"

// ChecksumMismatchError represents a chunk whose target-side checksum does
// not match the host's. The upload is aborted at the offending chunk; the
// chunks before it are already in flash and are not rolled back.
type ChecksumMismatchError struct {
	// Host is the checksum computed over the chunk bytes on this side
	Host uint32
	// Target is the checksum the copy routine reported
	Target uint32
	// Chunk is the zero-based index of the offending chunk
	Chunk int
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch on chunk %d: host=%d target=%d",
		e.Chunk, e.Host, e.Target)
}

// ImageError represents a source image that could not be read or decoded.
type ImageError struct {
	// Path is the image file
	Path string
	// Underlying error
	Err error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}
