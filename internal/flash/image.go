package flash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcinbor85/gohex"
)

// erasedByte is the fill value for gaps between Intel HEX segments, matching
// the erased state of NOR flash.
const erasedByte = 0xff

// LoadImage reads a firmware image into memory. Files with a .hex extension
// are parsed as Intel HEX and flattened into one contiguous image starting
// at the lowest segment address, with inter-segment gaps filled with 0xFF.
// Everything else is read as a raw binary.
func LoadImage(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".hex") {
		return loadIntelHex(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ImageError{Path: path, Err: err}
	}
	return data, nil
}

func loadIntelHex(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ImageError{Path: path, Err: err}
	}
	defer f.Close()

	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(f); err != nil {
		return nil, &ImageError{Path: path, Err: err}
	}

	segments := mem.GetDataSegments()
	if len(segments) == 0 {
		return nil, &ImageError{Path: path, Err: fmt.Errorf("no data records")}
	}

	base := segments[0].Address
	var top uint32
	for _, seg := range segments {
		if seg.Address < base {
			base = seg.Address
		}
		if end := seg.Address + uint32(len(seg.Data)); end > top {
			top = end
		}
	}

	image := make([]byte, top-base)
	for i := range image {
		image[i] = erasedByte
	}
	for _, seg := range segments {
		copy(image[seg.Address-base:], seg.Data)
	}
	return image, nil
}
