package flash

// Checksum computes the wraparound checksum of a chunk: the sum of all byte
// values modulo 2^32. This matches the checksum the target-side copy
// routine computes over the bytes it moved into flash.
func Checksum(data []byte) uint32 {
	var sum uint32
	for _, b := range data {
		sum += uint32(b)
	}
	return sum
}

// ChunkCount returns ceil(totalBytes / chunkSize).
func ChunkCount(totalBytes, chunkSize int) int {
	if totalBytes == 0 {
		return 0
	}
	return (totalBytes + chunkSize - 1) / chunkSize
}

// chunkAt returns the byte range of chunk i, with every chunk but the last
// exactly chunkSize long.
func chunkAt(data []byte, i, chunkSize int) []byte {
	start := i * chunkSize
	end := start + chunkSize
	if end > len(data) {
		end = len(data)
	}
	return data[start:end]
}
