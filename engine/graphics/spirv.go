package graphics

import "encoding/binary"

// SPIRVBytes returns SPIR-V words in their little-endian byte order, the layout shader module
// descriptors that take raw bytes expect.
//
// Parameters:
//   - words: the SPIR-V words
//
// Returns:
//   - []byte: 4*len(words) bytes
func SPIRVBytes(words []uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}
