package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSPIRVBytesIsLittleEndian(t *testing.T) {
	got := SPIRVBytes([]uint32{0x07230203, 0x00010500})
	assert.Equal(t, []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x05, 0x01, 0x00}, got)
	assert.Empty(t, SPIRVBytes(nil))
}
