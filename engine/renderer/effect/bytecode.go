package effect

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/shader"
	"golang.org/x/crypto/blake2b"
)

// EffectBytecode is the immutable output of one compile, identified by the hash of its SPIR-V.
type EffectBytecode struct {
	// Name is the effect name the bytecode was compiled for.
	Name string

	// Hash is the blake2b-256 of the SPIR-V words.
	Hash [32]byte

	SPIRV []uint32

	// Source is the expanded WGSL the SPIR-V was compiled from.
	Source string

	// UsedParameters is the subset of the request parameters the expansion read.
	UsedParameters CompilerParameters

	// Dependencies maps every source file name the expansion read to its content hash.
	Dependencies map[string][32]byte

	Reflection shader.Reflection
}

// NewEffectBytecode fills in Hash from spirv.
func NewEffectBytecode(name string, spirv []uint32, source string, used CompilerParameters, deps map[string][32]byte) *EffectBytecode {
	return &EffectBytecode{
		Name:           name,
		Hash:           HashSPIRV(spirv),
		SPIRV:          spirv,
		Source:         source,
		UsedParameters: used,
		Dependencies:   deps,
		Reflection:     shader.Reflect(source),
	}
}

// DependsOn reports whether any of names is among the bytecode's source dependencies.
func (b *EffectBytecode) DependsOn(names ...string) bool {
	for _, n := range names {
		if _, ok := b.Dependencies[n]; ok {
			return true
		}
	}
	return false
}

// HashSPIRV hashes SPIR-V words in their little-endian byte order.
func HashSPIRV(words []uint32) [32]byte {
	return blake2b.Sum256(graphics.SPIRVBytes(words))
}

// spirvWords converts little-endian SPIR-V bytes to words. Trailing bytes that do not fill a word are dropped.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
	return words
}
