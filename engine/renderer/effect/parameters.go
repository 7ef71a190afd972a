package effect

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"golang.org/x/crypto/blake2b"
)

// CompilerParameters are the values an effect is compiled against.
type CompilerParameters map[string]any

// ParametersFrom collects the compiler-flagged values of a parameter collection.
//
// Parameters:
//   - c: the collection, may be nil
//
// Returns:
//   - CompilerParameters: the compiler values, never nil
func ParametersFrom(c *graphics.ParameterCollection) CompilerParameters {
	if c == nil {
		return CompilerParameters{}
	}
	return CompilerParameters(c.CompilerValues())
}

// Contains reports whether p satisfies every entry of subset. A nil value in subset means the key
// was read but unset, so p matches only when it does not set the key either.
//
// Parameters:
//   - subset: the used parameters recorded by an earlier compile
//
// Returns:
//   - bool: true if a compile under p would read the same values
func (p CompilerParameters) Contains(subset CompilerParameters) bool {
	for k, want := range subset {
		got, ok := p[k]
		if want == nil {
			if ok && got != nil {
				return false
			}
			continue
		}
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy.
func (p CompilerParameters) Clone() CompilerParameters {
	if p == nil {
		return CompilerParameters{}
	}
	return maps.Clone(p)
}

// Hash is stable across map iteration order and distinguishes values of different types.
func (p CompilerParameters) Hash() [32]byte {
	h, _ := blake2b.New256(nil)
	for _, k := range slices.Sorted(maps.Keys(p)) {
		fmt.Fprintf(h, "%s=%T:%v;", k, p[k], p[k])
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
