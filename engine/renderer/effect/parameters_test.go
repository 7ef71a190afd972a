package effect

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-compose/engine/graphics"
	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	p := CompilerParameters{"A": 1, "B": "x", "C": []int{1, 2}}
	tests := []struct {
		name   string
		subset CompilerParameters
		want   bool
	}{
		{name: "empty subset", subset: nil, want: true},
		{name: "equal values", subset: CompilerParameters{"A": 1, "B": "x"}, want: true},
		{name: "slice value", subset: CompilerParameters{"C": []int{1, 2}}, want: true},
		{name: "different value", subset: CompilerParameters{"A": 2}, want: false},
		{name: "different type", subset: CompilerParameters{"A": int64(1)}, want: false},
		{name: "missing key", subset: CompilerParameters{"D": 1}, want: false},
		{name: "read unset and unset", subset: CompilerParameters{"D": nil}, want: true},
		{name: "read unset but set", subset: CompilerParameters{"A": nil}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Contains(tt.subset))
		})
	}
}

func TestHashIsOrderIndependentAndTyped(t *testing.T) {
	a := CompilerParameters{"X": 1, "Y": true, "Z": "s"}
	b := CompilerParameters{"Z": "s", "Y": true, "X": 1}
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), CompilerParameters{"X": "1", "Y": true, "Z": "s"}.Hash())
	assert.Equal(t, CompilerParameters(nil).Hash(), CompilerParameters{}.Hash())
}

func TestCloneIsIndependent(t *testing.T) {
	a := CompilerParameters{"X": 1}
	b := a.Clone()
	b["X"] = 2
	assert.Equal(t, 1, a["X"])
	assert.NotNil(t, CompilerParameters(nil).Clone())
}

func TestParametersFromCollection(t *testing.T) {
	c := graphics.NewParameterCollection()
	graphics.SetParameter(c, graphics.NewCompilerKey[bool]("Skinned"), true)
	graphics.SetParameter(c, graphics.NewParameterKey[float32]("Alpha"), 0.5)

	assert.Equal(t, CompilerParameters{"Skinned": true}, ParametersFrom(c))
	assert.Equal(t, CompilerParameters{}, ParametersFrom(nil))
}
