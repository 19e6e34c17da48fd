package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("unit length result", func(t *testing.T) {
		v := Normalize([]float32{3, 4})

		var magnitude float64
		for _, val := range v {
			magnitude += float64(val) * float64(val)
		}
		assert.InDelta(t, 1.0, math.Sqrt(magnitude), 1e-6)
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := Normalize([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, v)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, Normalize(nil))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []float32{3, 4}
		Normalize(in)
		assert.Equal(t, []float32{3, 4}, in)
	})
}

func TestRound5(t *testing.T) {
	out := Round5([]float32{0.123456789, 1.000004, -0.999999})

	assert.Equal(t, 0.12346, out[0])
	assert.Equal(t, 1.0, out[1])
	assert.Equal(t, -1.0, out[2])
}

func TestRound5Empty(t *testing.T) {
	assert.Empty(t, Round5(nil))
}
