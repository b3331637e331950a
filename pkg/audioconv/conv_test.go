package audioconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDownmixInterleaved(t *testing.T) {
	stereo := []float32{1, 0, 0.5, 0.5, -1, 1}
	mono := downmixInterleaved(stereo, 2)

	assert.Equal(t, []float32{0.5, 0.5, 0}, mono)
}

func TestDownmixMonoPassthrough(t *testing.T) {
	in := []float32{0.1, 0.2}
	assert.Equal(t, in, downmixInterleaved(in, 1))
}

func TestResampleLinearHalvesRate(t *testing.T) {
	in := make([]float32, 480)
	for i := range in {
		in[i] = float32(i)
	}
	out := resampleLinear(in, 32000, 16000)

	assert.Len(t, out, 240)
	// Every output sample lands exactly between input neighbors.
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 2, out[1], 1e-6)
	assert.InDelta(t, 200, out[100], 1e-6)
}

func TestResampleLinearNoopOnSameRate(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	assert.Equal(t, in, resampleLinear(in, 16000, 16000))
}

func TestFinishAppliesCap(t *testing.T) {
	in := make([]float32, 1000)
	out := finish(in, 1, targetRate, 100)
	assert.Len(t, out, 100)
}

func TestInt16Conversion(t *testing.T) {
	out := int16sToFloat32([]int16{0, 16384, -32768})
	assert.InDelta(t, 0, out[0], 1e-6)
	assert.InDelta(t, 0.5, out[1], 1e-6)
	assert.InDelta(t, -1, out[2], 1e-6)
}
