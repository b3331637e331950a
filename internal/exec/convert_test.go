package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		val      float64
		src, dst string
		want     float64
	}{
		{100, "c", "f", 212},
		{32, "f", "c", 0},
		{100, "celsius", "fahrenheit", 212},
		{1, "inch", "cm", 2.54},
		{2.54, "cm", "in", 1},
		{1, "m", "ft", 3.28084},
		{3.28084, "feet", "meters", 1},
		{1, "kg", "lb", 2.20462},
		{2.20462, "pounds", "kilograms", 1},
	}

	for _, tt := range tests {
		got, ok := Convert(tt.val, tt.src, tt.dst)
		require.True(t, ok, "%s to %s", tt.src, tt.dst)
		assert.InDelta(t, tt.want, got, 1e-6, "%s to %s", tt.src, tt.dst)
	}
}

func TestConvertUnsupportedPairs(t *testing.T) {
	pairs := [][2]string{
		{"c", "kg"},
		{"liters", "gallons"},
		{"cm", "cm"},
		{"", "f"},
	}
	for _, p := range pairs {
		_, ok := Convert(1, p[0], p[1])
		assert.False(t, ok, "%s to %s", p[0], p[1])
	}
}

func TestEvalArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2+2", "4"},
		{"(3+4)*2", "14"},
		{"100/4", "25"},
		{"10-3*2", "4"},
		// Division keeps the fractional part.
		{"5/2", "2.5"},
		{"100/8", "12.5"},
		{"1.5*2", "3"},
	}
	for _, tt := range tests {
		got, err := EvalArithmetic(tt.expr)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, got, tt.expr)
	}
}

func TestEvalArithmeticErrors(t *testing.T) {
	for _, expr := range []string{"", "2+", "((1+2)"} {
		_, err := EvalArithmetic(expr)
		assert.Error(t, err, expr)
	}
}
