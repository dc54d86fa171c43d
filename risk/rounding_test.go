package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		lot  float64
		step float64
		want float64
	}{
		{"exact multiple", 0.05, 0.01, 0.05},
		{"rounds down", 0.057, 0.01, 0.05},
		{"below one step", 0.004, 0.01, 0},
		{"coarse step", 0.37, 0.1, 0.3},
		{"unit step", 7.9, 1, 7},
		{"zero lot", 0, 0.01, 0},
		{"negative lot", -0.5, 0.01, 0},
		{"zero step", 0.5, 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, RoundToStep(tt.lot, tt.step), 1e-9)
		})
	}
}

func TestRoundToStepIdempotent(t *testing.T) {
	t.Parallel()

	steps := []float64{0.01, 0.1, 0.25, 1}
	lots := []float64{0.01, 0.05, 0.057, 0.3, 0.99, 1.234567, 42.42, 1000.001}

	for _, step := range steps {
		for _, lot := range lots {
			once := RoundToStep(lot, step)
			twice := RoundToStep(once, step)
			assert.Equal(t, once, twice, "lot %g step %g", lot, step)
		}
	}
}
