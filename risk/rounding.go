package risk

import "math"

// stepEpsilon absorbs binary float error when a lot is already an exact
// multiple of the step (0.05/0.01 computes as 4.999...), which keeps
// RoundToStep idempotent.
const stepEpsilon = 1e-9

// RoundToStep rounds a lot size down to the nearest multiple of step.
// Rounding down is deliberate: sizes may never round up past a cap.
func RoundToStep(lot, step float64) float64 {
	if step <= 0 || lot <= 0 {
		return 0
	}
	return math.Floor(lot/step+stepEpsilon) * step
}
