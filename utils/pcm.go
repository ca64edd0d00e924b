// SPDX-License-Identifier: EPL-2.0

// Package utils holds the small numeric helpers shared by the audio and
// format packages.
package utils

import "math"

// Float32ToInt16 converts a normalized sample to 16-bit PCM, clamping values
// outside [-1, 1].
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 for the positive peak avoids overflow at x == 1
	return int16(x * 32767.0)
}

// Int16ToFloat32 is the inverse of Float32ToInt16 for decoded PCM.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// ClampUnit saturates x to the [-1, 1] range.
func ClampUnit(x float32) float32 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	}
	return x
}

// CubicInterpolate performs Catmull-Rom interpolation between y1 and y2.
// x is the fractional position (0 <= x <= 1); y0 and y3 are the outer
// neighbours.
func CubicInterpolate(y0, y1, y2, y3, x float32) float32 {
	a0 := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	a1 := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	a2 := -0.5*y0 + 0.5*y2
	a3 := y1

	return a0*x*x*x + a1*x*x + a2*x + a3
}

// DBToGain converts a decibel change into a linear amplitude factor.
// -10 dB yields ~0.3162.
func DBToGain(db float64) float64 {
	return math.Pow(10, db/20)
}
