package dynamo

import "math"

// NormalizeDegrees maps a finite angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -1e-17 + 360 rounds to 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}

func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180 }
func Rad2Deg(rad float64) float64 { return rad * 180 / math.Pi }
