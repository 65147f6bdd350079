package common

import "math"

const (
	BaseWidth  = 1280
	BaseHeight = 720
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// Heading returns the unit vector for an angle in degrees, in screen
// coordinates (y grows downward, 0° points right, 90° points down).
func Heading(deg float64) (float64, float64) {
	r := DegToRad(deg)
	return math.Cos(r), math.Sin(r)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
