package blend

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// SmoothLerp interpolates with smoothstep easing applied to t, so the
// transition accelerates in and decelerates out. General utility for
// preview and UI-adjacent callers; the blend algorithms themselves use
// plain Lerp.
func SmoothLerp(a, b, t float64) float64 {
	smooth := t * t * (3.0 - 2.0*t)
	return a + (b-a)*smooth
}

// Clamp limits v to the [lo, hi] range.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
