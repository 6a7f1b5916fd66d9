package collision

import "math"

// LowestRoot solves a*t² + b*t + c = 0 and returns the smallest root in the
// open interval (0, maxR).
func LowestRoot(a, b, c, maxR float64) (float64, bool) {
	determinant := b*b - 4*a*c
	if determinant < 0 {
		return 0, false
	}

	sqrtD := math.Sqrt(determinant)
	r1 := (-b - sqrtD) / (2 * a)
	r2 := (-b + sqrtD) / (2 * a)
	if r1 > r2 {
		r1, r2 = r2, r1
	}

	if r1 > 0 && r1 < maxR {
		return r1, true
	}
	if r2 > 0 && r2 < maxR {
		return r2, true
	}
	return 0, false
}
