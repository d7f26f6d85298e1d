// Package homography implements the 3x3 planar homography value type, its
// 4-point DLT kernel, and a RANSAC estimator robust to outlier
// correspondences.
package homography

import "math"

// Matrix is a fixed-size 3x3 value type: no dynamic shape, so it can be
// copied and compared by value like any other small numeric type.
type Matrix [9]float64

// Identity returns the 3x3 identity homography.
func Identity() Matrix {
	return Matrix{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Apply transforms (x, y) through H in homogeneous form, dividing by the w
// component. ok is false if the homogeneous denominator is numerically
// zero.
func (h Matrix) Apply(x, y float64) (rx, ry float64, ok bool) {
	w := h[6]*x + h[7]*y + h[8]
	if math.Abs(w) < 1e-12 {
		return 0, 0, false
	}
	rx = (h[0]*x + h[1]*y + h[2]) / w
	ry = (h[3]*x + h[4]*y + h[5]) / w
	return rx, ry, true
}

// Mul returns the matrix product h*other, i.e. applying other first then h
// (used to compose an incremental tracking homography onto the base
// homography).
func (h Matrix) Mul(other Matrix) Matrix {
	var out Matrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += h[r*3+k] * other[k*3+c]
			}
			out[r*3+c] = sum
		}
	}
	return out
}

// Inverse returns the matrix inverse via the adjugate/determinant formula
// (3x3 closed form; no dynamic-shape solver needed for a fixed 3x3). ok is
// false when H is numerically singular.
func (h Matrix) Inverse() (Matrix, bool) {
	a, b, c := h[0], h[1], h[2]
	d, e, f := h[3], h[4], h[5]
	g, i, j := h[6], h[7], h[8]

	det := a*(e*j-f*i) - b*(d*j-f*g) + c*(d*i-e*g)
	if math.Abs(det) < 1e-15 {
		return Matrix{}, false
	}
	invDet := 1 / det

	return Matrix{
		(e*j - f*i) * invDet, (c*i - b*j) * invDet, (b*f - c*e) * invDet,
		(f*g - d*j) * invDet, (a*j - c*g) * invDet, (c*d - a*f) * invDet,
		(d*i - e*g) * invDet, (b*g - a*i) * invDet, (a*e - b*d) * invDet,
	}, true
}

// IsRank3 reports whether H is non-singular within tolerance, i.e. the
// determinant is not near zero.
func (h Matrix) IsRank3() bool {
	_, ok := h.Inverse()
	return ok
}
