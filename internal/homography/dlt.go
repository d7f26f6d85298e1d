package homography

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// ErrTooFewPoints is returned when fewer than 4 correspondences are given.
var ErrTooFewPoints = errors.New("homography: need at least 4 point correspondences")

// ErrDegenerate is returned when the linear system built from the
// correspondences cannot be solved (near-singular design matrix).
var ErrDegenerate = errors.New("homography: degenerate point configuration")

// FitDLT computes the homography H mapping src[i] -> dst[i] via the direct
// linear transform, fixing h22=1 and solving for the remaining 8 unknowns.
// len(src) must equal len(dst) and be >= 4; with exactly 4 points the
// exact minimal system is solved directly, and with more than 4 an
// overdetermined least-squares refit is used via QR.
func FitDLT(src, dst []Point) (Matrix, error) {
	n := len(src)
	if n != len(dst) {
		return Matrix{}, errors.New("homography: src/dst length mismatch")
	}
	if n < 4 {
		return Matrix{}, ErrTooFewPoints
	}

	A := mat.NewDense(2*n, 8, nil)
	b := mat.NewVecDense(2*n, nil)

	for i := 0; i < n; i++ {
		X, Y := src[i].X, src[i].Y
		x, y := dst[i].X, dst[i].Y
		r := 2 * i

		// x' = (h0*X + h1*Y + h2) / (h6*X + h7*Y + 1)
		A.SetRow(r, []float64{X, Y, 1, 0, 0, 0, -X * x, -Y * x})
		b.SetVec(r, x)

		// y' = (h3*X + h4*Y + h5) / (h6*X + h7*Y + 1)
		A.SetRow(r+1, []float64{0, 0, 0, X, Y, 1, -X * y, -Y * y})
		b.SetVec(r+1, y)
	}

	var params mat.VecDense
	if n == 4 {
		if err := params.SolveVec(A, b); err != nil {
			return Matrix{}, ErrDegenerate
		}
	} else {
		var qr mat.QR
		qr.Factorize(A)
		if err := qr.SolveVecTo(&params, false, b); err != nil {
			return Matrix{}, ErrDegenerate
		}
	}

	h := Matrix{
		params.AtVec(0), params.AtVec(1), params.AtVec(2),
		params.AtVec(3), params.AtVec(4), params.AtVec(5),
		params.AtVec(6), params.AtVec(7), 1,
	}
	return h, nil
}

// Point is a plain 2D point used by the homography package, kept
// independent of pkg/geometry so this package has no dependency beyond
// gonum (pkg/geometry.Point2D and homography.Point are structurally
// identical and freely convertible by the caller).
type Point struct {
	X, Y float64
}
