package feature

import (
	"errors"
	"math"

	"github.com/cm68/artracker/internal/imaging"
)

// ErrEmptyImage is returned when DetectCorners is given a plane with zero
// width or height: a caller-side bug, since every producer of a Plane
// (Grayscale, Resample, PyramidDown) sizes it from a positive source
// dimension.
var ErrEmptyImage = errors.New("feature: image has zero width or height")

// DetectCorners runs a YAPE06-style detector over plane: a discrete
// Laplacian-like response identifies candidate pixels, then a
// minimum-eigenvalue test of the local gradient structure matrix rejects
// candidates that are not corner-like (edges have one large and one
// near-zero eigenvalue; corners have two large eigenvalues). Candidates
// within border pixels of any edge are excluded. At most maxN keypoints
// are returned, sorted by descending score.
//
// Returns ErrEmptyImage if plane has zero width or height. A border wide
// enough to swallow the entire plane is not an error: it simply yields no
// candidates.
func DetectCorners(plane *imaging.Plane, border int, lapThreshold, eigenThreshold float64, maxN int) ([]Keypoint, error) {
	w, h := plane.Width, plane.Height
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}
	if w-2*border <= 0 || h-2*border <= 0 {
		return nil, nil
	}

	var candidates []Keypoint
	for y := border; y < h-border; y++ {
		for x := border; x < w-border; x++ {
			lap := laplacianResponse(plane, x, y)
			if lap <= lapThreshold {
				continue
			}
			lambdaMin := minEigenvalue(plane, x, y)
			if lambdaMin <= eigenThreshold {
				continue
			}
			candidates = append(candidates, Keypoint{
				X:     float64(x),
				Y:     float64(y),
				Score: lambdaMin,
			})
		}
	}

	return SortAndTruncate(candidates, maxN), nil
}

// laplacianResponse returns the magnitude of the discrete 4-neighbor
// Laplacian at (x, y).
func laplacianResponse(p *imaging.Plane, x, y int) float64 {
	center := int(p.At(x, y))
	sum := int(p.At(x-1, y)) + int(p.At(x+1, y)) + int(p.At(x, y-1)) + int(p.At(x, y+1))
	v := 4*center - sum
	if v < 0 {
		v = -v
	}
	return float64(v)
}

// structureWindow is the half-size of the window summed when building the
// local gradient structure matrix.
const structureWindow = 2

// minEigenvalue computes the smaller eigenvalue of the local structure
// (second-moment) matrix built from Sobel-like gradients over a small
// window centered at (x, y), the classic Shi-Tomasi corner strength.
func minEigenvalue(p *imaging.Plane, x, y int) float64 {
	var sxx, syy, sxy float64
	for dy := -structureWindow; dy <= structureWindow; dy++ {
		for dx := -structureWindow; dx <= structureWindow; dx++ {
			gx, gy := sobel(p, x+dx, y+dy)
			sxx += gx * gx
			syy += gy * gy
			sxy += gx * gy
		}
	}
	trace := sxx + syy
	det := sxx*syy - sxy*sxy
	disc := trace*trace - 4*det
	if disc < 0 {
		disc = 0
	}
	return (trace - math.Sqrt(disc)) / 2
}

// sobel returns the horizontal/vertical Sobel gradient at (x, y).
func sobel(p *imaging.Plane, x, y int) (gx, gy float64) {
	tl, tc, tr := float64(p.At(x-1, y-1)), float64(p.At(x, y-1)), float64(p.At(x+1, y-1))
	ml, _, mr := float64(p.At(x-1, y)), float64(p.At(x, y)), float64(p.At(x+1, y))
	bl, bc, br := float64(p.At(x-1, y+1)), float64(p.At(x, y+1)), float64(p.At(x+1, y+1))

	gx = (tr + 2*mr + br) - (tl + 2*ml + bl)
	gy = (bl + 2*bc + br) - (tl + 2*tc + tr)
	return gx, gy
}
