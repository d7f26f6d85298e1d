package homography

import (
	"math"
	"math/rand"

	"github.com/cm68/artracker/internal/config"
)

// Result is the outcome of a RANSAC homography fit.
type Result struct {
	H       Matrix
	Inliers []bool // per-correspondence inlier mask, len == len(src)
	Good    int    // number of true entries in Inliers
}

// EstimateRANSAC robustly fits a homography mapping src[i] -> dst[i],
// tolerant of outlier correspondences: repeatedly sample a minimal set
// with rand.Perm, fit the minimal model, count inliers by reprojection
// distance, keep the best model, then refit on all inliers of the best
// model.
//
// On failure to find any 4-point sample producing a model with at least
// SampleSize inliers, returns H = Identity and Good = 0.
func EstimateRANSAC(src, dst []Point, p config.RANSACParams) Result {
	n := len(src)
	if n != len(dst) || n < p.SampleSize {
		return Result{H: Identity(), Inliers: make([]bool, n)}
	}

	bestMask := make([]bool, n)
	bestCount := 0
	var bestH Matrix

	maxIters := p.MaxIterations
	itersPlanned := maxIters

	for iter := 0; iter < itersPlanned; iter++ {
		idx := rand.Perm(n)[:p.SampleSize]
		sampleSrc := make([]Point, p.SampleSize)
		sampleDst := make([]Point, p.SampleSize)
		for i, j := range idx {
			sampleSrc[i] = src[j]
			sampleDst[i] = dst[j]
		}

		h, err := FitDLT(sampleSrc, sampleDst)
		if err != nil {
			continue
		}

		mask := make([]bool, n)
		count := 0
		for i := 0; i < n; i++ {
			rx, ry, ok := h.Apply(src[i].X, src[i].Y)
			if !ok {
				continue
			}
			dx := rx - dst[i].X
			dy := ry - dst[i].Y
			if math.Hypot(dx, dy) <= p.ReprojectionThreshold {
				mask[i] = true
				count++
			}
		}

		if count > bestCount {
			bestCount = count
			bestMask = mask
			bestH = h

			// Adaptive early termination: shrink the iteration budget once
			// the observed inlier ratio implies fewer samples are needed
			// to reach the requested confidence, never exceeding the
			// configured maximum.
			inlierRatio := float64(count) / float64(n)
			if inlierRatio > 0 && inlierRatio < 1 {
				outlierRatio := 1 - inlierRatio
				denom := math.Log(1 - math.Pow(1-outlierRatio, float64(p.SampleSize)))
				if denom < 0 {
					needed := int(math.Ceil(math.Log(1-p.Confidence) / denom))
					if needed < itersPlanned && needed > 0 {
						itersPlanned = needed
					}
					if itersPlanned > maxIters {
						itersPlanned = maxIters
					}
				}
			}
		}
	}

	if bestCount < p.SampleSize {
		return Result{H: Identity(), Inliers: make([]bool, n)}
	}

	// Refit on all inliers of the best model.
	inlierSrc := make([]Point, 0, bestCount)
	inlierDst := make([]Point, 0, bestCount)
	for i, ok := range bestMask {
		if ok {
			inlierSrc = append(inlierSrc, src[i])
			inlierDst = append(inlierDst, dst[i])
		}
	}
	if refit, err := FitDLT(inlierSrc, inlierDst); err == nil {
		bestH = refit
	}

	return Result{H: bestH, Inliers: bestMask, Good: bestCount}
}

// CompactInliers reorders points so that entries with mask[i] == true are
// moved to the front, returning the count moved. Used by the LK tracker to
// keep only the RANSAC inliers among its tracked points, in place without
// extra allocation.
func CompactInliers(points []Point, mask []bool) int {
	w := 0
	for i, ok := range mask {
		if ok {
			points[w] = points[i]
			w++
		}
	}
	return w
}
