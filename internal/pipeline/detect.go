package pipeline

import (
	"errors"

	"github.com/cm68/artracker/internal/arlog"
	"github.com/cm68/artracker/internal/config"
	"github.com/cm68/artracker/internal/feature"
	"github.com/cm68/artracker/internal/homography"
	"github.com/cm68/artracker/internal/imaging"
	"github.com/cm68/artracker/internal/match"
	"github.com/cm68/artracker/internal/pattern"
	"github.com/cm68/artracker/pkg/geometry"
)

// detectionResult carries the outcome of one detection attempt: corner
// detection, descriptor extraction, matching, and RANSAC run back to back
// against a single screen frame.
type detectionResult struct {
	H       homography.Matrix
	Inliers []geometry.Point2D
	Good    int
}

// detect runs corner detection, descriptor extraction, matching against
// every level of model, and RANSAC homography estimation. It returns
// Good=0 when the match count or inlier count never reaches the
// corresponding threshold; that is normal control flow, not an error.
func detect(screen *imaging.Plane, model *pattern.Model, cfg config.Config) detectionResult {
	kps, err := feature.DetectCorners(screen, cfg.CornerBorder, cfg.LapThreshold, cfg.EigenThreshold, cfg.MaxCorners)
	if err != nil {
		if errors.Is(err, feature.ErrEmptyImage) {
			arlog.Warnf("pipeline: detect got an empty frame, treating as no detection")
		}
		return detectionResult{H: homography.Identity()}
	}
	kps = feature.SortAndTruncate(kps, cfg.MaxCorners)

	bank := feature.NewBank(len(kps))
	bank.Reset(len(kps))
	for i := range kps {
		kps[i].Angle = feature.Orientation(screen, kps[i].X, kps[i].Y, cfg.UMax)
		bank.SetRow(i, feature.ComputeDescriptor(screen, kps[i]))
	}

	matches := match.Run(bank, model.Banks(), cfg.MatchThreshold)
	if len(matches) < cfg.RANSAC.SampleSize {
		return detectionResult{H: homography.Identity()}
	}

	src := make([]homography.Point, len(matches))
	dst := make([]homography.Point, len(matches))
	screenPts := make([]geometry.Point2D, len(matches))
	for i, m := range matches {
		pkp := model.KeypointAt(m.PatternLevel, m.PatternIdx)
		src[i] = homography.Point{X: pkp.X, Y: pkp.Y}

		skp := kps[m.ScreenIdx]
		dst[i] = homography.Point{X: skp.X, Y: skp.Y}
		screenPts[i] = geometry.Point2D{X: skp.X, Y: skp.Y}
	}

	result := homography.EstimateRANSAC(src, dst, cfg.RANSAC)
	if result.Good < cfg.GoodMatchThreshold {
		return detectionResult{H: homography.Identity()}
	}

	inliers := make([]geometry.Point2D, 0, result.Good)
	for i, ok := range result.Inliers {
		if ok {
			inliers = append(inliers, screenPts[i])
		}
	}

	return detectionResult{H: result.H, Inliers: inliers, Good: result.Good}
}
