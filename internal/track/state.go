package track

import (
	"fmt"

	"github.com/cm68/artracker/internal/arlog"
	"github.com/cm68/artracker/internal/config"
	"github.com/cm68/artracker/internal/homography"
	"github.com/cm68/artracker/internal/imaging"
	"github.com/cm68/artracker/pkg/geometry"
)

// Result is the tracker's per-frame outcome, a sum type rather than a
// boolean-overloaded return: a tick either produced a quad, or the track
// was lost and the caller must re-enter detection.
type Result struct {
	Quad geometry.Quad
	Lost bool
}

// Tracked wraps a successfully tracked quad.
func Tracked(q geometry.Quad) Result { return Result{Quad: q} }

// LostResult reports that tracking failed this tick.
func LostResult() Result { return Result{Lost: true} }

// State holds the pyramidal-LK tracker's mutable per-track buffers. All
// arrays are pre-sized at Init time and reused across ticks; a tick never
// grows them.
type State struct {
	hBase homography.Matrix

	prevPyr, currPyr []*imaging.Plane
	prevXY, currXY   []geometry.Point2D

	pointCount int

	prevQuad    geometry.Quad
	hasPrevQuad bool

	refW, refH float64

	cfg       config.Config
	transform geometry.CornerTransformOptions
}

// NewState allocates a tracker bound to cfg's LK pyramid depth. It starts
// with no active track; call InitWithHomography to seed one.
func NewState(cfg config.Config) *State {
	return &State{
		prevPyr:   NewPyramid(cfg.LK.PyramidLevels),
		currPyr:   NewPyramid(cfg.LK.PyramidLevels),
		cfg:       cfg,
		transform: geometry.DefaultCornerTransformOptions(),
	}
}

// SetTransform installs the embedder's variant offset/scale, applied on
// every subsequent corner projection.
func (s *State) SetTransform(t geometry.CornerTransformOptions) {
	s.transform = t
}

// InitWithHomography seeds the base homography and inlier point set after
// a successful detection. points and the frame the homography was
// estimated against become curr_xy / curr_pyr level 0's implicit
// reference; the caller supplies frame so the pyramid can be built
// immediately.
//
// points must already be bounded by cfg.MaxCorners: the detector's own
// keypoint set is truncated to that limit before RANSAC ever runs, so an
// inlier set larger than MaxCorners here means a caller has violated that
// invariant, not a condition the tracker can recover from.
func (s *State) InitWithHomography(h homography.Matrix, points []geometry.Point2D, frame *imaging.Plane, refW, refH float64) {
	if len(points) > s.cfg.MaxCorners {
		panic(fmt.Sprintf("track: InitWithHomography got %d points, exceeds MaxCorners %d", len(points), s.cfg.MaxCorners))
	}
	s.hBase = h

	s.currXY = append(s.currXY[:0], points...)
	s.pointCount = len(points)

	BuildPyramid(frame, s.currPyr)

	s.refW, s.refH = refW, refH
	s.hasPrevQuad = false
}

// averagePairwiseDistance returns the mean Euclidean distance across all
// unordered pairs of pts, used by the tracker's point-density check.
func averagePairwiseDistance(pts []geometry.Point2D) float64 {
	n := len(pts)
	if n < 2 {
		return 0
	}
	var sum float64
	var count int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += pts[i].Distance(pts[j])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// declareLost resets the track to its post-loss state: point count zeroed,
// base homography reset to identity, previous quad cleared.
func (s *State) declareLost() Result {
	s.pointCount = 0
	s.hBase = homography.Identity()
	s.hasPrevQuad = false
	return LostResult()
}

// Track runs one tick of the pyramidal LK tracker against frame.
func (s *State) Track(frame *imaging.Plane) Result {
	// Step 1: swap prev/curr buffers.
	s.prevPyr, s.currPyr = s.currPyr, s.prevPyr
	s.prevXY, s.currXY = s.currXY, s.prevXY

	// Step 2: density check on the points carried over from last tick.
	if averagePairwiseDistance(s.prevXY) < s.cfg.DensityThreshold {
		arlog.Warnf("track: point density below threshold, declaring lost")
		return s.declareLost()
	}

	// Step 3: build the pyramid (frame is already a grayscale plane;
	// the pipeline is responsible for the RGBA->gray conversion).
	BuildPyramid(frame, s.currPyr)

	// Step 4: pyramidal LK.
	tracked, status := TrackPoints(s.prevPyr, s.currPyr, s.prevXY, s.cfg.LK)

	// Step 5: compact arrays to drop status==0 points.
	prevCompact := make([]geometry.Point2D, 0, len(s.prevXY))
	currCompact := make([]geometry.Point2D, 0, len(tracked))
	for i, ok := range status {
		if ok {
			prevCompact = append(prevCompact, s.prevXY[i])
			currCompact = append(currCompact, tracked[i])
		}
	}
	s.pointCount = len(currCompact)

	// Step 6: point-count check.
	if s.pointCount < s.cfg.PointThreshold {
		arlog.Warnf("track: point count %d below threshold %d, declaring lost", s.pointCount, s.cfg.PointThreshold)
		return s.declareLost()
	}

	// Step 7: RANSAC prev_xy -> curr_xy for the incremental homography.
	hSrc := toHomographyPoints(prevCompact)
	hDst := toHomographyPoints(currCompact)
	result := homography.EstimateRANSAC(hSrc, hDst, s.cfg.RANSAC)

	// Step 8: good-count check.
	if result.Good < s.cfg.GoodMatchThresholdTracking {
		arlog.Warnf("track: good match count %d below threshold %d, declaring lost", result.Good, s.cfg.GoodMatchThresholdTracking)
		return s.declareLost()
	}

	// Step 9: compose the incremental homography onto H_base. H_base maps pattern
	// coordinates to the previous frame; H_inc maps the previous frame to
	// the current one, so H_inc must be applied second: Mul(a, b) applies
	// b first, then a (see Matrix.Mul), so this is result.H.Mul(s.hBase).
	s.hBase = result.H.Mul(s.hBase)

	n := homography.CompactInliers(hDst, result.Inliers)
	s.currXY = append(s.currXY[:0], toGeometryPoints(hDst[:n])...)

	// Step 10: project the reference rectangle's corners through H_base.
	quad, ok := geometry.TransformCorners(s.hBase, s.refW, s.refH, s.transform)
	if !ok {
		arlog.Warnf("track: homography singular at corner projection, declaring lost")
		return s.declareLost()
	}

	// Step 11: previous-quad jump check.
	if s.hasPrevQuad {
		if geometry.AverageCornerDisplacement(quad, s.prevQuad) > s.cfg.PruneThreshold {
			arlog.Warnf("track: corner displacement exceeds prune threshold, declaring lost")
			return s.declareLost()
		}
	}

	s.prevQuad = quad
	s.hasPrevQuad = true

	// Step 12: return the new quad; damping is the orchestrator's concern.
	return Tracked(quad)
}

func toHomographyPoints(pts []geometry.Point2D) []homography.Point {
	out := make([]homography.Point, len(pts))
	for i, p := range pts {
		out[i] = homography.Point{X: p.X, Y: p.Y}
	}
	return out
}

func toGeometryPoints(pts []homography.Point) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = geometry.Point2D{X: p.X, Y: p.Y}
	}
	return out
}
