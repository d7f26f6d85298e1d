package track

import (
	"math"

	"github.com/cm68/artracker/internal/config"
	"github.com/cm68/artracker/internal/imaging"
	"github.com/cm68/artracker/pkg/geometry"
)

// sampleBilinear returns the bilinearly-interpolated pixel value at (x, y),
// or 0 if the interpolation window falls outside the plane.
func sampleBilinear(p *imaging.Plane, x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	fx := x - x0
	fy := y - y0
	ix0, iy0 := int(x0), int(y0)

	v00 := float64(p.At(ix0, iy0))
	v10 := float64(p.At(ix0+1, iy0))
	v01 := float64(p.At(ix0, iy0+1))
	v11 := float64(p.At(ix0+1, iy0+1))

	top := v00 + (v10-v00)*fx
	bot := v01 + (v11-v01)*fx
	return top + (bot-top)*fy
}

// pointGrad caches a prev-window pixel's gradient and intensity so a
// point's Newton iterations don't recompute the structure matrix.
type pointGrad struct {
	gx, gy, val float64
}

// lkIterate runs Lucas-Kanade Newton refinement for one point at one
// pyramid level, starting from initGuess (already expressed in this
// level's pixel units), and returns the refined displacement and the
// window's minimum structure-matrix eigenvalue.
func lkIterate(prev, curr *imaging.Plane, pt, initGuess geometry.Point2D, p config.LKParams) (geometry.Point2D, float64, bool) {
	half := p.WindowSize / 2
	px := int(math.Round(pt.X))
	py := int(math.Round(pt.Y))
	if !prev.InBounds(px-half-1, py-half-1) || !prev.InBounds(px+half+1, py+half+1) {
		return geometry.Point2D{}, 0, false
	}

	side := 2*half + 1
	grads := make([]pointGrad, 0, side*side)
	var gxx, gxy, gyy float64
	for wy := -half; wy <= half; wy++ {
		for wx := -half; wx <= half; wx++ {
			x, y := px+wx, py+wy
			gx := (float64(prev.At(x+1, y)) - float64(prev.At(x-1, y))) / 2
			gy := (float64(prev.At(x, y+1)) - float64(prev.At(x, y-1))) / 2
			gxx += gx * gx
			gxy += gx * gy
			gyy += gy * gy
			grads = append(grads, pointGrad{gx: gx, gy: gy, val: float64(prev.At(x, y))})
		}
	}

	det := gxx*gyy - gxy*gxy
	trace := gxx + gyy
	minEig := (trace - math.Sqrt(math.Max(0, trace*trace-4*det))) / 2
	if det == 0 || minEig < p.MinEigenval {
		return geometry.Point2D{}, minEig, false
	}

	d := initGuess
	for iter := 0; iter < p.MaxIter; iter++ {
		var bx, by float64
		idx := 0
		for wy := -half; wy <= half; wy++ {
			for wx := -half; wx <= half; wx++ {
				x, y := px+wx, py+wy
				cx := float64(x) + d.X
				cy := float64(y) + d.Y
				it := grads[idx].val - sampleBilinear(curr, cx, cy)
				bx += grads[idx].gx * it
				by += grads[idx].gy * it
				idx++
			}
		}

		deltaX := (gyy*bx - gxy*by) / det
		deltaY := (gxx*by - gxy*bx) / det
		d.X += deltaX
		d.Y += deltaY
		if math.Hypot(deltaX, deltaY) < p.Epsilon {
			break
		}
	}
	return d, minEig, true
}

// trackOnePoint runs the coarse-to-fine pyramidal refinement for a single
// point: an initial-guess displacement of zero at the coarsest level is
// doubled and carried down to each successively finer level. A coarser
// level where lkIterate fails (window out of bounds, or too weak a
// structure matrix) passes its guess down unchanged; only a failure at
// level 0 fails the point.
func trackOnePoint(prevPyr, currPyr []*imaging.Plane, p0 geometry.Point2D, params config.LKParams) (geometry.Point2D, bool) {
	levels := len(prevPyr)
	var g geometry.Point2D
	for level := levels - 1; level >= 0; level-- {
		scale := 1 / math.Pow(2, float64(level))
		pt := geometry.Point2D{X: p0.X * scale, Y: p0.Y * scale}
		d, _, ok := lkIterate(prevPyr[level], currPyr[level], pt, g, params)
		if !ok {
			if level == 0 {
				return geometry.Point2D{}, false
			}
			d = g
		}
		g = d
		if level > 0 {
			g = geometry.Point2D{X: g.X * 2, Y: g.Y * 2}
		}
	}
	return geometry.Point2D{X: p0.X + g.X, Y: p0.Y + g.Y}, true
}

// TrackPoints tracks every point in prevPts from prevPyr to currPyr via
// pyramidal Lucas-Kanade, returning the tracked positions and a per-point
// success flag. currPts[i] is only meaningful when status[i] is true.
func TrackPoints(prevPyr, currPyr []*imaging.Plane, prevPts []geometry.Point2D, params config.LKParams) ([]geometry.Point2D, []bool) {
	currPts := make([]geometry.Point2D, len(prevPts))
	status := make([]bool, len(prevPts))
	for i, p0 := range prevPts {
		pt, ok := trackOnePoint(prevPyr, currPyr, p0, params)
		currPts[i] = pt
		status[i] = ok
	}
	return currPts, status
}
