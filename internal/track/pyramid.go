// Package track implements per-frame pyramidal Lucas-Kanade optical-flow
// tracking of inlier points, with incremental homography composition and
// geometric sanity checks on the tracked quad. The scale-space pyramid
// shape (level 0 is the full-resolution grayscale frame, each subsequent
// level a 2x2 box-downsample of the previous) reuses internal/imaging's
// PyramidDown, applied L-1 times to build the tracker's pyramid.
package track

import "github.com/cm68/artracker/internal/imaging"

// BuildPyramid fills dst (resized/reused level by level) with a levels-deep
// image pyramid rooted at src: dst[0] is a copy of src, dst[k] is a 2x2
// box-downsample of dst[k-1]. dst must already have len(dst) == levels
// entries, each a non-nil *imaging.Plane (owned buffers, reused frame over
// frame so the hot path never allocates).
func BuildPyramid(src *imaging.Plane, dst []*imaging.Plane) {
	if len(dst) == 0 {
		return
	}
	dst[0].Resize(src.Width, src.Height)
	copy(dst[0].Pix, src.Pix)
	for k := 1; k < len(dst); k++ {
		imaging.PyramidDown(dst[k-1], dst[k])
	}
}

// NewPyramid allocates a fresh set of levels planes, all zero-sized until
// the first BuildPyramid call resizes them.
func NewPyramid(levels int) []*imaging.Plane {
	pyr := make([]*imaging.Plane, levels)
	for i := range pyr {
		pyr[i] = imaging.NewPlane(0, 0)
	}
	return pyr
}
