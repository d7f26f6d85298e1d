package geometry

import "math"

// Quad is the ordered 4-tuple (TL, TR, BR, BL) of image points delimiting
// a tracked pattern's projection in frame coordinates.
type Quad [4]Point2D

// PolygonArea returns the absolute area of a polygon given as an ordered
// vertex list, via the shoelace formula. The result is invariant under
// rotation of the vertex list (starting the traversal at a different
// vertex) and under traversal direction.
func PolygonArea(vertices []Point2D) float64 {
	n := len(vertices)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += vertices[i].X*vertices[j].Y - vertices[j].X*vertices[i].Y
	}
	return math.Abs(sum) / 2
}

// interiorAngle returns the interior angle in radians at vertex b, formed
// by the edges b->a and b->c.
func interiorAngle(a, b, c Point2D) float64 {
	v1 := a.Sub(b)
	v2 := c.Sub(b)
	n1 := math.Hypot(v1.X, v1.Y)
	n2 := math.Hypot(v2.X, v2.Y)
	if n1 == 0 || n2 == 0 {
		return 0
	}
	cos := (v1.X*v2.X + v1.Y*v2.Y) / (n1 * n2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos)
}

// ValidateQuad reports whether q is a well-formed quadrilateral: its
// interior angles sum within 5 degrees of 360 degrees, and every interior
// angle lies strictly between 15 and 165 degrees. Invalid quads must not
// be forwarded to overlay rendering.
func ValidateQuad(q Quad) bool {
	const (
		angleSumTarget = 2 * math.Pi
		angleSumSlack  = 5 * math.Pi / 180
		minAngle       = 15 * math.Pi / 180
		maxAngle       = 165 * math.Pi / 180
	)

	var sum float64
	for i := 0; i < 4; i++ {
		prev := q[(i+3)%4]
		curr := q[i]
		next := q[(i+1)%4]
		angle := interiorAngle(prev, curr, next)
		if angle <= minAngle || angle >= maxAngle {
			return false
		}
		sum += angle
	}
	return math.Abs(sum-angleSumTarget) <= angleSumSlack
}

// CornerTransformOptions carries the normalized offset/scale pair applied
// when projecting a reference rectangle's corners through a homography. Z
// components are accepted for interface symmetry with the embedder's
// variant transform but are unused by the core.
type CornerTransformOptions struct {
	OffsetX, OffsetY, OffsetZ float64
	ScaleX, ScaleY, ScaleZ    float64
}

// DefaultCornerTransformOptions returns the identity offset/scale (no
// shift, unit scale).
func DefaultCornerTransformOptions() CornerTransformOptions {
	return CornerTransformOptions{ScaleX: 1, ScaleY: 1, ScaleZ: 1}
}

// HomographyMatrix is the minimal interface TransformCorners needs from a
// 3x3 homography, satisfied by internal/homography.Matrix. Declared here
// (rather than importing internal/homography from a pkg/ package) to keep
// pkg/geometry free of a dependency on the internal tree.
type HomographyMatrix interface {
	Apply(x, y float64) (float64, float64, bool)
}

// TransformCorners computes the ordered (TL, TR, BR, BL) projection of a
// w x h reference rectangle through H, after applying the normalized
// offset/scale of opts:
//
//	scaled_w = w * sx,  scaled_h = h * sy
//	offset_x = ox*w + (1-sx)*w/2
//	offset_y = oy*h - (1-sy)*h/2
//
// Returns ok=false if any of the four corners has a near-zero homogeneous
// denominator (H is singular for that point).
func TransformCorners(h HomographyMatrix, w, h2 float64, opts CornerTransformOptions) (Quad, bool) {
	scaledW := w * opts.ScaleX
	scaledH := h2 * opts.ScaleY
	offsetX := opts.OffsetX*w + (1-opts.ScaleX)*w/2
	offsetY := opts.OffsetY*h2 - (1-opts.ScaleY)*h2/2

	corners := [4]Point2D{
		{X: offsetX, Y: offsetY},                     // TL
		{X: offsetX + scaledW, Y: offsetY},            // TR
		{X: offsetX + scaledW, Y: offsetY + scaledH},  // BR
		{X: offsetX, Y: offsetY + scaledH},            // BL
	}

	var out Quad
	for i, c := range corners {
		x, y, ok := h.Apply(c.X, c.Y)
		if !ok {
			return Quad{}, false
		}
		out[i] = Point2D{X: x, Y: y}
	}
	return out, true
}

// Centroid returns the centroid of a quad's four vertices.
func (q Quad) Centroid() Point2D {
	return Centroid(q[:])
}

// Damp linearly blends q (the raw, current-frame quad) toward prev (the
// last stored quad) using f of maxF frames of persistence:
//
//	c_i = (c_i_raw*f + c_i_prev*(maxF-f)) / maxF
//
// At f == maxF the result equals q; at f == 0 it equals prev.
func (q Quad) Damp(prev Quad, f, maxF int) Quad {
	if maxF <= 0 {
		return q
	}
	var out Quad
	fF := float64(f)
	maxFF := float64(maxF)
	for i := 0; i < 4; i++ {
		out[i] = Point2D{
			X: (q[i].X*fF + prev[i].X*(maxFF-fF)) / maxFF,
			Y: (q[i].Y*fF + prev[i].Y*(maxFF-fF)) / maxFF,
		}
	}
	return out
}

// AverageCornerDisplacement returns the mean Euclidean distance between
// corresponding corners of two quads, used by the tracker's jump-detection
// check.
func AverageCornerDisplacement(a, b Quad) float64 {
	var sum float64
	for i := 0; i < 4; i++ {
		sum += a[i].Distance(b[i])
	}
	return sum / 4
}
