package geometry

import (
	"math"
	"testing"
)

func squareQuad(cx, cy, half float64) Quad {
	return Quad{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}
}

func TestPolygonAreaSquare(t *testing.T) {
	q := squareQuad(0, 0, 10)
	area := PolygonArea(q[:])
	if math.Abs(area-400) > 1e-9 {
		t.Errorf("area = %v, want 400", area)
	}
}

func TestPolygonAreaInvariantUnderRotation(t *testing.T) {
	q := squareQuad(5, 5, 3)
	want := PolygonArea(q[:])
	rotated := []Point2D{q[1], q[2], q[3], q[0]}
	got := PolygonArea(rotated)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("rotated area = %v, want %v", got, want)
	}
}

func TestValidateQuadAcceptsSquare(t *testing.T) {
	q := squareQuad(50, 50, 20)
	if !ValidateQuad(q) {
		t.Errorf("square quad should be valid")
	}
}

func TestValidateQuadRejectsDegenerate(t *testing.T) {
	// A near-collinear "sliver" quad has an interior angle far outside
	// (15, 165) degrees.
	q := Quad{
		{X: 0, Y: 0},
		{X: 100, Y: 0},
		{X: 100.1, Y: 0.1},
		{X: 0.1, Y: 0.1},
	}
	if ValidateQuad(q) {
		t.Errorf("sliver quad should be invalid")
	}
}

func TestPointInPolygonVertex(t *testing.T) {
	q := squareQuad(0, 0, 10)
	poly := q[:]
	for _, v := range poly {
		// A vertex sits on the boundary; nudge slightly inward to test
		// the "closed interior" convention consistently.
		inward := Point2D{X: v.X * 0.999, Y: v.Y * 0.999}
		if !PointInPolygon(inward, poly) {
			t.Errorf("point %v just inside vertex %v should be inside", inward, v)
		}
	}
}

func TestDampAtBoundaries(t *testing.T) {
	raw := squareQuad(10, 10, 5)
	prev := squareQuad(0, 0, 5)

	atMax := raw.Damp(prev, 6, 6)
	for i := 0; i < 4; i++ {
		if math.Abs(atMax[i].X-raw[i].X) > 1e-9 || math.Abs(atMax[i].Y-raw[i].Y) > 1e-9 {
			t.Errorf("at f=max, corner %d = %v, want raw %v", i, atMax[i], raw[i])
		}
	}

	atZero := raw.Damp(prev, 0, 6)
	for i := 0; i < 4; i++ {
		if math.Abs(atZero[i].X-prev[i].X) > 1e-9 || math.Abs(atZero[i].Y-prev[i].Y) > 1e-9 {
			t.Errorf("at f=0, corner %d = %v, want prev %v", i, atZero[i], prev[i])
		}
	}
}

type identityH struct{}

func (identityH) Apply(x, y float64) (float64, float64, bool) { return x, y, true }

func TestTransformCornersIdentity(t *testing.T) {
	q, ok := TransformCorners(identityH{}, 100, 50, DefaultCornerTransformOptions())
	if !ok {
		t.Fatalf("TransformCorners failed")
	}
	want := Quad{{0, 0}, {100, 0}, {100, 50}, {0, 50}}
	for i := range q {
		if q[i] != want[i] {
			t.Errorf("corner %d = %v, want %v", i, q[i], want[i])
		}
	}
}

func TestAverageCornerDisplacement(t *testing.T) {
	a := squareQuad(0, 0, 10)
	b := squareQuad(3, 4, 10)
	d := AverageCornerDisplacement(a, b)
	if math.Abs(d-5) > 1e-9 {
		t.Errorf("displacement = %v, want 5", d)
	}
}
