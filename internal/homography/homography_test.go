package homography

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/cm68/artracker/internal/config"
)

func applyPoint(h Matrix, p Point) Point {
	x, y, _ := h.Apply(p.X, p.Y)
	return Point{X: x, Y: y}
}

func TestMatrixApplyIdentity(t *testing.T) {
	h := Identity()
	x, y, ok := h.Apply(3, 4)
	if !ok || x != 3 || y != 4 {
		t.Errorf("identity apply = (%v,%v,%v), want (3,4,true)", x, y, ok)
	}
}

func TestMatrixInverseRoundTrip(t *testing.T) {
	h := Matrix{1.2, 0.1, 10, -0.05, 0.9, 20, 0.0002, -0.0001, 1}
	inv, ok := h.Inverse()
	if !ok {
		t.Fatalf("expected invertible matrix")
	}
	x, y, ok := h.Apply(50, 80)
	if !ok {
		t.Fatalf("apply failed")
	}
	rx, ry, ok := inv.Apply(x, y)
	if !ok {
		t.Fatalf("inverse apply failed")
	}
	if math.Abs(rx-50) > 1e-4 || math.Abs(ry-80) > 1e-4 {
		t.Errorf("round trip = (%v,%v), want (50,80)", rx, ry)
	}
}

func TestMatrixMulComposesApplication(t *testing.T) {
	translate := Matrix{1, 0, 5, 0, 1, 5, 0, 0, 1}
	scale := Matrix{2, 0, 0, 0, 2, 0, 0, 0, 1}
	composed := translate.Mul(scale)
	x, y, _ := composed.Apply(1, 1)
	// scale first: (2,2), then translate: (7,7)
	if math.Abs(x-7) > 1e-9 || math.Abs(y-7) > 1e-9 {
		t.Errorf("composed apply = (%v,%v), want (7,7)", x, y)
	}
}

func TestFitDLTRecoversKnownHomography(t *testing.T) {
	h := Matrix{1.1, 0.05, 12, -0.03, 0.95, 8, 0.0003, -0.0002, 1}
	src := []Point{{0, 0}, {100, 0}, {100, 100}, {0, 100}}
	dst := make([]Point, 4)
	for i, p := range src {
		dst[i] = applyPoint(h, p)
	}

	fitted, err := FitDLT(src, dst)
	if err != nil {
		t.Fatalf("FitDLT failed: %v", err)
	}
	for _, p := range src {
		want := applyPoint(h, p)
		got := applyPoint(fitted, p)
		if math.Abs(want.X-got.X) > 1e-6 || math.Abs(want.Y-got.Y) > 1e-6 {
			t.Errorf("fitted homography disagrees at %v: got %v want %v", p, got, want)
		}
	}
}

func TestFitDLTTooFewPoints(t *testing.T) {
	_, err := FitDLT([]Point{{0, 0}, {1, 1}}, []Point{{0, 0}, {1, 1}})
	if !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("err = %v, want ErrTooFewPoints", err)
	}
}

func syntheticCorrespondences(h Matrix, n, outliers int, seed int64) (src, dst []Point) {
	r := rand.New(rand.NewSource(seed))
	src = make([]Point, n)
	dst = make([]Point, n)
	for i := 0; i < n; i++ {
		p := Point{X: r.Float64() * 400, Y: r.Float64() * 400}
		src[i] = p
		dst[i] = applyPoint(h, p)
	}
	for i := 0; i < outliers; i++ {
		dst[i] = Point{X: r.Float64() * 1000, Y: r.Float64() * 1000}
	}
	return src, dst
}

func TestEstimateRANSACRecoversHomographyWithOutliers(t *testing.T) {
	h := Matrix{1.05, 0.02, 15, -0.01, 0.98, -10, 0.0001, 0.00005, 1}
	src, dst := syntheticCorrespondences(h, 40, 10, 7)

	params := config.Default().RANSAC
	result := EstimateRANSAC(src, dst, params)

	if result.Good < 25 {
		t.Fatalf("Good = %d, want >= 25 inliers out of 30 true correspondences", result.Good)
	}
	// Spot-check the fitted model against a genuine inlier correspondence
	// beyond the corrupted prefix.
	got := applyPoint(result.H, src[35])
	want := applyPoint(h, src[35])
	if math.Hypot(got.X-want.X, got.Y-want.Y) > 1 {
		t.Errorf("fitted homography off by too much: got %v want %v", got, want)
	}
}

func TestEstimateRANSACFailsGracefully(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	n := 20
	src := make([]Point, n)
	dst := make([]Point, n)
	for i := 0; i < n; i++ {
		src[i] = Point{X: r.Float64() * 400, Y: r.Float64() * 400}
		dst[i] = Point{X: r.Float64() * 400, Y: r.Float64() * 400}
	}
	params := config.Default().RANSAC
	params.MaxIterations = 50
	result := EstimateRANSAC(src, dst, params)
	if result.Good > 0 && result.H == Identity() {
		t.Errorf("inconsistent result: Good=%d but H is identity", result.Good)
	}
}

func TestCompactInliers(t *testing.T) {
	points := []Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}
	mask := []bool{false, true, false, true}
	n := CompactInliers(points, mask)
	if n != 2 {
		t.Fatalf("n = %d, want 2", n)
	}
	if points[0] != (Point{1, 1}) || points[1] != (Point{3, 3}) {
		t.Errorf("compacted points = %v", points[:n])
	}
}
