package feature

import (
	"math"

	"github.com/cm68/artracker/internal/imaging"
)

// HalfRadius is the disk half-radius used by the intensity-centroid
// orientation calculation.
const HalfRadius = 15

// Orientation computes the intensity-centroid angle of the keypoint at
// (px, py), using umax to bound the row half-width at each row offset v in
// [-HalfRadius, HalfRadius]. umax must have HalfRadius+1 entries indexed
// by |v|. Out-of-bounds pixel reads return 0 (via
// imaging.Plane.At), which is a safe no-op contribution to the moments;
// the detector's border policy normally keeps every sampled pixel in
// bounds anyway.
func Orientation(plane *imaging.Plane, px, py float64, umax [16]int) float64 {
	x0 := int(math.Round(px))
	y0 := int(math.Round(py))

	var m01, m10 float64
	for v := -HalfRadius; v <= HalfRadius; v++ {
		u := umax[absInt(v)]
		row := y0 + v
		var rowSum float64
		for du := -u; du <= u; du++ {
			val := float64(plane.At(x0+du, row))
			m10 += float64(du) * val
			rowSum += val
		}
		m01 += float64(v) * rowSum
	}
	return math.Atan2(m01, m10)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
