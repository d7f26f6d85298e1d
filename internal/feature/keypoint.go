// Package feature implements corner detection, intensity-centroid
// orientation, and rotated-BRIEF descriptor extraction.
package feature

import "sort"

// Keypoint is a salient image location with a detector score, the pyramid
// level it was found at, and an orientation in radians.
type Keypoint struct {
	X, Y  float64
	Score float64
	Level int
	Angle float64
}

// SortAndTruncate orders keypoints by descending score, breaking ties by
// original index for a deterministic total order, then truncates to at
// most maxN entries.
func SortAndTruncate(kps []Keypoint, maxN int) []Keypoint {
	type indexed struct {
		kp  Keypoint
		idx int
	}
	tmp := make([]indexed, len(kps))
	for i, kp := range kps {
		tmp[i] = indexed{kp: kp, idx: i}
	}
	sort.SliceStable(tmp, func(i, j int) bool {
		if tmp[i].kp.Score != tmp[j].kp.Score {
			return tmp[i].kp.Score > tmp[j].kp.Score
		}
		return tmp[i].idx < tmp[j].idx
	})
	if len(tmp) > maxN {
		tmp = tmp[:maxN]
	}
	out := make([]Keypoint, len(tmp))
	for i, t := range tmp {
		out[i] = t.kp
	}
	return out
}
