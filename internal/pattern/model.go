// Package pattern implements offline pattern training: building the
// multi-level scale-space pyramid of corners and binary descriptors that
// the matcher and RANSAC estimator search against at detection time.
package pattern

import (
	"github.com/cm68/artracker/internal/feature"
	"github.com/cm68/artracker/internal/imaging"
)

// Level holds one pyramid level's keypoints and descriptor bank. Invariant:
// Descriptors.Rows == len(Keypoints).
type Level struct {
	Keypoints   []feature.Keypoint
	Descriptors *feature.Bank
}

// Model is the immutable, trained representation of a reference pattern.
// Created once at startup and shared by reference thereafter.
type Model struct {
	Levels  []Level
	Preview *imaging.Plane

	// BaseWidth/BaseHeight are lev0's dimensions in pixels, the
	// coordinate space every level's keypoints are expressed in after the
	// per-level upscale back to lev0 units.
	BaseWidth, BaseHeight int
}

// Banks returns the descriptor bank of every level, in level order, for
// use by internal/match.Run.
func (m *Model) Banks() []*feature.Bank {
	banks := make([]*feature.Bank, len(m.Levels))
	for i, lvl := range m.Levels {
		banks[i] = lvl.Descriptors
	}
	return banks
}

// KeypointAt returns the lev0-space keypoint for a given (level, index)
// pair, as produced by a match.Match result.
func (m *Model) KeypointAt(level, idx int) feature.Keypoint {
	return m.Levels[level].Keypoints[idx]
}
