// Package config holds the immutable tunable parameters of the tracking
// pipeline. A single Config value is constructed at startup (via Default)
// and threaded explicitly through every stage constructor; no stage reads
// from process-wide mutable state during a tick.
package config

// RANSACParams groups the constants of the homography RANSAC estimator.
type RANSACParams struct {
	SampleSize            int
	ReprojectionThreshold float64
	OutlierRatio          float64
	Confidence            float64
	MaxIterations         int
}

// LKParams groups the constants of the pyramidal Lucas-Kanade tracker.
type LKParams struct {
	WindowSize   int
	MaxIter      int
	Epsilon      float64
	MinEigenval  float64
	PyramidLevels int
}

// Config is the complete set of tunable parameters governing detection and
// tracking. Treat as immutable after Default() returns it.
type Config struct {
	MaxCorners     int // MAX_CORNERS
	NumTrainLevels int // NUM_TRAIN_LEVELS
	MaxPatternSize int // MAX_PATTERN_SIZE

	MatchThreshold             int // MATCH_THRESHOLD
	PointThreshold             int // POINT_THRESHOLD
	GoodMatchThreshold         int // GOOD_MATCH_THRESHOLD (detection)
	GoodMatchThresholdTracking int // GOOD_MATCH_THRESHOLD_TRACKING
	PruneThreshold             float64 // PRUNE_THRESHOLD

	BlurSize       int     // BLUR_SIZE
	LapThreshold   float64 // LAP_THRESHOLD
	EigenThreshold float64 // EIGEN_THRESHOLD

	MaxPerLevel int     // MAX_PER_LEVEL
	ScaleInc    float64 // SCALE_INC = sqrt(2)

	DensityThreshold    float64 // DENSITY_THRESHOLD
	GridDistance        float64 // GRID_DISTANCE
	MaxQuadAngleAllowed float64 // MAX_QUAD_ANGLE_ALLOWED (degrees)

	MaxPersistOpticalFrames int // MAX_PERSIST_OPTICAL_FRAMES

	// UMax is the per-row half-width table used by the intensity-centroid
	// orientation calculation. Index v gives the +/-u bound for row offset
	// v within the 15-pixel half-radius disk.
	UMax [16]int

	CornerBorder int // B, full-size levels

	RANSAC   RANSACParams
	LK       LKParams
}

// Default returns the tracker's default tunables.
func Default() Config {
	return Config{
		MaxCorners:     300,
		NumTrainLevels: 8,
		MaxPatternSize: 512,

		MatchThreshold:             48,
		PointThreshold:             20,
		GoodMatchThreshold:         20,
		GoodMatchThresholdTracking: 20,
		PruneThreshold:             20,

		BlurSize:       5,
		LapThreshold:   30,
		EigenThreshold: 25,

		MaxPerLevel: 300,
		ScaleInc:    1.4142135623730951, // sqrt(2)

		DensityThreshold:    25,
		GridDistance:        30,
		MaxQuadAngleAllowed: 120,

		MaxPersistOpticalFrames: 6,

		UMax: [16]int{15, 15, 15, 15, 14, 14, 14, 13, 13, 12, 11, 10, 9, 8, 6, 3},

		CornerBorder: 17,

		RANSAC: RANSACParams{
			SampleSize:            4,
			ReprojectionThreshold: 3,
			OutlierRatio:          0.5,
			Confidence:            0.99,
			MaxIterations:         1000,
		},
		LK: LKParams{
			WindowSize:    50,
			MaxIter:       50,
			Epsilon:       0.01,
			MinEigenval:   0.001,
			PyramidLevels: 5,
		},
	}
}

// SmallLevelBorder returns the corner-detector border for a pattern-pyramid
// level of the given size: min(CornerBorder, min(cols,rows)/10), so small
// pyramid levels don't lose all of their interior to the border margin.
func (c Config) SmallLevelBorder(cols, rows int) int {
	dim := cols
	if rows < dim {
		dim = rows
	}
	b := dim / 10
	if b > c.CornerBorder {
		return c.CornerBorder
	}
	return b
}
