package pattern

import (
	"errors"
	"math"

	"github.com/cm68/artracker/internal/arlog"
	"github.com/cm68/artracker/internal/config"
	"github.com/cm68/artracker/internal/feature"
	"github.com/cm68/artracker/internal/imaging"
)

// contrastFloor is the max-min threshold below which a grayscale plane is
// considered near-zero-contrast.
const contrastFloor = 5

// Train builds a Model from a decoded grayscale reference image:
//  1. scale the longer side to cfg.MaxPatternSize, producing lev0;
//  2. preview = pyrdown(lev0);
//  3. for each level k, resample+blur, detect corners, compute
//     angle+descriptor, upscale keypoint coordinates to lev0 units;
//  4. return the assembled Model.
//
// If the source has near-zero contrast, or any individual level yields no
// keypoints despite non-blank input, that level's features are replaced by
// the synthetic fallback (grid plus five canonical keypoints) rather than
// aborting training: this is observable behavior, not an error, and is
// logged at Warn level.
func Train(src *imaging.Plane, cfg config.Config) *Model {
	lev0 := scaleToMaxSide(src, cfg.MaxPatternSize)

	preview := imaging.NewPlane(0, 0)
	imaging.PyramidDown(lev0, preview)

	min, max := lev0.MinMax()
	lowContrast := int(max)-int(min) < contrastFloor
	if lowContrast {
		arlog.Warnf("pattern: near-zero contrast (max-min=%d), using synthetic fallback for all levels", int(max)-int(min))
	}

	model := &Model{
		Levels:     make([]Level, cfg.NumTrainLevels),
		Preview:    preview,
		BaseWidth:  lev0.Width,
		BaseHeight: lev0.Height,
	}

	blurred := imaging.NewPlane(0, 0)
	resampled := imaging.NewPlane(0, 0)

	for k := 0; k < cfg.NumTrainLevels; k++ {
		scale := math.Pow(cfg.ScaleInc, -float64(k))
		w := maxInt(1, int(float64(lev0.Width)*scale))
		h := maxInt(1, int(float64(lev0.Height)*scale))

		imaging.Resample(lev0, w, h, resampled)
		imaging.GaussianBlur(resampled, cfg.BlurSize, blurred)

		border := cfg.SmallLevelBorder(w, h)
		kps, err := feature.DetectCorners(blurred, border, cfg.LapThreshold, cfg.EigenThreshold, cfg.MaxPerLevel)
		if err != nil && errors.Is(err, feature.ErrEmptyImage) {
			arlog.Warnf("pattern: level %d resampled to an empty plane, using synthetic fallback", k)
		}

		useFallback := lowContrast || err != nil || (len(kps) == 0 && hasNonZeroContent(blurred))
		if useFallback && !lowContrast && err == nil {
			arlog.Warnf("pattern: level %d produced no keypoints on non-blank content, using synthetic fallback", k)
		}
		if useFallback {
			kps = syntheticFallbackKeypoints(w, h, cfg.MaxPerLevel)
		}

		bank := feature.NewBank(len(kps))
		bank.Reset(len(kps))
		for i := range kps {
			kps[i].Level = k
			kps[i].Angle = feature.Orientation(blurred, kps[i].X, kps[i].Y, cfg.UMax)
			bank.SetRow(i, feature.ComputeDescriptor(blurred, kps[i]))
			// Upscale back to lev0 units.
			kps[i].X /= scale
			kps[i].Y /= scale
		}

		model.Levels[k] = Level{Keypoints: kps, Descriptors: bank}
	}

	return model
}

// scaleToMaxSide resamples src so its longer side equals maxSide,
// preserving aspect ratio.
func scaleToMaxSide(src *imaging.Plane, maxSide int) *imaging.Plane {
	w, h := src.Width, src.Height
	longer := w
	if h > longer {
		longer = h
	}
	if longer == 0 {
		longer = 1
	}
	scale := float64(maxSide) / float64(longer)
	newW := maxInt(1, int(float64(w)*scale))
	newH := maxInt(1, int(float64(h)*scale))

	dst := imaging.NewPlane(0, 0)
	imaging.Resample(src, newW, newH, dst)
	return dst
}

func hasNonZeroContent(p *imaging.Plane) bool {
	min, max := p.MinMax()
	return max > min || min > 0
}

// syntheticFallbackKeypoints synthesizes a coarse grid of keypoints plus
// five canonical keypoints (center and quarter positions) so that
// downstream matching still has well-formed, non-empty features to work
// with when the pattern content itself is featureless.
func syntheticFallbackKeypoints(w, h, maxN int) []feature.Keypoint {
	const gridStep = 30 // matches the default GridDistance tunable

	var kps []feature.Keypoint
	for y := gridStep; y < h-gridStep; y += gridStep {
		for x := gridStep; x < w-gridStep; x += gridStep {
			kps = append(kps, feature.Keypoint{X: float64(x), Y: float64(y), Score: 1})
			if len(kps) >= maxN-5 {
				break
			}
		}
		if len(kps) >= maxN-5 {
			break
		}
	}

	canonical := [][2]float64{
		{float64(w) / 2, float64(h) / 2},
		{float64(w) / 4, float64(h) / 4},
		{3 * float64(w) / 4, float64(h) / 4},
		{float64(w) / 4, 3 * float64(h) / 4},
		{3 * float64(w) / 4, 3 * float64(h) / 4},
	}
	for _, c := range canonical {
		kps = append(kps, feature.Keypoint{X: c[0], Y: c[1], Score: 1})
	}

	if len(kps) > maxN {
		kps = kps[:maxN]
	}
	return kps
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
