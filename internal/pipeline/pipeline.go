package pipeline

import (
	"github.com/cm68/artracker/internal/arlog"
	"github.com/cm68/artracker/internal/config"
	"github.com/cm68/artracker/internal/imaging"
	"github.com/cm68/artracker/internal/pattern"
	"github.com/cm68/artracker/internal/track"
	"github.com/cm68/artracker/pkg/geometry"
)

// Mode is the orchestrator's coarse state.
type Mode int

const (
	Detecting Mode = iota
	Tracking
)

func (m Mode) String() string {
	if m == Tracking {
		return "Tracking"
	}
	return "Detecting"
}

// PipelineState is the orchestrator's per-tick mutable state: read and
// written exactly once per tick.
type PipelineState struct {
	Mode           Mode
	LastQuad       geometry.Quad
	HasLastQuad    bool
	OpticalPersist int

	// InterpolationConstant is reserved for a future sub-frame smoothing
	// pass; no operation in this package writes or reads it, and Pipeline
	// exposes no setter for it, so it stays at its zero value.
	InterpolationConstant float64
}

// Pipeline is the single-threaded per-tick tracking orchestrator: one call
// to Tick or one loop iteration of Run processes exactly one frame to
// completion before the next begins.
type Pipeline struct {
	cfg   config.Config
	model *pattern.Model

	tracker   *track.State
	state     PipelineState
	transform geometry.CornerTransformOptions

	gray *imaging.Plane // reused scratch grayscale buffer
}

// New builds a Pipeline bound to a trained pattern model. The pattern's
// reference rectangle is (preview.Width*2, preview.Height*2) lev0 pixels.
func New(cfg config.Config, model *pattern.Model) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		model:     model,
		tracker:   track.NewState(cfg),
		transform: geometry.DefaultCornerTransformOptions(),
		gray:      imaging.NewPlane(0, 0),
	}
}

// SetVariantTransform installs the embedder's normalized offset/scale
// pair, applied to every corner projection thereafter.
func (p *Pipeline) SetVariantTransform(t VariantTransform) {
	p.transform = t
	p.tracker.SetTransform(t)
}

// State returns a copy of the orchestrator's current state, for embedders
// that want to inspect it between ticks (tests, diagnostics).
func (p *Pipeline) State() PipelineState {
	return p.state
}

func (p *Pipeline) referenceDims() (float64, float64) {
	return float64(p.model.Preview.Width * 2), float64(p.model.Preview.Height * 2)
}

// Tick processes one RGBA frame and returns the quad to render this
// frame, or ok=false meaning the overlay should be hidden. A
// zero-dimension frame fails fast at this boundary and is treated as
// invalid input: the pipeline stays in Detecting and emits nothing.
func (p *Pipeline) Tick(rgba []byte, width, height int) (geometry.Quad, bool) {
	if width <= 0 || height <= 0 {
		arlog.Warnf("pipeline: rejecting zero-dimension frame")
		return geometry.Quad{}, false
	}

	imaging.Grayscale(rgba, width, height, p.gray)

	if p.state.Mode == Tracking {
		return p.tickTracking(p.gray)
	}
	return p.tickDetecting(p.gray)
}

func (p *Pipeline) tickDetecting(gray *imaging.Plane) (geometry.Quad, bool) {
	result := detect(gray, p.model, p.cfg)

	if result.Good >= p.cfg.GoodMatchThreshold {
		refW, refH := p.referenceDims()
		p.tracker.InitWithHomography(result.H, result.Inliers, gray, refW, refH)

		quad, ok := geometry.TransformCorners(result.H, refW, refH, p.transform)
		if !ok || !geometry.ValidateQuad(quad) {
			arlog.Warnf("pipeline: detection produced a degenerate quad, staying in Detecting")
			return geometry.Quad{}, false
		}

		p.state.LastQuad = quad
		p.state.HasLastQuad = true
		p.state.OpticalPersist = 0
		p.state.Mode = Tracking
		arlog.Infof("pipeline: detection succeeded (%d inliers), entering Tracking", result.Good)
		return quad, true
	}

	if p.state.HasLastQuad && p.state.OpticalPersist < p.cfg.MaxPersistOpticalFrames {
		p.state.OpticalPersist++
		return p.state.LastQuad, true
	}

	p.state.HasLastQuad = false
	return geometry.Quad{}, false
}

func (p *Pipeline) tickTracking(gray *imaging.Plane) (geometry.Quad, bool) {
	dampedFlag := p.state.OpticalPersist <= p.cfg.MaxPersistOpticalFrames

	result := p.tracker.Track(gray)
	if result.Lost {
		arlog.Infof("pipeline: track lost, returning to Detecting")
		quad, hasQuad := p.state.LastQuad, p.state.HasLastQuad
		p.state.Mode = Detecting
		p.state.OpticalPersist = 0
		p.state.HasLastQuad = false
		if hasQuad {
			return quad, true
		}
		return geometry.Quad{}, false
	}

	quad := result.Quad
	if dampedFlag && p.state.HasLastQuad {
		quad = quad.Damp(p.state.LastQuad, p.state.OpticalPersist, p.cfg.MaxPersistOpticalFrames)
	}

	if !geometry.ValidateQuad(quad) {
		arlog.Warnf("pipeline: invalid tracked quad geometry, treating as divergence")
		p.state.Mode = Detecting
		p.state.OpticalPersist = 0
		p.state.HasLastQuad = false
		return geometry.Quad{}, false
	}

	p.state.LastQuad = quad
	p.state.HasLastQuad = true
	if p.state.OpticalPersist < p.cfg.MaxPersistOpticalFrames {
		p.state.OpticalPersist++
	}
	return quad, true
}
