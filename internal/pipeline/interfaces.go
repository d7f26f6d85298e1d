// Package pipeline implements the detect/track orchestrator state machine:
// it alternates between a Detecting mode (running the
// corner+descriptor+matcher+RANSAC detection pipeline every tick) and a
// Tracking mode (running the pyramidal LK tracker), with temporal damping
// smoothing the handoff between the two.
package pipeline

import "github.com/cm68/artracker/pkg/geometry"

// Frame is a single decoded image handed to the pipeline: either a live
// camera frame or the one-shot reference pattern image.
type Frame struct {
	Width, Height int
	RGBA          []byte // width*height*4 bytes, interleaved RGBA
}

// FrameSource supplies live frames to Run. NextFrame returns ok=false when
// no more frames are available (end of stream, embedder shutdown).
type FrameSource interface {
	NextFrame() (Frame, bool)
}

// PatternSource supplies the one reference image consumed once at
// initialization.
type PatternSource interface {
	LoadPattern() (Frame, bool)
}

// OverlaySink receives the pipeline's per-tick output: a quad to render,
// or nil to hide the overlay. EnterDetecting notifies the sink that the
// pipeline has (re)entered Detecting, so it can pause overlay playback.
type OverlaySink interface {
	EmitQuad(quad *geometry.Quad)
	EnterDetecting()
}

// VariantTransform is the embedder-supplied normalized offset/scale pair.
// It is structurally identical to geometry.CornerTransformOptions; the z
// components are accepted for interface symmetry but unused by the core.
type VariantTransform = geometry.CornerTransformOptions
