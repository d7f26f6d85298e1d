package pipeline

import (
	"context"
	"errors"

	"github.com/cm68/artracker/internal/arlog"
	"github.com/cm68/artracker/internal/config"
	"github.com/cm68/artracker/internal/imaging"
	"github.com/cm68/artracker/internal/pattern"
)

// ErrNoPattern is returned when the pattern source cannot supply a usable
// reference image at startup.
var ErrNoPattern = errors.New("pipeline: pattern source produced no usable image")

// Run drives the pipeline to completion: it loads the reference pattern
// once, trains it, then loops NextFrame/Tick/EmitQuad until the source is
// exhausted or ctx is canceled.
func Run(ctx context.Context, cfg config.Config, patterns PatternSource, frames FrameSource, sink OverlaySink, transform VariantTransform) error {
	patFrame, ok := patterns.LoadPattern()
	if !ok || patFrame.Width <= 0 || patFrame.Height <= 0 {
		arlog.Warnf("pipeline: pattern source produced no usable image")
		return ErrNoPattern
	}

	gray := imaging.NewPlane(0, 0)
	imaging.Grayscale(patFrame.RGBA, patFrame.Width, patFrame.Height, gray)
	model := pattern.Train(gray, cfg)

	p := New(cfg, model)
	p.SetVariantTransform(transform)

	wasDetecting := true
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, ok := frames.NextFrame()
		if !ok {
			return nil
		}

		quad, ok := p.Tick(frame.RGBA, frame.Width, frame.Height)

		nowDetecting := p.State().Mode == Detecting
		if nowDetecting && !wasDetecting {
			sink.EnterDetecting()
		}
		wasDetecting = nowDetecting

		if ok {
			q := quad
			sink.EmitQuad(&q)
		} else {
			sink.EmitQuad(nil)
		}
	}
}
