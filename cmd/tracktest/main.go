// Command tracktest runs the detect/track pipeline over a reference
// pattern image and a directory of frame images, printing the emitted
// quad (or "hidden") for each frame.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"

	_ "golang.org/x/image/tiff"

	"github.com/cm68/artracker/internal/arlog"
	"github.com/cm68/artracker/internal/config"
	"github.com/cm68/artracker/internal/pipeline"
	"github.com/cm68/artracker/pkg/geometry"
)

func main() {
	pattern := flag.String("pattern", "", "Path to the reference pattern image")
	frameDir := flag.String("frames", "", "Directory of frame images, processed in sorted filename order")
	verbose := flag.Bool("v", false, "Verbose (debug-level) logging")
	offsetX := flag.Float64("offset-x", 0, "Normalized corner offset x")
	offsetY := flag.Float64("offset-y", 0, "Normalized corner offset y")
	scaleX := flag.Float64("scale-x", 1, "Normalized corner scale x")
	scaleY := flag.Float64("scale-y", 1, "Normalized corner scale y")
	flag.Parse()

	if *pattern == "" || *frameDir == "" {
		fmt.Println("Usage: tracktest -pattern <image> -frames <dir> [-v]")
		os.Exit(1)
	}
	arlog.Verbose = *verbose

	frames, err := loadFrameDir(*frameDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load frames: %v\n", err)
		os.Exit(1)
	}
	if len(frames) == 0 {
		fmt.Fprintln(os.Stderr, "no frame images found")
		os.Exit(1)
	}

	patFrame, err := loadFrame(*pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load pattern: %v\n", err)
		os.Exit(1)
	}

	transform := geometry.CornerTransformOptions{
		OffsetX: *offsetX, OffsetY: *offsetY, ScaleX: *scaleX, ScaleY: *scaleY, ScaleZ: 1,
	}

	src := &fixedPatternSource{frame: patFrame}
	fs := &sliceFrameSource{frames: frames}
	sink := &printingSink{}

	err = pipeline.Run(context.Background(), config.Default(), src, fs, sink, transform)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pipeline exited: %v\n", err)
		os.Exit(1)
	}
}

func loadFrameDir(dir string) ([]pipeline.Frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	frames := make([]pipeline.Frame, 0, len(names))
	for _, name := range names {
		f, err := loadFrame(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func loadFrame(path string) (pipeline.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return pipeline.Frame{}, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return pipeline.Frame{}, err
	}
	return toRGBAFrame(img), nil
}

func toRGBAFrame(img image.Image) pipeline.Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	buf := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := (y*w + x) * 4
			buf[o] = byte(r >> 8)
			buf[o+1] = byte(g >> 8)
			buf[o+2] = byte(bl >> 8)
			buf[o+3] = byte(a >> 8)
		}
	}
	return pipeline.Frame{Width: w, Height: h, RGBA: buf}
}

type fixedPatternSource struct {
	frame pipeline.Frame
}

func (s *fixedPatternSource) LoadPattern() (pipeline.Frame, bool) {
	return s.frame, s.frame.Width > 0
}

type sliceFrameSource struct {
	frames []pipeline.Frame
	idx    int
}

func (s *sliceFrameSource) NextFrame() (pipeline.Frame, bool) {
	if s.idx >= len(s.frames) {
		return pipeline.Frame{}, false
	}
	f := s.frames[s.idx]
	s.idx++
	return f, true
}

type printingSink struct {
	frameNum int
}

func (s *printingSink) EmitQuad(quad *geometry.Quad) {
	s.frameNum++
	if quad == nil {
		fmt.Printf("frame %d: hidden\n", s.frameNum)
		return
	}
	fmt.Printf("frame %d: quad TL=(%.1f,%.1f) TR=(%.1f,%.1f) BR=(%.1f,%.1f) BL=(%.1f,%.1f)\n",
		s.frameNum, quad[0].X, quad[0].Y, quad[1].X, quad[1].Y, quad[2].X, quad[2].Y, quad[3].X, quad[3].Y)
}

func (s *printingSink) EnterDetecting() {
	fmt.Println("-- re-entered Detecting --")
}
