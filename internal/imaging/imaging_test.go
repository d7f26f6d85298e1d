package imaging

import (
	"math/bits"
	"math/rand"
	"testing"
)

func TestPopCount32EdgeAndSampledValues(t *testing.T) {
	// Edge cases plus a large random sample, not every value; a full 2^32
	// sweep is impractical for a unit test, so we check edges and a wide
	// random sample against the stdlib bit-trick reference.
	cases := []uint32{0, 1, 0xFFFFFFFF, 0x80000000, 0xAAAAAAAA, 0x55555555}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		cases = append(cases, r.Uint32())
	}
	for _, x := range cases {
		want := bits.OnesCount32(x)
		if got := PopCount32(x); got != want {
			t.Errorf("PopCount32(%#x) = %d, want %d", x, got, want)
		}
	}
}

func TestGrayscaleSolidColor(t *testing.T) {
	w, h := 4, 3
	rgba := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		rgba[i*4] = 200
		rgba[i*4+1] = 100
		rgba[i*4+2] = 50
		rgba[i*4+3] = 255
	}
	dst := NewPlane(0, 0)
	Grayscale(rgba, w, h, dst)
	if dst.Width != w || dst.Height != h {
		t.Fatalf("dims = %dx%d, want %dx%d", dst.Width, dst.Height, w, h)
	}
	want := byte((lumaR*200 + lumaG*100 + lumaB*50) >> 8)
	for i, v := range dst.Pix {
		if v != want {
			t.Errorf("pixel %d = %d, want %d", i, v, want)
		}
	}
}

func TestResampleIdentityIsVerbatim(t *testing.T) {
	src := NewPlane(10, 8)
	r := rand.New(rand.NewSource(2))
	for i := range src.Pix {
		src.Pix[i] = byte(r.Intn(256))
	}
	dst := NewPlane(0, 0)
	Resample(src, 10, 8, dst)
	for i := range src.Pix {
		if dst.Pix[i] != src.Pix[i] {
			t.Fatalf("identity resample not bit-identical at %d: got %d want %d", i, dst.Pix[i], src.Pix[i])
		}
	}
}

func TestResampleDownscalePreservesUniform(t *testing.T) {
	src := NewPlane(8, 8)
	for i := range src.Pix {
		src.Pix[i] = 42
	}
	dst := NewPlane(0, 0)
	Resample(src, 4, 4, dst)
	for i, v := range dst.Pix {
		if v != 42 {
			t.Errorf("pixel %d = %d, want 42", i, v)
		}
	}
}

func TestPyramidDownHalvesDimensions(t *testing.T) {
	src := NewPlane(16, 10)
	dst := NewPlane(0, 0)
	PyramidDown(src, dst)
	if dst.Width != 8 || dst.Height != 5 {
		t.Errorf("dims = %dx%d, want 8x5", dst.Width, dst.Height)
	}
}

func TestGaussianBlurPreservesUniformField(t *testing.T) {
	src := NewPlane(20, 20)
	for i := range src.Pix {
		src.Pix[i] = 128
	}
	dst := NewPlane(0, 0)
	GaussianBlur(src, 5, dst)
	for i, v := range dst.Pix {
		if v != 128 {
			t.Errorf("pixel %d = %d, want 128 (blur of uniform field must be a no-op)", i, v)
		}
	}
}

func TestGaussianBlurSmoothsImpulse(t *testing.T) {
	src := NewPlane(11, 11)
	src.Set(5, 5, 255)
	dst := NewPlane(0, 0)
	GaussianBlur(src, 5, dst)
	if dst.At(5, 5) >= 255 {
		t.Errorf("center pixel should be attenuated by blur, got %d", dst.At(5, 5))
	}
	if dst.At(4, 5) == 0 {
		t.Errorf("blur should spread energy to neighbors")
	}
}

func TestClampBlurSizeDefaultsOnEven(t *testing.T) {
	if got := clampBlurSize(4); got != DefaultBlurSize {
		t.Errorf("clampBlurSize(4) = %d, want %d", got, DefaultBlurSize)
	}
	if got := clampBlurSize(11); got != DefaultBlurSize {
		t.Errorf("clampBlurSize(11) = %d, want %d", got, DefaultBlurSize)
	}
	if got := clampBlurSize(3); got != 3 {
		t.Errorf("clampBlurSize(3) = %d, want 3", got)
	}
}
