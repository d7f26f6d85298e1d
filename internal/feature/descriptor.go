package feature

import (
	"math"
	"math/rand"

	"github.com/cm68/artracker/internal/imaging"
)

// DescriptorBits is the width of the binary descriptor.
const DescriptorBits = 256

// DescriptorWords is the number of 32-bit words a descriptor packs into
// (256 / 32).
const DescriptorWords = DescriptorBits / 32

// patchRadius bounds the sampling pattern to a fixed patch around the
// keypoint, matching the scale of the orientation disk's 15-pixel
// half-radius.
const patchRadius = 15

// briefPattern is the fixed sampling pattern used to build the rotated
// BRIEF descriptor: DescriptorBits point pairs, each an (dx1,dy1,dx2,dy2)
// offset from the keypoint center in the unrotated frame. It is generated
// once, deterministically, from a fixed seed (not per-descriptor
// randomness) so every keypoint at every level is compared against the
// same fixed pattern, rotated by its own orientation.
var briefPattern = generateBriefPattern()

func generateBriefPattern() [DescriptorBits][4]int {
	// Isotropic Gaussian-distributed offsets around the patch center are
	// the standard choice for a BRIEF/ORB sampling pattern (points nearer
	// the center are more discriminative); math/rand with a fixed seed
	// keeps the pattern reproducible across runs and platforms.
	r := rand.New(rand.NewSource(0xB81EF))
	sigma := float64(patchRadius) / 2.5

	sample := func() int {
		for {
			v := int(math.Round(r.NormFloat64() * sigma))
			if v >= -patchRadius && v <= patchRadius {
				return v
			}
		}
	}

	var pattern [DescriptorBits][4]int
	for i := range pattern {
		pattern[i] = [4]int{sample(), sample(), sample(), sample()}
	}
	return pattern
}

// ComputeDescriptor extracts the 256-bit rotated BRIEF descriptor for a
// keypoint at (kp.X, kp.Y, kp.Angle) from plane (expected to be the
// Gaussian-blurred level image). Sample pairs that fall outside the image
// are defined as bit 0.
func ComputeDescriptor(plane *imaging.Plane, kp Keypoint) [DescriptorWords]uint32 {
	cos := math.Cos(kp.Angle)
	sin := math.Sin(kp.Angle)
	x0 := int(math.Round(kp.X))
	y0 := int(math.Round(kp.Y))

	var out [DescriptorWords]uint32
	for i := 0; i < DescriptorBits; i++ {
		p := briefPattern[i]
		x1, y1 := rotate(p[0], p[1], cos, sin)
		x2, y2 := rotate(p[2], p[3], cos, sin)

		px1, py1 := x0+x1, y0+y1
		px2, py2 := x0+x2, y0+y2

		if !plane.InBounds(px1, py1) || !plane.InBounds(px2, py2) {
			continue // bit stays 0
		}
		if plane.At(px1, py1) < plane.At(px2, py2) {
			out[i/32] |= 1 << uint(i%32)
		}
	}
	return out
}

func rotate(dx, dy int, cos, sin float64) (int, int) {
	rx := float64(dx)*cos - float64(dy)*sin
	ry := float64(dx)*sin + float64(dy)*cos
	return int(math.Round(rx)), int(math.Round(ry))
}

// HammingDistance256 returns the Hamming distance between two 256-bit
// descriptors packed as DescriptorWords 32-bit words, via popcount over
// each XORed word.
func HammingDistance256(a, b [DescriptorWords]uint32) int {
	dist := 0
	for i := 0; i < DescriptorWords; i++ {
		dist += imaging.PopCount32(a[i] ^ b[i])
	}
	return dist
}
