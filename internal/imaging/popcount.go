package imaging

import "math/bits"

// PopCount32 returns the number of 1 bits in x. Descriptor Hamming
// distances are computed by XOR-ing corresponding 32-bit words and
// summing PopCount32 over all 8 words of a row.
func PopCount32(x uint32) int {
	return bits.OnesCount32(x)
}
