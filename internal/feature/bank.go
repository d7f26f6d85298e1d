package feature

// Bank is a descriptor matrix: Rows entries of DescriptorWords 32-bit
// words each, stored contiguously so Hamming matching can stride by
// DescriptorWords. Capacity is provisioned up front and reused across
// frames/training passes; Reset does not reallocate unless growing beyond
// the current capacity.
type Bank struct {
	Words []uint32 // len == cap(rows)*DescriptorWords, valid prefix is Rows*DescriptorWords
	Rows  int
}

// NewBank allocates a Bank with room for capacity rows.
func NewBank(capacity int) *Bank {
	return &Bank{Words: make([]uint32, capacity*DescriptorWords)}
}

// Reset truncates or grows the bank to hold exactly rows rows, without
// preserving prior content.
func (b *Bank) Reset(rows int) {
	need := rows * DescriptorWords
	if cap(b.Words) < need {
		b.Words = make([]uint32, need)
	} else {
		b.Words = b.Words[:need]
	}
	b.Rows = rows
}

// Row returns the DescriptorWords-word slice for row i.
func (b *Bank) Row(i int) [DescriptorWords]uint32 {
	var row [DescriptorWords]uint32
	copy(row[:], b.Words[i*DescriptorWords:(i+1)*DescriptorWords])
	return row
}

// SetRow writes row i.
func (b *Bank) SetRow(i int, row [DescriptorWords]uint32) {
	copy(b.Words[i*DescriptorWords:(i+1)*DescriptorWords], row[:])
}
