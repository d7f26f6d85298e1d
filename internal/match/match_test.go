package match

import (
	"testing"

	"github.com/cm68/artracker/internal/feature"
)

func rowOf(words ...uint32) [feature.DescriptorWords]uint32 {
	var r [feature.DescriptorWords]uint32
	copy(r[:], words)
	return r
}

func TestMatchFindsNearestBelowThreshold(t *testing.T) {
	query := feature.NewBank(2)
	query.Reset(1)
	query.SetRow(0, rowOf(0, 0, 0, 0, 0, 0, 0, 0))

	level0 := feature.NewBank(2)
	level0.Reset(2)
	level0.SetRow(0, rowOf(0xFF, 0, 0, 0, 0, 0, 0, 0)) // distance 8
	level0.SetRow(1, rowOf(0x0F, 0, 0, 0, 0, 0, 0, 0)) // distance 4, nearer

	matches := Run(query, []*feature.Bank{level0}, 48)
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	m := matches[0]
	if m.PatternLevel != 0 || m.PatternIdx != 1 || m.Distance != 4 {
		t.Errorf("match = %+v, want level=0 idx=1 dist=4", m)
	}
}

func TestMatchDropsAboveThreshold(t *testing.T) {
	query := feature.NewBank(1)
	query.Reset(1)
	query.SetRow(0, rowOf(0, 0, 0, 0, 0, 0, 0, 0))

	level0 := feature.NewBank(1)
	level0.Reset(1)
	level0.SetRow(0, rowOf(0xFFFFFFFF, 0xFFFFFFFF, 0, 0, 0, 0, 0, 0)) // distance 64

	matches := Run(query, []*feature.Bank{level0}, 48)
	if len(matches) != 0 {
		t.Errorf("expected no matches above threshold, got %v", matches)
	}
}

func TestMatchSearchesAllLevels(t *testing.T) {
	query := feature.NewBank(1)
	query.Reset(1)
	query.SetRow(0, rowOf(0, 0, 0, 0, 0, 0, 0, 0))

	level0 := feature.NewBank(1)
	level0.Reset(1)
	level0.SetRow(0, rowOf(0xFF, 0, 0, 0, 0, 0, 0, 0)) // distance 8

	level1 := feature.NewBank(1)
	level1.Reset(1)
	level1.SetRow(0, rowOf(0x03, 0, 0, 0, 0, 0, 0, 0)) // distance 2, nearer, on level 1

	matches := Run(query, []*feature.Bank{level0, level1}, 48)
	if len(matches) != 1 || matches[0].PatternLevel != 1 {
		t.Fatalf("expected best match on level 1, got %+v", matches)
	}
}
