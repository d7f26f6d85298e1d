// Package match implements the brute-force Hamming matcher: each query
// descriptor is compared against every descriptor of every pattern
// pyramid level, keeping the single nearest neighbor subject to an
// absolute distance threshold, rather than the ratio-test KNN scheme used
// elsewhere in the ecosystem.
package match

import "github.com/cm68/artracker/internal/feature"

// Match records a single accepted correspondence between a query
// (screen) descriptor and a pattern descriptor.
type Match struct {
	ScreenIdx    int
	PatternLevel int
	PatternIdx   int
	Distance     int
}

// Run compares every row of query against every row of every bank in
// pattern (indexed by pyramid level), keeping the nearest match per query
// row if its distance is below threshold. Ties during the scan are broken
// by order of inspection (first-seen wins).
func Run(query *feature.Bank, pattern []*feature.Bank, threshold int) []Match {
	var out []Match
	for qi := 0; qi < query.Rows; qi++ {
		q := query.Row(qi)

		best := 1 << 30
		bestLevel, bestIdx := -1, -1

		for level, bank := range pattern {
			if bank == nil {
				continue
			}
			for pi := 0; pi < bank.Rows; pi++ {
				d := feature.HammingDistance256(q, bank.Row(pi))
				if d < best {
					best = d
					bestLevel = level
					bestIdx = pi
				}
			}
		}

		if bestIdx >= 0 && best < threshold {
			out = append(out, Match{
				ScreenIdx:    qi,
				PatternLevel: bestLevel,
				PatternIdx:   bestIdx,
				Distance:     best,
			})
		}
	}
	return out
}
