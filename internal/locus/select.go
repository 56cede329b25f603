package locus

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"

	"github.com/tomasbruna/miniprothint/internal/align"
)

// SelectParams are the thresholds for picking representative alignments
type SelectParams struct {
	// MinSeedCoverage is the minimum query coverage of a seed
	MinSeedCoverage float64

	// MinOverlapForChild is the fraction of an alignment's CDS that must be
	// shared with a seed (exclusive) for the alignment to be classified against it
	MinOverlapForChild float64

	// MinScoreFraction: children score above seed.Score*MinScoreFraction
	MinScoreFraction float64

	// TopNPerSeed is the maximum number of children per seed
	TopNPerSeed int

	// MaxSubLocusParentCoverage is the maximum fraction of the seed's CDS an
	// alignment may cover and still be kept as a sub-locus candidate. Zero
	// turns sub-loci off.
	MaxSubLocusParentCoverage float64

	// MinSubLocusCoverage is the minimum query coverage of a sub-locus candidate
	MinSubLocusCoverage float64
}

// DefaultSelectParams returns the standard selection thresholds
func DefaultSelectParams() SelectParams {
	return SelectParams{
		MinSeedCoverage:           0,
		MinOverlapForChild:        0.01,
		MinScoreFraction:          0.9,
		TopNPerSeed:               10,
		MaxSubLocusParentCoverage: 0.8,
		MinSubLocusCoverage:       0.9,
	}
}

// ranked is an alignment in the interval tree, keyed by its score rank.
// Ranges are half-open.
type ranked struct {
	a    *align.Alignment
	rank int
}

func (r ranked) ID() uintptr { return uintptr(r.rank) }
func (r ranked) Range() interval.IntRange {
	return interval.IntRange{Start: r.a.Start, End: r.a.End + 1}
}
func (r ranked) Overlap(b interval.IntRange) bool {
	return b.End > r.a.Start && b.Start <= r.a.End
}

// selector holds the state of one greedy selection over a locus
type selector struct {
	params SelectParams

	// alignments by descending score, ties in input order
	ranked []*align.Alignment

	// spans of every alignment for finding those that may share CDS with a seed
	tree interval.IntTree

	// rank of the next alignment that may become a seed
	next int
}

func newSelector(alignments []*align.Alignment, p SelectParams) (*selector, error) {
	s := &selector{
		params: p,
		ranked: append([]*align.Alignment(nil), alignments...),
	}

	sort.SliceStable(s.ranked, func(i, j int) bool {
		if s.ranked[i].Score != s.ranked[j].Score {
			return s.ranked[i].Score > s.ranked[j].Score
		}
		return s.ranked[i].Order() < s.ranked[j].Order()
	})

	for i, a := range s.ranked {
		a.State = align.Unclassified
		a.Parent = ""
		if err := s.tree.Insert(ranked{a: a, rank: i}, true); err != nil {
			return nil, fmt.Errorf("alignment %s: %w", a.ID, err)
		}
	}
	s.tree.AdjustRanges()

	return s, nil
}

// nextSeed returns the best unused alignment and marks it a seed. Alignments
// skipped for low query coverage are discarded for good: they are never
// reconsidered as the child of a later seed. Returns -1 once all alignments
// are used.
func (s *selector) nextSeed() int {
	for ; s.next < len(s.ranked); s.next++ {
		a := s.ranked[s.next]
		if a.State.Used() {
			continue
		}

		if a.QueryCoverage < s.params.MinSeedCoverage {
			a.State = align.Discarded
			continue
		}

		a.State = align.Seed
		a.Parent = ""
		return s.next
	}
	return -1
}

// classify sorts every unused alignment ranked after the seed that shares
// enough CDS with it into a child, a sub-locus candidate or discards it.
// Alignments sharing less stay as they are, to be handled by other seeds.
//
// Overlaps are directional. An alignment nested inside a long seed shares
// all of its own CDS but may cover little of the seed's. If it is also at
// least as identical and covers enough of its protein, it's kept as a
// sub-locus candidate (which may seed a later round) rather than discarded.
func (s *selector) classify(seedRank int) {
	seed := s.ranked[seedRank]

	var later []int
	for _, hit := range s.tree.Get(ranked{a: seed, rank: seedRank}) {
		r := hit.(ranked)
		if r.rank > seedRank && !r.a.State.Used() {
			later = append(later, r.rank)
		}
	}
	sort.Ints(later)

	children := 0
	for _, rank := range later {
		a := s.ranked[rank]
		shared := a.SharedCDS(seed)
		if float64(shared)/float64(a.CDSLen) <= s.params.MinOverlapForChild {
			continue
		}

		switch {
		case a.Score > seed.Score*s.params.MinScoreFraction && children < s.params.TopNPerSeed:
			a.State = align.Child
			children++
		case float64(shared)/float64(seed.CDSLen) <= s.params.MaxSubLocusParentCoverage &&
			a.QueryCoverage >= s.params.MinSubLocusCoverage &&
			a.Identity >= seed.Identity:
			a.State = align.SubLocusCandidate
		default:
			a.State = align.Discarded
		}
		a.Parent = seed.ID
	}
}

// Select picks the representative alignments of a locus. It's a one-pass
// greedy cover rather than an optimal one: the best unused alignment seeds a
// round and claims the alignments that overlap it, until every alignment is
// used. Each alignment's final State is left on it.
//
// Returns the IDs of the seeds and their children, in input order. It fails
// on an alignment without a valid span, ie one that was never finalized.
func Select(l *Locus, p SelectParams) ([]string, error) {
	s, err := newSelector(l.Alignments, p)
	if err != nil {
		return nil, fmt.Errorf("locus %d: %w", l.ID, err)
	}
	for seed := s.nextSeed(); seed >= 0; seed = s.nextSeed() {
		s.classify(seed)
	}

	var selected []string
	for _, a := range l.Alignments {
		if a.State.Selected() {
			selected = append(selected, a.ID)
		}
	}
	return selected, nil
}
