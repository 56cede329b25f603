package locus

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tomasbruna/miniprothint/internal/align"
)

// Block is a run of bases with the same depth. Start and End are inclusive.
type Block struct {
	Start int
	End   int
	Depth int
}

// Len is the number of bases in the block
func (b Block) Len() int {
	return b.End - b.Start + 1
}

// Profile is the run-length encoded depth along a range. Its blocks are
// ordered and gap free, they partition the range from the lowest span
// start to the highest span end.
type Profile struct {
	Blocks []Block

	// Mean is the depth averaged over every base of the profile
	Mean float64

	// Max is the highest depth of any block
	Max int
}

// border is where depth changes: +1 where a span is entered, -1 right after
// its last base.
type border struct {
	pos   int
	delta int
}

// NewProfile computes depth along a set of inclusive spans with a sweep over
// their borders.
//
// Each span is entered at its start and exited at end+1. At equal positions
// entries are applied before exits. Positions are only emitted as blocks once
// every border at a position is applied, so a span ending right where
// another starts leaves no gap or double-counted base.
func NewProfile(spans []align.Span) *Profile {
	p := &Profile{}
	if len(spans) == 0 {
		return p
	}

	borders := make([]border, 0, 2*len(spans))
	for _, s := range spans {
		borders = append(borders, border{pos: s.Start, delta: 1}, border{pos: s.End + 1, delta: -1})
	}
	sort.SliceStable(borders, func(i, j int) bool {
		if borders[i].pos != borders[j].pos {
			return borders[i].pos < borders[j].pos
		}
		return borders[i].delta > borders[j].delta
	})

	depth := 0
	prev := borders[0].pos
	for _, b := range borders {
		if b.pos != prev {
			last := len(p.Blocks) - 1
			if last >= 0 && p.Blocks[last].Depth == depth {
				p.Blocks[last].End = b.pos - 1
			} else {
				p.Blocks = append(p.Blocks, Block{Start: prev, End: b.pos - 1, Depth: depth})
			}
			if depth > p.Max {
				p.Max = depth
			}
		}

		depth += b.delta
		prev = b.pos
	}

	depths, lengths := p.weights(false)
	p.Mean = stat.Mean(depths, lengths)
	return p
}

// Start is the first base of the profile
func (p *Profile) Start() int {
	if len(p.Blocks) == 0 {
		return 0
	}
	return p.Blocks[0].Start
}

// End is the last base of the profile
func (p *Profile) End() int {
	if len(p.Blocks) == 0 {
		return 0
	}
	return p.Blocks[len(p.Blocks)-1].End
}

// MeanPositive is the depth averaged over the bases with a depth above zero.
// For a CDS profile this is the mean CDS coverage. Without any such bases it
// returns align.ErrCoverageUndefined.
func (p *Profile) MeanPositive() (float64, error) {
	depths, lengths := p.weights(true)
	if len(depths) == 0 {
		return 0, align.ErrCoverageUndefined
	}
	return stat.Mean(depths, lengths), nil
}

// weights returns block depths with their lengths as weights
func (p *Profile) weights(positiveOnly bool) (depths, lengths []float64) {
	for _, b := range p.Blocks {
		if positiveOnly && b.Depth <= 0 {
			continue
		}
		depths = append(depths, float64(b.Depth))
		lengths = append(lengths, float64(b.Len()))
	}
	return
}
