// Package locus clusters alignments into genomic loci and resolves the
// redundancy within each: coverage profiling, bridge detection and the
// selection of representative alignments.
package locus

import (
	"fmt"
	"math"

	"github.com/tomasbruna/miniprothint/internal/align"
)

// Locus is a set of transitively CDS-overlapping alignments on one contig and strand.
type Locus struct {
	// ID is the 1-based position of the locus in the sorted output
	ID int

	Contig string
	Strand string

	// Start and End span all of the locus' alignments
	Start int
	End   int

	// Alignments in input order
	Alignments []*align.Alignment

	coverage    *Profile
	cdsCoverage *Profile
	subLoci     []SubLocus
}

// newLocus creates an empty locus with unset extrema
func newLocus(contig, strand string) *Locus {
	return &Locus{
		Contig: contig,
		Strand: strand,
		Start:  math.MaxInt,
		End:    math.MinInt,
	}
}

// add is for adding a new alignment to the locus and extending its range
func (l *Locus) add(a *align.Alignment) {
	if a.Start < l.Start {
		l.Start = a.Start
	}
	if a.End > l.End {
		l.End = a.End
	}
	l.Alignments = append(l.Alignments, a)
}

// Len is the span of the locus in bp
func (l *Locus) Len() int {
	return l.End - l.Start + 1
}

// Coverage is the depth of alignments, end to end, along the locus
func (l *Locus) Coverage() *Profile {
	if l.coverage == nil {
		spans := make([]align.Span, 0, len(l.Alignments))
		for _, a := range l.Alignments {
			spans = append(spans, a.Span())
		}
		l.coverage = NewProfile(spans)
	}
	return l.coverage
}

// CDSCoverage is the depth of CDS exons along the locus
func (l *Locus) CDSCoverage() *Profile {
	if l.cdsCoverage == nil {
		var spans []align.Span
		for _, a := range l.Alignments {
			for _, e := range a.Exons {
				spans = append(spans, e.Span())
			}
		}
		l.cdsCoverage = NewProfile(spans)
	}
	return l.cdsCoverage
}

// MeanCDSCoverage is the average CDS depth over the bases covered by any CDS.
// It returns align.ErrCoverageUndefined if there are none.
func (l *Locus) MeanCDSCoverage() (float64, error) {
	return l.CDSCoverage().MeanPositive()
}

// SplitBridges splits the locus into sub-loci at low coverage bridges. The
// baseline is the mean CDS coverage. If that's undefined the error wraps
// align.ErrCoverageUndefined and the locus shouldn't be split.
func (l *Locus) SplitBridges(enterThreshold, exitThreshold float64) ([]SubLocus, error) {
	baseline, err := l.MeanCDSCoverage()
	if err != nil {
		return nil, fmt.Errorf("locus %d: %w", l.ID, err)
	}

	l.subLoci = DetectBridges(l.Coverage().Blocks, baseline, enterThreshold, exitThreshold)
	return l.subLoci, nil
}

// SubLoci are the sub-loci from the last call to SplitBridges
func (l *Locus) SubLoci() []SubLocus {
	return l.subLoci
}

func (l *Locus) String() string {
	return fmt.Sprintf("locus %d %s%s:%d-%d (%d alignments)", l.ID, l.Contig, l.Strand, l.Start, l.End, len(l.Alignments))
}
