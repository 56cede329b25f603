// Package align is for protein-to-genome spliced alignments and the CDS exons
// that make them up. Coordinates are 1-based and inclusive throughout.
package align

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Span is an inclusive coordinate range on one contig
type Span struct {
	Start int
	End   int
}

// Len is the number of bases in the span
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Exon is a single CDS interval of an alignment.
type Exon struct {
	Contig string
	Strand string
	Start  int
	End    int

	// Parent is the ID of the alignment the exon belongs to
	Parent string
}

// Len is the exon's length in bp
func (e *Exon) Len() int {
	return e.End - e.Start + 1
}

// Span returns the exon's range
func (e *Exon) Span() Span {
	return Span{Start: e.Start, End: e.End}
}

// Less orders exons by contig, strand, start and then end.
func (e *Exon) Less(o *Exon) bool {
	if e.Contig != o.Contig {
		return e.Contig < o.Contig
	}
	if e.Strand != o.Strand {
		return e.Strand < o.Strand
	}
	if e.Start != o.Start {
		return e.Start < o.Start
	}
	return e.End < o.End
}

// Alignment is one spliced mapping of a protein onto a genomic strand.
type Alignment struct {
	// ID is unique across the input
	ID string

	// Target is the name of the aligned protein
	Target string

	// Exons are the CDS exons, sorted by start once Finalize is called
	Exons []*Exon

	// Start and End are the min exon start and max exon end
	Start int
	End   int

	// CDSLen is the sum of exon lengths
	CDSLen int

	// Score is the alignment score, higher is better
	Score float64

	// QueryCoverage is the fraction of the protein covered by the alignment
	QueryCoverage float64

	// Identity is the average alignment identity
	Identity float64

	// State is the classification from representative selection
	State State

	// Parent is the ID of the seed that last classified this alignment
	Parent string

	// order is the position of the alignment in its input
	order int
}

// New creates an empty alignment. order is its position in the input and is used
// to break ties between alignments with the same score.
func New(id, target string, order int) *Alignment {
	return &Alignment{
		ID:     id,
		Target: target,
		Start:  math.MaxInt,
		End:    math.MinInt,
		order:  order,
	}
}

// Order is the position of the alignment in its input
func (a *Alignment) Order() int {
	return a.order
}

// AddExon attaches a CDS exon and extends the span and CDS length.
func (a *Alignment) AddExon(e *Exon) {
	if e.Start < a.Start {
		a.Start = e.Start
	}
	if e.End > a.End {
		a.End = e.End
	}
	a.CDSLen += e.Len()
	a.Exons = append(a.Exons, e)
}

// Contig is the sequence the alignment is on
func (a *Alignment) Contig() string {
	if len(a.Exons) == 0 {
		return ""
	}
	return a.Exons[0].Contig
}

// Strand is the strand the alignment is on
func (a *Alignment) Strand() string {
	if len(a.Exons) == 0 {
		return ""
	}
	return a.Exons[0].Strand
}

// Span returns the aggregate range of the alignment
func (a *Alignment) Span() Span {
	return Span{Start: a.Start, End: a.End}
}

// Finalize checks the alignment after all of its exons are attached and sorts
// the exons by position. Every exon must name the alignment as its parent and
// be on the same contig and strand.
func (a *Alignment) Finalize() error {
	if len(a.Exons) == 0 || a.CDSLen <= 0 {
		return &ValidationError{ID: a.ID, Reason: "no CDS exons"}
	}

	contig, strand := a.Exons[0].Contig, a.Exons[0].Strand
	for _, e := range a.Exons {
		if e.Parent != a.ID {
			return &FormatError{
				ID:     a.ID,
				Reason: fmt.Sprintf("exon %d-%d has parent %q", e.Start, e.End, e.Parent),
			}
		}
		if e.Contig != contig || e.Strand != strand {
			return &FormatError{
				ID:     a.ID,
				Reason: fmt.Sprintf("exons on both %s%s and %s%s", contig, strand, e.Contig, e.Strand),
			}
		}
	}

	sort.SliceStable(a.Exons, func(i, j int) bool {
		return a.Exons[i].Less(a.Exons[j])
	})
	return nil
}

// SharedCDS is the number of CDS bases shared by the two alignments. Both
// alignments' exons must be sorted.
func (a *Alignment) SharedCDS(o *Alignment) int {
	if a.Start > o.End || a.End < o.Start {
		return 0
	}

	shared := 0
	i, j := 0, 0
	for i < len(a.Exons) && j < len(o.Exons) {
		e1, e2 := a.Exons[i], o.Exons[j]
		switch {
		case e1.End < e2.Start:
			i++
		case e2.End < e1.Start:
			j++
		default:
			shared += min(e1.End, e2.End) - max(e1.Start, e2.Start) + 1
			if e1.End < e2.End {
				i++
			} else {
				j++
			}
		}
	}
	return shared
}

// CDSOverlap is the fraction of a's own CDS covered by o's CDS. It is
// directional: a.CDSOverlap(o) != o.CDSOverlap(a) unless the CDS lengths match.
func (a *Alignment) CDSOverlap(o *Alignment) float64 {
	return float64(a.SharedCDS(o)) / float64(a.CDSLen)
}

func (a *Alignment) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s%s:%d-%d", a.ID, a.Contig(), a.Strand(), a.Start, a.End)
	if a.Target != "" {
		fmt.Fprintf(&sb, " (%s)", a.Target)
	}
	return sb.String()
}
