package locus

import (
	"sort"

	"github.com/tomasbruna/miniprothint/internal/align"
)

// Cluster groups alignments into loci: maximal sets of alignments on one
// contig and strand that are connected by overlapping CDS exons.
//
// All exons are swept in (contig, strand, start, end) order. A new
// provisional cluster starts whenever the contig or strand changes, or an
// exon starts past the furthest end seen in the current cluster. An
// alignment whose exons land in more than one provisional cluster joins
// those clusters, so alignments interleaved across a gap end up in one locus
// without a second pass.
//
// Loci are returned sorted by position. Each locus keeps its alignments in
// input order.
func Cluster(alignments []*align.Alignment) ([]*Locus, error) {
	var exons []*align.Exon
	for _, a := range alignments {
		if err := a.Finalize(); err != nil {
			return nil, err
		}
		exons = append(exons, a.Exons...)
	}

	sort.SliceStable(exons, func(i, j int) bool {
		return exons[i].Less(exons[j])
	})

	var (
		clusters   forest
		current    = -1
		currentEnd int
		prevContig string
		prevStrand string
		firstSeen  = make(map[string]int) // alignment ID to first provisional cluster
	)
	for _, e := range exons {
		if current < 0 || e.Contig != prevContig || e.Strand != prevStrand || e.Start > currentEnd {
			current = clusters.add()
			currentEnd = e.End
		} else if e.End > currentEnd {
			currentEnd = e.End
		}

		if first, seen := firstSeen[e.Parent]; !seen {
			firstSeen[e.Parent] = current
		} else if first != current {
			clusters.union(current, first)
		}

		prevContig = e.Contig
		prevStrand = e.Strand
	}

	byRoot := make(map[int]*Locus)
	var loci []*Locus
	for _, a := range alignments {
		root := clusters.find(firstSeen[a.ID])
		l, ok := byRoot[root]
		if !ok {
			l = newLocus(a.Contig(), a.Strand())
			byRoot[root] = l
			loci = append(loci, l)
		}
		l.add(a)
	}

	sort.SliceStable(loci, func(i, j int) bool {
		li, lj := loci[i], loci[j]
		if li.Contig != lj.Contig {
			return li.Contig < lj.Contig
		}
		if li.Strand != lj.Strand {
			return li.Strand < lj.Strand
		}
		if li.Start != lj.Start {
			return li.Start < lj.Start
		}
		return li.End < lj.End
	})
	for i, l := range loci {
		l.ID = i + 1
	}

	return loci, nil
}
