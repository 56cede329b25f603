package locus

import "math"

// SubLocus is a part of a locus separated from its neighbors by a bridge.
type SubLocus struct {
	// ID is the 1-based position of the sub-locus within its locus
	ID    int
	Start int
	End   int
}

// bridgeState is the state of the bridge detector while walking blocks
type bridgeState int

const (
	atStart bridgeState = iota
	inSubLocus
	inBridge
	inEdge
)

// DetectBridges walks the coverage blocks of a locus from left to right and
// splits it into sub-loci separated by bridges: runs of low coverage that
// one or two weak alignments create when they span two real loci.
//
// A bridge is entered when depth drops to floor(enterThreshold*baseline) or
// below and is left once depth reaches ceil(exitThreshold*baseline). Depths
// between the two cutoffs never change state.
//
// The first sub-locus always starts at the first block, even when coverage
// there is low (an edge rather than a bridge, a bridge needs a sub-locus on
// both sides). For the same reason the last sub-locus always runs to the last
// block, absorbing a bridge that is still open at the end.
func DetectBridges(blocks []Block, baseline, enterThreshold, exitThreshold float64) []SubLocus {
	if len(blocks) == 0 {
		return nil
	}

	enterCutoff := int(math.Floor(enterThreshold * baseline))
	exitCutoff := int(math.Ceil(exitThreshold * baseline))

	var subLoci []SubLocus
	open := func(pos int) {
		subLoci = append(subLoci, SubLocus{ID: len(subLoci) + 1, Start: pos})
	}

	state := atStart
	for _, b := range blocks {
		switch state {
		case atStart:
			open(b.Start)
			if b.Depth <= enterCutoff {
				state = inEdge
			} else {
				state = inSubLocus
			}
		case inSubLocus:
			if b.Depth <= enterCutoff {
				state = inBridge
				subLoci[len(subLoci)-1].End = b.Start - 1
			}
		case inBridge:
			if b.Depth >= exitCutoff {
				state = inSubLocus
				open(b.Start)
			}
		case inEdge:
			if b.Depth >= exitCutoff {
				state = inSubLocus
			}
		}
	}

	subLoci[len(subLoci)-1].End = blocks[len(blocks)-1].End
	return subLoci
}
