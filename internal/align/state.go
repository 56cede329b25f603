package align

// State is where an alignment is in representative selection.
//
// Unclassified and SubLocusCandidate alignments are still eligible to seed a
// later round. Discarded, Seed and Child are final.
type State int

const (
	Unclassified State = iota
	Discarded
	Seed
	Child
	SubLocusCandidate
)

// Used is whether the alignment is out of the running for future rounds
func (s State) Used() bool {
	return s == Discarded || s == Seed || s == Child
}

// Selected is whether the alignment ends up in the output
func (s State) Selected() bool {
	return s == Seed || s == Child
}

func (s State) String() string {
	switch s {
	case Discarded:
		return "discarded"
	case Seed:
		return "seed"
	case Child:
		return "child"
	case SubLocusCandidate:
		return "sublocus"
	}
	return "unclassified"
}
