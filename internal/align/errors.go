package align

import (
	"errors"
	"fmt"
)

// ErrCoverageUndefined is returned when a mean CDS coverage is requested for
// a locus without any positive-depth CDS area.
var ErrCoverageUndefined = errors.New("coverage undefined: no positive-depth CDS area")

// ValidationError is for alignments that can't be used at all, eg one without exons
type ValidationError struct {
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid alignment %s: %s", e.ID, e.Reason)
}

// FormatError is a malformed input record. Line is 1-based and zero when the
// problem is only visible once all records of an alignment are read.
type FormatError struct {
	Line   int
	ID     string
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.ID != "":
		return fmt.Sprintf("line %d: alignment %s: %s", e.Line, e.ID, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	case e.ID != "":
		return fmt.Sprintf("alignment %s: %s", e.ID, e.Reason)
	}
	return e.Reason
}
