// Package hint renders loci, sub-loci and selected alignments as annotation
// hints, and collapses or converts scored alignment features.
package hint

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tomasbruna/miniprothint/internal/align"
	"github.com/tomasbruna/miniprothint/internal/locus"
)

// source is the GFF source column of everything written here
const source = "prothint"

// WriteSelected writes the input rows of the selected alignments, in input order.
func WriteSelected(w io.Writer, set *align.Set, selected []string) error {
	keep := make(map[string]bool, len(selected))
	for _, id := range selected {
		keep[id] = true
	}

	bw := bufio.NewWriter(w)
	for _, r := range set.Records {
		if keep[r.ID] {
			if _, err := fmt.Fprintln(bw, r.Line); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// LociOptions is what to write for each locus besides its own row
type LociOptions struct {
	// SubLoci writes a row per sub-locus from the last bridge split
	SubLoci bool

	// Alignments writes a row per alignment with its locus and selection state
	Alignments bool
}

// WriteLoci writes a GFF3 row per locus. The score column is the locus' mean coverage.
func WriteLoci(w io.Writer, loci []*locus.Locus, opts LociOptions) error {
	bw := bufio.NewWriter(w)
	for _, l := range loci {
		cov := l.Coverage()
		id := locusID(l)
		attrs := fmt.Sprintf("ID=%s;alignments=%d;maxCov=%d", id, len(l.Alignments), cov.Max)
		if meanCDS, err := l.MeanCDSCoverage(); err == nil {
			attrs += ";meanCDSCov=" + formatFloat(meanCDS)
		}
		writeRow(bw, l.Contig, "locus", l.Start, l.End, formatFloat(cov.Mean), l.Strand, attrs)

		if opts.SubLoci {
			for _, s := range l.SubLoci() {
				writeRow(bw, l.Contig, "sublocus", s.Start, s.End, ".", l.Strand,
					fmt.Sprintf("ID=%s_%d;Parent=%s", id, s.ID, id))
			}
		}

		if opts.Alignments {
			for _, a := range l.Alignments {
				attrs := fmt.Sprintf("ID=%s;prot=%s;qcov=%s;identity=%s;cluster=%s;state=%s",
					a.ID, a.Target, formatRounded(a.QueryCoverage), formatRounded(a.Identity), id, a.State)
				if a.Parent != "" {
					attrs += ";seed=" + a.Parent
				}
				writeRow(bw, l.Contig, "mRNA", a.Start, a.End, formatFloat(a.Score), l.Strand, attrs)
			}
		}
	}
	return bw.Flush()
}

// locusID is the name of a locus in written output
func locusID(l *locus.Locus) string {
	return "locus_" + strconv.Itoa(l.ID)
}

// writeRow writes a single GFF3 row with no frame
func writeRow(w *bufio.Writer, contig, feature string, start, end int, score, strand, attrs string) {
	w.WriteString(strings.Join([]string{
		contig, source, feature, strconv.Itoa(start), strconv.Itoa(end), score, strand, ".", attrs,
	}, "\t"))
	w.WriteByte('\n')
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatRounded rounds to 4 decimal places, dropping trailing zeros
func formatRounded(f float64) string {
	s := strconv.FormatFloat(f, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
