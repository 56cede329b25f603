package hint

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tomasbruna/miniprothint/internal/align"
)

// collapsible are the (lowercased) feature types merged by Collapse
var collapsible = map[string]bool{
	"intron":      true,
	"start_codon": true,
	"start":       true,
	"stop_codon":  true,
	"stop":        true,
	"cds":         true,
}

// feature is one collapsed hint and the alignments supporting it.
type feature struct {
	row   []string
	count int
	prots []string

	// the best alignment score of any supporting alignment, not kept for CDS
	alScore float64

	// splice sites of an intron, eg "GT_AG"
	spliceSites string
}

func (f *feature) isCDS() bool {
	return f.row[2] == "cds"
}

// signature identifies rows that describe the same feature
func signature(row []string) string {
	return strings.Join([]string{row[0], row[2], row[3], row[4], row[6]}, "_")
}

// Collapse merges identical introns, starts, stops and CDS of scored
// alignments and counts how many alignments support each. The count goes
// in the score column. Features keep the order in which they first appear.
func Collapse(r io.Reader, w io.Writer, printProts bool) error {
	var features []*feature
	bySig := make(map[string]*feature)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		row := strings.Split(scanner.Text(), "\t")
		if len(row) != 9 {
			continue
		}

		row[2] = strings.ToLower(row[2])
		if !collapsible[row[2]] {
			continue
		}

		attrs := align.ParseAttributes(row[8])
		prot, ok := attrs["prot"]
		if !ok {
			return &align.FormatError{Line: lineNum, Reason: "feature without a prot attribute"}
		}

		var alScore float64
		if row[2] != "cds" {
			v, ok := attrs["al_score"]
			if !ok {
				return &align.FormatError{Line: lineNum, Reason: "feature without an al_score attribute"}
			}
			var err error
			if alScore, err = strconv.ParseFloat(v, 64); err != nil {
				return &align.FormatError{Line: lineNum, Reason: fmt.Sprintf("bad al_score %q", v)}
			}
		}

		sig := signature(row)
		if f, seen := bySig[sig]; seen {
			f.count++
			f.prots = append(f.prots, prot)
			if !f.isCDS() && alScore > f.alScore {
				f.alScore = alScore
			}
			continue
		}

		f := &feature{row: row, count: 1, prots: []string{prot}, alScore: alScore}
		if row[2] == "intron" {
			f.spliceSites = attrs["splice_sites"]
		}
		row[8] = ""
		bySig[sig] = f
		features = append(features, f)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, f := range features {
		fmt.Fprintln(bw, f.format(printProts))
	}
	return bw.Flush()
}

// format renders the collapsed feature as a GFF row
func (f *feature) format(printProts bool) string {
	row := append([]string(nil), f.row...)
	row[5] = strconv.Itoa(f.count)

	var attrs strings.Builder
	if f.isCDS() {
		row[2] = "CDS"
	} else {
		fmt.Fprintf(&attrs, "al_score=%s;", formatFloat(f.alScore))
	}
	if row[2] == "intron" {
		fmt.Fprintf(&attrs, " splice_sites=%s;", f.spliceSites)
	}
	if printProts {
		fmt.Fprintf(&attrs, " prots=%s;", strings.Join(f.prots, ","))
	}

	row[8] = attrs.String()
	if row[8] == "" {
		row[8] = "."
	}
	return strings.Join(row, "\t")
}
