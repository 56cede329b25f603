package hint

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tomasbruna/miniprothint/internal/align"
)

// stopCodon is the position of an alignment's stop codon
type stopCodon struct {
	start, end int

	// whether the stop is at the very end of the protein
	proteinEnd bool
}

// gtfRow is a row of boundary scorer output with its parsed attributes
type gtfRow struct {
	cols  []string
	attrs map[string]string
	line  int
}

// ConvertGTF turns the output of the miniprot boundary scorer into a
// miniprot-like GTF of gene, transcript, exon and CDS rows. Transcripts that
// end in a stop at the protein's end are extended over it. With stopsInCDS
// the last CDS is extended over its stop codon too.
//
// Gene scores come straight from the scorer's mRNA rows. CDS scores are the
// scorer's exon scores so they won't match native miniprot exactly.
func ConvertGTF(r io.Reader, w io.Writer, stopsInCDS bool) error {
	var rows []gtfRow
	stops := make(map[string]stopCodon)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		cols := strings.Split(scanner.Text(), "\t")
		if len(cols) != 9 {
			continue
		}
		row := gtfRow{cols: cols, attrs: align.ParseAttributes(cols[8]), line: lineNum}

		switch cols[2] {
		case "stop_codon":
			start, end, err := row.coords()
			if err != nil {
				return err
			}
			stops[row.key("Parent")] = stopCodon{
				start:      start,
				end:        end,
				proteinEnd: row.attrs["proteinEnd"] == "1",
			}
		case "mRNA", "CDS":
			rows = append(rows, row)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, row := range rows {
		start, end, err := row.coords()
		if err != nil {
			return err
		}
		cols := append([]string(nil), row.cols...)
		plus := cols[6] == "+"

		if cols[2] == "mRNA" {
			id := row.key("ID")
			if stop, ok := stops[id]; ok && stop.proteinEnd {
				if plus {
					end += 3
				} else {
					start -= 3
				}
			}
			cols[3], cols[4] = strconv.Itoa(start), strconv.Itoa(end)

			gene := append([]string(nil), cols...)
			gene[2] = "gene"
			gene[8] = fmt.Sprintf(`gene_id "%s";`, id)
			cols[2] = "transcript"
			cols[8] = fmt.Sprintf(`transcript_id "%s"; gene_id "%s";`, id, id)

			fmt.Fprintln(bw, strings.Join(gene, "\t"))
			fmt.Fprintln(bw, strings.Join(cols, "\t"))
			continue
		}

		id := row.key("Parent")
		if stop, ok := stops[id]; ok && stopsInCDS {
			if plus && end+1 == stop.start {
				end += 3
			} else if !plus && start-1 == stop.end {
				start -= 3
			}
		}
		cols[3], cols[4] = strconv.Itoa(start), strconv.Itoa(end)
		cols[5] = row.attrs["eScore"]
		if cols[5] == "" {
			cols[5] = "."
		}
		cols[8] = fmt.Sprintf(`transcript_id "%s"; gene_id "%s";`, id, id)

		exon := append([]string(nil), cols...)
		exon[2] = "exon"
		exon[7] = "."

		fmt.Fprintln(bw, strings.Join(exon, "\t"))
		fmt.Fprintln(bw, strings.Join(cols, "\t"))
	}
	return bw.Flush()
}

// key is the transcript name: the alignment ID from attribute idAttr and the protein
func (r gtfRow) key(idAttr string) string {
	return r.attrs[idAttr] + "_" + r.attrs["prot"]
}

func (r gtfRow) coords() (start, end int, err error) {
	if start, err = strconv.Atoi(r.cols[3]); err != nil {
		return 0, 0, &align.FormatError{Line: r.line, Reason: fmt.Sprintf("bad start %q", r.cols[3])}
	}
	if end, err = strconv.Atoi(r.cols[4]); err != nil {
		return 0, 0, &align.FormatError{Line: r.line, Reason: fmt.Sprintf("bad end %q", r.cols[4])}
	}
	return start, end, nil
}
