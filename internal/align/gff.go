package align

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Record is a raw mRNA or CDS row of the input and the alignment it belongs to.
type Record struct {
	ID   string
	Line string
}

// Set is every alignment of one input, fully materialized.
type Set struct {
	// Alignments in the order they first appear in the input
	Alignments []*Alignment

	// Records are the raw mRNA and CDS rows, in input order
	Records []Record

	byID map[string]*Alignment
}

// Get returns the alignment with the passed ID
func (s *Set) Get(id string) (*Alignment, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// Exons returns every CDS exon in the set
func (s *Set) Exons() (exons []*Exon) {
	for _, a := range s.Alignments {
		exons = append(exons, a.Exons...)
	}
	return
}

// Open reads alignments from a miniprot GFF3 file. Files ending in .gz are
// decompressed.
func Open(path string) (*Set, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// OpenFile opens a GFF file for reading, decompressing it if the name ends in .gz
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return &gzipFile{Reader: gz, f: f}, nil
}

// gzipFile closes both the decompressor and the file under it
type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	err := g.Reader.Close()
	if fErr := g.f.Close(); err == nil {
		err = fErr
	}
	return err
}

// gffParser keeps the state needed while scanning the rows of one input.
type gffParser struct {
	set *Set

	// whether PAF lines precede the alignments (native miniprot output)
	paf bool

	// query coverage from the last PAF line
	pafCoverage float64

	// IDs that had an mRNA row
	hasMRNA map[string]bool
}

// Read parses miniprot GFF3 rows into alignments. Only mRNA and CDS rows are
// used. In native miniprot output each alignment is preceded by a ##PAF line
// that query coverage is read from, otherwise it's the mRNA's qcov attribute.
//
// Any malformed row or an alignment without exons fails the whole read.
func Read(r io.Reader) (*Set, error) {
	p := &gffParser{
		set:     &Set{byID: make(map[string]*Alignment)},
		hasMRNA: make(map[string]bool),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := p.parseLine(scanner.Text(), lineNum); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read alignments: %w", err)
	}

	for _, a := range p.set.Alignments {
		if !p.hasMRNA[a.ID] {
			return nil, &FormatError{ID: a.ID, Reason: "CDS rows without an mRNA row"}
		}
		if err := a.Finalize(); err != nil {
			return nil, err
		}
	}

	return p.set, nil
}

func (p *gffParser) parseLine(line string, lineNum int) error {
	if strings.TrimSpace(line) == "" {
		return nil
	}

	if strings.HasPrefix(line, "#") {
		if strings.HasPrefix(line, "##PAF") {
			cov, err := pafCoverage(line)
			if err != nil {
				return &FormatError{Line: lineNum, Reason: err.Error()}
			}
			p.paf = true
			p.pafCoverage = cov
		}
		return nil
	}

	row := strings.Split(line, "\t")
	if len(row) != 9 {
		return &FormatError{Line: lineNum, Reason: fmt.Sprintf("expected 9 columns, found %d", len(row))}
	}

	attrs := ParseAttributes(row[8])
	var id string
	switch row[2] {
	case "mRNA":
		id = attrs["ID"]
	case "CDS":
		id = attrs["Parent"]
	default:
		return nil
	}
	if id == "" {
		return &FormatError{Line: lineNum, Reason: fmt.Sprintf("%s row without an alignment ID", row[2])}
	}

	contig, strand := row[0], row[6]
	if contig == "" {
		return &FormatError{Line: lineNum, ID: id, Reason: "missing contig"}
	}
	if strand != "+" && strand != "-" {
		return &FormatError{Line: lineNum, ID: id, Reason: fmt.Sprintf("bad strand %q", strand)}
	}
	start, err := strconv.Atoi(row[3])
	if err != nil {
		return &FormatError{Line: lineNum, ID: id, Reason: fmt.Sprintf("bad start %q", row[3])}
	}
	end, err := strconv.Atoi(row[4])
	if err != nil {
		return &FormatError{Line: lineNum, ID: id, Reason: fmt.Sprintf("bad end %q", row[4])}
	}
	if start < 1 || start > end {
		return &FormatError{Line: lineNum, ID: id, Reason: fmt.Sprintf("bad range %d-%d", start, end)}
	}

	a, ok := p.set.byID[id]
	if !ok {
		target := attrs["prot"]
		if p.paf {
			target = attrs["Target"]
		}
		if fields := strings.Fields(target); len(fields) > 0 {
			target = fields[0]
		}

		a = New(id, target, len(p.set.Alignments))
		if p.paf {
			a.QueryCoverage = p.pafCoverage
		}
		p.set.byID[id] = a
		p.set.Alignments = append(p.set.Alignments, a)
	}

	if row[2] == "mRNA" {
		if p.hasMRNA[id] {
			return &FormatError{Line: lineNum, ID: id, Reason: "duplicate mRNA row"}
		}
		p.hasMRNA[id] = true

		if a.Score, err = strconv.ParseFloat(row[5], 64); err != nil {
			return &FormatError{Line: lineNum, ID: id, Reason: fmt.Sprintf("bad score %q", row[5])}
		}
		if a.Identity, err = floatAttr(attrs, "Identity"); err != nil {
			return &FormatError{Line: lineNum, ID: id, Reason: err.Error()}
		}
		if !p.paf {
			if a.QueryCoverage, err = floatAttr(attrs, "qcov"); err != nil {
				return &FormatError{Line: lineNum, ID: id, Reason: err.Error()}
			}
		}
	} else {
		a.AddExon(&Exon{
			Contig: contig,
			Strand: strand,
			Start:  start,
			End:    end,
			Parent: id,
		})
	}

	p.set.Records = append(p.set.Records, Record{ID: id, Line: line})
	return nil
}

// pafCoverage is the query coverage of a ##PAF line: the aligned length of the
// protein over its total length. PAF coordinates are 0-based, half-open.
func pafCoverage(line string) (float64, error) {
	cols := strings.Split(line, "\t")
	if len(cols) < 5 {
		return 0, fmt.Errorf("PAF line with %d columns", len(cols))
	}

	qLen, err := strconv.Atoi(cols[2])
	if err != nil || qLen <= 0 {
		return 0, fmt.Errorf("bad PAF query length %q", cols[2])
	}
	qStart, err := strconv.Atoi(cols[3])
	if err != nil {
		return 0, fmt.Errorf("bad PAF query start %q", cols[3])
	}
	qEnd, err := strconv.Atoi(cols[4])
	if err != nil {
		return 0, fmt.Errorf("bad PAF query end %q", cols[4])
	}

	return float64(qEnd-qStart) / float64(qLen), nil
}

// ParseAttributes splits a GFF3 attribute column, "ID=a;Parent=b", into a map.
// Entries without a "=" are skipped.
func ParseAttributes(col string) map[string]string {
	attrs := make(map[string]string)
	for _, entry := range strings.Split(col, ";") {
		entry = strings.TrimSpace(entry)
		eq := strings.Index(entry, "=")
		if eq <= 0 {
			continue
		}
		attrs[entry[:eq]] = strings.TrimSpace(entry[eq+1:])
	}
	return attrs
}

// floatAttr parses an optional numeric attribute, missing ones are zero.
func floatAttr(attrs map[string]string, key string) (float64, error) {
	v, ok := attrs[key]
	if !ok {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("bad %s %q", key, v)
	}
	return f, nil
}
