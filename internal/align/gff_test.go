package align

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const scoredGFF = `##gff-version 3
chr1	miniprot	mRNA	100	600	250	+	.	ID=MP1;Identity=0.95;qcov=0.9;prot=P1 extra
chr1	miniprot	CDS	100	200	.	+	0	Parent=MP1;prot=P1
chr1	miniprot	CDS	500	600	.	+	1	Parent=MP1;prot=P1
chr1	miniprot	intron	201	499	.	+	.	Parent=MP1;prot=P1
chr2	miniprot	mRNA	10	90	80.5	-	.	ID=MP2;Identity=0.5;qcov=0.4;prot=P2
chr2	miniprot	CDS	10	90	.	-	0	Parent=MP2;prot=P2
`

const pafGFF = "##gff-version 3\n" +
	"##PAF\tP1\t200\t0\t150\t+\tchr1\n" +
	"chr1\tminiprot\tmRNA\t100\t600\t250\t+\t.\tID=MP000001;Rank=1;Identity=0.9;Target=P1 1 150\n" +
	"chr1\tminiprot\tCDS\t100\t600\t.\t+\t0\tParent=MP000001;Rank=1;Identity=0.9;Target=P1 1 150\n" +
	"##PAF\tP2\t100\t0\t100\t-\tchr1\n" +
	"chr1\tminiprot\tmRNA\t700\t900\t90\t-\t.\tID=MP000002;Rank=1;Identity=0.7;Target=P2 1 100\n" +
	"chr1\tminiprot\tCDS\t700\t900\t.\t-\t0\tParent=MP000002;Rank=1;Identity=0.7;Target=P2 1 100\n"

func TestRead(t *testing.T) {
	set, err := Read(strings.NewReader(scoredGFF))
	if err != nil {
		t.Fatal(err)
	}

	if len(set.Alignments) != 2 {
		t.Fatalf("%d alignments, want 2", len(set.Alignments))
	}
	if len(set.Records) != 5 {
		t.Errorf("%d records, want the 5 mRNA and CDS rows", len(set.Records))
	}
	if len(set.Exons()) != 3 {
		t.Errorf("%d exons, want 3", len(set.Exons()))
	}

	a, ok := set.Get("MP1")
	if !ok {
		t.Fatal("MP1 not found")
	}
	if a.Target != "P1" || a.Score != 250 || a.Identity != 0.95 || a.QueryCoverage != 0.9 {
		t.Errorf("MP1 = %+v", a)
	}
	if a.Start != 100 || a.End != 600 || a.CDSLen != 202 || a.Contig() != "chr1" || a.Strand() != "+" {
		t.Errorf("MP1 span %s%s:%d-%d, CDS %d", a.Contig(), a.Strand(), a.Start, a.End, a.CDSLen)
	}
	if a.Order() != 0 || set.Alignments[1].Order() != 1 {
		t.Error("alignments not in input order")
	}

	b, _ := set.Get("MP2")
	if b.Score != 80.5 || b.Strand() != "-" {
		t.Errorf("MP2 = %+v", b)
	}
}

func TestRead_paf(t *testing.T) {
	set, err := Read(strings.NewReader(pafGFF))
	if err != nil {
		t.Fatal(err)
	}

	a, _ := set.Get("MP000001")
	if a.QueryCoverage != 0.75 {
		t.Errorf("MP000001 coverage = %f, want 0.75 from the PAF line", a.QueryCoverage)
	}
	if a.Target != "P1" {
		t.Errorf("MP000001 target = %q, want P1", a.Target)
	}

	b, _ := set.Get("MP000002")
	if b.QueryCoverage != 1 || b.Identity != 0.7 {
		t.Errorf("MP000002 coverage %f identity %f", b.QueryCoverage, b.Identity)
	}
}

func TestRead_errors(t *testing.T) {
	tests := []struct {
		name       string
		gff        string
		validation bool
	}{
		{
			"too few columns",
			"chr1\tminiprot\tCDS\t1\t10\t.\t+\n",
			false,
		},
		{
			"bad coordinate",
			"chr1\tminiprot\tmRNA\t1\tten\t5\t+\t.\tID=a\n",
			false,
		},
		{
			"inverted range",
			"chr1\tminiprot\tmRNA\t10\t1\t5\t+\t.\tID=a\n",
			false,
		},
		{
			"bad strand",
			"chr1\tminiprot\tmRNA\t1\t10\t5\t.\t.\tID=a\n",
			false,
		},
		{
			"CDS without parent",
			"chr1\tminiprot\tCDS\t1\t10\t.\t+\t0\tID=a\n",
			false,
		},
		{
			"CDS without mRNA",
			"chr1\tminiprot\tCDS\t1\t10\t.\t+\t0\tParent=a\n",
			false,
		},
		{
			"exons on two strands",
			"chr1\tminiprot\tmRNA\t1\t100\t5\t+\t.\tID=a\n" +
				"chr1\tminiprot\tCDS\t1\t10\t.\t+\t0\tParent=a\n" +
				"chr1\tminiprot\tCDS\t50\t100\t.\t-\t0\tParent=a\n",
			false,
		},
		{
			"mRNA without exons",
			"chr1\tminiprot\tmRNA\t1\t100\t5\t+\t.\tID=a\n",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.gff))
			var vErr *ValidationError
			var fErr *FormatError
			if tt.validation && !errors.As(err, &vErr) {
				t.Errorf("Read() error = %v, want ValidationError", err)
			}
			if !tt.validation && !errors.As(err, &fErr) {
				t.Errorf("Read() error = %v, want FormatError", err)
			}
		})
	}
}

func TestOpen_gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "miniprot.gff.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(scoredGFF)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	set, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Alignments) != 2 {
		t.Errorf("%d alignments, want 2", len(set.Alignments))
	}
}

func TestOpenFile_corruptGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(scoredGFF)); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	// a reserved block type right after the 10 byte header
	data := buf.Bytes()
	data[10] = 0xff

	path := filepath.Join(t.TempDir(), "corrupt.gff.gz")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	f, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.ReadAll(f); err == nil {
		t.Error("reading a corrupt stream should fail")
	}
	if err := f.Close(); err == nil {
		t.Error("Close() should report the decompression error")
	}
}

func TestParseAttributes(t *testing.T) {
	attrs := ParseAttributes("ID=MP1; Parent=x;Target=P1 1 100;flag;")
	if attrs["ID"] != "MP1" || attrs["Parent"] != "x" || attrs["Target"] != "P1 1 100" {
		t.Errorf("ParseAttributes() = %v", attrs)
	}
	if _, ok := attrs["flag"]; ok {
		t.Error("entry without a value should be skipped")
	}
}
