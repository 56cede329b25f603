package prothint

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/tomasbruna/miniprothint/internal/align"
)

// writeInput writes the contents to a file in a test's temporary directory.
// Names ending in .gz are compressed.
func writeInput(t *testing.T, name, contents string) string {
	path := filepath.Join(t.TempDir(), name)

	data := []byte(contents)
	if strings.HasSuffix(name, ".gz") {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			t.Fatal(err)
		}
		if err := gz.Close(); err != nil {
			t.Fatal(err)
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readOutput(t *testing.T, path string) string {
	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

func Test_Select_e2e(t *testing.T) {
	for _, name := range []string{"miniprot.gff", "miniprot.gff.gz"} {
		t.Run(name, func(t *testing.T) {
			in := writeInput(t, name, testGFF)
			out := filepath.Join(t.TempDir(), "selected.gff")

			if err := Select(context.Background(), NewFlags(in, out), testConfig(2)); err != nil {
				t.Fatal(err)
			}

			got := readOutput(t, out)
			for _, id := range []string{"MP1", "MP2", "MP3", "MP5"} {
				if !strings.Contains(got, "ID="+id+";") || !strings.Contains(got, "Parent="+id+";") {
					t.Errorf("%s missing from output:\n%s", id, got)
				}
			}
			if strings.Contains(got, "MP4") {
				t.Errorf("discarded MP4 in output:\n%s", got)
			}
			if lines := strings.Count(got, "\n"); lines != 8 {
				t.Errorf("%d rows written, want 8", lines)
			}
		})
	}
}

func Test_Select_badInput(t *testing.T) {
	in := writeInput(t, "bad.gff", "chr1\tminiprot\tmRNA\t10\t1\t5\t+\t.\tID=a\n")
	out := filepath.Join(t.TempDir(), "selected.gff")

	err := Select(context.Background(), NewFlags(in, out), testConfig(1))
	var fErr *align.FormatError
	if !errors.As(err, &fErr) {
		t.Fatalf("Select() error = %v, want FormatError", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("output written for bad input")
	}
}

func Test_Loci_e2e(t *testing.T) {
	in := writeInput(t, "miniprot.gff", testGFF)
	out := filepath.Join(t.TempDir(), "loci.gff")

	flags := NewFlags(in, out)
	flags.subLoci = true
	flags.alignments = true
	if err := Loci(context.Background(), flags, testConfig(1)); err != nil {
		t.Fatal(err)
	}

	rows := strings.Split(strings.TrimSpace(readOutput(t, out)), "\n")
	var loci, subLoci, alignments int
	for _, row := range rows {
		switch strings.Split(row, "\t")[2] {
		case "locus":
			loci++
		case "sublocus":
			subLoci++
		case "mRNA":
			alignments++
		}
	}
	if loci != 2 || subLoci != 2 || alignments != 5 {
		t.Errorf("%d loci, %d sub-loci and %d alignments, want 2, 2 and 5", loci, subLoci, alignments)
	}
	if !strings.Contains(rows[len(rows)-1], "ID=MP5;") || !strings.Contains(rows[len(rows)-1], "cluster=locus_2") {
		t.Errorf("last row = %q, want MP5 in locus_2", rows[len(rows)-1])
	}
}

func Test_Collapse_e2e(t *testing.T) {
	in := writeInput(t, "scored.gff.gz",
		"chr1\tscorer\tintron\t201\t299\t.\t+\t.\tprot=P1; al_score=0.5; splice_sites=GT_AG;\n"+
			"chr1\tscorer\tintron\t201\t299\t.\t+\t.\tprot=P2; al_score=0.8; splice_sites=GT_AG;\n")
	out := filepath.Join(t.TempDir(), "hints.gff")

	flags := NewFlags(in, out)
	flags.prots = true
	if err := Collapse(flags); err != nil {
		t.Fatal(err)
	}

	want := "chr1\tscorer\tintron\t201\t299\t2\t+\t.\tal_score=0.8; splice_sites=GT_AG; prots=P1,P2;\n"
	if got := readOutput(t, out); got != want {
		t.Errorf("Collapse() wrote %q, want %q", got, want)
	}
}

func Test_GTF_e2e(t *testing.T) {
	in := writeInput(t, "scored.gff",
		"chr1\tscorer\tmRNA\t100\t300\t50\t+\t.\tID=1;prot=P1;\n"+
			"chr1\tscorer\tCDS\t100\t300\t.\t+\t0\tParent=1;prot=P1;eScore=12;\n"+
			"chr1\tscorer\tstop_codon\t301\t303\t.\t+\t0\tParent=1;prot=P1;proteinEnd=1;\n")
	out := filepath.Join(t.TempDir(), "miniprot.gtf")

	flags := NewFlags(in, out)
	flags.stopsInCDS = true
	if err := GTF(flags); err != nil {
		t.Fatal(err)
	}

	got := readOutput(t, out)
	if !strings.Contains(got, "chr1\tscorer\tCDS\t100\t303\t12\t+\t0\ttranscript_id \"1_P1\"; gene_id \"1_P1\";") {
		t.Errorf("CDS not extended over its stop:\n%s", got)
	}
}
