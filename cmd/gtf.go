package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tomasbruna/miniprothint/internal/prothint"
)

// gtfCmd is for converting scored alignments to GTF
var gtfCmd = &cobra.Command{
	Use:                        "gtf [gff]",
	Short:                      "Convert scored alignments to a gene, transcript, exon and CDS GTF",
	Run:                        prothint.GTFCmd,
	SuggestionsMinimumDistance: 2,
	Long: `Convert the output of the miniprot boundary scorer to a miniprot-like GTF.

Genes and transcripts that end in a stop codon at the end of their protein are
extended over it. CDS scores are the scorer's exon scores.`,
}

// set flags
func init() {
	gtfCmd.Flags().StringP("in", "i", "", "input scored GFF (may be gzipped)")
	gtfCmd.Flags().StringP("out", "o", "", "output file name (default stdout)")
	gtfCmd.Flags().Bool("stops-in-cds", false, "extend the last CDS of a transcript over its stop codon")

	RootCmd.AddCommand(gtfCmd)
}
