package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tomasbruna/miniprothint/internal/prothint"
)

// lociCmd is for writing the loci that alignments cluster into
var lociCmd = &cobra.Command{
	Use:                        "loci [gff]",
	Short:                      "Cluster alignments into loci and report their coverage",
	Run:                        prothint.LociCmd,
	SuggestionsMinimumDistance: 2,
	Long: `Cluster alignments into loci: sets of alignments on one contig and strand
linked by shared CDS bases. Each locus is written with its mean and maximum
coverage depth and its mean CDS coverage.

Loci are split into sub-loci where one or two weak alignments bridge two
well covered regions. Sub-loci and the selection state of each alignment can
be written too.`,
	Example: "  prothint loci miniprot.gff --subloci --alignments",
	Aliases: []string{"clusters"},
}

// set flags
func init() {
	lociCmd.Flags().StringP("in", "i", "", "input miniprot GFF (may be gzipped)")
	lociCmd.Flags().StringP("out", "o", "", "output file name (default stdout)")
	lociCmd.Flags().Bool("subloci", false, "write the sub-loci of each locus")
	lociCmd.Flags().Bool("alignments", false, "write each alignment with its locus and selection state")
	addSelectFlags(lociCmd)

	RootCmd.AddCommand(lociCmd)
}
