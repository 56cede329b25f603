package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tomasbruna/miniprothint/internal/prothint"
)

// selectCmd is for writing the representative alignments of every locus
var selectCmd = &cobra.Command{
	Use:                        "select [gff]",
	Short:                      "Select representative alignments from miniprot output",
	Run:                        prothint.SelectCmd,
	SuggestionsMinimumDistance: 2,
	Long: `Cluster alignments into loci and pick a non-redundant set of representative
alignments from each.

Within a locus, the best scoring unused alignment becomes a seed. Alignments
sharing its CDS become its children if they score close to it, are kept as
sub-locus candidates if they're nested within it and at least as good, and are
discarded otherwise. This repeats until every alignment is used.

The mRNA and CDS rows of the selected alignments are written in input order.`,
	Example: "  prothint select miniprot.gff -o selected.gff",
}

// set flags
func init() {
	selectCmd.Flags().StringP("in", "i", "", "input miniprot GFF (may be gzipped)")
	selectCmd.Flags().StringP("out", "o", "", "output file name (default stdout)")
	addSelectFlags(selectCmd)

	RootCmd.AddCommand(selectCmd)
}
