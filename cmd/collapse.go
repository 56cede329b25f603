package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tomasbruna/miniprothint/internal/prothint"
)

// collapseCmd is for merging identical hints of scored alignments
var collapseCmd = &cobra.Command{
	Use:                        "collapse [gff]",
	Short:                      "Collapse identical introns, starts, stops and CDS into counted hints",
	Run:                        prothint.CollapseCmd,
	SuggestionsMinimumDistance: 2,
	Long: `Collapse the features of scored alignments (miniprot boundary scorer output)
that have the same contig, type, coordinates and strand into a single hint.

The score column of each hint is the number of alignments supporting it. Hints
other than CDS keep the best al_score of their alignments.`,
}

// set flags
func init() {
	collapseCmd.Flags().StringP("in", "i", "", "input scored GFF (may be gzipped)")
	collapseCmd.Flags().StringP("out", "o", "", "output file name (default stdout)")
	collapseCmd.Flags().BoolP("prots", "p", true, "list the proteins supporting each hint (--prots=false to leave them out)")

	RootCmd.AddCommand(collapseCmd)
}
