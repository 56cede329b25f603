// Package cmd is for command line interactions with the prothint application
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "prothint",
	Short: `Turn protein to genome alignments into gene structure hints.
Cluster miniprot alignments into loci and select those that represent each`,
	Version: "0.1.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

// set flags
func init() {
	RootCmd.PersistentFlags().StringP("settings", "s", "", "path to a YAML settings file")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug messages")
	RootCmd.PersistentFlags().IntP("threads", "t", 1, "number of loci to process at once")

	viper.BindPFlag("settings", RootCmd.PersistentFlags().Lookup("settings"))
	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("threads", RootCmd.PersistentFlags().Lookup("threads"))
}

// addSelectFlags adds the flags for selection and bridge thresholds to a command.
// They're bound to viper when the command runs since several commands share them.
func addSelectFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("min-seed-coverage", 0, "minimum query coverage of a seed alignment")
	cmd.Flags().Float64("min-overlap", 0.01, "fraction of an alignment's CDS shared with a seed to classify it against the seed")
	cmd.Flags().Float64("min-score-fraction", 0.9, "children score above this fraction of their seed's score")
	cmd.Flags().Int("top-n", 10, "maximum number of children per seed")
	cmd.Flags().Float64("max-sublocus-parent-coverage", 0.8, "maximum fraction of a seed's CDS a sub-locus candidate covers (0 turns sub-loci off)")
	cmd.Flags().Float64("min-sublocus-coverage", 0.9, "minimum query coverage of a sub-locus candidate")
	cmd.Flags().Float64("bridge-enter", 0.2, "coverage, relative to the mean CDS coverage, at or below which a bridge starts")
	cmd.Flags().Float64("bridge-exit", 0.5, "coverage, relative to the mean CDS coverage, at or above which a bridge ends")

	cmd.PreRun = bindSelectFlags
}

// bindSelectFlags binds the selection flags of the running command to viper
func bindSelectFlags(cmd *cobra.Command, args []string) {
	for key, flag := range map[string]string{
		"select.min-seed-coverage":            "min-seed-coverage",
		"select.min-overlap":                  "min-overlap",
		"select.min-score-fraction":           "min-score-fraction",
		"select.top-n":                        "top-n",
		"select.max-sublocus-parent-coverage": "max-sublocus-parent-coverage",
		"select.min-sublocus-coverage":        "min-sublocus-coverage",
		"bridge.enter":                        "bridge-enter",
		"bridge.exit":                         "bridge-exit",
	} {
		viper.BindPFlag(key, cmd.Flags().Lookup(flag))
	}
}
