// Package prothint runs the commands of the prothint CLI: reading
// alignments, resolving them into loci and writing hints.
package prothint

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tomasbruna/miniprothint/config"
)

// stderr is for logging to Stderr (without an annoying timestamp)
var stderr = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return l
}

// Flags contains parsed cobra flags that are used by multiple commands.
type Flags struct {
	// the path to the input GFF
	in string

	// the path to write output to, stdout if empty
	out string

	// write a row per sub-locus with the loci
	subLoci bool

	// write a row per alignment with the loci
	alignments bool

	// list the supporting proteins of collapsed features
	prots bool

	// extend CDS over their stop codons in GTF output
	stopsInCDS bool
}

// NewFlags makes a new flags object manually. for testing.
func NewFlags(in, out string) *Flags {
	return &Flags{in: in, out: out}
}

// parseCmdFlags gathers the in path, out path, etc from a cobra cmd object
// and returns them with the settings to run with.
func parseCmdFlags(cmd *cobra.Command, args []string) (*Flags, *config.Config) {
	c, err := config.New()
	if err != nil {
		stderr.Fatal(err)
	}
	if c.Verbose {
		stderr.SetLevel(logrus.DebugLevel)
	}

	fs := &Flags{}
	if fs.in, err = cmd.Flags().GetString("in"); fs.in == "" || err != nil {
		if len(args) < 1 {
			cmd.Help()
			stderr.Fatal("no input GFF passed")
		}
		fs.in = args[0]
	}
	fs.out, _ = cmd.Flags().GetString("out")

	// flags that only some commands have
	fs.subLoci, _ = cmd.Flags().GetBool("subloci")
	fs.alignments, _ = cmd.Flags().GetBool("alignments")
	fs.prots, _ = cmd.Flags().GetBool("prots")
	fs.stopsInCDS, _ = cmd.Flags().GetBool("stops-in-cds")

	return fs, c
}

// output opens the output file, or returns stdout if there isn't one.
// The returned func closes it.
func (f *Flags) output() (io.Writer, func() error, error) {
	if f.out == "" {
		return os.Stdout, func() error { return nil }, nil
	}

	file, err := os.Create(f.out)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, file.Close, nil
}
