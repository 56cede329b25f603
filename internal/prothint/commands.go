package prothint

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomasbruna/miniprothint/config"
	"github.com/tomasbruna/miniprothint/internal/align"
	"github.com/tomasbruna/miniprothint/internal/hint"
)

// SelectCmd takes a cobra command (with its flags) and runs Select.
func SelectCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseCmdFlags(cmd, args)
	if err := Select(cmd.Context(), flags, conf); err != nil {
		stderr.Fatal(err)
	}
}

// Select writes the input rows of the representative alignments of every locus.
func Select(ctx context.Context, flags *Flags, conf *config.Config) error {
	set, err := align.Open(flags.in)
	if err != nil {
		return err
	}

	_, selected, err := process(ctx, set, conf)
	if err != nil {
		return err
	}

	return flags.write(func(w io.Writer) error {
		return hint.WriteSelected(w, set, selected)
	})
}

// LociCmd takes a cobra command (with its flags) and runs Loci.
func LociCmd(cmd *cobra.Command, args []string) {
	flags, conf := parseCmdFlags(cmd, args)
	if err := Loci(cmd.Context(), flags, conf); err != nil {
		stderr.Fatal(err)
	}
}

// Loci writes the loci of the alignments with their coverage, and optionally
// their sub-loci and how each alignment was classified.
func Loci(ctx context.Context, flags *Flags, conf *config.Config) error {
	set, err := align.Open(flags.in)
	if err != nil {
		return err
	}

	loci, _, err := process(ctx, set, conf)
	if err != nil {
		return err
	}

	opts := hint.LociOptions{SubLoci: flags.subLoci, Alignments: flags.alignments}
	return flags.write(func(w io.Writer) error {
		return hint.WriteLoci(w, loci, opts)
	})
}

// CollapseCmd takes a cobra command (with its flags) and runs Collapse.
func CollapseCmd(cmd *cobra.Command, args []string) {
	flags, _ := parseCmdFlags(cmd, args)
	if err := Collapse(flags); err != nil {
		stderr.Fatal(err)
	}
}

// Collapse merges the identical features of scored alignments.
func Collapse(flags *Flags) error {
	return flags.convert(func(r io.Reader, w io.Writer) error {
		return hint.Collapse(r, w, flags.prots)
	})
}

// GTFCmd takes a cobra command (with its flags) and runs GTF.
func GTFCmd(cmd *cobra.Command, args []string) {
	flags, _ := parseCmdFlags(cmd, args)
	if err := GTF(flags); err != nil {
		stderr.Fatal(err)
	}
}

// GTF converts boundary scorer output to GTF.
func GTF(flags *Flags) error {
	return flags.convert(func(r io.Reader, w io.Writer) error {
		return hint.ConvertGTF(r, w, flags.stopsInCDS)
	})
}

// write runs writeFn against the output and closes it
func (f *Flags) write(writeFn func(w io.Writer) error) error {
	w, closeOut, err := f.output()
	if err != nil {
		return err
	}
	if err := writeFn(w); err != nil {
		closeOut()
		return err
	}
	return closeOut()
}

// convert streams the input through convertFn to the output
func (f *Flags) convert(convertFn func(r io.Reader, w io.Writer) error) error {
	in, err := align.OpenFile(f.in)
	if err != nil {
		return err
	}
	defer in.Close()

	return f.write(func(w io.Writer) error {
		return convertFn(in, w)
	})
}
