// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/seqstat/comp"
	"github.com/grailbio/seqstat/fqchk"
	"v.io/x/lib/cmdline"
)

func newCmdComp() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "comp",
		Short:    "Print the nucleotide composition of each record",
		ArgsName: "[path]",
		Long: `
Output format: name, length (or begin and end, with -r), #A, #C, #G, #T,
#2, #3, #4, #CpG, #tv, #ts, #CpG-ts.`,
	}
	flags := compFlags{
		upperOnly:   cmd.Flags.Bool("u", comp.DefaultOpts.UpperOnly, "Count upper-case bases only"),
		markGuanine: cmd.Flags.Bool("g", comp.DefaultOpts.MarkGuanine, "Count both bases of each CpG pair"),
		regions: cmd.Flags.String("r", "", `Region file. Each line is "name", "name pos" (1-based),
or "name begin end" (0-based, half-open); other columns are ignored.`),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) > 1 {
			return fmt.Errorf("comp takes at most one pathname argument, but got %v", argv)
		}
		return runComp(env.Stdout, flags, argv)
	})
	return cmd
}

func newCmdFqchk() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "fqchk",
		Short:    "Print per-position base and quality statistics of a FASTQ file",
		ArgsName: "path",
	}
	flags := fqchkFlags{
		qualThreshold: cmd.Flags.Int("q", fqchk.DefaultOpts.QualThreshold,
			"Quality threshold splitting the low and high columns; 0 prints the distribution of all quality values"),
		offset:  cmd.Flags.Int("offset", fqchk.DefaultOpts.Offset, "Quality encoding offset"),
		perRead: cmd.Flags.Bool("per-read", fqchk.DefaultOpts.PerRead, "Also print the per-read GC content, mean quality and length distributions"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("fqchk takes one pathname argument, but got %v", argv)
		}
		return runFqchk(env.Stdout, flags, argv[0])
	})
	return cmd
}

func newCmdSeq() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "seq",
		Short:    "Reformat FASTA/FASTQ records",
		ArgsName: "[path]",
	}
	flags := seqFlags{
		lineWidth: cmd.Flags.Int("l", 0, "Wrap sequence and quality lines every this many bases; 0 disables wrapping"),
		fasta:     cmd.Flags.Bool("A", false, "Write FASTA, dropping qualities"),
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) > 1 {
			return fmt.Errorf("seq takes at most one pathname argument, but got %v", argv)
		}
		return runSeq(env.Stdout, flags, argv)
	})
	return cmd
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-seqstat",
		Short:    "Statistics of FASTA and FASTQ files",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdComp(),
			newCmdFqchk(),
			newCmdSeq(),
		},
	}
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
