package main

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/grailbio/base/log"
	"github.com/grailbio/seqstat/comp"
	"github.com/grailbio/seqstat/encoding/fastx"
	"github.com/grailbio/seqstat/fqchk"
	"github.com/grailbio/seqstat/interval"
	"github.com/grailbio/seqstat/util"
	"github.com/pkg/errors"
)

type compFlags struct {
	upperOnly   *bool
	markGuanine *bool
	regions     *string
}

type fqchkFlags struct {
	qualThreshold *int
	offset        *int
	perRead       *bool
}

type seqFlags struct {
	lineWidth *int
	fasta     *bool
}

// inputPath returns the single optional path in argv, or util.Stdin.  It
// fails when the input would be an interactive terminal.
func inputPath(name string, argv []string) (string, error) {
	if len(argv) > 0 {
		return argv[0], nil
	}
	if isTerminal(os.Stdin) {
		return "", errors.Errorf("%s: no input; give a path or pipe records to standard input", name)
	}
	return util.Stdin, nil
}

// withScanner opens path and calls fn with a Scanner over it.
func withScanner(ctx context.Context, name, path string, fn func(s *fastx.Scanner) error) (err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return errors.Wrap(err, name)
	}
	defer func() {
		if e := in.Close(); e != nil && err == nil {
			err = errors.Wrap(e, name)
		}
	}()
	s := fastx.NewScanner(in)
	if err = fn(s); err != nil {
		return err
	}
	if n := s.Malformed(); n > 0 {
		log.Printf("%s: %s: %d record(s) with quality length different from sequence length", name, path, n)
	}
	return nil
}

func runComp(out io.Writer, flags compFlags, argv []string) error {
	ctx := context.Background()
	path, err := inputPath("comp", argv)
	if err != nil {
		return err
	}
	opts := comp.DefaultOpts
	opts.UpperOnly = *flags.upperOnly
	opts.MarkGuanine = *flags.markGuanine
	if *flags.regions != "" {
		if opts.Regions, err = interval.LoadFromPath(ctx, *flags.regions); err != nil {
			if interval.IsNotFound(err) {
				return errors.Wrap(err, "comp: region file")
			}
			return errors.Wrap(err, "comp")
		}
	}
	return withScanner(ctx, "comp", path, func(s *fastx.Scanner) error {
		return comp.Run(out, s, opts)
	})
}

func runFqchk(out io.Writer, flags fqchkFlags, path string) error {
	opts := fqchk.DefaultOpts
	opts.QualThreshold = *flags.qualThreshold
	opts.Offset = *flags.offset
	opts.PerRead = *flags.perRead
	return withScanner(context.Background(), "fqchk", path, func(s *fastx.Scanner) error {
		return fqchk.Run(out, s, opts)
	})
}

func runSeq(out io.Writer, flags seqFlags, argv []string) error {
	path, err := inputPath("seq", argv)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(out)
	w := fastx.NewWriter(bw, *flags.lineWidth)
	n := 0
	err = withScanner(context.Background(), "seq", path, func(s *fastx.Scanner) error {
		var rec fastx.Record
		for s.Scan(&rec) {
			if *flags.fasta {
				rec.Qual = rec.Qual[:0]
			}
			if err := w.Write(&rec); err != nil {
				return errors.Wrap(err, "seq")
			}
			n++
		}
		return errors.Wrap(s.Err(), "seq")
	})
	if e := bw.Flush(); e != nil && err == nil {
		err = errors.Wrap(e, "seq")
	}
	log.Debug.Printf("seq: %d record(s) written", n)
	return err
}
