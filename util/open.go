package util

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// Stdin is the path that selects standard input in Open.
const Stdin = "-"

const peekSize = 1 << 16

// OpenError is returned by Open when the input cannot be opened or its
// gzip header cannot be read.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return "failed to open the input file/stream " + e.Path + ": " + e.Err.Error()
}

// IsOpenError reports whether err was returned by Open for an input that
// could not be opened.
func IsOpenError(err error) bool {
	_, ok := err.(*OpenError)
	return ok
}

type input struct {
	io.Reader
	closers []func() error
}

func (in *input) Close() (err error) {
	for i := len(in.closers) - 1; i >= 0; i-- {
		if e := in.closers[i](); e != nil && err == nil {
			err = e
		}
	}
	return
}

// Open opens path for reading.  "-" or "" selects standard input.  The
// input is decompressed transparently when it starts with a gzip header,
// whatever its name; the result is a forward-only stream.  The caller must
// Close the returned reader.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	in := &input{}
	var r io.Reader
	if path == "" || path == Stdin {
		r = os.Stdin
		path = Stdin
	} else {
		f, err := file.Open(ctx, path)
		if err != nil {
			return nil, &OpenError{Path: path, Err: err}
		}
		in.closers = append(in.closers, func() error { return f.Close(ctx) })
		r = f.Reader(ctx)
	}
	br := bufio.NewReaderSize(r, peekSize)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			in.Close() // nolint: errcheck
			return nil, &OpenError{Path: path, Err: err}
		}
		in.closers = append(in.closers, gz.Close)
		in.Reader = gz
		log.Debug.Printf("%s: reading gzip stream", path)
		return in, nil
	}
	if fileio.DetermineType(path) == fileio.Gzip {
		log.Printf("%s: no gzip header, reading as plain text", path)
	}
	in.Reader = br
	return in, nil
}
