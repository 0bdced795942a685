// Package fastx reads and writes FASTA and FASTQ records through a single
// streaming interface.  A FASTA record looks like
//
//   >name optional comment
//   ACGTAC
//   GAGG
//
// and a FASTQ record like
//
//   @name optional comment
//   ACGTACGAGG
//   +
//   IIIIIIII#I
//
// Sequence and quality may be wrapped over any number of lines.  The two
// formats may be mixed within one stream.
package fastx

import (
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/seqstat/encoding/tokenizer"
	"github.com/pkg/errors"
)

// ErrQualityLength describes a FASTQ record whose quality string does not
// have the same length as its sequence.  Such records are still returned by
// Scan; see Scanner.Malformed.
var ErrQualityLength = errors.New("quality length differs from sequence length")

// A Record is a FASTA or FASTQ record.  Qual is empty for FASTA records.
type Record struct {
	Name, Comment, Seq, Qual []byte
}

// IsFASTQ reports whether the record carries a quality string.
func (r *Record) IsFASTQ() bool { return len(r.Qual) > 0 }

func (r *Record) reset() {
	r.Name = r.Name[:0]
	r.Comment = r.Comment[:0]
	r.Seq = r.Seq[:0]
	r.Qual = r.Qual[:0]
}

// Scanner reads FASTA/FASTQ records from a byte stream.  It returns records
// one at a time; the slices in a scanned Record are reused by the next call
// to Scan, so callers that keep data must copy it.  Scanners are not
// threadsafe.
//
// Scanner is permissive: text before the first record is ignored, and a
// FASTQ record whose quality is shorter or longer than its sequence is
// returned as-is and counted by Malformed.
type Scanner struct {
	t         *tokenizer.Tokenizer
	marker    byte // record marker consumed by the previous Scan, or 0
	lineStart bool // the next byte starts a line
	err       error
	done      bool
	malformed int
}

// NewScanner constructs a Scanner reading raw FASTA/FASTQ data from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{t: tokenizer.New(r), lineStart: true}
}

func isMarker(c byte) bool { return c == '>' || c == '@' }

// readByte returns the next byte; ok is false at the end of the stream or
// on a read error, which is then recorded.
func (s *Scanner) readByte() (c byte, ok bool) {
	c, err := s.t.ReadByte()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		return 0, false
	}
	return c, true
}

// line appends the rest of the current line, minus any trailing '\r', to
// dst.
func (s *Scanner) line(dst []byte) ([]byte, int, bool) {
	dst, term, err := s.t.Token(dst, tokenizer.Line)
	if err != nil && err != io.EOF {
		s.err = err
		return dst, term, false
	}
	s.lineStart = term == '\n'
	return dst, term, true
}

// Scan reads the next record into rec.  It returns false at the end of the
// stream or on a read error; once it returns false it never returns true
// again.  Err distinguishes the two cases.
func (s *Scanner) Scan(rec *Record) bool {
	if s.done || s.err != nil {
		return false
	}
	if s.marker == 0 {
		if !s.seekStart() {
			s.done = true
			return false
		}
	}
	s.marker = 0
	rec.reset()

	var (
		term int
		err  error
	)
	rec.Name, term, err = s.t.Token(rec.Name, tokenizer.Space)
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		s.done = true
		return false
	}
	s.lineStart = term == '\n'
	if term != '\n' && term != tokenizer.EOF {
		var ok bool
		if rec.Comment, _, ok = s.line(rec.Comment); !ok {
			return false
		}
	}

	plus := false
	for {
		c, ok := s.readByte()
		if !ok {
			if s.err != nil {
				return false
			}
			break
		}
		if isMarker(c) {
			s.marker = c
			break
		}
		if c == '+' {
			plus = true
			break
		}
		if c == '\n' || c == '\r' {
			continue
		}
		rec.Seq = append(rec.Seq, c)
		if rec.Seq, _, ok = s.line(rec.Seq); !ok {
			return false
		}
	}
	if !plus {
		return true
	}

	term, err = s.t.SkipLine()
	if err != nil {
		s.err = err
		return false
	}
	if term == tokenizer.EOF {
		// '+' line at the end of the stream: no quality at all.
		s.markMalformed(rec)
		return true
	}
	for {
		var ok bool
		if rec.Qual, term, ok = s.line(rec.Qual); !ok {
			return false
		}
		if len(rec.Qual) >= len(rec.Seq) || term == tokenizer.EOF {
			break
		}
	}
	if len(rec.Qual) != len(rec.Seq) {
		s.markMalformed(rec)
	}
	return true
}

func (s *Scanner) markMalformed(rec *Record) {
	s.malformed++
	if s.malformed == 1 {
		log.Debug.Printf("fastx: %s: %v (%d vs %d)", rec.Name, ErrQualityLength, len(rec.Qual), len(rec.Seq))
	}
}

// seekStart discards input up to and including the next '>' or '@' that
// starts a line.
func (s *Scanner) seekStart() bool {
	for {
		c, ok := s.readByte()
		if !ok {
			return false
		}
		if s.lineStart && isMarker(c) {
			return true
		}
		s.lineStart = c == '\n'
	}
}

// Err returns the read error that stopped Scan, if any.  Reaching the end of
// the stream is not an error.
func (s *Scanner) Err() error {
	return s.err
}

// Malformed returns the number of FASTQ records scanned so far whose quality
// length differed from their sequence length.
func (s *Scanner) Malformed() int {
	return s.malformed
}
