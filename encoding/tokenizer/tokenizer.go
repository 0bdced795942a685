// Package tokenizer implements a buffered, pull-based byte tokenizer.  It
// reads delimiter-terminated tokens from an io.Reader without ever holding
// more than one buffer of the input in memory, and reports which delimiter
// ended each token so that callers can tell a field separator from a line
// separator from the end of the stream.
package tokenizer

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// EOF is the terminator reported when a token was ended by the end of the
// stream rather than by a delimiter byte.
const EOF = -1

// DefaultBufferSize is the size of the refill buffer used by New.
const DefaultBufferSize = 16384

// Delim selects the bytes that end a token.  Values >= 0 (see Byte) stop at
// that literal byte; the negative values below select a class of bytes.
type Delim int

const (
	// Space stops at any of ' ', '\t', '\n', '\v', '\f', '\r'.
	Space Delim = -1 - iota
	// Tab stops at any whitespace byte other than ' '.
	Tab
	// Line stops at '\n'.  A '\r' preceding the '\n' is removed from the
	// token.
	Line
)

// Byte returns a Delim that stops at the literal byte c.
func Byte(c byte) Delim { return Delim(c) }

func isSpace(c byte) bool {
	return c == ' ' || (c >= '\t' && c <= '\r')
}

// index returns the position of the first byte of b matching d, or -1.
func (d Delim) index(b []byte) int {
	switch {
	case d >= 0:
		return bytes.IndexByte(b, byte(d))
	case d == Line:
		return bytes.IndexByte(b, '\n')
	case d == Tab:
		for i, x := range b {
			if isSpace(x) && x != ' ' {
				return i
			}
		}
	default:
		for i, x := range b {
			if isSpace(x) {
				return i
			}
		}
	}
	return -1
}

// Tokenizer reads tokens and single bytes from an underlying reader.  It is
// not threadsafe.
type Tokenizer struct {
	r     io.Reader
	buf   []byte
	begin int // first unread byte in buf
	end   int // one past the last valid byte in buf
	eof   bool
	err   error // first non-EOF error from r
}

// New creates a Tokenizer reading from r with the default buffer size.
func New(r io.Reader) *Tokenizer {
	return NewSize(r, DefaultBufferSize)
}

// NewSize creates a Tokenizer reading from r with a buffer of n bytes.
func NewSize(r io.Reader, n int) *Tokenizer {
	if n <= 0 {
		n = DefaultBufferSize
	}
	return &Tokenizer{r: r, buf: make([]byte, n)}
}

// fill refills the buffer once it has been fully consumed. It returns false
// when no more bytes are available.
func (t *Tokenizer) fill() bool {
	for t.begin >= t.end {
		if t.eof || t.err != nil {
			return false
		}
		n, err := t.r.Read(t.buf)
		t.begin, t.end = 0, n
		if err == io.EOF {
			t.eof = true
		} else if err != nil {
			t.err = errors.Wrap(err, "tokenizer: read")
		}
	}
	return true
}

// EOF reports whether the tokenizer has consumed all input.
func (t *Tokenizer) EOF() bool {
	return !t.fill()
}

// Err returns the first read error from the underlying reader, if any.
func (t *Tokenizer) Err() error { return t.err }

// ReadByte returns the next raw byte.  It returns io.EOF at the end of the
// stream, or the error of the underlying reader.
func (t *Tokenizer) ReadByte() (byte, error) {
	if !t.fill() {
		if t.err != nil {
			return 0, t.err
		}
		return 0, io.EOF
	}
	c := t.buf[t.begin]
	t.begin++
	return c, nil
}

// Token appends the bytes up to the next delimiter selected by delim to dst
// and returns the extended slice together with the terminator: the
// delimiter byte that was consumed, or EOF.  The delimiter itself is not
// appended.
//
// If the stream is already exhausted, Token returns (dst, EOF, io.EOF).  A
// token that ends at the end of the stream is returned with a nil error; the
// following call reports io.EOF.
func (t *Tokenizer) Token(dst []byte, delim Delim) ([]byte, int, error) {
	start := len(dst)
	gotAny := false
	for {
		if !t.fill() {
			if t.err != nil {
				return dst, EOF, t.err
			}
			if !gotAny {
				return dst, EOF, io.EOF
			}
			return trimCR(dst, start, delim), EOF, nil
		}
		gotAny = true
		avail := t.buf[t.begin:t.end]
		if i := delim.index(avail); i >= 0 {
			dst = append(dst, avail[:i]...)
			term := int(avail[i])
			t.begin += i + 1
			return trimCR(dst, start, delim), term, nil
		}
		dst = append(dst, avail...)
		t.begin = t.end
	}
}

func trimCR(dst []byte, start int, delim Delim) []byte {
	if delim == Line && len(dst) > start && dst[len(dst)-1] == '\r' {
		return dst[:len(dst)-1]
	}
	return dst
}

// SkipLine discards the rest of the current line, including the '\n'.  It
// returns '\n', or EOF if the stream ended first.
func (t *Tokenizer) SkipLine() (int, error) {
	for {
		if !t.fill() {
			return EOF, t.err
		}
		avail := t.buf[t.begin:t.end]
		if i := Line.index(avail); i >= 0 {
			t.begin += i + 1
			return '\n', nil
		}
		t.begin = t.end
	}
}
