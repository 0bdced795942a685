package fastx

import "io"

var newline = []byte{'\n'}

// Writer writes FASTA/FASTQ records.  A record with a quality string is
// written as FASTQ, otherwise as FASTA.
type Writer struct {
	w     io.Writer
	width int
	err   error
}

// NewWriter constructs a Writer that writes records to w.  If lineWidth is
// positive, sequence and quality are wrapped every lineWidth bytes;
// otherwise each is written on one line.
func NewWriter(w io.Writer, lineWidth int) *Writer {
	return &Writer{w: w, width: lineWidth}
}

// Write writes r.  An error is returned if this or any earlier write
// failed.
func (w *Writer) Write(r *Record) error {
	if r.IsFASTQ() {
		w.write([]byte{'@'})
	} else {
		w.write([]byte{'>'})
	}
	w.write(r.Name)
	if len(r.Comment) > 0 {
		w.write([]byte{' '})
		w.write(r.Comment)
	}
	w.wrapped(r.Seq)
	if r.IsFASTQ() {
		w.write([]byte{'+'})
		w.wrapped(r.Qual)
	}
	return w.err
}

// wrapped ends the current line, then writes b split into lines of at most
// w.width bytes.
func (w *Writer) wrapped(b []byte) {
	if w.width <= 0 {
		w.write(newline)
		w.write(b)
		w.write(newline)
		return
	}
	for len(b) > 0 {
		n := w.width
		if n > len(b) {
			n = len(b)
		}
		w.write(newline)
		w.write(b[:n])
		b = b[n:]
	}
	w.write(newline)
}

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}
