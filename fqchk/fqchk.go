// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package fqchk computes per-position base composition and quality score
// statistics of FASTQ files.
package fqchk

import (
	"fmt"
	"io"
	"math"
	"math/bits"
	"strconv"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/seqstat/biosimd"
	"github.com/grailbio/seqstat/encoding/fastx"
	"github.com/pkg/errors"
)

// MaxScore is the highest Phred score tracked; higher scores are counted as
// MaxScore.
const MaxScore = 93

// NumClasses is the number of base classes: A, C, G, T, and everything else.
const NumClasses = biosimd.BaseClassOther + 1

// Opts controls Stats and Run.
type Opts struct {
	// QualThreshold splits each row into the percentage of bases scoring
	// below it and at or above it.  If <= 0, the percentage of every score
	// observed in the input is reported instead.
	QualThreshold int
	// Offset is subtracted from each quality byte to get its score.
	Offset int
	// PerRead appends the per-read GC content, mean quality and length
	// distributions to the report.
	PerRead bool
}

// DefaultOpts splits qualities at Q20 and reads Phred+33 encoding.
var DefaultOpts = Opts{
	QualThreshold: 20,
	Offset:        33,
}

// PosStat holds the score and base-class histograms of one read position,
// or of all positions together.
type PosStat struct {
	Q [MaxScore + 1]int64
	B [NumClasses]int64
}

func (p *PosStat) merge(o *PosStat) {
	for k, n := range o.Q {
		p.Q[k] += n
	}
	for k, n := range o.B {
		p.B[k] += n
	}
}

// NumGCBins is the number of GC-content bins, each 0.05 wide.  A read made
// only of G and C falls in the last bin.
const NumGCBins = 20

// perr[k] is the error probability of score k.  Scores 0-3 are taken as a
// coin flip.
var perr [MaxScore + 1]float64

func init() {
	for k := range perr {
		perr[k] = math.Pow(10, -0.1*float64(k))
	}
	for k := 0; k <= 3; k++ {
		perr[k] = 0.5
	}
}

// Stats accumulates per-position statistics over the FASTQ records passed
// to Add.
type Stats struct {
	opts   Opts
	pos    []PosStat
	n      int64 // # of FASTQ records
	totLen int64
	minLen int
	maxLen int

	gc      [NumGCBins]int64
	meanQ   [MaxScore + 1]int64
	lengths []int64 // lengths[l] is # of reads of length l
}

// NewStats creates an empty Stats.
func NewStats(opts Opts) *Stats {
	return &Stats{opts: opts}
}

func (s *Stats) grow(n int) {
	if n <= len(s.pos) {
		return
	}
	// Round up to a power of two.
	pos := make([]PosStat, 1<<uint(bits.Len(uint(n-1))))
	copy(pos, s.pos)
	s.pos = pos
}

// Add adds a record.  FASTA records are ignored.  Quality bytes with no
// matching base are ignored.
func (s *Stats) Add(r *fastx.Record) {
	if !r.IsFASTQ() {
		return
	}
	l := len(r.Seq)
	if s.n == 0 || l < s.minLen {
		s.minLen = l
	}
	if l > s.maxLen {
		s.maxLen = l
	}
	s.n++
	s.totLen += int64(l)
	s.grow(l)

	if l >= len(s.lengths) {
		lengths := make([]int64, len(s.pos)+1)
		copy(lengths, s.lengths)
		s.lengths = lengths
	}
	s.lengths[l]++

	n := len(r.Qual)
	if n > l {
		n = l
	}
	var qsum, ngc int
	for i := 0; i < n; i++ {
		q := int(r.Qual[i]) - s.opts.Offset
		if q < 0 {
			q = 0
		} else if q > MaxScore {
			q = MaxScore
		}
		qsum += q
		p := &s.pos[i]
		p.Q[q]++
		p.B[biosimd.ASCIIToBaseClass(r.Seq[i])]++
	}
	if n > 0 {
		s.meanQ[(2*qsum+n)/(2*n)]++
	}
	if l > 0 {
		for _, c := range r.Seq {
			if b := biosimd.ASCIIToBaseClass(c); b == 1 || b == 2 {
				ngc++
			}
		}
		// GC fraction rounded to 1/1000, then binned.
		bin := (2000*ngc + l) / (2 * l) / 50
		if bin >= NumGCBins {
			bin = NumGCBins - 1
		}
		s.gc[bin]++
	}
}

// GCContent returns the number of reads in each GC-content bin; bin k holds
// reads with a GC fraction in [k*0.05, (k+1)*0.05).
func (s *Stats) GCContent() [NumGCBins]int64 { return s.gc }

// MeanQuality returns the number of reads by mean quality score, rounded to
// the nearest integer.  Reads without quality bytes are not counted.
func (s *Stats) MeanQuality() [MaxScore + 1]int64 { return s.meanQ }

// Lengths returns the number of reads by sequence length.
func (s *Stats) Lengths() []int64 { return s.lengths }

// Records returns the number of FASTQ records added.
func (s *Stats) Records() int64 { return s.n }

// All returns the histograms summed over every position.
func (s *Stats) All() PosStat {
	var all PosStat
	for i := 0; i < s.maxLen; i++ {
		all.merge(&s.pos[i])
	}
	return all
}

func formatFloat(v float64, prec int) string {
	if v == 0 {
		// Avoid "-0.0".
		v = 0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func percent(n, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

// Write writes the report: a summary line, a header, the ALL row, then one
// row per 1-based read position.  With Opts.PerRead, the per-read tables
// follow, each introduced by a "GC", "meanQ" or "length" row holding the
// number of reads.
func (s *Stats) Write(w io.Writer) error {
	var (
		out    = tsv.NewWriter(w)
		all    = s.All()
		nDiffQ int
		avgLen float64
		minLen int
	)
	for _, n := range all.Q {
		if n > 0 {
			nDiffQ++
		}
	}
	if s.n > 0 {
		avgLen = float64(s.totLen) / float64(s.n)
		minLen = s.minLen
	}
	out.WriteString(fmt.Sprintf("min_len: %d; max_len: %d; avg_len: %.2f; %d distinct quality values",
		minLen, s.maxLen, avgLen, nDiffQ))
	if err := out.EndLine(); err != nil {
		return errors.Wrap(err, "fqchk")
	}

	for _, col := range []string{"POS", "#bases", "%A", "%C", "%G", "%T", "%N", "avgQ", "errQ"} {
		out.WriteString(col)
	}
	if s.opts.QualThreshold <= 0 {
		for k, n := range all.Q {
			if n > 0 {
				out.WriteString("%Q" + strconv.Itoa(k))
			}
		}
	} else {
		out.WriteString("%low")
		out.WriteString("%high")
	}
	if err := out.EndLine(); err != nil {
		return errors.Wrap(err, "fqchk")
	}

	if err := s.writeRow(out, "ALL", &all, &all); err != nil {
		return err
	}
	for i := 0; i < s.maxLen; i++ {
		if err := s.writeRow(out, strconv.Itoa(i+1), &s.pos[i], &all); err != nil {
			return err
		}
	}
	if s.opts.PerRead {
		if err := s.writePerRead(out); err != nil {
			return err
		}
	}
	return errors.Wrap(out.Flush(), "fqchk")
}

// writePerRead writes three two-column tables: reads by GC content (every
// bin), by mean quality and by length (observed values only).
func (s *Stats) writePerRead(out *tsv.Writer) error {
	row := func(label string, n int64) error {
		out.WriteString(label)
		out.WriteInt64(n)
		return out.EndLine()
	}
	if err := row("GC", s.n); err != nil {
		return errors.Wrap(err, "fqchk")
	}
	for k, n := range s.gc {
		if err := row(formatFloat(float64(k)/NumGCBins, 2), n); err != nil {
			return errors.Wrap(err, "fqchk")
		}
	}
	if err := row("meanQ", s.n); err != nil {
		return errors.Wrap(err, "fqchk")
	}
	for k, n := range s.meanQ {
		if n > 0 {
			if err := row(strconv.Itoa(k), n); err != nil {
				return errors.Wrap(err, "fqchk")
			}
		}
	}
	if err := row("length", s.n); err != nil {
		return errors.Wrap(err, "fqchk")
	}
	for l, n := range s.lengths {
		if n > 0 {
			if err := row(strconv.Itoa(l), n); err != nil {
				return errors.Wrap(err, "fqchk")
			}
		}
	}
	return nil
}

func (s *Stats) writeRow(out *tsv.Writer, label string, p, all *PosStat) error {
	var (
		sum, qsum, low int64
		psum           float64
	)
	for _, n := range p.B {
		sum += n
	}
	out.WriteString(label)
	out.WriteInt64(sum)
	for _, n := range p.B {
		out.WriteString(formatFloat(percent(n, sum), 1))
	}
	for k, n := range p.Q {
		qsum += n * int64(k)
		psum += float64(n) * perr[k]
		if k < s.opts.QualThreshold {
			low += n
		}
	}
	avgQ := 0.0
	if sum > 0 {
		avgQ = float64(qsum) / float64(sum)
	}
	errQ := -10 * math.Log10((psum+1e-6)/(float64(sum)+1e-6))
	out.WriteString(formatFloat(avgQ, 1))
	out.WriteString(formatFloat(errQ, 1))
	if s.opts.QualThreshold <= 0 {
		for k, n := range all.Q {
			if n > 0 {
				out.WriteString(formatFloat(percent(p.Q[k], sum), 2))
			}
		}
	} else {
		out.WriteString(formatFloat(percent(low, sum), 1))
		out.WriteString(formatFloat(percent(sum-low, sum), 1))
	}
	return errors.Wrap(out.EndLine(), "fqchk")
}

// Run adds every record read from s to a new Stats and writes its report to
// w.
func Run(w io.Writer, s *fastx.Scanner, opts Opts) error {
	var (
		stats = NewStats(opts)
		rec   fastx.Record
	)
	for s.Scan(&rec) {
		stats.Add(&rec)
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "fqchk")
	}
	log.Debug.Printf("fqchk: %d FASTQ record(s)", stats.Records())
	return stats.Write(w)
}
