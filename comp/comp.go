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

// Package comp computes the nucleotide composition of FASTA/FASTQ records:
// exact base counts, ambiguity-code counts, CpG sites and
// transition/transversion calls, over whole records or over a list of
// regions.
package comp

import (
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/seqstat/biosimd"
	"github.com/grailbio/seqstat/encoding/fastx"
	"github.com/grailbio/seqstat/interval"
	"github.com/pkg/errors"
)

// Indices into Counts.
const (
	A = iota
	C
	G
	T
	Fold2 // 2-fold ambiguity codes: M, R, W, S, Y, K
	Fold3 // B, D, H, V
	Fold4 // N, and bytes that are not nucleotide codes
	CpG
	Transversion
	Transition
	CpGTransition

	NumCounts
)

// Counts holds the composition counters of one interval.
type Counts [NumCounts]int64

// Opts controls Count and Run.
type Opts struct {
	// UpperOnly excludes lower-case (soft-masked) bases from every counter.
	UpperOnly bool
	// Regions, if non-nil, restricts counting to the listed intervals.
	// Records not listed are not reported.
	Regions *interval.RegionIndex
	// MarkGuanine also counts the G (or R) of each CpG pair as a CpG
	// position, in addition to the C (or Y).
	MarkGuanine bool
}

// DefaultOpts counts every base of every record.
var DefaultOpts = Opts{}

func isCOrY(code byte) bool { return code == biosimd.Seq16C || code == biosimd.Seq16Y }
func isGOrR(code byte) bool { return code == biosimd.Seq16G || code == biosimd.Seq16R }
func isRY(code byte) bool   { return code == biosimd.Seq16R || code == biosimd.Seq16Y }

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

// Count returns the composition of seq[begin:end].  The interval is clipped
// to the sequence; an empty interval yields zero counts.  The bases just
// outside the interval are still consulted to detect CpG pairs that cross
// its boundaries.
func Count(seq []byte, begin, end int, opts Opts) (cnt Counts) {
	if begin < 0 {
		begin = 0
	}
	if end > len(seq) {
		end = len(seq)
	}
	if begin >= end {
		return
	}
	prev := biosimd.Seq16N
	if begin > 0 {
		prev = biosimd.ASCIIToSeq16(seq[begin-1])
	}
	code := biosimd.ASCIIToSeq16(seq[begin])
	for i := begin; i < end; i++ {
		next := biosimd.Seq16N
		if i+1 < len(seq) {
			next = biosimd.ASCIIToSeq16(seq[i+1])
		}
		if !opts.UpperOnly || isUpper(seq[i]) {
			switch n := biosimd.Seq16BitCount(code); {
			case n == 1:
				cnt[biosimd.Seq16ToACGT(code)]++
			case n > 1:
				cnt[Fold2+n-2]++
			}
			if isRY(code) {
				cnt[Transition]++
			} else if biosimd.Seq16BitCount(code) == 2 {
				cnt[Transversion]++
			}
			cpg := isCOrY(code) && isGOrR(next)
			if !cpg && opts.MarkGuanine {
				cpg = isGOrR(code) && isCOrY(prev)
			}
			if cpg {
				cnt[CpG]++
				if isRY(code) {
					cnt[CpGTransition]++
				}
			}
		}
		prev, code = code, next
	}
	return
}

// Run reads every record from s and writes one line per (record, interval)
// to w:
//
//   name length #A #C #G #T #2 #3 #4 #CpG #tv #ts #CpG-ts
//
// or, when opts.Regions is set,
//
//   name begin end #A #C #G #T #2 #3 #4 #CpG #tv #ts #CpG-ts
//
// where begin and end are the interval after clipping to the record.  Listed
// intervals that are empty after clipping are skipped.  Output is flushed
// after every record.
func Run(w io.Writer, s *fastx.Scanner, opts Opts) error {
	var (
		out     = tsv.NewWriter(w)
		rec     fastx.Record
		whole   = []interval.Interval{interval.Whole}
		nRecs   int
		nLines  int
		nMissed int
	)
	for s.Scan(&rec) {
		nRecs++
		ivs := whole
		if opts.Regions != nil {
			if ivs = opts.Regions.Get(rec.Name); len(ivs) == 0 {
				nMissed++
				continue
			}
		}
		for _, iv := range ivs {
			begin, end := clip(iv, len(rec.Seq))
			if begin >= end && opts.Regions != nil {
				continue
			}
			cnt := Count(rec.Seq, begin, end, opts)
			out.WriteString(string(rec.Name))
			if opts.Regions != nil {
				out.WriteInt64(int64(begin))
				out.WriteInt64(int64(end))
			} else {
				out.WriteInt64(int64(len(rec.Seq)))
			}
			for _, v := range cnt {
				out.WriteInt64(v)
			}
			if err := out.EndLine(); err != nil {
				return errors.Wrap(err, "comp")
			}
			nLines++
		}
		if err := out.Flush(); err != nil {
			return errors.Wrap(err, "comp")
		}
	}
	if err := s.Err(); err != nil {
		return errors.Wrap(err, "comp")
	}
	log.Debug.Printf("comp: %d record(s), %d line(s) written", nRecs, nLines)
	if nMissed > 0 {
		log.Printf("comp: %d record(s) had no listed region", nMissed)
	}
	return nil
}

func clip(iv interval.Interval, n int) (begin, end int) {
	begin, end = int(iv.Begin), int(iv.End)
	if begin < 0 {
		begin = 0
	}
	if end > n {
		end = n
	}
	return
}
