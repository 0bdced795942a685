package interval

import (
	"context"
	"io"
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/seqstat/encoding/tokenizer"
	"github.com/grailbio/seqstat/util"
	"github.com/pkg/errors"
)

// PosType is the coordinate type of an Interval.  It is signed so that the
// end of a malformed two-column line can be held as -1.
type PosType int32

// PosInf is the end of an interval covering the whole sequence.
const PosInf PosType = math.MaxInt32

// Interval is a 0-based half-open [Begin, End) range.
type Interval struct {
	Begin, End PosType
}

// Whole is the interval that covers an entire sequence.
var Whole = Interval{0, PosInf}

// RegionIndex maps sequence names to the intervals listed for them, in the
// order they were read.  It is read-only once loaded.
type RegionIndex struct {
	regions map[string][]Interval
	names   []string
}

// Get returns the intervals listed for the named sequence, or nil if the
// name was never listed.
func (x *RegionIndex) Get(name []byte) []Interval {
	return x.regions[string(name)]
}

// Names returns the listed sequence names in order of first appearance.
func (x *RegionIndex) Names() []string {
	return x.names
}

// Len returns the number of distinct sequence names.
func (x *RegionIndex) Len() int {
	return len(x.names)
}

func (x *RegionIndex) add(name string, iv Interval) {
	ivs, ok := x.regions[name]
	if !ok {
		x.names = append(x.names, name)
	}
	x.regions[name] = append(ivs, iv)
}

// parsePos parses the leading decimal digits of tok, like atoi.  ok is false
// when tok does not start with a digit.  Values saturate at PosInf.
func parsePos(tok []byte) (v PosType, ok bool) {
	if len(tok) == 0 || tok[0] < '0' || tok[0] > '9' {
		return 0, false
	}
	var n int64
	for _, c := range tok {
		if c < '0' || c > '9' {
			break
		}
		if n = n*10 + int64(c-'0'); n > int64(PosInf) {
			return PosInf, true
		}
	}
	return PosType(n), true
}

func endOfLine(term int) bool {
	return term == '\n' || term == tokenizer.EOF
}

// Load reads a region list.  Each line is "name [begin [end]]", with
// whitespace-separated columns:
//
//   name             the whole sequence, [0, PosInf)
//   name pos         the 1-based position pos, [pos-1, pos)
//   name begin end   the 0-based half-open [begin, end)
//
// Columns after the third are ignored.  A begin column that is not numeric
// selects the whole sequence, and an end column that is not numeric makes
// the line a single-position line.  Blank lines are skipped.  A name may be
// listed any number of times.
func Load(r io.Reader) (*RegionIndex, error) {
	x := &RegionIndex{regions: make(map[string][]Interval)}
	t := tokenizer.New(r)
	var (
		tok  []byte
		term int
		err  error
	)
	for {
		if tok, term, err = t.Token(tok[:0], tokenizer.Space); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(err, "interval.Load")
		}
		if len(tok) == 0 {
			// Blank line, or whitespace before the name.
			continue
		}
		name := string(tok)
		begin, end := PosType(-1), PosType(-1)
		if !endOfLine(term) {
			if tok, term, err = t.Token(tok[:0], tokenizer.Space); err != nil && err != io.EOF {
				return nil, errors.Wrap(err, "interval.Load")
			}
			if v, ok := parsePos(tok); ok {
				begin = v
				if !endOfLine(term) {
					if tok, term, err = t.Token(tok[:0], tokenizer.Space); err != nil && err != io.EOF {
						return nil, errors.Wrap(err, "interval.Load")
					}
					if v, ok := parsePos(tok); ok {
						if end = v; end < 0 {
							end = -1
						}
					}
				}
			}
		}
		if !endOfLine(term) {
			if _, err = t.SkipLine(); err != nil {
				return nil, errors.Wrap(err, "interval.Load")
			}
		}
		if end < 0 && begin > 0 {
			end, begin = begin, begin-1
		}
		if begin < 0 {
			begin, end = 0, PosInf
		}
		x.add(name, Interval{begin, end})
	}
	return x, nil
}

// LoadFromPath is a wrapper for Load that reads the region list at path,
// which may be gzipped or "-" for standard input.  IsNotFound reports
// whether a returned error means the list could not be opened.
func LoadFromPath(ctx context.Context, path string) (x *RegionIndex, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if x, err = Load(in); err != nil {
		return nil, errors.Wrap(err, path)
	}
	n := 0
	for _, ivs := range x.regions {
		n += len(ivs)
	}
	log.Printf("%s: loaded %d region(s) on %d sequence(s)", path, n, x.Len())
	return x, nil
}

// IsNotFound reports whether err, returned by LoadFromPath, means that the
// region list could not be opened.
func IsNotFound(err error) bool {
	return util.IsOpenError(errors.Cause(err))
}
