package fqchk_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/grailbio/seqstat/encoding/fastx"
	"github.com/grailbio/seqstat/fqchk"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	tassert "github.com/stretchr/testify/assert"
)

func run(t *testing.T, in string, opts fqchk.Opts) string {
	var out bytes.Buffer
	assert.NoError(t, fqchk.Run(&out, fastx.NewScanner(strings.NewReader(in)), opts))
	return out.String()
}

func TestLowQuality(t *testing.T) {
	expect.EQ(t, run(t, "@r\nAC\n+\n##\n", fqchk.DefaultOpts), `min_len: 2; max_len: 2; avg_len: 2.00; 1 distinct quality values
POS	#bases	%A	%C	%G	%T	%N	avgQ	errQ	%low	%high
ALL	2	50.0	50.0	0.0	0.0	0.0	2.0	3.0	100.0	0.0
1	1	100.0	0.0	0.0	0.0	0.0	2.0	3.0	100.0	0.0
2	1	0.0	100.0	0.0	0.0	0.0	2.0	3.0	100.0	0.0
`)
}

func TestDistribution(t *testing.T) {
	opts := fqchk.DefaultOpts
	opts.QualThreshold = 0
	expect.EQ(t, run(t, "@r\nACGT\n+\n#5I5\n", opts), `min_len: 4; max_len: 4; avg_len: 4.00; 3 distinct quality values
POS	#bases	%A	%C	%G	%T	%N	avgQ	errQ	%Q2	%Q20	%Q40
ALL	4	25.0	25.0	25.0	25.0	0.0	20.5	8.9	25.00	50.00	25.00
1	1	100.0	0.0	0.0	0.0	0.0	2.0	3.0	100.00	0.00	0.00
2	1	0.0	100.0	0.0	0.0	0.0	20.0	20.0	0.00	100.00	0.00
3	1	0.0	0.0	100.0	0.0	0.0	40.0	40.0	0.00	0.00	100.00
4	1	0.0	0.0	0.0	100.0	0.0	20.0	20.0	0.00	100.00	0.00
`)
}

func TestNoRecords(t *testing.T) {
	const want = `min_len: 0; max_len: 0; avg_len: 0.00; 0 distinct quality values
POS	#bases	%A	%C	%G	%T	%N	avgQ	errQ	%low	%high
ALL	0	0.0	0.0	0.0	0.0	0.0	0.0	0.0	0.0	0.0
`
	expect.EQ(t, run(t, "", fqchk.DefaultOpts), want)
	// FASTA records carry no quality and are skipped.
	expect.EQ(t, run(t, ">a\nACGT\n>b\nGG\n", fqchk.DefaultOpts), want)
}

func TestVariableLength(t *testing.T) {
	in := "@r1\nACGTN\n+\nIIIII\n>skip\nAAAAAAAAAA\n@r2\nac\n+\n!~\n@r3\nNNNNNNNNN\n+\n+++++++++\n"
	out := run(t, in, fqchk.DefaultOpts)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	expect.EQ(t, lines[0], "min_len: 2; max_len: 9; avg_len: 5.33; 4 distinct quality values")
	// summary, header, ALL, then positions 1-9.
	expect.EQ(t, len(lines), 12)

	all := strings.Split(lines[2], "\t")
	expect.EQ(t, all[0], "ALL")
	expect.EQ(t, all[1], "16")
	var sum float64
	for _, col := range all[2:7] {
		v, err := strconv.ParseFloat(col, 64)
		assert.NoError(t, err)
		sum += v
	}
	tassert.InDelta(t, 100, sum, 0.5)

	expect.EQ(t, strings.Split(lines[3], "\t")[:2], []string{"1", "3"})
	expect.EQ(t, strings.Split(lines[11], "\t")[:7], []string{"9", "1", "0.0", "0.0", "0.0", "0.0", "100.0"})
}

func TestStats(t *testing.T) {
	s := fqchk.NewStats(fqchk.Opts{QualThreshold: 30, Offset: 64})
	s.Add(&fastx.Record{Name: []byte("a"), Seq: []byte("AC"), Qual: []byte("@h")})
	// Mismatched quality: bytes past the sequence are dropped.
	s.Add(&fastx.Record{Name: []byte("b"), Seq: []byte("G"), Qual: []byte("hhh")})
	s.Add(&fastx.Record{Name: []byte("c"), Seq: []byte("TT")})
	expect.EQ(t, s.Records(), int64(2))
	all := s.All()
	expect.EQ(t, all.Q[0], int64(1))
	expect.EQ(t, all.Q[40], int64(2))
	expect.EQ(t, all.B, [fqchk.NumClasses]int64{1, 1, 1, 0, 0})
}

func TestScoreClamp(t *testing.T) {
	s := fqchk.NewStats(fqchk.DefaultOpts)
	s.Add(&fastx.Record{Seq: []byte("AA"), Qual: []byte{' ', 0xff}})
	all := s.All()
	expect.EQ(t, all.Q[0], int64(1))
	expect.EQ(t, all.Q[fqchk.MaxScore], int64(1))
}

func TestPerRead(t *testing.T) {
	s := fqchk.NewStats(fqchk.DefaultOpts)
	for _, r := range []fastx.Record{
		// GC 0.50, Q40
		{Seq: []byte("ACGT"), Qual: []byte("IIII")},
		// GC 1.00, Q21
		{Seq: []byte("GCgc"), Qual: []byte("##II")},
		// GC 0.00, Q10.17
		{Seq: []byte("AAAAAT"), Qual: []byte("+++++,")},
		// GC 0.333, Q20
		{Seq: []byte("AAC"), Qual: []byte("555")},
		// GC 0.05, Q40
		{Seq: []byte("AAAAAAAAAAAAAAAAAAAC"), Qual: []byte("IIIIIIIIIIIIIIIIIIII")},
	} {
		r := r
		s.Add(&r)
	}
	var gc [fqchk.NumGCBins]int64
	gc[0], gc[1], gc[6], gc[10], gc[19] = 1, 1, 1, 1, 1
	expect.EQ(t, s.GCContent(), gc)

	meanQ := s.MeanQuality()
	expect.EQ(t, meanQ[40], int64(2))
	expect.EQ(t, meanQ[21], int64(1))
	expect.EQ(t, meanQ[10], int64(1))
	expect.EQ(t, meanQ[20], int64(1))

	lengths := s.Lengths()
	expect.EQ(t, lengths[3], int64(1))
	expect.EQ(t, lengths[4], int64(2))
	expect.EQ(t, lengths[6], int64(1))
	expect.EQ(t, lengths[20], int64(1))
	var total int64
	for _, n := range lengths {
		total += n
	}
	expect.EQ(t, total, s.Records())
}

func TestPerReadReport(t *testing.T) {
	opts := fqchk.DefaultOpts
	opts.PerRead = true
	out := run(t, "@r1\nAC\n+\n##\n@r2\nGGCA\n+\nIIII\n>skip\nGG\n", opts)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	// summary, header, ALL, 4 positions, then GC (1+20), meanQ (1+2),
	// length (1+2).
	expect.EQ(t, len(lines), 7+21+3+3)
	expect.EQ(t, lines[7], "GC\t2")
	expect.EQ(t, lines[8], "0.00\t0")
	// Bin k is on line 8+k.
	expect.EQ(t, lines[8+10], "0.50\t1")
	expect.EQ(t, lines[8+15], "0.75\t1")
	expect.EQ(t, lines[8+19], "0.95\t0")
	expect.EQ(t, lines[28:], []string{"meanQ\t2", "2\t1", "40\t1", "length\t2", "2\t1", "4\t1"})

	// Without PerRead the report ends after the position rows.
	out = run(t, "@r1\nAC\n+\n##\n", fqchk.DefaultOpts)
	expect.EQ(t, strings.Count(out, "\n"), 5)
}
