package comp_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/seqstat/comp"
	"github.com/grailbio/seqstat/encoding/fastx"
	"github.com/grailbio/seqstat/interval"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func count(seq string, opts comp.Opts) comp.Counts {
	return comp.Count([]byte(seq), 0, len(seq), opts)
}

func TestCount(t *testing.T) {
	tests := []struct {
		seq  string
		opts comp.Opts
		want comp.Counts
	}{
		{"ACGT", comp.Opts{}, comp.Counts{1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 0}},
		{"ACGT", comp.Opts{MarkGuanine: true}, comp.Counts{1, 1, 1, 1, 0, 0, 0, 2, 0, 0, 0}},
		{"acgt", comp.Opts{}, comp.Counts{1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 0}},
		{"NRY", comp.Opts{}, comp.Counts{0, 0, 0, 0, 2, 0, 1, 0, 0, 2, 0}},
		{"MKSW", comp.Opts{}, comp.Counts{0, 0, 0, 0, 4, 0, 0, 0, 4, 0, 0}},
		{"BDHV", comp.Opts{}, comp.Counts{0, 0, 0, 0, 0, 4, 0, 0, 0, 0, 0}},
		{"YG", comp.Opts{}, comp.Counts{0, 0, 1, 0, 1, 0, 0, 1, 0, 1, 1}},
		{"CR", comp.Opts{MarkGuanine: true}, comp.Counts{0, 1, 0, 0, 1, 0, 0, 2, 0, 1, 1}},
		// 'X' and other non-nucleotide bytes are counted as 4-fold.
		{"X-", comp.Opts{}, comp.Counts{0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0}},
		{"ACgt", comp.Opts{UpperOnly: true}, comp.Counts{1, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0}},
		{"", comp.Opts{}, comp.Counts{}},
	}
	for _, test := range tests {
		expect.EQ(t, count(test.seq, test.opts), test.want)
	}
}

func TestCountInterval(t *testing.T) {
	seq := []byte("ACGT")
	// The G past the end of the interval still makes the C a CpG.
	expect.EQ(t, comp.Count(seq, 1, 2, comp.Opts{}), comp.Counts{0, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0})
	expect.EQ(t, comp.Count(seq, 2, 3, comp.Opts{}), comp.Counts{0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 0})
	expect.EQ(t, comp.Count(seq, 2, 3, comp.Opts{MarkGuanine: true}), comp.Counts{0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0})
	expect.EQ(t, comp.Count(seq, -5, 100, comp.Opts{}), count("ACGT", comp.Opts{}))
	expect.EQ(t, comp.Count(seq, 3, 3, comp.Opts{}), comp.Counts{})
	expect.EQ(t, comp.Count(seq, 0, -1, comp.Opts{}), comp.Counts{})
}

func TestExactBasesSumToLength(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for n := 0; n < 200; n += 7 {
		seq := make([]byte, n)
		for i := range seq {
			seq[i] = "ACGTacgt"[r.Intn(8)]
		}
		cnt := comp.Count(seq, 0, n, comp.Opts{})
		expect.EQ(t, cnt[comp.A]+cnt[comp.C]+cnt[comp.G]+cnt[comp.T], int64(n))
		expect.EQ(t, cnt[comp.Fold2]+cnt[comp.Fold3]+cnt[comp.Fold4], int64(0))
		expect.EQ(t, comp.Count(seq, 0, n, comp.Opts{}), cnt)
	}
}

func run(t *testing.T, in string, opts comp.Opts) string {
	var out bytes.Buffer
	assert.NoError(t, comp.Run(&out, fastx.NewScanner(strings.NewReader(in)), opts))
	return out.String()
}

func TestRun(t *testing.T) {
	expect.EQ(t, run(t, ">r1 x\nAC\nGT\n>e\n@q\nCG\n+\nII\n", comp.Opts{}),
		"r1\t4\t1\t1\t1\t1\t0\t0\t0\t1\t0\t0\t0\n"+
			"e\t0\t0\t0\t0\t0\t0\t0\t0\t0\t0\t0\t0\n"+
			"q\t2\t0\t1\t1\t0\t0\t0\t0\t1\t0\t0\t0\n")
	expect.EQ(t, run(t, "", comp.Opts{}), "")
	expect.EQ(t, run(t, "no records\n", comp.Opts{}), "")
}

func TestRunRegions(t *testing.T) {
	regions, err := interval.Load(strings.NewReader("r1 1 3\nr1 0 100\nr1 5 5\nr1 0\nr3\n"))
	assert.NoError(t, err)
	expect.EQ(t, run(t, ">r1\nACGT\n>r2\nAC\n", comp.Opts{Regions: regions}),
		"r1\t1\t3\t0\t1\t1\t0\t0\t0\t0\t1\t0\t0\t0\n"+
			"r1\t0\t4\t1\t1\t1\t1\t0\t0\t0\t1\t0\t0\t0\n")

	regions, err = interval.Load(strings.NewReader("r1 3\n"))
	assert.NoError(t, err)
	expect.EQ(t, run(t, ">r1\nacGT\n", comp.Opts{Regions: regions, UpperOnly: true}),
		"r1\t2\t3\t0\t0\t1\t0\t0\t0\t0\t0\t0\t0\t0\n")
}
