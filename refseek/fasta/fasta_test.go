package fasta

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSequence(t *testing.T) {
	in := ">chr1 description\nACGT\nACGT\n>chr2\nTTTT\n"
	seq, err := readSequence(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "ACGTACGTTTTT", seq, "record bodies should concatenate in file order, headers discarded")
}

func TestReadSequenceEmpty(t *testing.T) {
	seq, err := readSequence(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestReadRecords(t *testing.T) {
	in := ">q1\nACGT\nAC\n>q2:20\nTTTT\n"
	records, err := readRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Record{Title: "q1", Sequence: "ACGTAC"}, records[0])
	assert.Equal(t, Record{Title: "q2:20", Sequence: "TTTT"}, records[1])
}

func TestReadRecordsIgnoresLeadingBody(t *testing.T) {
	in := "ACGT\n>q1\nAAAA\n"
	records, err := readRecords(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "AAAA", records[0].Sequence)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		test func(t *testing.T)
	}{
		{"UpperCases", testNormalizeUpperCases},
		{"AppendsSentinel", testNormalizeAppendsSentinel},
		{"ReplacesNonDNA", testNormalizeReplacesNonDNA},
		{"SeededDeterminism", testNormalizeSeededDeterminism},
		{"EmptyInput", testNormalizeEmptyInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, tt.test)
	}
}

func testNormalizeUpperCases(t *testing.T) {
	out := Normalize("acgtACGT", 1)
	assert.Equal(t, "ACGTACGT"+string(Sentinel), string(out))
}

func testNormalizeAppendsSentinel(t *testing.T) {
	seq := "ACGTACGTACGT"
	for _, workers := range []int{1, 2, 8} {
		out := Normalize(seq, workers)
		require.Len(t, out, len(seq)+1, "workers=%d", workers)
		assert.EqualValues(t, Sentinel, out[len(out)-1], "workers=%d", workers)
	}
}

func testNormalizeReplacesNonDNA(t *testing.T) {
	out := Normalize("ANGX.Tz", 4)
	require.Len(t, out, 8)
	for i, c := range out[:7] {
		assert.Contains(t, []byte{'A', 'C', 'G', 'T'}, c, "position %d", i)
	}
	// In-alphabet bytes pass through untouched.
	assert.EqualValues(t, 'A', out[0])
	assert.EqualValues(t, 'G', out[2])
	assert.EqualValues(t, 'T', out[5])
}

func testNormalizeSeededDeterminism(t *testing.T) {
	seq := strings.Repeat("ANNGTCX", 100)
	a := NormalizeSeeded(seq, 4, 42)
	b := NormalizeSeeded(seq, 4, 42)
	assert.Equal(t, a, b, "same seed and worker count should reproduce")
}

func testNormalizeEmptyInput(t *testing.T) {
	out := Normalize("", 4)
	assert.Equal(t, []byte{Sentinel}, out)
}
