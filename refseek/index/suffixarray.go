package index

import (
	"bytes"
	"fmt"
	"io"
	"runtime"

	"github.com/Dando18/refseek/refseek"
	"github.com/Dando18/refseek/refseek/fasta"
	"github.com/Dando18/refseek/refseek/sais"

	assert "github.com/ZanzyTHEbar/assert-lib"
)

// SuffixArray is an immutable, persistable index over a sentinel-terminated
// reference text. It carries the normalized text, the sorted suffix
// permutation, and an optional k-prefix table that narrows query ranges.
type SuffixArray struct {
	text      []byte
	suffixes  []int32
	prefixLen int
	prefix    *PrefixTable

	assertHandler *assert.AssertHandler
}

// BuildOptions control index construction. The zero value picks sensible
// defaults: no prefix table, one worker per CPU, and the default chunk count
// for the parallel prefix-table build.
type BuildOptions struct {
	// PrefixTableLength is the k parameter. 0 disables the table.
	PrefixTableLength int
	// Workers bounds goroutines during the prefix-table build.
	Workers int
	// PrefixChunks is the number of contiguous suffix-array chunks the
	// parallel prefix-table build partitions into.
	PrefixChunks int
}

func (o *BuildOptions) fill() {
	if o.Workers < 1 {
		o.Workers = runtime.NumCPU()
	}
	if o.PrefixChunks < 1 {
		o.PrefixChunks = refseek.DefaultPrefixChunks
	}
	if o.PrefixTableLength < 0 {
		o.PrefixTableLength = 0
	}
}

// Build constructs a SuffixArray over an already-normalized text. The final
// byte of text must be the sentinel and must appear nowhere else.
func Build(text []byte, opts BuildOptions) (*SuffixArray, error) {
	opts.fill()

	sa := &SuffixArray{
		text:          text,
		suffixes:      make([]int32, len(text)),
		prefixLen:     opts.PrefixTableLength,
		assertHandler: assert.NewAssertHandler(),
	}

	// The collaborator takes the raw bytes plus a scratch histogram and
	// hands back the permutation.
	var histogram [sais.HistogramSize]int32
	if err := sais.Compute(sa.text, sa.suffixes, histogram[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexBuild, err)
	}

	if sa.prefixLen != 0 {
		sa.prefix = buildPrefixTable(sa.text, sa.suffixes, sa.prefixLen, opts.PrefixChunks, opts.Workers)
	}

	return sa, nil
}

// FromString builds a SuffixArray over the given characters as-is, appending
// only the sentinel. No normalization is applied, so the caller is
// responsible for the content; bytes sorting below '$' will fail the build.
func FromString(values string, prefixTableLength int) (*SuffixArray, error) {
	text := append([]byte(values), fasta.Sentinel)
	return Build(text, BuildOptions{PrefixTableLength: prefixTableLength})
}

// FromFile reads a FASTA file, concatenates the record bodies, normalizes
// the result into the DNA alphabet, and builds a SuffixArray over it.
func FromFile(path string, prefixTableLength int) (*SuffixArray, error) {
	opts := BuildOptions{PrefixTableLength: prefixTableLength}
	opts.fill()

	seq, err := fasta.ReadSequence(path)
	if err != nil {
		return nil, err
	}
	return Build(fasta.Normalize(seq, opts.Workers), opts)
}

// Data returns the normalized text the index was built over, including the
// trailing sentinel.
func (sa *SuffixArray) Data() []byte {
	return sa.text
}

// Suffixes returns the suffix permutation.
func (sa *SuffixArray) Suffixes() []int32 {
	return sa.suffixes
}

// PrefixTableLength returns the k parameter; 0 means no table.
func (sa *SuffixArray) PrefixTableLength() int {
	return sa.prefixLen
}

// PrefixTable returns the prefix table, or nil when none was built.
func (sa *SuffixArray) PrefixTable() *PrefixTable {
	return sa.prefix
}

// Equal reports field-by-field equality with another index.
func (sa *SuffixArray) Equal(other *SuffixArray) bool {
	if sa == nil || other == nil {
		return sa == other
	}
	if !bytes.Equal(sa.text, other.text) {
		return false
	}
	if len(sa.suffixes) != len(other.suffixes) {
		return false
	}
	for i := range sa.suffixes {
		if sa.suffixes[i] != other.suffixes[i] {
			return false
		}
	}
	if sa.prefixLen != other.prefixLen {
		return false
	}
	if sa.prefixLen != 0 && !sa.prefix.Equal(other.prefix) {
		return false
	}
	return true
}

// WriteTable streams a human-readable listing of the index, one row per
// suffix-array entry.
func (sa *SuffixArray) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprint(w, "i\tA[i]\tS[A[i],N]\n"); err != nil {
		return err
	}
	for i, idx := range sa.suffixes {
		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\n", i, idx, sa.text[idx:]); err != nil {
			return err
		}
	}
	return nil
}

// samePrefix reports whether the suffixes at positions a and b both carry a
// full k-byte prefix within the DNA portion of the text and those prefixes
// are equal. A suffix too short to carry a k-prefix never matches.
func samePrefix(text []byte, a, b int32, k int) bool {
	n := len(text) - 1
	if int(a)+k > n || int(b)+k > n {
		return false
	}
	return bytes.Equal(text[a:int(a)+k], text[b:int(b)+k])
}
