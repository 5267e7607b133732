package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkPrefixTableConsistency verifies the structural invariants: every key
// has length k, every entry inside an interval starts with its key, the
// entries just outside do not, and the intervals exactly cover the suffixes
// long enough to carry a k-prefix.
func checkPrefixTableConsistency(t *testing.T, sa *SuffixArray) {
	t.Helper()

	pt := sa.PrefixTable()
	require.NotNil(t, pt)
	k := pt.K()
	text := sa.Data()
	suffixes := sa.Suffixes()
	n := len(text) - 1

	covered := make([]bool, len(suffixes))
	pt.Walk(func(prefix string, iv Interval) bool {
		require.Len(t, prefix, k, "key %q", prefix)
		require.LessOrEqual(t, iv.Lo, iv.Hi)
		for i := iv.Lo; i < iv.Hi; i++ {
			pos := suffixes[i]
			require.LessOrEqual(t, int(pos)+k, n, "suffix in interval for %q has no %d-prefix", prefix, k)
			assert.Equal(t, prefix, string(text[pos:int(pos)+k]), "entry %d", i)
			require.False(t, covered[i], "entry %d covered twice", i)
			covered[i] = true
		}
		if iv.Lo > 0 {
			assert.False(t, samePrefix(text, suffixes[iv.Lo-1], suffixes[iv.Lo], k),
				"entry before interval for %q shares the prefix", prefix)
		}
		if int(iv.Hi) < len(suffixes) {
			assert.False(t, samePrefix(text, suffixes[iv.Hi], suffixes[iv.Lo], k),
				"entry after interval for %q shares the prefix", prefix)
		}
		return false
	})

	for i, pos := range suffixes {
		if int(pos)+k <= n {
			assert.True(t, covered[i], "suffix at rank %d carries a %d-prefix but is uncovered", i, k)
		} else {
			assert.False(t, covered[i], "suffix at rank %d is too short yet covered", i)
		}
	}
}

func TestPrefixTableConsistency(t *testing.T) {
	references := []string{
		"AAAA",
		"ACGTACGT",
		"TATATATATA",
		randomDNA(2000, 11),
	}
	for _, ref := range references {
		for _, k := range []int{1, 2, 3, 5} {
			t.Run(fmt.Sprintf("len%d_k%d", len(ref), k), func(t *testing.T) {
				sa, err := FromString(ref, k)
				require.NoError(t, err)
				checkPrefixTableConsistency(t, sa)
			})
		}
	}
}

func TestPrefixTableParallelMatchesSequential(t *testing.T) {
	ref := randomDNA(5000, 23)
	text := append([]byte(ref), '$')

	sequential, err := Build(append([]byte(nil), text...), BuildOptions{
		PrefixTableLength: 4,
		Workers:           1,
		PrefixChunks:      1,
	})
	require.NoError(t, err)

	for _, chunks := range []int{2, 7, 128, 100000} {
		parallel, err := Build(append([]byte(nil), text...), BuildOptions{
			PrefixTableLength: 4,
			Workers:           8,
			PrefixChunks:      chunks,
		})
		require.NoError(t, err)
		assert.True(t, sequential.PrefixTable().Equal(parallel.PrefixTable()),
			"chunked build with %d chunks diverged", chunks)
	}
}

// A low-entropy reference makes groups span many chunks, exercising the
// boundary-skip coordination.
func TestPrefixTableGroupsStraddlingChunks(t *testing.T) {
	ref := ""
	for i := 0; i < 300; i++ {
		ref += "AA"
	}
	sa, err := Build(append([]byte(ref), '$'), BuildOptions{
		PrefixTableLength: 3,
		Workers:           4,
		PrefixChunks:      64,
	})
	require.NoError(t, err)

	pt := sa.PrefixTable()
	require.Equal(t, 1, pt.Len())
	iv, ok := pt.Lookup("AAA")
	require.True(t, ok)
	assert.Equal(t, int32(len(ref)-2), iv.Hi-iv.Lo, "every suffix with 3 bases should be covered exactly once")
	checkPrefixTableConsistency(t, sa)
}

func TestPrefixTableKLargerThanText(t *testing.T) {
	sa, err := FromString("ACGT", 10)
	require.NoError(t, err)
	require.NotNil(t, sa.PrefixTable())
	assert.Zero(t, sa.PrefixTable().Len())

	// Short patterns fall back to the full-range search.
	assert.Equal(t, []int32{0}, sa.Occurrences("ACGT", ModeNaive))
	// Patterns long enough to consult the empty table find no key.
	assert.Empty(t, sa.Occurrences("ACGTACGTACGT", ModeNaive))
}

func TestPrefixTableWalkOrder(t *testing.T) {
	sa, err := FromString("ACGTACGT", 2)
	require.NoError(t, err)

	var keys []string
	sa.PrefixTable().Walk(func(prefix string, iv Interval) bool {
		keys = append(keys, prefix)
		return false
	})
	require.NotEmpty(t, keys)
	for i := 0; i+1 < len(keys); i++ {
		assert.Less(t, keys[i], keys[i+1], "walk should visit keys in lexicographic order")
	}
}
