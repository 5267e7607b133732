package index

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeRoundTrip(t *testing.T) {
	for _, k := range []int{0, 3} {
		sa, err := FromString(randomDNA(1000, 5), k)
		require.NoError(t, err, "k=%d", k)

		var buf bytes.Buffer
		require.NoError(t, sa.WriteTo(&buf))

		got, err := ReadFrom(&buf)
		require.NoError(t, err, "k=%d", k)
		assert.True(t, sa.Equal(got), "round trip should preserve every field, k=%d", k)
	}
}

func TestSerializeLayout(t *testing.T) {
	sa, err := FromString("AB", 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sa.WriteTo(&buf))

	raw := buf.Bytes()
	le := binary.LittleEndian
	require.Equal(t, FileMagic, le.Uint32(raw[0:4]))
	require.EqualValues(t, 3, le.Uint64(raw[4:12]), "text_len")
	assert.Equal(t, []byte("AB$"), raw[12:15])
	require.EqualValues(t, 3, le.Uint64(raw[15:23]), "sa_len")
	assert.EqualValues(t, 2, int32(le.Uint32(raw[23:27])))
	assert.EqualValues(t, 0, int32(le.Uint32(raw[27:31])))
	assert.EqualValues(t, 1, int32(le.Uint32(raw[31:35])))
	assert.EqualValues(t, 0, le.Uint64(raw[35:43]), "k")
	assert.Len(t, raw, 43, "no prefix table section when k = 0")
}

func TestSerializeInclusiveIntervalOnDisk(t *testing.T) {
	sa, err := FromString("AAAA", 2)
	require.NoError(t, err)
	iv, ok := sa.PrefixTable().Lookup("AA")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, sa.WriteTo(&buf))
	raw := buf.Bytes()

	// Entry tail: ... u64 key_len, "AA", i32 lo, i32 hi.
	le := binary.LittleEndian
	hi := int32(le.Uint32(raw[len(raw)-4:]))
	lo := int32(le.Uint32(raw[len(raw)-8 : len(raw)-4]))
	assert.Equal(t, iv.Lo, lo)
	assert.Equal(t, iv.Hi-1, hi, "on-disk upper bound is inclusive")
}

func TestDeserializeBadMagic(t *testing.T) {
	sa, err := FromString("ACGT", 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sa.WriteTo(&buf))
	raw := buf.Bytes()
	raw[0] ^= 0xff

	_, err = ReadFrom(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestDeserializeTruncated(t *testing.T) {
	sa, err := FromString(randomDNA(100, 9), 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sa.WriteTo(&buf))
	raw := buf.Bytes()

	for _, cut := range []int{0, 3, 4, 11, 20, len(raw) / 2, len(raw) - 1} {
		_, err := ReadFrom(bytes.NewReader(raw[:cut]))
		assert.ErrorIs(t, err, ErrInvalidIndex, "cut at %d bytes", cut)
	}
}

func TestDeserializeInconsistentLengths(t *testing.T) {
	sa, err := FromString("ACGT", 0)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sa.WriteTo(&buf))
	raw := buf.Bytes()
	// Corrupt sa_len so it disagrees with text_len.
	binary.LittleEndian.PutUint64(raw[17:25], 99)

	_, err = ReadFrom(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestSaveLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmp.sa")

	for _, k := range []int{0, 4} {
		sa, err := FromString(randomDNA(500, 13), k)
		require.NoError(t, err)

		require.NoError(t, sa.Save(path))
		got, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, sa.Data(), got.Data(), "k=%d", k)
		assert.Equal(t, sa.Suffixes(), got.Suffixes(), "k=%d", k)
		assert.True(t, sa.Equal(got), "k=%d", k)

		// Loaded indexes answer queries like freshly built ones.
		pattern := string(sa.Data()[10:20])
		assert.Equal(t, sa.Occurrences(pattern, ModeNaive), got.Occurrences(pattern, ModeSimpleAccel), "k=%d", k)
	}

	require.NoError(t, os.Remove(path))
	_, err := Load(path)
	assert.Error(t, err, "loading a missing file should fail")
}
