package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	assert "github.com/ZanzyTHEbar/assert-lib"
)

// FileMagic tags every persisted index.
const FileMagic uint32 = 0xabeefdad

// On-disk layout, little-endian, written in exactly this order:
//
//	u32  magic
//	u64  text_len
//	u8[text_len] text                 (trailing byte is the sentinel)
//	u64  sa_len                       (== text_len)
//	i32[sa_len] suffix_array
//	u64  k                            (0 means table absent)
//	u64  entry_count                  (only if k != 0)
//	entry_count times:
//	    u64 key_len (== k), u8[key_len] key, i32 lo, i32 hi (inclusive)
//
// Intervals are half-open in memory and inclusive on disk; the boundary
// conversion happens here and nowhere else.

// Save writes the index to the named file.
func (sa *SuffixArray) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not open %q for saving: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := sa.WriteTo(w); err != nil {
		return fmt.Errorf("failed to save index to %q: %w", path, err)
	}
	return w.Flush()
}

// Load reads an index previously written by Save.
func Load(path string) (*SuffixArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %q for loading: %w", path, err)
	}
	defer f.Close()

	sa, err := ReadFrom(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to load index from %q: %w", path, err)
	}
	return sa, nil
}

// WriteTo serializes the index onto a stream.
func (sa *SuffixArray) WriteTo(w io.Writer) error {
	le := binary.LittleEndian

	u32 := func(v uint32) error { return binary.Write(w, le, v) }
	u64 := func(v uint64) error { return binary.Write(w, le, v) }
	i32 := func(v int32) error { return binary.Write(w, le, v) }

	if err := u32(FileMagic); err != nil {
		return err
	}
	if err := u64(uint64(len(sa.text))); err != nil {
		return err
	}
	if _, err := w.Write(sa.text); err != nil {
		return err
	}
	if err := u64(uint64(len(sa.suffixes))); err != nil {
		return err
	}
	for _, v := range sa.suffixes {
		if err := i32(v); err != nil {
			return err
		}
	}
	if err := u64(uint64(sa.prefixLen)); err != nil {
		return err
	}
	if sa.prefixLen == 0 {
		return nil
	}

	if err := u64(uint64(sa.prefix.Len())); err != nil {
		return err
	}
	var werr error
	sa.prefix.Walk(func(prefix string, iv Interval) bool {
		if werr = u64(uint64(len(prefix))); werr != nil {
			return true
		}
		if _, werr = io.WriteString(w, prefix); werr != nil {
			return true
		}
		if werr = i32(iv.Lo); werr != nil {
			return true
		}
		if werr = i32(iv.Hi - 1); werr != nil {
			return true
		}
		return false
	})
	return werr
}

// ReadFrom deserializes an index from a stream. Expects the format produced
// by WriteTo; any mismatch surfaces as ErrInvalidIndex.
func ReadFrom(r io.Reader) (*SuffixArray, error) {
	le := binary.LittleEndian

	var magic uint32
	if err := binary.Read(r, le, &magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}
	if magic != FileMagic {
		return nil, fmt.Errorf("%w: bad magic %#x", ErrInvalidIndex, magic)
	}

	var textLen uint64
	if err := binary.Read(r, le, &textLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}
	if textLen == 0 || textLen > uint64(1)<<31 {
		return nil, fmt.Errorf("%w: unreasonable text length %d", ErrInvalidIndex, textLen)
	}

	sa := &SuffixArray{
		text:          make([]byte, textLen),
		assertHandler: assert.NewAssertHandler(),
	}
	if _, err := io.ReadFull(r, sa.text); err != nil {
		return nil, fmt.Errorf("%w: truncated text: %v", ErrInvalidIndex, err)
	}

	var saLen uint64
	if err := binary.Read(r, le, &saLen); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}
	if saLen != textLen {
		return nil, fmt.Errorf("%w: suffix array length %d does not match text length %d", ErrInvalidIndex, saLen, textLen)
	}
	sa.suffixes = make([]int32, saLen)
	if err := binary.Read(r, le, sa.suffixes); err != nil {
		return nil, fmt.Errorf("%w: truncated suffix array: %v", ErrInvalidIndex, err)
	}

	var k uint64
	if err := binary.Read(r, le, &k); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}
	sa.prefixLen = int(k)
	if k == 0 {
		return sa, nil
	}

	var count uint64
	if err := binary.Read(r, le, &count); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
	}
	if count > saLen {
		return nil, fmt.Errorf("%w: prefix table entry count %d exceeds suffix count", ErrInvalidIndex, count)
	}

	sa.prefix = NewPrefixTable(sa.prefixLen)
	key := make([]byte, k)
	for i := uint64(0); i < count; i++ {
		var keyLen uint64
		if err := binary.Read(r, le, &keyLen); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
		}
		if keyLen != k {
			return nil, fmt.Errorf("%w: prefix key length %d, want %d", ErrInvalidIndex, keyLen, k)
		}
		if _, err := io.ReadFull(r, key); err != nil {
			return nil, fmt.Errorf("%w: truncated prefix key: %v", ErrInvalidIndex, err)
		}
		var lo, hi int32
		if err := binary.Read(r, le, &lo); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
		}
		if err := binary.Read(r, le, &hi); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidIndex, err)
		}
		if lo < 0 || hi < lo || uint64(hi) >= saLen {
			return nil, fmt.Errorf("%w: prefix interval [%d, %d] out of bounds", ErrInvalidIndex, lo, hi)
		}
		sa.prefix.insert(string(key), Interval{Lo: lo, Hi: hi + 1})
	}

	return sa, nil
}
