// Package sais constructs suffix arrays by induced sorting (SA-IS).
//
// The entry point operates on a byte string whose final byte is a unique
// strict minimum (the sentinel). The result is the permutation of [0, n-1]
// giving the lexicographic order of the suffixes, and is deterministic for a
// given input.
package sais

import (
	"errors"
	"fmt"
)

// HistogramSize is the length of the scratch histogram callers pass to
// Compute. The top-level induced sort buckets directly on byte values.
const HistogramSize = 256

var (
	ErrBadInput   = errors.New("sais: input does not satisfy the sentinel contract")
	ErrBadScratch = errors.New("sais: scratch buffers have the wrong shape")
)

// Compute fills sa with the suffix array of text. freq is a caller-supplied
// scratch histogram of HistogramSize entries; it is clobbered. text must be
// non-empty and its last byte must be a unique strict minimum.
func Compute(text []byte, sa []int32, freq []int32) error {
	n := len(text)
	if len(sa) != n {
		return fmt.Errorf("%w: len(sa)=%d, want %d", ErrBadScratch, len(sa), n)
	}
	if len(freq) != HistogramSize {
		return fmt.Errorf("%w: len(freq)=%d, want %d", ErrBadScratch, len(freq), HistogramSize)
	}
	if n == 0 {
		return fmt.Errorf("%w: empty text", ErrBadInput)
	}

	sentinel := text[n-1]
	for i := range freq {
		freq[i] = 0
	}
	for _, c := range text {
		freq[c]++
	}
	if freq[sentinel] != 1 {
		return fmt.Errorf("%w: sentinel %q occurs %d times", ErrBadInput, sentinel, freq[sentinel])
	}
	for c := 0; c < int(sentinel); c++ {
		if freq[c] != 0 {
			return fmt.Errorf("%w: byte %q sorts below the sentinel", ErrBadInput, byte(c))
		}
	}

	computeBytes(text, sa, freq)
	return nil
}

func computeBytes(s []byte, sa []int32, freq []int32) {
	n := len(s)
	for i := range sa {
		sa[i] = -1
	}
	if n == 1 {
		sa[0] = 0
		return
	}

	// Classify characters into S-type (true) and L-type (false).
	t := make([]bool, n)
	t[n-1] = true
	for i := n - 2; i >= 0; i-- {
		if s[i] < s[i+1] {
			t[i] = true
		} else if s[i] > s[i+1] {
			t[i] = false
		} else {
			t[i] = t[i+1]
		}
	}

	var lmsPositions []int32
	for i := 1; i < n; i++ {
		if t[i] && !t[i-1] {
			lmsPositions = append(lmsPositions, int32(i))
		}
	}

	induceSortBytes(s, sa, t, freq, lmsPositions)

	// Extract the LMS suffixes in their induced order and name the LMS
	// substrings.
	var sortedLMS []int32
	for _, pos := range sa {
		if pos > 0 && t[pos] && !t[pos-1] {
			sortedLMS = append(sortedLMS, pos)
		}
	}
	names := make([]int32, n)
	for i := range names {
		names[i] = -1
	}
	name := int32(0)
	prev := int32(-1)
	for _, pos := range sortedLMS {
		if prev >= 0 && !lmsSubstringEqualBytes(s, t, prev, pos) {
			name++
		}
		names[pos] = name
		prev = pos
	}
	numNames := name + 1

	reduced := make([]int32, 0, len(lmsPositions))
	for _, pos := range lmsPositions {
		reduced = append(reduced, names[pos])
	}

	reducedSA := make([]int32, len(reduced))
	if int(numNames) < len(reduced) {
		computeInts(reduced, numNames, reducedSA)
	} else {
		// All names unique; the order is already determined.
		for i, nm := range reduced {
			reducedSA[nm] = int32(i)
		}
	}

	orderedLMS := make([]int32, len(reducedSA))
	for i, idx := range reducedSA {
		orderedLMS[i] = lmsPositions[idx]
	}
	for i := range sa {
		sa[i] = -1
	}
	induceSortBytes(s, sa, t, freq, orderedLMS)
}

// computeInts is the recursive step over the reduced problem, whose alphabet
// is the LMS-substring name space [0, numNames).
func computeInts(s []int32, numNames int32, sa []int32) {
	n := len(s)
	for i := range sa {
		sa[i] = -1
	}
	if n == 0 {
		return
	}
	if n == 1 {
		sa[0] = 0
		return
	}

	t := make([]bool, n)
	t[n-1] = true
	for i := n - 2; i >= 0; i-- {
		if s[i] < s[i+1] {
			t[i] = true
		} else if s[i] > s[i+1] {
			t[i] = false
		} else {
			t[i] = t[i+1]
		}
	}

	var lmsPositions []int32
	for i := 1; i < n; i++ {
		if t[i] && !t[i-1] {
			lmsPositions = append(lmsPositions, int32(i))
		}
	}

	freq := make([]int32, numNames)
	induceSortInts(s, sa, t, freq, lmsPositions)

	var sortedLMS []int32
	for _, pos := range sa {
		if pos > 0 && t[pos] && !t[pos-1] {
			sortedLMS = append(sortedLMS, pos)
		}
	}
	names := make([]int32, n)
	for i := range names {
		names[i] = -1
	}
	name := int32(0)
	prev := int32(-1)
	for _, pos := range sortedLMS {
		if prev >= 0 && !lmsSubstringEqualInts(s, t, prev, pos) {
			name++
		}
		names[pos] = name
		prev = pos
	}
	numSub := name + 1

	reduced := make([]int32, 0, len(lmsPositions))
	for _, pos := range lmsPositions {
		reduced = append(reduced, names[pos])
	}

	reducedSA := make([]int32, len(reduced))
	if int(numSub) < len(reduced) {
		computeInts(reduced, numSub, reducedSA)
	} else {
		for i, nm := range reduced {
			reducedSA[nm] = int32(i)
		}
	}

	orderedLMS := make([]int32, len(reducedSA))
	for i, idx := range reducedSA {
		orderedLMS[i] = lmsPositions[idx]
	}
	for i := range sa {
		sa[i] = -1
	}
	induceSortInts(s, sa, t, freq, orderedLMS)
}

func induceSortBytes(s []byte, sa []int32, t []bool, freq []int32, lms []int32) {
	for i := range freq {
		freq[i] = 0
	}
	for _, c := range s {
		freq[c]++
	}
	tails := bucketTails(freq)
	for i := len(lms) - 1; i >= 0; i-- {
		pos := lms[i]
		c := s[pos]
		sa[tails[c]] = pos
		tails[c]--
	}
	heads := bucketHeads(freq)
	for i := 0; i < len(sa); i++ {
		pos := sa[i]
		if pos > 0 && !t[pos-1] {
			c := s[pos-1]
			sa[heads[c]] = pos - 1
			heads[c]++
		}
	}
	tails = bucketTails(freq)
	for i := len(sa) - 1; i >= 0; i-- {
		pos := sa[i]
		if pos > 0 && t[pos-1] {
			c := s[pos-1]
			sa[tails[c]] = pos - 1
			tails[c]--
		}
	}
}

func induceSortInts(s []int32, sa []int32, t []bool, freq []int32, lms []int32) {
	for i := range freq {
		freq[i] = 0
	}
	for _, c := range s {
		freq[c]++
	}
	tails := bucketTails(freq)
	for i := len(lms) - 1; i >= 0; i-- {
		pos := lms[i]
		c := s[pos]
		sa[tails[c]] = pos
		tails[c]--
	}
	heads := bucketHeads(freq)
	for i := 0; i < len(sa); i++ {
		pos := sa[i]
		if pos > 0 && !t[pos-1] {
			c := s[pos-1]
			sa[heads[c]] = pos - 1
			heads[c]++
		}
	}
	tails = bucketTails(freq)
	for i := len(sa) - 1; i >= 0; i-- {
		pos := sa[i]
		if pos > 0 && t[pos-1] {
			c := s[pos-1]
			sa[tails[c]] = pos - 1
			tails[c]--
		}
	}
}

func bucketHeads(freq []int32) []int32 {
	heads := make([]int32, len(freq))
	sum := int32(0)
	for i, v := range freq {
		heads[i] = sum
		sum += v
	}
	return heads
}

func bucketTails(freq []int32) []int32 {
	tails := make([]int32, len(freq))
	sum := int32(0)
	for i, v := range freq {
		sum += v
		tails[i] = sum - 1
	}
	return tails
}

func lmsSubstringEqualBytes(s []byte, t []bool, i, j int32) bool {
	n := int32(len(s))
	for d := int32(0); i+d < n && j+d < n; d++ {
		if s[i+d] != s[j+d] || t[i+d] != t[j+d] {
			return false
		}
		if d > 0 {
			iIsLMS := t[i+d] && !t[i+d-1]
			jIsLMS := t[j+d] && !t[j+d-1]
			if iIsLMS || jIsLMS {
				return iIsLMS && jIsLMS
			}
		}
	}
	return false
}

func lmsSubstringEqualInts(s []int32, t []bool, i, j int32) bool {
	n := int32(len(s))
	for d := int32(0); i+d < n && j+d < n; d++ {
		if s[i+d] != s[j+d] || t[i+d] != t[j+d] {
			return false
		}
		if d > 0 {
			iIsLMS := t[i+d] && !t[i+d-1]
			jIsLMS := t[j+d] && !t[j+d-1]
			if iIsLMS || jIsLMS {
				return iIsLMS && jIsLMS
			}
		}
	}
	return false
}
