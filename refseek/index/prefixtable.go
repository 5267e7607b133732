package index

import (
	"github.com/armon/go-radix"
	"github.com/sourcegraph/conc/pool"
)

// Interval is a half-open range [Lo, Hi) of suffix-array indices.
type Interval struct {
	Lo, Hi int32
}

// PrefixTable maps every k-byte prefix occurring in the reference to the
// interval of suffix-array entries whose suffixes start with it. The table
// is held twice: a radix tree for ordered walks (serialization, validation)
// and a direct map for O(1) hits on the query path.
type PrefixTable struct {
	k     int
	tree  *radix.Tree
	items map[string]Interval
}

// NewPrefixTable creates an empty table for k-byte prefixes.
func NewPrefixTable(k int) *PrefixTable {
	return &PrefixTable{
		k:     k,
		tree:  radix.New(),
		items: make(map[string]Interval),
	}
}

// K returns the prefix length parameter.
func (pt *PrefixTable) K() int {
	return pt.k
}

// Len returns the number of keys.
func (pt *PrefixTable) Len() int {
	return len(pt.items)
}

// Lookup returns the interval for a prefix and whether it is present.
func (pt *PrefixTable) Lookup(prefix string) (Interval, bool) {
	iv, ok := pt.items[prefix]
	return iv, ok
}

func (pt *PrefixTable) insert(prefix string, iv Interval) {
	pt.tree.Insert(prefix, iv)
	pt.items[prefix] = iv
}

// Walk visits every entry in lexicographic key order. Returning true from fn
// terminates the walk.
func (pt *PrefixTable) Walk(fn func(prefix string, iv Interval) bool) {
	pt.tree.Walk(func(s string, v interface{}) bool {
		return fn(s, v.(Interval))
	})
}

// merge folds another table's entries in. Entries are disjoint by
// construction, so this never overwrites.
func (pt *PrefixTable) merge(other *PrefixTable) {
	other.Walk(func(prefix string, iv Interval) bool {
		pt.insert(prefix, iv)
		return false
	})
}

// Equal reports whether two tables hold the same entries.
func (pt *PrefixTable) Equal(other *PrefixTable) bool {
	if pt == nil || other == nil {
		return pt == other
	}
	if pt.k != other.k || len(pt.items) != len(other.items) {
		return false
	}
	for key, iv := range pt.items {
		if oiv, ok := other.items[key]; !ok || oiv != iv {
			return false
		}
	}
	return true
}

// buildPrefixTable groups contiguous suffix-array entries sharing the same
// k-byte prefix into half-open intervals. The suffix array is partitioned
// into contiguous chunks scanned concurrently; per-worker tables are merged
// sequentially afterwards, so no lock is taken during the parallel region.
func buildPrefixTable(text []byte, suffixes []int32, k, chunks, workers int) *PrefixTable {
	table := NewPrefixTable(k)
	n := len(text) - 1
	if k > n {
		return table
	}

	if chunks < 1 {
		chunks = 1
	}
	chunkSize := (len(suffixes) + chunks - 1) / chunks
	if chunkSize == 0 {
		return table
	}

	locals := make([]*PrefixTable, 0, chunks)
	p := pool.New().WithMaxGoroutines(workers)
	for start := 0; start < len(suffixes); start += chunkSize {
		si, re := start, min(start+chunkSize, len(suffixes))
		local := NewPrefixTable(k)
		locals = append(locals, local)
		p.Go(func() {
			if si > 0 {
				// A group straddling the chunk boundary belongs to
				// the worker owning its first entry; skip past it.
				prev := suffixes[si-1]
				for si < len(suffixes) && samePrefix(text, suffixes[si], prev, k) {
					si++
				}
			}
			scanPrefixRange(text, suffixes, k, si, re, local)
		})
	}
	p.Wait()

	for _, local := range locals {
		table.merge(local)
	}
	return table
}

// scanPrefixRange runs the sequential grouping algorithm over [rs, re).
// Entries whose suffix is too short to carry a k-prefix are skipped. The
// inner group scan is bounded by len(suffixes), not re, so the terminal
// group of a chunk is consumed whole; the boundary skip in the parallel
// driver relies on this.
func scanPrefixRange(text []byte, suffixes []int32, k, rs, re int, dst *PrefixTable) {
	n := len(text) - 1
	iter := rs
	for {
		for iter < re && int(suffixes[iter])+k > n {
			iter++
		}
		if iter >= re {
			return
		}
		lead := suffixes[iter]
		end := iter + 1
		for end < len(suffixes) && samePrefix(text, suffixes[end], lead, k) {
			end++
		}
		dst.insert(string(text[lead:int(lead)+k]), Interval{Lo: int32(iter), Hi: int32(end)})
		iter = end
	}
}
