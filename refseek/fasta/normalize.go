package fasta

import (
	"math/rand"
	"time"

	"github.com/sourcegraph/conc/pool"
)

// Sentinel terminates every normalized sequence. It compares strictly less
// than any DNA byte, so no suffix of the normalized text is a prefix of
// another.
const Sentinel = '$'

var alphabet = [4]byte{'A', 'C', 'G', 'T'}

// Normalize canonicalizes a raw FASTA body into the fixed DNA alphabet:
// every byte is upper-cased, every byte outside {A,C,G,T} is replaced with a
// uniformly random base, and a single sentinel is appended. The output length
// is len(seq)+1. Replacement preserves the length of the reference so
// reported positions stay aligned with the caller's sequence.
//
// The RNG is instantiated per call and seeded from the clock; positions are
// independent, so the work is split across workers. Draw order is not
// reproducible across worker counts.
func Normalize(seq string, workers int) []byte {
	return NormalizeSeeded(seq, workers, time.Now().UnixNano())
}

// NormalizeSeeded is Normalize with an explicit seed, for reproducible
// fixtures. Each chunk derives its own RNG from the seed and the chunk's start
// offset, so results are stable for a fixed worker count.
func NormalizeSeeded(seq string, workers int, seed int64) []byte {
	n := len(seq)
	out := make([]byte, n+1)
	out[n] = Sentinel

	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers
	if chunk == 0 {
		return out
	}

	p := pool.New().WithMaxGoroutines(workers)
	for start := 0; start < n; start += chunk {
		start := start
		end := min(start+chunk, n)
		rng := rand.New(rand.NewSource(seed + int64(start)))
		p.Go(func() {
			normalizeChunk(seq, out, start, end, rng)
		})
	}
	p.Wait()

	return out
}

func normalizeChunk(seq string, out []byte, start, end int, rng *rand.Rand) {
	for i := start; i < end; i++ {
		c := seq[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		switch c {
		case 'A', 'C', 'G', 'T':
			out[i] = c
		default:
			out[i] = alphabet[rng.Intn(len(alphabet))]
		}
	}
}
