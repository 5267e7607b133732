package index

import (
	"bufio"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/Dando18/refseek/refseek"

	roaring "github.com/RoaringBitmap/roaring"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
	"gonum.org/v1/gonum/stat"
)

// QueryRecord pairs a pattern with its title for output labeling. Results is
// filled in by the batch driver; each record is owned by exactly one worker
// for the duration of its query.
type QueryRecord struct {
	Title   string
	Pattern string
	Results []int32
}

// BatchOptions control a batch run.
type BatchOptions struct {
	Mode    Mode
	Workers int
}

// BatchSummary aggregates a batch run. Latency statistics are computed over
// per-query wall times; CoveredBases counts the distinct reference positions
// overlapped by at least one match.
type BatchSummary struct {
	RunID              string
	Queries            int
	Matched            int
	TotalHits          int
	CoveredBases       uint64
	Elapsed            time.Duration
	MeanQuerySeconds   float64
	StddevQuerySeconds float64
}

// String renders the one-line run summary.
func (s BatchSummary) String() string {
	return fmt.Sprintf("run=%s queries=%d matched=%d hits=%d covered=%d elapsed=%s mean_query_s=%.6g stddev_query_s=%.6g",
		s.RunID, s.Queries, s.Matched, s.TotalHits, s.CoveredBases, s.Elapsed, s.MeanQuerySeconds, s.StddevQuerySeconds)
}

// RunBatch answers every record's query, filling Results in place. Records
// are distributed across workers in contiguous chunks; queries only read the
// index, so the workers share it without synchronization. No ordering is
// guaranteed between queries; the records slice itself keeps input order for
// the caller.
func (sa *SuffixArray) RunBatch(records []QueryRecord, opts BatchOptions) BatchSummary {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}

	runID := uuid.New().String()
	log := refseek.GetLogger().With().Str("run_id", runID).Logger()
	log.Debug().
		Int("queries", len(records)).
		Int("workers", opts.Workers).
		Str("mode", opts.Mode.String()).
		Msg("starting batch query run")

	started := time.Now()
	durations := make([]float64, len(records))

	chunk := (len(records) + opts.Workers - 1) / opts.Workers
	var covers []*roaring.Bitmap
	p := pool.New().WithMaxGoroutines(opts.Workers)
	for start := 0; start < len(records); start += chunk {
		start := start
		end := min(start+chunk, len(records))
		cover := roaring.New()
		covers = append(covers, cover)
		p.Go(func() {
			for i := start; i < end; i++ {
				rec := &records[i]
				t0 := time.Now()
				rec.Results = sa.Occurrences(rec.Pattern, opts.Mode)
				durations[i] = time.Since(t0).Seconds()
				for _, pos := range rec.Results {
					cover.AddRange(uint64(pos), uint64(pos)+uint64(len(rec.Pattern)))
				}
			}
		})
	}
	p.Wait()

	coverage := roaring.New()
	for _, c := range covers {
		coverage.Or(c)
	}

	summary := BatchSummary{
		RunID:        runID,
		Queries:      len(records),
		CoveredBases: coverage.GetCardinality(),
		Elapsed:      time.Since(started),
	}
	for _, rec := range records {
		if len(rec.Results) > 0 {
			summary.Matched++
		}
		summary.TotalHits += len(rec.Results)
	}
	if len(durations) > 0 {
		summary.MeanQuerySeconds = stat.Mean(durations, nil)
	}
	if len(durations) > 1 {
		summary.StddevQuerySeconds = stat.StdDev(durations, nil)
	}

	log.Debug().
		Int("hits", summary.TotalHits).
		Uint64("covered_bases", summary.CoveredBases).
		Dur("elapsed", summary.Elapsed).
		Msg("batch query run finished")

	return summary
}

// WriteResults emits one line per record: title, count, then the positions
// in ascending order, tab-separated. Line order follows the records slice.
func WriteResults(w io.Writer, records []QueryRecord) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := fmt.Fprintf(bw, "%s\t%d", rec.Title, len(rec.Results)); err != nil {
			return err
		}
		for _, pos := range rec.Results {
			if _, err := fmt.Fprintf(bw, "\t%d", pos); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
