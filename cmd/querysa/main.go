package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Dando18/refseek/refseek"
	"github.com/Dando18/refseek/refseek/config"
	"github.com/Dando18/refseek/refseek/fasta"
	"github.com/Dando18/refseek/refseek/index"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <index> <queries-fasta> <naive|simpleaccel> <output-or-'+'>\n", os.Args[0])
}

func main() {
	log := refseek.GetLogger()

	if len(os.Args) != 5 {
		usage()
		os.Exit(1)
	}
	indexPath, queriesPath, modeArg, outputPath := os.Args[1], os.Args[2], os.Args[3], os.Args[4]

	mode, err := index.ParseMode(modeArg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	sa, err := index.Load(indexPath)
	if err != nil {
		log.Error().Err(err).Str("path", indexPath).Msg("failed to load index")
		os.Exit(1)
	}

	queries, err := fasta.ReadRecords(queriesPath)
	if err != nil {
		log.Error().Err(err).Str("path", queriesPath).Msg("failed to read queries")
		os.Exit(1)
	}

	records := make([]index.QueryRecord, len(queries))
	for i, q := range queries {
		// Queries are upper-cased but never substituted; a pattern with
		// non-DNA bytes simply fails to match.
		records[i] = index.QueryRecord{Title: q.Title, Pattern: strings.ToUpper(q.Sequence)}
	}

	summary := sa.RunBatch(records, index.BatchOptions{Mode: mode, Workers: cfg.Query.Workers})

	if outputPath != "+" {
		f, err := os.Create(outputPath)
		if err != nil {
			log.Error().Err(err).Str("path", outputPath).Msg("failed to open output file")
			os.Exit(1)
		}
		if err := index.WriteResults(f, records); err != nil {
			f.Close()
			log.Error().Err(err).Msg("failed to write results")
			os.Exit(1)
		}
		if err := f.Close(); err != nil {
			log.Error().Err(err).Msg("failed to write results")
			os.Exit(1)
		}
	}

	fmt.Println(summary.String())
}
