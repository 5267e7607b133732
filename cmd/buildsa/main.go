package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dando18/refseek/refseek"
	"github.com/Dando18/refseek/refseek/config"
	"github.com/Dando18/refseek/refseek/fasta"
	"github.com/Dando18/refseek/refseek/index"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <reference-fasta> <output-index> [--preftab K]\n", os.Args[0])
}

func main() {
	log := refseek.GetLogger()

	var positional []string
	preftab := 0
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--preftab":
			if i+1 >= len(args) {
				usage()
				os.Exit(1)
			}
			i++
			k, err := strconv.Atoi(args[i])
			if err != nil || k < 0 {
				fmt.Fprintf(os.Stderr, "invalid --preftab value %q\n", args[i])
				os.Exit(1)
			}
			preftab = k
		case strings.HasPrefix(arg, "--preftab="):
			k, err := strconv.Atoi(strings.TrimPrefix(arg, "--preftab="))
			if err != nil || k < 0 {
				fmt.Fprintf(os.Stderr, "invalid --preftab value %q\n", arg)
				os.Exit(1)
			}
			preftab = k
		case strings.HasPrefix(arg, "--"):
			fmt.Fprintf(os.Stderr, "unknown flag %q\n", arg)
			usage()
			os.Exit(1)
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) != 2 {
		usage()
		os.Exit(1)
	}
	referencePath, outputPath := positional[0], positional[1]

	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		os.Exit(1)
	}

	started := time.Now()

	sequence, err := fasta.ReadSequence(referencePath)
	if err != nil {
		log.Error().Err(err).Str("path", referencePath).Msg("failed to read reference")
		os.Exit(1)
	}

	text := fasta.Normalize(sequence, cfg.Build.Workers)

	sa, err := index.Build(text, index.BuildOptions{
		PrefixTableLength: preftab,
		Workers:           cfg.Build.Workers,
		PrefixChunks:      cfg.Build.PrefixChunks,
	})
	if err != nil {
		log.Error().Err(err).Msg("index construction failed")
		os.Exit(1)
	}

	if err := sa.Save(outputPath); err != nil {
		log.Error().Err(err).Str("path", outputPath).Msg("failed to save index")
		os.Exit(1)
	}

	log.Info().
		Str("reference", referencePath).
		Str("output", outputPath).
		Int("preftab", preftab).
		Int("sequence_len", len(sequence)).
		Dur("elapsed", time.Since(started)).
		Msg("index built")
}
