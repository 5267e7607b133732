package fasta

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is a single FASTA record: the header line (without the leading '>')
// and the concatenated sequence body.
type Record struct {
	Title    string
	Sequence string
}

// ReadSequence concatenates the bodies of every record in the file into one
// byte string, discarding headers. This is the reference-side reader: multiple
// records are effectively joined in file order.
func ReadSequence(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open FASTA file %s: %w", path, err)
	}
	defer f.Close()
	return readSequence(f)
}

func readSequence(r io.Reader) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<24)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, ">") {
			continue
		}
		sb.WriteString(strings.TrimSpace(line))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read FASTA stream: %w", err)
	}
	return sb.String(), nil
}

// ReadRecords parses every record in the file, keeping titles. This is the
// query-side reader: each record becomes one query.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA file %s: %w", path, err)
	}
	defer f.Close()
	return readRecords(f)
}

func readRecords(r io.Reader) ([]Record, error) {
	var records []Record
	var current *Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<24)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			if current != nil {
				records = append(records, *current)
			}
			current = &Record{Title: strings.TrimPrefix(line, ">")}
		} else if current != nil {
			current.Sequence += line
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read FASTA stream: %w", err)
	}
	if current != nil {
		records = append(records, *current)
	}
	return records, nil
}
