// Package dataset reads crawler exports into audit records.
//
// Two layouts are accepted: a JSON document holding an array of objects
// (".json"), and JSON Lines with one object per line (".jsonl", ".ndjson").
// Field presence is preserved, so rules can tell a missing metric from a zero.
package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/seoaudit/internal/model"
)

// Format is an input layout.
type Format string

const (
	// FormatJSON is a single JSON array of record objects.
	FormatJSON Format = "json"

	// FormatJSONLines is one JSON object per line. Blank lines are ignored.
	FormatJSONLines Format = "jsonl"
)

var (
	// ErrUnsupportedFormat is returned for file extensions we cannot read.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// ErrMissingURL is returned for a record without a url.
	ErrMissingURL = errors.New("record has no url")
)

// maxLineSize bounds a single JSON Lines record.
const maxLineSize = 16 * 1024 * 1024

// DetectFormat picks the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONLines, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// LoadFiles reads every file in order and concatenates the records.
// Errors name the file and, when relevant, the record index within it.
func LoadFiles(paths ...string) ([]model.Record, error) {
	var records []model.Record
	for _, path := range paths {
		recs, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// LoadFile reads one file.
func LoadFile(path string) ([]model.Record, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	records, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Decode reads records in the given format from r.
func Decode(r io.Reader, format Format) ([]model.Record, error) {
	switch format {
	case FormatJSON:
		return decodeArray(r)
	case FormatJSONLines:
		return decodeLines(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func decodeArray(r io.Reader) ([]model.Record, error) {
	var raws []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raws); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to decode record array: %w", err)
	}

	records := make([]model.Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeLines(r io.Reader) ([]model.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []model.Record
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		rec, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("record %d (line %d): %w", len(records), line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}
	return records, nil
}

func parse(data []byte) (model.Record, error) {
	rec, err := model.ParseRecord(data)
	if err != nil {
		return model.Record{}, err
	}
	if strings.TrimSpace(rec.URL) == "" {
		return model.Record{}, ErrMissingURL
	}
	return rec, nil
}
