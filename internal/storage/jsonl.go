package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// DecodeJSONL reads one JSON value per line from r and hands each to fn
// with its 1-based line number. Empty lines are skipped. Decoding stops at
// the first error from the reader, the decoder, or fn.
func DecodeJSONL[T any](r io.Reader, fn func(lineNum int, v T) error) error {
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			return fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		if err := fn(lineNum, v); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// ReadJSONLFile reads all values from a JSONL file. A missing file yields
// an empty slice.
func ReadJSONLFile[T any](path string) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var items []T
	err = DecodeJSONL(f, func(_ int, v T) error {
		items = append(items, v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return items, nil
}

// WriteJSONL writes one JSON value per line to w.
func WriteJSONL[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for i, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encoding item %d: %w", i, err)
		}
	}
	return nil
}
