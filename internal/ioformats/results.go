package ioformats

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vindo333/extractor/internal/pipeline"
)

// Output formats accepted by WriteResult.
const (
	OutputJSON   = "json"
	OutputNDJSON = "ndjson"
)

// CheckOutputFormat reports whether WriteResult accepts format.
func CheckOutputFormat(format string) error {
	switch format {
	case OutputJSON, OutputNDJSON, "":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json or ndjson)", format)
	}
}

// WriteResult writes a batch result in the named format.
func WriteResult(w io.Writer, result pipeline.BatchResult, format string) error {
	if err := CheckOutputFormat(format); err != nil {
		return err
	}
	if format == OutputNDJSON {
		return WriteNDJSON(w, result)
	}
	return WriteJSON(w, result)
}

// WriteResultFile creates path and writes the batch result to it. The file's
// close error is returned when the write itself succeeded.
func WriteResultFile(path string, result pipeline.BatchResult, format string) (err error) {
	if err := CheckOutputFormat(format); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	return WriteResult(f, result, format)
}

// WriteJSON writes the whole batch result as one indented document.
func WriteJSON(w io.Writer, result pipeline.BatchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// WriteNDJSON writes one record per line followed by a final stats line.
func WriteNDJSON(w io.Writer, result pipeline.BatchResult) error {
	enc := json.NewEncoder(w)
	for _, rec := range result.Results {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return enc.Encode(map[string]any{"stats": result.Stats})
}
