// Package ioformats reads URL lists and writes batch results for the CLI.
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Input formats accepted by ReadURLs.
const (
	FormatCSV    = "csv"
	FormatNDJSON = "ndjson"
	FormatLines  = "lines"
)

// FormatForPath picks an input format from a file extension.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	default:
		return FormatLines
	}
}

// ReadURLs reads a URL list. CSV input uses the "url" or "link" column when
// a header names one, else the first column. NDJSON lines are either JSON
// strings or objects with "link" or "url". Line input has one URL per line;
// blank lines and lines starting with # are skipped.
func ReadURLs(r io.Reader, format string) ([]string, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatNDJSON:
		return readNDJSON(r)
	case FormatLines, "":
		return readLines(r)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

func readCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	col, start := 0, 0
	for i, h := range records[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "url", "link":
			col, start = i, 1
		}
		if start == 1 {
			break
		}
	}

	var urls []string
	for _, row := range records[start:] {
		if col < len(row) {
			urls = appendURL(urls, row[col])
		}
	}
	return urls, nil
}

func readNDJSON(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var urls []string
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var s string
		if err := json.Unmarshal([]byte(line), &s); err == nil {
			urls = appendURL(urls, s)
			continue
		}
		var obj struct {
			Link string `json:"link"`
			URL  string `json:"url"`
		}
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			return nil, fmt.Errorf("ndjson line %d: %w", n, err)
		}
		if obj.Link == "" && obj.URL == "" {
			return nil, fmt.Errorf("ndjson line %d: %w", n, errNoURL)
		}
		urls = appendURL(urls, obj.Link+obj.URL)
	}
	return urls, scanner.Err()
}

var errNoURL = errors.New(`object has no "link" or "url"`)

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		urls = appendURL(urls, line)
	}
	return urls, scanner.Err()
}

func appendURL(urls []string, u string) []string {
	if u = strings.TrimSpace(u); u != "" {
		urls = append(urls, u)
	}
	return urls
}
