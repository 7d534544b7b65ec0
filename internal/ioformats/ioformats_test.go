package ioformats

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vindo333/extractor/internal/pipeline"
)

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatForPath("urls.CSV"))
	assert.Equal(t, FormatNDJSON, FormatForPath("a/urls.ndjson"))
	assert.Equal(t, FormatNDJSON, FormatForPath("urls.jsonl"))
	assert.Equal(t, FormatLines, FormatForPath("urls.txt"))
	assert.Equal(t, FormatLines, FormatForPath("-"))
}

func TestReadURLs(t *testing.T) {
	tests := []struct {
		name   string
		format string
		in     string
		want   []string
	}{
		{"csv with url header", FormatCSV, "title,url\nHome,https://a.test\nBlank,\nShop, https://b.test\n", []string{"https://a.test", "https://b.test"}},
		{"csv with link header", FormatCSV, "link\nhttps://a.test\n", []string{"https://a.test"}},
		{"csv headerless", FormatCSV, "https://a.test,x\nhttps://b.test\n", []string{"https://a.test", "https://b.test"}},
		{"csv empty", FormatCSV, "", nil},
		{"ndjson mixed", FormatNDJSON, "\"https://a.test\"\n\n{\"link\":\"https://b.test\",\"selected\":true}\n{\"url\":\"https://c.test\"}\n", []string{"https://a.test", "https://b.test", "https://c.test"}},
		{"lines", FormatLines, "# comment\nhttps://a.test\n\n  https://b.test  \n", []string{"https://a.test", "https://b.test"}},
		{"default lines", "", "https://a.test", []string{"https://a.test"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadURLs(strings.NewReader(tt.in), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadURLs_Errors(t *testing.T) {
	_, err := ReadURLs(strings.NewReader("{not json}\n"), FormatNDJSON)
	assert.ErrorContains(t, err, "ndjson line 1")

	_, err = ReadURLs(strings.NewReader("\"ok\"\n{\"name\":\"x\"}\n"), FormatNDJSON)
	assert.ErrorContains(t, err, "ndjson line 2")

	_, err = ReadURLs(strings.NewReader("a,\"b\n"), FormatCSV)
	assert.Error(t, err)

	_, err = ReadURLs(strings.NewReader(""), "xml")
	assert.Error(t, err)
}

func sampleResult() pipeline.BatchResult {
	return pipeline.BatchResult{
		Success: true,
		Results: []pipeline.ExtractionRecord{
			{URL: "https://a.test", MainContent: "hi", Success: true},
			{URL: "https://b.test", Error: "No meaningful content found"},
		},
		Stats: pipeline.BatchStats{
			TotalURLs:             2,
			SuccessfulExtractions: 1,
			FailedExtractions:     1,
			CompletionTime:        time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteNDJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, sampleResult(), OutputNDJSON))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.JSONEq(t, `{"url":"https://a.test","mainContent":"hi","headings":[],"triples":[],"structuredData":[],"success":true}`, lines[0])
	assert.JSONEq(t, `{"url":"https://b.test","success":false,"error":"No meaningful content found"}`, lines[1])
	assert.JSONEq(t, `{"stats":{"totalUrls":2,"successfulExtractions":1,"failedExtractions":1,"completionTime":"2024-05-01T12:00:00Z"}}`, lines[2])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, sampleResult(), ""))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Len(t, decoded["results"], 2)
	assert.Contains(t, buf.String(), "\n  \"results\"")

	assert.Error(t, WriteResult(&buf, sampleResult(), "yaml"))
}

func TestCheckOutputFormat(t *testing.T) {
	for _, format := range []string{"", OutputJSON, OutputNDJSON} {
		assert.NoError(t, CheckOutputFormat(format), format)
	}
	assert.ErrorContains(t, CheckOutputFormat("ndjosn"), `"ndjosn"`)
}

func TestWriteResultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ndjson")
	require.NoError(t, WriteResultFile(path, sampleResult(), OutputNDJSON))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 3)

	bad := filepath.Join(t.TempDir(), "bad.json")
	assert.Error(t, WriteResultFile(bad, sampleResult(), "yaml"))
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err), "no file is created for an unknown format")

	assert.Error(t, WriteResultFile(filepath.Join(t.TempDir(), "missing", "out.json"), sampleResult(), OutputJSON))
}
