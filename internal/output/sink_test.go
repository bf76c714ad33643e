package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	testHeader = []string{"site_id", "blog_id", "plugin_name", "url"}
	testRows   = [][]string{
		{"1", "2", "akismet", "http://example.com/blog/"},
		{"1", "2", ".", "http://example.com/blog/"},
	}
)

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported format")
}

func TestNew_FormatIsCaseInsensitive(t *testing.T) {
	sink, err := New("JSON", &bytes.Buffer{})
	require.NoError(t, err)
	require.IsType(t, &jsonSink{}, sink)
}

func TestTableSink(t *testing.T) {
	var buf bytes.Buffer
	sink, err := New(FormatTable, &buf)
	require.NoError(t, err)
	require.NoError(t, sink.Render(testHeader, testRows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "site_id   blog_id   plugin_name   url"), "header line: %q", lines[0])
	require.Equal(t, strings.Index(lines[0], "url"), strings.Index(lines[1], "http://"), "url column is aligned")
}

func TestTableSink_EmptyRowsPrintsHeader(t *testing.T) {
	var buf bytes.Buffer
	sink, err := New(FormatTable, &buf)
	require.NoError(t, err)
	require.NoError(t, sink.Render([]string{"id", "domain", "path"}, nil))
	require.Equal(t, "id   domain   path\n", buf.String())
}

func TestCSVSink(t *testing.T) {
	var buf bytes.Buffer
	sink, err := New(FormatCSV, &buf)
	require.NoError(t, err)
	require.NoError(t, sink.Render(testHeader, testRows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, append([][]string{testHeader}, testRows...), records)
}

func TestJSONSink_KeepsHeaderOrder(t *testing.T) {
	var buf bytes.Buffer
	sink, err := New(FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, sink.Render(testHeader, testRows[:1]))

	compact := strings.Join(strings.Fields(buf.String()), "")
	require.Equal(t, `[{"site_id":"1","blog_id":"2","plugin_name":"akismet","url":"http://example.com/blog/"}]`, compact)
}

func TestJSONSink_EmptyRows(t *testing.T) {
	var buf bytes.Buffer
	sink, err := New(FormatJSON, &buf)
	require.NoError(t, err)
	require.NoError(t, sink.Render(testHeader, nil))
	require.Equal(t, "[]\n", buf.String())
}

func TestYAMLSink(t *testing.T) {
	var buf bytes.Buffer
	sink, err := New(FormatYAML, &buf)
	require.NoError(t, err)
	require.NoError(t, sink.Render(testHeader, testRows))

	var decoded []map[string]string
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "akismet", decoded[0]["plugin_name"])
	require.Equal(t, "1", decoded[0]["site_id"])
	require.Equal(t, ".", decoded[1]["plugin_name"])

	out := buf.String()
	require.Less(t, strings.Index(out, "site_id"), strings.Index(out, "url"), "keys keep header order")
}

func TestCell_ShortRow(t *testing.T) {
	if got := cell([]string{"a"}, 3); got != "" {
		t.Errorf("cell past end = %q, expected empty", got)
	}
}
