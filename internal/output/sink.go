// Package output renders report tables. The default is an aligned text
// table; csv, json, and yaml are available for piping into other tools.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Sink receives a finished report.
type Sink interface {
	Render(header []string, rows [][]string) error
}

// Supported formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists every accepted --format value.
var Formats = []string{FormatTable, FormatCSV, FormatJSON, FormatYAML}

// New returns the sink for format writing to w.
func New(format string, w io.Writer) (Sink, error) {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return &tableSink{w: w}, nil
	case FormatCSV:
		return &csvSink{w: w}, nil
	case FormatJSON:
		return &jsonSink{w: w}, nil
	case FormatYAML:
		return &yamlSink{w: w}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (expected one of %s)", format, strings.Join(Formats, ", "))
	}
}

type tableSink struct {
	w io.Writer
}

func (s *tableSink) Render(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(s.w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

type csvSink struct {
	w io.Writer
}

func (s *csvSink) Render(header []string, rows [][]string) error {
	cw := csv.NewWriter(s.w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

type jsonSink struct {
	w io.Writer
}

func (s *jsonSink) Render(header []string, rows [][]string) error {
	records := make([]orderedRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, orderedRecord{keys: header, values: row})
	}

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// orderedRecord marshals as a JSON object whose keys keep header order.
type orderedRecord struct {
	keys   []string
	values []string
}

func (r orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(cell(r.values, i))
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type yamlSink struct {
	w io.Writer
}

func (s *yamlSink) Render(header []string, rows [][]string) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for i, key := range header {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: cell(row, i)},
			)
		}
		doc.Content = append(doc.Content, m)
	}

	enc := yaml.NewEncoder(s.w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// cell tolerates rows shorter than the header.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
