package io

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/collatzgraph/pkg/graph"
)

// table is the JSON document for an edge table. Integers are encoded as
// decimal strings so values beyond 64 bits survive any JSON reader.
type table struct {
	Kind     graph.Kind  `json:"kind"`
	K        int64       `json:"k"`
	Reversed bool        `json:"reversed,omitempty"`
	Stats    graph.Stats `json:"stats"`
	Edges    []edge      `json:"edges"`
}

type edge struct {
	Iteration   int    `json:"iteration"`
	Successor   string `json:"successor"`
	Predecessor string `json:"predecessor"`
}

// CSVOptions controls the CSV layout.
type CSVOptions struct {
	// Header writes a header row.
	Header bool
	// Iteration adds the iteration label as the first column.
	Iteration bool
}

// WriteCSV writes t as successor,predecessor rows in table order.
func WriteCSV(t *graph.Table, w io.Writer, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	if opts.Header {
		header := []string{"successor", "predecessor"}
		if opts.Iteration {
			header = append([]string{"iteration"}, header...)
		}
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, e := range t.Edges() {
		row := []string{e.Successor.String(), e.Predecessor.String()}
		if opts.Iteration {
			row = append([]string{strconv.Itoa(e.Iteration)}, row...)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV writes t to a CSV file at path.
func ExportCSV(t *graph.Table, path string, opts CSVOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteCSV(t, f, opts)
}

// WriteJSON encodes t as JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(t *graph.Table, w io.Writer) error {
	out := table{
		Kind:     t.Kind(),
		K:        t.K(),
		Reversed: t.Reversed(),
		Stats:    t.Stats(),
		Edges:    make([]edge, 0, t.Len()),
	}
	for _, e := range t.Edges() {
		out.Edges = append(out.Edges, edge{
			Iteration:   e.Iteration,
			Successor:   e.Successor.String(),
			Predecessor: e.Predecessor.String(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the JSON encoding of t.
func MarshalJSON(t *graph.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes t to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(t *graph.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(t, f)
}
