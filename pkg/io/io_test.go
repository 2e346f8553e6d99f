package io

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/graph"
)

func sample(t *testing.T) *graph.Table {
	t.Helper()
	tb, err := graph.Build(big.NewInt(1), 3, 3, 2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return tb
}

func TestWriteCSV(t *testing.T) {
	tb, err := graph.Build(big.NewInt(1), 3, 3, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tests := []struct {
		name string
		opts CSVOptions
		want string
	}{
		{
			name: "plain",
			want: "1,1\n1,5\n1,21\n",
		},
		{
			name: "header and iteration",
			opts: CSVOptions{Header: true, Iteration: true},
			want: "iteration,successor,predecessor\n1,1,1\n1,1,5\n1,1,21\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteCSV(tb, &buf, tt.opts); err != nil {
				t.Fatalf("WriteCSV() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("WriteCSV() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONRoundTrip(t *testing.T) {
	tb := sample(t)

	data, err := MarshalJSON(tb)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	got, err := UnmarshalJSON(data)
	if err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}

	if got.Len() != tb.Len() {
		t.Fatalf("Len() = %d, want %d", got.Len(), tb.Len())
	}
	if got.Kind() != tb.Kind() || got.K() != tb.K() {
		t.Errorf("Kind/K = %s/%d, want %s/%d", got.Kind(), got.K(), tb.Kind(), tb.K())
	}
	if got.Stats() != tb.Stats() {
		t.Errorf("Stats() = %+v, want %+v", got.Stats(), tb.Stats())
	}
	want := tb.Edges()
	for i, e := range got.Edges() {
		if e.Iteration != want[i].Iteration || e.Successor.Cmp(want[i].Successor) != 0 || e.Predecessor.Cmp(want[i].Predecessor) != 0 {
			t.Errorf("edge %d = %+v, want %+v", i, e, want[i])
		}
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestJSONLargeIntegers(t *testing.T) {
	root, _ := new(big.Int).SetString("123456789012345678901234567890123456789", 10)
	tb, err := graph.Build(root, 5, 2, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	data, err := MarshalJSON(tb)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if !strings.Contains(string(data), `"123456789012345678901234567890123456789"`) {
		t.Error("root should be encoded as a decimal string")
	}
	got, err := UnmarshalJSON(data)
	if err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if got.Edges()[0].Successor.Cmp(root) != 0 {
		t.Errorf("Successor = %s, want %s", got.Edges()[0].Successor, root)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"kind":`},
		{"unknown kind", `{"kind":"spiral","k":3,"edges":[]}`},
		{"bad successor", `{"kind":"predecessor","k":3,"edges":[{"iteration":1,"successor":"x","predecessor":"1"}]}`},
		{"bad predecessor", `{"kind":"predecessor","k":3,"edges":[{"iteration":1,"successor":"1","predecessor":"1.5"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("ReadJSON() error = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestFileHelpers(t *testing.T) {
	dir := t.TempDir()
	tb := sample(t)

	jsonPath := filepath.Join(dir, "graph.json")
	if err := ExportJSON(tb, jsonPath); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}
	got, err := ImportJSON(jsonPath)
	if err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if got.Len() != tb.Len() {
		t.Errorf("Len() = %d, want %d", got.Len(), tb.Len())
	}

	csvPath := filepath.Join(dir, "graph.csv")
	if err := ExportCSV(tb, csvPath, CSVOptions{}); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if lines := strings.Count(string(data), "\n"); lines != tb.Len() {
		t.Errorf("CSV lines = %d, want %d", lines, tb.Len())
	}

	if _, err := ImportJSON(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("ImportJSON() on a missing file should fail")
	}
}
