package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/graph"
)

// ReadJSON decodes a JSON edge table from r.
//
// The input must be an object with a "kind", a "k" and an "edges" array of
// {"iteration", "successor", "predecessor"} objects, with the endpoints as
// decimal strings. Duplicate edges are dropped as [graph.Table.Add] does.
//
// ReadJSON returns an INVALID_FORMAT error if the JSON is malformed, the
// kind is unknown or an endpoint is not a decimal integer. It does not check
// the edges against the forward map; call [graph.Table.Validate] for that.
func ReadJSON(r io.Reader) (*graph.Table, error) {
	var data table
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
	}

	switch data.Kind {
	case graph.KindPredecessor, graph.KindBinary, graph.KindPruned:
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown table kind %q", data.Kind)
	}

	edges := make([]graph.Edge, len(data.Edges))
	for i, e := range data.Edges {
		succ, ok := new(big.Int).SetString(e.Successor, 10)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d: bad successor %q", i, e.Successor)
		}
		pred, ok := new(big.Int).SetString(e.Predecessor, 10)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "edge %d: bad predecessor %q", i, e.Predecessor)
		}
		edges[i] = graph.Edge{Iteration: e.Iteration, Successor: succ, Predecessor: pred}
	}

	t := graph.FromEdges(data.Kind, data.K, data.Reversed, edges)
	t.SetStats(data.Stats)
	return t, nil
}

// UnmarshalJSON decodes a JSON edge table from data.
func UnmarshalJSON(data []byte) (*graph.Table, error) {
	return ReadJSON(bytes.NewReader(data))
}

// ImportJSON reads a JSON file at path and returns the decoded table.
func ImportJSON(path string) (*graph.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
