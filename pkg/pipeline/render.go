package pipeline

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/graph"
	graphio "github.com/matzehuels/collatzgraph/pkg/io"
	"github.com/matzehuels/collatzgraph/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats.
func Render(t *graph.Table, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	dotFor := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(t, nodelink.Options{Detailed: opts.Detailed, Ranks: opts.Ranks})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatCSV:
			var buf bytes.Buffer
			err = graphio.WriteCSV(t, &buf, graphio.CSVOptions{
				Header:    opts.CSVHeader,
				Iteration: opts.CSVIteration,
			})
			data = buf.Bytes()
		case FormatJSON:
			data, err = graphio.MarshalJSON(t)
		case FormatDOT:
			data = []byte(dotFor())
		case FormatSVG:
			data, err = nodelink.RenderSVG(dotFor())
		case FormatPNG:
			data, err = nodelink.RenderPNG(dotFor())
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
