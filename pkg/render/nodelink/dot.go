package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/collatzgraph/pkg/collatz"
	"github.com/matzehuels/collatzgraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the binary representation of each value to its label.
	Detailed bool
	// Ranks places the nodes first reached in the same iteration on one rank.
	Ranks bool
}

// ToDOT converts an edge table to Graphviz DOT format.
//
// Predecessor tables are drawn in the direction of the forward map, from
// predecessor to successor. Binary and pruned trees are drawn from parent
// to child, with sibling (right) edges dashed. Nodes the expansion started
// from are filled.
func ToDOT(t *graph.Table, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	rankdir := "BT"
	if t.Kind() != graph.KindPredecessor {
		rankdir = "TB"
	}
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	edges := t.Edges()
	roots := make(map[string]bool)
	if len(edges) > 0 {
		roots[edges[0].Successor.String()] = true
	}
	for _, n := range t.Nodes() {
		id := n.String()
		label := id
		if opts.Detailed {
			label = id + "\n" + collatz.Binary(n)
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if roots[id] {
			attrs = append(attrs, "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	if opts.Ranks {
		writeRanks(&buf, t)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		from, to := e.Predecessor.String(), e.Successor.String()
		if t.Kind() != graph.KindPredecessor {
			from, to = to, from
		}
		if isSiblingEdge(t, e) {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed];\n", from, to)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeRanks groups nodes by the iteration in which they first appear as a
// predecessor.
func writeRanks(buf *bytes.Buffer, t *graph.Table) {
	placed := make(map[string]bool)
	for _, it := range t.Iterations() {
		var ids []string
		for _, e := range t.EdgesInIteration(it) {
			id := e.Predecessor.String()
			if !placed[id] {
				placed[id] = true
				ids = append(ids, strconv.Quote(id))
			}
		}
		if len(ids) > 0 {
			fmt.Fprintf(buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}
}

// isSiblingEdge reports whether a tree edge links a node to a sibling
// rather than to one of its predecessors.
func isSiblingEdge(t *graph.Table, e graph.Edge) bool {
	if t.Kind() == graph.KindPredecessor {
		return false
	}
	next, err := collatz.NextOdd(e.Predecessor, t.K())
	return err == nil && next.Cmp(e.Successor) != 0
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	out, err := renderDOT(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderDOT(dot, graphviz.PNG)
}

func renderDOT(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
