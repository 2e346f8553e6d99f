// Package nodelink renders edge tables as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// each odd value is a box and edges are arrows. Predecessor graphs point
// along the forward map, so every arrow ends at the value its source
// reaches next, and the root sits at the bottom. Binary and pruned trees
// are drawn top-down from parent to child.
//
// # Usage
//
// Convert a table to DOT format, then render to SVG or PNG:
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Ranks: true})
//	svg, err := nodelink.RenderSVG(dot)
//	png, err := nodelink.RenderPNG(dot)
//
// # Options
//
//   - Detailed: label each node with its binary representation as well
//   - Ranks: align nodes first reached in the same iteration
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering;
// no external Graphviz installation is needed.
package nodelink
