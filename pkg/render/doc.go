// Package render groups the diagram renderers for collatzgraph tables.
//
// The [nodelink] subpackage draws a table as a directed node-link diagram
// using Graphviz: every node is a rounded box labelled with its value.
// Predecessor graphs point from predecessor to successor; binary and pruned
// trees point from parent to child with sibling edges dashed.
//
//	dot := nodelink.ToDOT(t, nodelink.Options{Ranks: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// SVG and PNG output are produced in-process by go-graphviz, so no external
// Graphviz installation is needed.
package render
