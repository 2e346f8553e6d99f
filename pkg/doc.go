// Package pkg provides the core libraries for collatzgraph.
//
// # Overview
//
// collatzgraph walks the generalized Collatz map v -> k*v + 1 backwards. For
// an odd node it computes the odd numbers that reach it in one odd step and
// expands these predecessors breadth-first into edge tables.
//
//  1. [predecessor] - Indexed odd predecessors and right siblings
//  2. [graph] - Edge tables: predecessor graphs, binary and pruned trees
//  3. [collatz] - Forward iteration and trajectories
//  4. [cycles] - Cycle search for the odd map
//  5. [pipeline] - Orchestration (build → render) with caching
//
// # Architecture
//
//	root node, k
//	     ↓
//	[predecessor] (closed form or multiplicative order)
//	     ↓
//	[graph] (breadth-first expansion into a Table)
//	     ↓
//	[io] / [render/nodelink] (CSV, JSON, DOT, SVG, PNG)
//
// # Quick Start
//
//	import (
//	    "math/big"
//	    "os"
//
//	    "github.com/matzehuels/collatzgraph/pkg/graph"
//	    graphio "github.com/matzehuels/collatzgraph/pkg/io"
//	)
//
//	t, _ := graph.Build(big.NewInt(1), 3, 3, 4)
//	_ = graphio.WriteCSV(t, os.Stdout, graphio.CSVOptions{Header: true})
//
// # Supporting Packages
//
//   - [arith]: Exact modular helpers over math/big
//   - [cache]: File and Redis caches for tables and artifacts
//   - [config]: TOML configuration file
//   - [errors]: Coded errors and argument validation
//   - [observability]: Pipeline and cache hooks with a Prometheus adapter
//   - [buildinfo]: Version information
package pkg
