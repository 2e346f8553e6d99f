package graph_test

import (
	"fmt"
	"math/big"

	"github.com/matzehuels/collatzgraph/pkg/graph"
)

func ExampleBuild() {
	t, err := graph.Build(big.NewInt(1), 3, 5, 1)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, e := range t.Edges() {
		fmt.Printf("%d: %s <- %s\n", e.Iteration, e.Successor, e.Predecessor)
	}
	// Output:
	// 1: 1 <- 1
	// 1: 1 <- 5
	// 1: 1 <- 21
	// 1: 1 <- 85
	// 1: 1 <- 341
}

func ExampleReverse() {
	t, _ := graph.Build(big.NewInt(5), 3, 2, 1)
	for _, e := range graph.Reverse(t).Edges() {
		fmt.Printf("%s -> %s\n", e.Successor, e.Predecessor)
	}
	// Output:
	// 3 -> 5
	// 13 -> 5
}

func ExampleBinaryPredecessors() {
	for _, n := range []int64{1, 5, 3} {
		cs, _ := graph.BinaryPredecessors(big.NewInt(n))
		fmt.Println(n, cs)
	}
	// Output:
	// 1 [5 1]
	// 5 [85 13]
	// 3 []
}

func ExampleBuildPrunedTree() {
	t, _ := graph.BuildPrunedTree(2, 2)
	fmt.Println("edges:", t.Len())
	for _, e := range t.Edges() {
		fmt.Printf("%d: %s -> %s\n", e.Iteration, e.Successor, e.Predecessor)
	}
	// Output:
	// edges: 3
	// 1: 1 -> 85
	// 2: 85 -> 17
	// 2: 85 -> 113
}
