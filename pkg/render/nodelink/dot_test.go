package nodelink

import (
	"math/big"
	"strings"
	"testing"

	"github.com/matzehuels/collatzgraph/pkg/graph"
)

func TestToDOT_Predecessor(t *testing.T) {
	tb, err := graph.Build(big.NewInt(1), 3, 2, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	dot := ToDOT(tb, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "rankdir=BT") {
		t.Error("ToDOT() predecessor graph should be drawn bottom-up")
	}
	if !strings.Contains(dot, `"5" -> "1";`) {
		t.Error("ToDOT() output missing edge 5 -> 1")
	}
	if !strings.Contains(dot, `"1" [label="1", fillcolor=lightblue]`) {
		t.Error("ToDOT() root should be highlighted")
	}
	if strings.Contains(dot, "dashed") {
		t.Error("ToDOT() predecessor graph should have no sibling edges")
	}
}

func TestToDOT_BinarySiblingEdges(t *testing.T) {
	tb, err := graph.BuildBinaryTree(big.NewInt(5), 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	dot := ToDOT(tb, Options{})

	if !strings.Contains(dot, `"5" -> "85" [style=dashed];`) {
		t.Error("ToDOT() sibling edge should be dashed")
	}
	if !strings.Contains(dot, `"5" -> "13";`) {
		t.Error("ToDOT() output missing left edge 5 -> 13")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	tb, err := graph.Build(big.NewInt(5), 3, 1, 1)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	dot := ToDOT(tb, Options{Detailed: true})

	if !strings.Contains(dot, `label="5\n101"`) {
		t.Error("ToDOT() detailed output missing binary representation")
	}
}

func TestToDOT_Ranks(t *testing.T) {
	tb, err := graph.Build(big.NewInt(1), 3, 2, 2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	dot := ToDOT(tb, Options{Ranks: true})

	if !strings.Contains(dot, `{ rank=same; "1"; "5"; }`) {
		t.Errorf("ToDOT() missing first rank:\n%s", dot)
	}
	if !strings.Contains(dot, `{ rank=same; "3"; "13"; }`) {
		t.Errorf("ToDOT() missing second rank:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 10.00 20.00" width="10" height="20"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox = %s, want unchanged", got)
	}
}
