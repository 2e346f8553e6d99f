package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/matzehuels/collatzgraph/pkg/observability"
	"github.com/matzehuels/collatzgraph/pkg/pipeline"
)

// runCLI executes the root command with args in an isolated environment and
// returns what the command wrote to stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return execCLI(t, args...)
}

// execCLI is runCLI without the environment isolation, for tests that set
// the XDG directories themselves.
func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	oldStatus := statusOut
	statusOut = io.Discard
	t.Cleanup(func() { statusOut = oldStatus })
	t.Cleanup(observability.Reset)

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	sort.Strings(got)

	for _, want := range []string{"binary", "cache", "completion", "cycles", "explore", "graph", "predecessor", "pruned", "sequence", "sibling"} {
		i := sort.SearchStrings(got, want)
		if i >= len(got) || got[i] != want {
			t.Errorf("missing subcommand %q in %v", want, got)
		}
	}
}

func TestParseFormats(t *testing.T) {
	fallback := []string{"csv"}
	tests := []struct {
		in   string
		want []string
	}{
		{"", fallback},
		{"svg", []string{"svg"}},
		{"CSV, json ,dot", []string{"csv", "json", "dot"}},
		{"png,,", []string{"png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in, fallback); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"fallback", "", []string{"csv", "svg"}, map[string]string{"csv": "base.csv", "svg": "base.svg"}},
		{"single verbatim", "out/tree.txt", []string{"csv"}, map[string]string{"csv": "out/tree.txt"}},
		{"base path", "out/tree", []string{"csv", "json"}, map[string]string{"csv": "out/tree.csv", "json": "out/tree.json"}},
		{"strip known ext", "tree.svg", []string{"svg", "png"}, map[string]string{"svg": "tree.svg", "png": "tree.png"}},
		{"keep unknown ext", "tree.v2", []string{"csv", "dot"}, map[string]string{"csv": "tree.v2.csv", "dot": "tree.v2.dot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPaths(tt.output, "base", tt.formats); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputPaths() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultBase(t *testing.T) {
	tests := []struct {
		opts pipeline.Options
		want string
	}{
		{pipeline.Options{Mode: pipeline.ModeGraph, Root: "7", K: 5, PredecessorCount: 2, IterationCount: 4}, "collatz_graph_k5_r7_p2_i4"},
		{pipeline.Options{Mode: pipeline.ModeBinary, Root: "1", IterationCount: 3}, "collatz_binary_r1_i3"},
		{pipeline.Options{Mode: pipeline.ModePruned, Pruning: 2, IterationCount: 5}, "collatz_pruned_p2_i5"},
	}
	for _, tt := range tests {
		if got := defaultBase(tt.opts); got != tt.want {
			t.Errorf("defaultBase(%s) = %q, want %q", tt.opts.Mode, got, tt.want)
		}
	}
}

func TestShortRoot(t *testing.T) {
	if got := shortRoot("12345"); got != "12345" {
		t.Errorf("shortRoot(short) = %q", got)
	}
	long := "123456789012345678901"
	if got := shortRoot(long); got != "12345678_45678901" {
		t.Errorf("shortRoot(long) = %q", got)
	}
}

func TestGraphCommandStdout(t *testing.T) {
	out, err := runCLI(t, "graph", "--root", "1", "-k", "3", "-p", "3", "-i", "1", "--no-cache")
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if want := "1,1\n1,5\n1,21\n"; out != want {
		t.Errorf("graph output = %q, want %q", out, want)
	}
}

func TestGraphCommandReverseHeader(t *testing.T) {
	out, err := runCLI(t, "graph", "-i", "1", "-p", "2", "--reverse", "--header", "--no-cache")
	if err != nil {
		t.Fatalf("graph --reverse: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 edges: %q", len(lines), out)
	}
	if lines[2] != "5,1" {
		t.Errorf("reversed edge = %q, want %q", lines[2], "5,1")
	}
}

func TestGraphCommandWritesFiles(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "tree")
	for range 2 {
		if _, err := runCLI(t, "binary", "-i", "2", "-f", "csv,json,dot", "-o", base); err != nil {
			t.Fatalf("binary: %v", err)
		}
	}
	for _, ext := range []string{".csv", ".json", ".dot"} {
		info, err := os.Stat(base + ext)
		if err != nil {
			t.Errorf("missing %s: %v", ext, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", ext)
		}
	}
}

func TestBuildCommandInvalidFormat(t *testing.T) {
	if _, err := runCLI(t, "pruned", "-f", "pdf", "--no-cache"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestPredecessorCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"indices", []string{"predecessor", "5", "-n", "3", "--plain"}, "3\n13\n53\n"},
		{"start", []string{"predecessor", "5", "--start", "1", "--plain"}, "13\n"},
		{"leaf", []string{"predecessor", "3", "--plain"}, "leaf\n"},
		{"generalised", []string{"predecessor", "13", "-k", "5", "-n", "2", "--generalised", "--plain"}, "5\n83\n"},
		{"sibling", []string{"sibling", "1", "-n", "2", "--plain"}, "5\n21\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.args...)
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			if out != tt.want {
				t.Errorf("output = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestPredecessorCommandTable(t *testing.T) {
	out, err := runCLI(t, "predecessor", "5", "-n", "2", "--binary")
	if err != nil {
		t.Fatalf("predecessor: %v", err)
	}
	for _, want := range []string{"Index", "Outcome", "found", "13", "1101"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestPredecessorCommandRejectsEven(t *testing.T) {
	if _, err := runCLI(t, "predecessor", "4"); err == nil {
		t.Error("expected error for even node")
	}
}

func TestSequenceCommandCapsSteps(t *testing.T) {
	// 7 keeps growing under 5x+1; the default cap keeps the command finite.
	out, err := runCLI(t, "sequence", "7", "-k", "5")
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if n := strings.Count(out, "\n"); n != defaultSequenceSteps+1 {
		t.Errorf("sequence printed %d values, want %d", n, defaultSequenceSteps+1)
	}

	out, err = runCLI(t, "sequence", "27", "--max", "0")
	if err != nil {
		t.Fatalf("sequence --max 0: %v", err)
	}
	if out != "27\n" {
		t.Errorf("sequence --max 0 = %q, want %q", out, "27\n")
	}
}

func TestSequenceCommand(t *testing.T) {
	out, err := runCLI(t, "sequence", "6")
	if err != nil {
		t.Fatalf("sequence: %v", err)
	}
	if want := "6\n3\n10\n5\n16\n8\n4\n2\n1\n"; out != want {
		t.Errorf("sequence = %q, want %q", out, want)
	}

	out, err = runCLI(t, "sequence", "7", "--odd")
	if err != nil {
		t.Fatalf("sequence --odd: %v", err)
	}
	if want := "7\n11\n17\n13\n5\n1\n"; out != want {
		t.Errorf("odd sequence = %q, want %q", out, want)
	}
}

func TestCyclesCommand(t *testing.T) {
	out, err := runCLI(t, "cycles", "-k", "5", "--length", "3", "--max", "100")
	if err != nil {
		t.Fatalf("cycles: %v", err)
	}
	for _, want := range []string{"13 → 33 → 83 → 13", "17 → 43 → 27 → 17"} {
		if !strings.Contains(out, want) {
			t.Errorf("cycles output missing %q:\n%s", want, out)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	out, err := runCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); filepath.Base(got) != appName {
		t.Errorf("cache path = %q, want a %s directory", got, appName)
	}
}

func TestCachePathFollowsXDG(t *testing.T) {
	cacheHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	out, err := execCLI(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got, want := strings.TrimSpace(out), filepath.Join(cacheHome, "collatzgraph"); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCachePathFromConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tables")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", path, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want configured %q", got, dir)
	}
}

func TestConfigFromXDGConfigHome(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := filepath.Join(configHome, "collatzgraph")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[graph]\nk = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// No --config: the file under XDG_CONFIG_HOME is picked up.
	out, err := execCLI(t, "predecessor", "13", "--plain")
	if err != nil {
		t.Fatalf("predecessor: %v", err)
	}
	if out != "5\n" {
		t.Errorf("output = %q, want k=5 predecessor %q", out, "5\n")
	}
}

func TestCacheClearCommand(t *testing.T) {
	if _, err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear on empty cache: %v", err)
	}
}

func TestCountFiles(t *testing.T) {
	dir := t.TempDir()
	if n, err := countFiles(filepath.Join(dir, "missing")); err != nil || n != 0 {
		t.Errorf("countFiles(missing) = %d, %v", n, err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "ab"), 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a", "ab/b", "ab/c"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if n, err := countFiles(dir); err != nil || n != 3 {
		t.Errorf("countFiles() = %d, %v, want 3", n, err)
	}
}

func TestConfigFileDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[graph]\nk = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "--config", path, "predecessor", "13", "--plain")
	if err != nil {
		t.Fatalf("predecessor with config: %v", err)
	}
	if out != "5\n" {
		t.Errorf("output = %q, want k=5 predecessor %q", out, "5\n")
	}
}

func TestMetricsOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.prom")
	if _, err := runCLI(t, "--metrics-out", path, "graph", "-i", "1", "--no-cache"); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	if !strings.Contains(string(data), "collatzgraph_builds_total") {
		t.Errorf("metrics missing build counter:\n%s", data)
	}
}
