package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/collatzgraph/pkg/pipeline"
)

// buildOpts holds the command-line flags shared by graph, binary and pruned.
type buildOpts struct {
	root          string // root node (decimal)
	k             int64  // multiplier of the map kn+1
	predecessors  int    // predecessor indices per node
	iterations    int    // breadth-first rounds
	pruning       int    // pruning level (pruned only)
	maxOrder      int    // multiplicative order search bound
	reverse       bool   // swap successor and predecessor columns
	formats       string // comma-separated output formats
	output        string // output file, or base path for several formats
	detailed      bool   // add binary representations to diagram labels
	ranks         bool   // align nodes by iteration in diagrams
	header        bool   // CSV header row
	withIteration bool   // CSV iteration column
	noCache       bool
	refresh       bool
}

// graphCommand creates the predecessor graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := buildOpts{
		root:         pipeline.DefaultRoot,
		k:            pipeline.DefaultK,
		predecessors: pipeline.DefaultPredecessorCount,
		iterations:   pipeline.DefaultIterationCount,
	}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the odd predecessor graph of a root under kn+1",
		Example: `  collatzgraph graph --root 1 -k 3 --predecessors 3 --iterations 4
  collatzgraph graph -k 5 -f csv,svg -o graph
  collatzgraph graph --reverse --header`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfigDefaults(cmd, &opts)
			mode := pipeline.ModeGraph
			if opts.reverse {
				mode = pipeline.ModeReverse
			}
			return c.runBuild(cmd, mode, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.root, "root", "r", opts.root, "root node (positive odd integer)")
	cmd.Flags().Int64VarP(&opts.k, "k", "k", opts.k, "odd multiplier of the map kn+1")
	cmd.Flags().IntVarP(&opts.predecessors, "predecessors", "p", opts.predecessors, "predecessor indices tried per node")
	cmd.Flags().IntVar(&opts.maxOrder, "max-order", 0, "multiplicative order search bound for unsupported k")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "swap successor and predecessor in every edge")
	c.addCommonBuildFlags(cmd, &opts)
	return cmd
}

// binaryCommand creates the k=3 binary tree command.
func (c *CLI) binaryCommand() *cobra.Command {
	opts := buildOpts{
		root:       pipeline.DefaultRoot,
		iterations: pipeline.DefaultIterationCount,
	}

	cmd := &cobra.Command{
		Use:   "binary",
		Short: "Build the k=3 binary tree (sibling and left child of every node)",
		Example: `  collatzgraph binary --root 1 --iterations 5
  collatzgraph binary -f dot --ranks | dot -Tsvg > tree.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfigDefaults(cmd, &opts)
			return c.runBuild(cmd, pipeline.ModeBinary, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.root, "root", "r", opts.root, "root node (positive odd integer)")
	c.addCommonBuildFlags(cmd, &opts)
	return cmd
}

// prunedCommand creates the pruned binary tree command.
func (c *CLI) prunedCommand() *cobra.Command {
	opts := buildOpts{
		pruning:    pipeline.DefaultPruning,
		iterations: pipeline.DefaultIterationCount,
	}

	cmd := &cobra.Command{
		Use:   "pruned",
		Short: "Build the pruned k=3 binary tree of a given level",
		Long: `Build the pruned binary tree of level p.

The tree starts at the p-th right sibling of 1 (1, 5, 85, 341, ...) and
expands every node into a right and a left child that skip p levels of the
plain binary tree.`,
		Example: `  collatzgraph pruned --level 2 --iterations 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.applyConfigDefaults(cmd, &opts)
			return c.runBuild(cmd, pipeline.ModePruned, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.pruning, "level", "l", opts.pruning, "pruning level p (0 or more)")
	c.addCommonBuildFlags(cmd, &opts)
	return cmd
}

func (c *CLI) addCommonBuildFlags(cmd *cobra.Command, opts *buildOpts) {
	cmd.Flags().IntVarP(&opts.iterations, "iterations", "i", opts.iterations, "breadth-first rounds")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): csv (default), json, dot, svg, png (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show binary representations in diagrams")
	cmd.Flags().BoolVar(&opts.ranks, "ranks", false, "align nodes first reached in the same iteration")
	cmd.Flags().BoolVar(&opts.header, "header", false, "write a CSV header row")
	cmd.Flags().BoolVar(&opts.withIteration, "with-iteration", false, "add the iteration as the first CSV column")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even when a cached table exists")
}

// applyConfigDefaults fills flags the user did not set from the config file.
func (c *CLI) applyConfigDefaults(cmd *cobra.Command, opts *buildOpts) {
	g := c.Config.Graph
	set := func(name string) bool { return cmd.Flags().Changed(name) }
	if cmd.Flags().Lookup("k") != nil && !set("k") {
		opts.k = g.K
	}
	if cmd.Flags().Lookup("predecessors") != nil && !set("predecessors") {
		opts.predecessors = g.Predecessors
	}
	if cmd.Flags().Lookup("max-order") != nil && !set("max-order") {
		opts.maxOrder = g.MaxOrder
	}
	if cmd.Flags().Lookup("level") != nil && !set("level") {
		opts.pruning = g.Pruning
	}
	if !set("iterations") {
		opts.iterations = g.Iterations
	}
}

func (c *CLI) runBuild(cmd *cobra.Command, mode string, opts buildOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	popts := pipeline.Options{
		Mode:               mode,
		Root:               opts.root,
		K:                  opts.k,
		PredecessorCount:   opts.predecessors,
		IterationCount:     opts.iterations,
		Pruning:            opts.pruning,
		MaxOrderIterations: opts.maxOrder,
		Refresh:            opts.refresh,
		Formats:            parseFormats(opts.formats, c.Config.Graph.Formats),
		Detailed:           opts.detailed,
		Ranks:              opts.ranks,
		CSVHeader:          opts.header,
		CSVIteration:       opts.withIteration,
		TTL:                c.Config.Cache.TTL.Duration,
		Logger:             c.Logger,
	}
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	msg := fmt.Sprintf("Building %s tree...", mode)
	if mode == pipeline.ModeGraph || mode == pipeline.ModeReverse {
		msg = "Building predecessor graph..."
	}
	spin := startSpinner(ctx, msg)
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spin.stop()
		if spin.interrupted() {
			printError("Build of %s interrupted", mode)
		}
		return err
	}
	prog.done(fmt.Sprintf("Built %d edges", result.Stats.EdgeCount))

	toStdout := opts.output == "" && len(popts.Formats) == 1 && popts.Formats[0] != pipeline.FormatPNG
	if toStdout {
		spin.stop()
		_, err := cmd.OutOrStdout().Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	spin.relabel("Writing files...")
	paths := outputPaths(opts.output, defaultBase(popts), popts.Formats)
	for _, f := range popts.Formats {
		if err := writeFile(paths[f], result.Artifacts[f]); err != nil {
			spin.stop()
			return err
		}
	}
	spin.stop()

	printSuccess("Built %s", popts.Mode)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.BuildHit)
	printOutcomes(result.Stats.Outcomes)
	for _, f := range popts.Formats {
		printFile(paths[f])
	}
	return nil
}

// defaultBase names output files after the build parameters.
func defaultBase(o pipeline.Options) string {
	switch o.Mode {
	case pipeline.ModePruned:
		return fmt.Sprintf("collatz_pruned_p%d_i%d", o.Pruning, o.IterationCount)
	case pipeline.ModeBinary:
		return fmt.Sprintf("collatz_binary_r%s_i%d", shortRoot(o.Root), o.IterationCount)
	default:
		return fmt.Sprintf("collatz_%s_k%d_r%s_p%d_i%d", o.Mode, o.K, shortRoot(o.Root), o.PredecessorCount, o.IterationCount)
	}
}

// shortRoot keeps file names bounded for very large roots.
func shortRoot(root string) string {
	if len(root) <= 16 {
		return root
	}
	return root[:8] + "_" + root[len(root)-8:]
}

// outputPaths maps each format to its output file.
//
// With a single format an explicit output is used verbatim. Otherwise output
// is a base path: a trailing known format extension is stripped and every
// format appends its own.
func outputPaths(output, fallback string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := fallback
	if output != "" {
		base = output
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			base = strings.TrimSuffix(output, ext)
		}
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeLines writes one value per line.
func writeLines(w io.Writer, values []string) error {
	for _, v := range values {
		if _, err := fmt.Fprintln(w, v); err != nil {
			return err
		}
	}
	return nil
}
