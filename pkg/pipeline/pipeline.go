// Package pipeline runs the build → render flow shared by every command.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Build: expand a predecessor graph, binary tree or pruned tree into an
//     edge table, optionally reversing it
//  2. Render: serialize the table as CSV or JSON, or draw it as DOT, SVG or
//     PNG
//
// Both stages are cached. Built tables are stored as JSON under a key derived
// from the build parameters; artifacts are stored under a key derived from
// the table content and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Mode:             pipeline.ModeGraph,
//	    Root:             "1",
//	    K:                3,
//	    PredecessorCount: 3,
//	    IterationCount:   4,
//	    Formats:          []string{pipeline.FormatCSV, pipeline.FormatSVG},
//	})
//	csv := result.Artifacts["csv"]
package pipeline

import (
	"io"
	"math/big"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/collatzgraph/pkg/cache"
	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/graph"
	"github.com/matzehuels/collatzgraph/pkg/predecessor"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultRoot is the node every expansion starts from unless told otherwise.
	DefaultRoot = "1"

	// DefaultK is the factor of the classic 3n+1 map.
	DefaultK = int64(3)

	// DefaultPredecessorCount is the number of predecessor indices tried per node.
	DefaultPredecessorCount = 3

	// DefaultIterationCount is the number of breadth-first rounds.
	DefaultIterationCount = 3

	// DefaultPruning is the pruning level the CLI uses for pruned trees.
	// Level 0 is valid, so Options leaves a zero Pruning untouched.
	DefaultPruning = 1

	// DefaultTTL is how long built tables and artifacts stay cached.
	// Results are deterministic, so entries only expire to bound disk use.
	DefaultTTL = 7 * 24 * time.Hour
)

// Mode constants select what the build stage produces.
const (
	ModeGraph   = "graph"
	ModeBinary  = "binary"
	ModePruned  = "pruned"
	ModeReverse = "reverse"
)

// Format constants for output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatCSV

// ValidModes is the set of supported build modes.
var ValidModes = map[string]bool{
	ModeGraph:   true,
	ModeBinary:  true,
	ModePruned:  true,
	ModeReverse: true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatCSV:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Build options
	Mode               string `json:"mode"`
	Root               string `json:"root,omitempty"`
	K                  int64  `json:"k,omitempty"`
	PredecessorCount   int    `json:"predecessors,omitempty"`
	IterationCount     int    `json:"iterations,omitempty"`
	Pruning            int    `json:"pruning,omitempty"`
	MaxOrderIterations int    `json:"max_order,omitempty"`
	Refresh            bool   `json:"refresh,omitempty"`

	// Render options
	Formats      []string `json:"formats,omitempty"`
	Detailed     bool     `json:"detailed,omitempty"`
	Ranks        bool     `json:"ranks,omitempty"`
	CSVHeader    bool     `json:"csv_header,omitempty"`
	CSVIteration bool     `json:"csv_iteration,omitempty"`

	// Runtime options (not serialized)
	TTL    time.Duration `json:"-"`
	Logger *log.Logger   `json:"-"`

	root      *big.Int
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs.
	RunID string

	// Table is the built edge table.
	Table *graph.Table

	// TableHash is the content hash of the table's JSON encoding.
	TableHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Outcomes   graph.Stats
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the table came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMode checks that a build mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidMode,
			"invalid mode: %q (must be one of: graph, binary, pruned, reverse)", mode)
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: csv, json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForBuild checks the build fields and applies their defaults.
func (o *Options) ValidateForBuild() error {
	if o.Mode == "" {
		o.Mode = ModeGraph
	}
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if o.Root == "" {
		o.Root = DefaultRoot
	}
	if o.IterationCount == 0 {
		o.IterationCount = DefaultIterationCount
	}
	if o.MaxOrderIterations == 0 {
		o.MaxOrderIterations = predecessor.DefaultMaxOrderIterations
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if err := errors.ValidatePositive("iteration count", o.IterationCount); err != nil {
		return err
	}
	if err := errors.ValidatePositive("max order iterations", o.MaxOrderIterations); err != nil {
		return err
	}

	switch o.Mode {
	case ModeBinary, ModePruned:
		if o.K == 0 {
			o.K = DefaultK
		}
		if o.K != DefaultK {
			return errors.New(errors.ErrCodeInvalidArgument,
				"%s trees are defined for k=3 only, got k=%d", o.Mode, o.K)
		}
		if o.Mode == ModePruned {
			// Pruned trees always start at 1.
			o.Root = DefaultRoot
			if err := errors.ValidateNonNegative("pruning level", o.Pruning); err != nil {
				return err
			}
		}
	default:
		if o.K == 0 {
			o.K = DefaultK
		}
		if o.PredecessorCount == 0 {
			o.PredecessorCount = DefaultPredecessorCount
		}
		if err := errors.ValidateOddFactor(o.K); err != nil {
			return err
		}
		if err := errors.ValidatePositive("predecessor count", o.PredecessorCount); err != nil {
			return err
		}
	}

	root, err := errors.ParseNode(o.Root)
	if err != nil {
		return err
	}
	o.root = root
	return nil
}

// ValidateForRender checks the render fields and applies their defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// RootValue returns the parsed root. It is nil until ValidateForBuild has
// succeeded.
func (o *Options) RootValue() *big.Int {
	return o.root
}

// GraphKeyOpts returns cache key options for the build stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	opts := cache.GraphKeyOpts{
		Mode:           o.Mode,
		Root:           o.Root,
		K:              o.K,
		IterationCount: o.IterationCount,
	}
	if o.root != nil {
		opts.Root = o.root.String()
	}
	switch o.Mode {
	case ModeGraph, ModeReverse:
		opts.PredecessorCount = o.PredecessorCount
		opts.MaxOrder = o.MaxOrderIterations
	case ModePruned:
		opts.Pruning = o.Pruning
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatDOT, FormatSVG, FormatPNG:
		opts.Detailed = o.Detailed
		opts.Ranks = o.Ranks
	case FormatCSV:
		opts.Header = o.CSVHeader
		opts.Iteration = o.CSVIteration
	}
	return opts
}
