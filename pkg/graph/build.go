package graph

import (
	"io"
	"math/big"

	"github.com/charmbracelet/log"
	"github.com/emirpasic/gods/sets/linkedhashset"

	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/predecessor"
)

// Option configures a build.
type Option func(*buildConfig)

type buildConfig struct {
	calc     predecessor.Calculator
	maxOrder int
	logger   *log.Logger
}

// WithCalculator overrides the predecessor calculator. Its K must match the
// k passed to Build.
func WithCalculator(c predecessor.Calculator) Option {
	return func(cfg *buildConfig) { cfg.calc = c }
}

// WithMaxOrderIterations sets the multiplicative order search bound used when
// Build falls back to the generalised calculator.
func WithMaxOrderIterations(n int) Option {
	return func(cfg *buildConfig) { cfg.maxOrder = n }
}

// WithLogger sets a logger that receives one debug line per round.
func WithLogger(l *log.Logger) Option {
	return func(cfg *buildConfig) { cfg.logger = l }
}

func newBuildConfig(opts []Option) *buildConfig {
	cfg := &buildConfig{maxOrder: predecessor.DefaultMaxOrderIterations}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	return cfg
}

// childFunc returns the children of a node in the order they are emitted.
type childFunc func(n *big.Int) ([]*big.Int, error)

// Build expands the predecessor graph of root breadth-first.
//
// Each of iterationCount rounds asks for predecessorCount predecessors
// (indices 0..predecessorCount-1) of every frontier node and emits one edge
// per predecessor found. The next frontier is the insertion-ordered set of
// predecessors emitted in the round. Leaf, no-solution and indeterminate
// outcomes are skipped and counted in [Table.Stats].
//
// k in {1, 3, 5, 7, 9} uses the closed-form calculator; any other positive
// odd k uses the generalised one unless WithCalculator says otherwise. A k
// that is not positive and odd fails with INVALID_ARGUMENT, the same code
// [predecessor.Predecessor] returns for it.
func Build(root *big.Int, k int64, predecessorCount, iterationCount int, opts ...Option) (*Table, error) {
	if err := errors.ValidateOddNode(root); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("predecessor count", predecessorCount); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("iteration count", iterationCount); err != nil {
		return nil, err
	}

	cfg := newBuildConfig(opts)
	calc := cfg.calc
	if calc == nil {
		var err error
		if calc, err = predecessor.NewCalculator(k, cfg.maxOrder); err != nil {
			return nil, err
		}
	} else if calc.K() != k {
		return nil, errors.New(errors.ErrCodeInvalidArgument,
			"calculator is for k=%d, build requested k=%d", calc.K(), k)
	}

	t := NewTable(KindPredecessor, k)
	children := func(n *big.Int) ([]*big.Int, error) {
		out := make([]*big.Int, 0, predecessorCount)
		for i := 0; i < predecessorCount; i++ {
			res, err := calc.Predecessor(n, i)
			if err != nil {
				return nil, err
			}
			switch res.Outcome {
			case predecessor.Found:
				t.stats.Found++
				out = append(out, res.Value)
			case predecessor.Leaf:
				t.stats.Leaves++
			case predecessor.NoSolution:
				t.stats.NoSolution++
			case predecessor.Indeterminate:
				t.stats.Indeterminate++
			}
		}
		return out, nil
	}

	if err := expand(t, []*big.Int{root}, 1, iterationCount, children, cfg.logger); err != nil {
		return nil, err
	}
	return t, nil
}

// expand runs breadth-first rounds first..last over the frontier, adding
// one edge per child to t.
func expand(t *Table, start []*big.Int, first, last int, children childFunc, logger *log.Logger) error {
	frontier := newFrontier(start...)
	for it := first; it <= last; it++ {
		if frontier.Empty() {
			logger.Debug("frontier exhausted", "iteration", it)
			return nil
		}
		next := newFrontier()
		added := 0
		for _, n := range frontier.Values() {
			cs, err := children(n)
			if err != nil {
				return err
			}
			for _, c := range cs {
				if t.Add(Edge{Iteration: it, Successor: n, Predecessor: c}) {
					added++
				}
				next.Add(c)
			}
		}
		logger.Debug("round complete", "kind", t.kind, "k", t.k, "iteration", it,
			"frontier", frontier.Size(), "new_edges", added, "edges", t.Len())
		frontier = next
	}
	return nil
}

// frontier is an insertion-ordered set of nodes keyed by decimal value.
type frontier struct {
	keys   *linkedhashset.Set
	values map[string]*big.Int
}

func newFrontier(ns ...*big.Int) *frontier {
	f := &frontier{keys: linkedhashset.New(), values: make(map[string]*big.Int)}
	for _, n := range ns {
		f.Add(n)
	}
	return f
}

func (f *frontier) Add(n *big.Int) {
	id := n.String()
	if f.keys.Contains(id) {
		return
	}
	f.keys.Add(id)
	f.values[id] = n
}

func (f *frontier) Values() []*big.Int {
	keys := f.keys.Values()
	out := make([]*big.Int, len(keys))
	for i, k := range keys {
		out[i] = f.values[k.(string)]
	}
	return out
}

func (f *frontier) Size() int { return f.keys.Size() }

func (f *frontier) Empty() bool { return f.keys.Empty() }
