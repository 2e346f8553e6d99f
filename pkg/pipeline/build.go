package pipeline

import (
	"context"

	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/graph"
)

// Build produces the edge table described by opts without consulting any
// cache.
func Build(ctx context.Context, opts Options) (*graph.Table, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gopts := []graph.Option{
		graph.WithLogger(opts.Logger),
		graph.WithMaxOrderIterations(opts.MaxOrderIterations),
	}

	switch opts.Mode {
	case ModeGraph:
		return graph.Build(opts.root, opts.K, opts.PredecessorCount, opts.IterationCount, gopts...)
	case ModeReverse:
		t, err := graph.Build(opts.root, opts.K, opts.PredecessorCount, opts.IterationCount, gopts...)
		if err != nil {
			return nil, err
		}
		return graph.Reverse(t), nil
	case ModeBinary:
		return graph.BuildBinaryTree(opts.root, opts.IterationCount, gopts...)
	case ModePruned:
		return graph.BuildPrunedTree(opts.Pruning, opts.IterationCount, gopts...)
	default:
		return nil, errors.New(errors.ErrCodeInvalidMode, "unsupported mode: %s", opts.Mode)
	}
}
