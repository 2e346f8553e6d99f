package cli

import (
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/collatzgraph/pkg/collatz"
	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/predecessor"
)

// indexedOpts holds the flags shared by predecessor and sibling.
type indexedOpts struct {
	k        int64
	count    int
	start    int
	maxOrder int
	plain    bool // one value per line instead of a table
	binary   bool // add a base-2 column
}

func (c *CLI) addIndexedFlags(cmd *cobra.Command, opts *indexedOpts) {
	cmd.Flags().Int64VarP(&opts.k, "k", "k", c.Config.Graph.K, "odd multiplier of the map kn+1")
	cmd.Flags().IntVarP(&opts.count, "count", "n", 1, "number of consecutive indices")
	cmd.Flags().IntVar(&opts.start, "start", 0, "first index")
	cmd.Flags().IntVar(&opts.maxOrder, "max-order", 0, "multiplicative order search bound")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print one value per line")
	cmd.Flags().BoolVar(&opts.binary, "binary", false, "show base-2 representations")
}

// resolveIndexed fills unset flags from the config and validates the index range.
func (c *CLI) resolveIndexed(cmd *cobra.Command, opts *indexedOpts) error {
	if !cmd.Flags().Changed("k") {
		opts.k = c.Config.Graph.K
	}
	if !cmd.Flags().Changed("max-order") {
		opts.maxOrder = c.Config.Graph.MaxOrder
	}
	if err := errors.ValidatePositive("count", opts.count); err != nil {
		return err
	}
	return errors.ValidateIndex(opts.start)
}

// predecessorCommand creates the single-node predecessor command.
func (c *CLI) predecessorCommand() *cobra.Command {
	var opts indexedOpts
	var generalised bool

	cmd := &cobra.Command{
		Use:   "predecessor <node>",
		Short: "Compute indexed odd predecessors of a node",
		Long: `Compute the odd predecessors of a node under kn+1.

Closed forms are used for k in {1, 3, 5, 7, 9}. Any other odd k, or
--generalised, uses the multiplicative order of 2 modulo k.`,
		Example: `  collatzgraph predecessor 5 -n 3
  collatzgraph predecessor 13 -k 5 --generalised
  collatzgraph predecessor 7 -k 11 --max-order 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resolveIndexed(cmd, &opts); err != nil {
				return err
			}
			n, err := errors.ParseNode(args[0])
			if err != nil {
				return err
			}

			var calc predecessor.Calculator
			if generalised {
				calc, err = predecessor.NewGeneralised(opts.k, opts.maxOrder)
			} else {
				calc, err = predecessor.NewCalculator(opts.k, opts.maxOrder)
			}
			if err != nil {
				return err
			}
			c.Logger.Debug("computing predecessors", "node", n, "k", opts.k, "calculator", fmt.Sprintf("%T", calc))

			results, err := indexedResults(opts, func(i int) (predecessor.Result, error) {
				return calc.Predecessor(n, i)
			})
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), opts, results)
		},
	}

	c.addIndexedFlags(cmd, &opts)
	cmd.Flags().BoolVar(&generalised, "generalised", false, "use the order-based formula even when a closed form exists")
	return cmd
}

// siblingCommand creates the right sibling command.
func (c *CLI) siblingCommand() *cobra.Command {
	var opts indexedOpts

	cmd := &cobra.Command{
		Use:   "sibling <node>",
		Short: "Compute right siblings of a node",
		Long: `Compute the right siblings of a node: the values that share its
successor, spaced by the multiplicative order of 2 modulo k.`,
		Example: `  collatzgraph sibling 5 -n 4
  collatzgraph sibling 11 -k 5 --binary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.resolveIndexed(cmd, &opts); err != nil {
				return err
			}
			n, err := errors.ParseNode(args[0])
			if err != nil {
				return err
			}
			calc, err := predecessor.NewGeneralised(opts.k, opts.maxOrder)
			if err != nil {
				return err
			}
			if order, ok := calc.Order(); ok {
				c.Logger.Debug("multiplicative order", "k", opts.k, "order", order)
			} else {
				c.Logger.Warn("multiplicative order not found", "k", opts.k, "max_order", opts.maxOrder)
			}

			results, err := indexedResults(opts, func(i int) (predecessor.Result, error) {
				return calc.Sibling(n, i)
			})
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), opts, results)
		},
	}

	c.addIndexedFlags(cmd, &opts)
	return cmd
}

type indexedResult struct {
	index int
	predecessor.Result
}

func indexedResults(opts indexedOpts, fn func(int) (predecessor.Result, error)) ([]indexedResult, error) {
	out := make([]indexedResult, 0, opts.count)
	for i := opts.start; i < opts.start+opts.count; i++ {
		res, err := fn(i)
		if err != nil {
			return nil, err
		}
		out = append(out, indexedResult{index: i, Result: res})
	}
	return out, nil
}

func writeResults(w io.Writer, opts indexedOpts, results []indexedResult) error {
	if opts.plain {
		values := make([]string, len(results))
		for i, r := range results {
			values[i] = r.String()
		}
		return writeLines(w, values)
	}

	headers := []string{"Index", "Outcome", "Value"}
	if opts.binary {
		headers = append(headers, "Binary")
	}
	rows := make([][]string, len(results))
	for i, r := range results {
		row := []string{strconv.Itoa(r.index), r.Outcome.String(), valueOrDash(r.Value)}
		if opts.binary {
			row = append(row, binaryOrDash(r.Value))
		}
		rows[i] = row
	}
	_, err := fmt.Fprintln(w, renderTable(headers, rows))
	return err
}

func valueOrDash(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return v.String()
}

func binaryOrDash(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return collatz.Binary(v)
}
