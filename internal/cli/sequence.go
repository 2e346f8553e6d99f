package cli

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/collatzgraph/pkg/collatz"
	"github.com/matzehuels/collatzgraph/pkg/cycles"
	"github.com/matzehuels/collatzgraph/pkg/errors"
)

// defaultSequenceSteps caps trajectories that never reach 1, which is
// common for k >= 5.
const defaultSequenceSteps = 100

// sequenceCommand creates the forward trajectory command.
func (c *CLI) sequenceCommand() *cobra.Command {
	var (
		k      int64
		odd    bool
		max    int
		binary bool
	)

	cmd := &cobra.Command{
		Use:   "sequence <start>",
		Short: "Print the forward trajectory of a number under kn+1",
		Long: `Print the forward trajectory of a number.

The sequence stops at 1, at the first repeated value (printed once more to
mark the cycle), or after --max steps. Pass a negative --max to follow the
trajectory without a cap.`,
		Example: `  collatzgraph sequence 27
  collatzgraph sequence 27 --odd
  collatzgraph sequence 7 -k 5 --max 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("k") {
				k = c.Config.Graph.K
			}
			if err := errors.ValidateOddFactor(k); err != nil {
				return err
			}
			start, err := parsePositive(args[0])
			if err != nil {
				return err
			}

			var seq []*big.Int
			if odd {
				seq, err = collatz.OddSequence(start, k, max)
			} else {
				seq, err = collatz.Sequence(start, k, max)
			}
			if err != nil {
				return err
			}
			c.Logger.Debug("computed sequence", "start", start, "k", k, "length", len(seq))

			values := make([]string, len(seq))
			for i, v := range seq {
				values[i] = v.String()
				if binary {
					values[i] = collatz.Binary(v)
				}
			}
			return writeLines(cmd.OutOrStdout(), values)
		},
	}

	cmd.Flags().Int64VarP(&k, "k", "k", c.Config.Graph.K, "odd multiplier of the map kn+1")
	cmd.Flags().BoolVar(&odd, "odd", false, "only odd values (start must be odd)")
	cmd.Flags().IntVar(&max, "max", defaultSequenceSteps, "maximum number of steps (negative means no limit)")
	cmd.Flags().BoolVar(&binary, "binary", false, "print base-2 representations")
	return cmd
}

// cyclesCommand creates the cycle search command.
func (c *CLI) cyclesCommand() *cobra.Command {
	var (
		k      int64
		length int
		max    int64
	)

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "Search for cycles of the odd map (kn+1)/2^a",
		Example: `  collatzgraph cycles -k 5 --length 3 --max 1000
  collatzgraph cycles -k 3 --length 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("k") {
				k = c.Config.Graph.K
			}
			alpha, err := cycles.PredictAlpha(k, length)
			if err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			spin := startSpinner(cmd.Context(), fmt.Sprintf("Searching cycles of length %d...", length))
			found, err := cycles.Find(k, length, max)
			spin.stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Found %d cycles", len(found)))

			rows := make([][]string, len(found))
			for i, cyc := range found {
				members := make([]string, len(cyc))
				for j, v := range cyc {
					members[j] = v.String()
				}
				rows[i] = []string{strconv.Itoa(i + 1), strings.Join(members, " → ")}
			}
			if len(rows) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Cycle"}, rows))
			}
			printInfo("%d cycles of length %d for k=%d", len(found), length, k)
			printDetail("a cycle of this length needs 2^%d > %d^%d", alpha, k, length)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&k, "k", "k", c.Config.Graph.K, "odd multiplier of the map kn+1")
	cmd.Flags().IntVarP(&length, "length", "L", 1, "number of odd values in the cycle")
	cmd.Flags().Int64Var(&max, "max", 1000, "largest start value searched")
	return cmd
}

// parsePositive parses a positive decimal integer of either parity.
func parsePositive(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.ReplaceAll(strings.TrimSpace(s), "_", ""), 10)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "not a decimal integer: %q", s)
	}
	if n.Sign() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "start must be positive: %s", n)
	}
	return n, nil
}
