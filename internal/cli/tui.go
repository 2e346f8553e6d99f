package cli

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/collatzgraph/pkg/collatz"
	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/predecessor"
)

// List styles
var (
	listDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	listPathStyle = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	minExploreCount = 1
	maxExploreCount = 64
)

// exploreCommand creates the interactive predecessor browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		k        int64
		count    int
		maxOrder int
	)

	cmd := &cobra.Command{
		Use:   "explore [node]",
		Short: "Browse predecessors interactively",
		Long: `Browse the predecessor graph one node at a time.

Select a predecessor and press enter to descend into it, backspace to go
back up, and +/- to change how many predecessors are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("k") {
				k = c.Config.Graph.K
			}
			if !cmd.Flags().Changed("count") {
				count = c.Config.Graph.Predecessors
			}
			if !cmd.Flags().Changed("max-order") {
				maxOrder = c.Config.Graph.MaxOrder
			}
			root := "1"
			if len(args) == 1 {
				root = args[0]
			}
			n, err := errors.ParseNode(root)
			if err != nil {
				return err
			}
			calc, err := predecessor.NewCalculator(k, maxOrder)
			if err != nil {
				return err
			}

			p := tea.NewProgram(newExploreModel(calc, n, count), tea.WithOutput(statusOut))
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("explore: %w", err)
			}
			if m, ok := final.(exploreModel); ok && m.err != nil {
				return m.err
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&k, "k", "k", c.Config.Graph.K, "odd multiplier of the map kn+1")
	cmd.Flags().IntVarP(&count, "count", "n", c.Config.Graph.Predecessors, "predecessors listed per node")
	cmd.Flags().IntVar(&maxOrder, "max-order", c.Config.Graph.MaxOrder, "multiplicative order search bound")
	return cmd
}

// =============================================================================
// exploreModel - Interactive predecessor browsing
// =============================================================================

// exploreModel is the bubbletea model for walking down the predecessor graph.
// path holds the nodes from the starting node to the current one.
type exploreModel struct {
	calc   predecessor.Calculator
	path   []*big.Int
	rows   []predecessor.Result
	cursor int
	count  int
	err    error
}

func newExploreModel(calc predecessor.Calculator, root *big.Int, count int) exploreModel {
	m := exploreModel{
		calc:  calc,
		path:  []*big.Int{root},
		count: clampCount(count),
	}
	m.refresh()
	return m
}

func clampCount(n int) int {
	return max(minExploreCount, min(maxExploreCount, n))
}

func (m exploreModel) current() *big.Int {
	return m.path[len(m.path)-1]
}

// refresh recomputes the predecessor rows of the current node.
func (m *exploreModel) refresh() {
	rows := make([]predecessor.Result, 0, m.count)
	for i := 0; i < m.count; i++ {
		res, err := m.calc.Predecessor(m.current(), i)
		if err != nil {
			m.err = err
			break
		}
		rows = append(rows, res)
	}
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = max(0, len(m.rows)-1)
	}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter", "right", "l":
		if m.cursor < len(m.rows) && m.rows[m.cursor].OK() {
			m.path = append(m.path[:len(m.path):len(m.path)], m.rows[m.cursor].Value)
			m.cursor = 0
			m.refresh()
		}
	case "backspace", "left", "h":
		if len(m.path) > 1 {
			m.path = m.path[:len(m.path)-1]
			m.cursor = 0
			m.refresh()
		}
	case "+", "=":
		if m.count < maxExploreCount {
			m.count++
			m.refresh()
		}
	case "-":
		if m.count > minExploreCount {
			m.count--
			m.refresh()
		}
	}
	if m.err != nil {
		return m, tea.Quit
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Predecessors of %s (k=%d)", m.current(), m.calc.K())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ descend  ⌫ back  +/- count  q quit"))
	b.WriteString("\n\n")

	steps := make([]string, len(m.path))
	for i, n := range m.path {
		steps[i] = n.String()
	}
	b.WriteString(listPathStyle.Render(strings.Join(steps, " ← ")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(collatz.Binary(m.current())))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.rows))
	for i, r := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, strconv.Itoa(i), r.Outcome.String(), valueOrDash(r.Value)}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Index", "Outcome", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if row >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if !m.rows[row].OK() {
				base = base.Foreground(colorDim)
			} else if col == 3 {
				base = base.Foreground(colorGreen)
			}
			if row == m.cursor {
				return base.Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  depth %d · %d listed", len(m.path)-1, m.count)))

	return b.String()
}
