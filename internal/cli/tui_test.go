package cli

import (
	"math/big"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/collatzgraph/pkg/predecessor"
)

func newTestExplore(t *testing.T, root int64, count int) exploreModel {
	t.Helper()
	calc, err := predecessor.NewDeterministic(3)
	if err != nil {
		t.Fatalf("NewDeterministic: %v", err)
	}
	return newExploreModel(calc, big.NewInt(root), count)
}

func press(m exploreModel, keys ...tea.KeyMsg) (exploreModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(exploreModel)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter     = tea.KeyMsg{Type: tea.KeyEnter}
	keyBackspace = tea.KeyMsg{Type: tea.KeyBackspace}
	keyDown      = tea.KeyMsg{Type: tea.KeyDown}
	keyUp        = tea.KeyMsg{Type: tea.KeyUp}
)

func rowValues(m exploreModel) []string {
	out := make([]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.String()
	}
	return out
}

func TestExploreInitialRows(t *testing.T) {
	m := newTestExplore(t, 5, 3)
	if got := strings.Join(rowValues(m), ","); got != "3,13,53" {
		t.Errorf("rows = %s, want 3,13,53", got)
	}
	if m.Init() != nil {
		t.Error("Init() should return nil")
	}
}

func TestExploreDescendAndAscend(t *testing.T) {
	m := newTestExplore(t, 5, 3)

	m, _ = press(m, keyDown, keyEnter)
	if got := m.current().String(); got != "13" {
		t.Fatalf("after descend current = %s, want 13", got)
	}
	if len(m.path) != 2 || m.cursor != 0 {
		t.Errorf("path = %v, cursor = %d", m.path, m.cursor)
	}

	m, _ = press(m, keyBackspace)
	if got := m.current().String(); got != "5" {
		t.Errorf("after ascend current = %s, want 5", got)
	}

	// Backspace at the start node stays put.
	m, _ = press(m, keyBackspace)
	if len(m.path) != 1 {
		t.Errorf("path length = %d, want 1", len(m.path))
	}
}

func TestExploreLeafCannotDescend(t *testing.T) {
	m := newTestExplore(t, 5, 2)
	m, _ = press(m, keyEnter)
	if got := m.current().String(); got != "3" {
		t.Fatalf("current = %s, want 3", got)
	}
	for _, r := range m.rows {
		if r.Outcome != predecessor.Leaf {
			t.Errorf("predecessor of 3 = %v, want leaf", r.Outcome)
		}
	}

	m, _ = press(m, keyEnter)
	if got := m.current().String(); got != "3" {
		t.Errorf("descended from a leaf row to %s", got)
	}
}

func TestExploreCursorBounds(t *testing.T) {
	m := newTestExplore(t, 1, 2)
	m, _ = press(m, keyUp)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up at top", m.cursor)
	}
	m, _ = press(m, keyDown, keyDown, keyDown)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1 (last row)", m.cursor)
	}
}

func TestExploreCount(t *testing.T) {
	m := newTestExplore(t, 1, 2)

	m, _ = press(m, runes("+"))
	if got := strings.Join(rowValues(m), ","); got != "1,5,21" {
		t.Errorf("rows after + = %s", got)
	}

	m, _ = press(m, keyDown, keyDown, runes("-"), runes("-"), runes("-"))
	if m.count != minExploreCount || len(m.rows) != 1 {
		t.Errorf("count = %d, rows = %d, want %d", m.count, len(m.rows), minExploreCount)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}

	if got := newTestExplore(t, 1, 1000).count; got != maxExploreCount {
		t.Errorf("count clamped to %d, want %d", got, maxExploreCount)
	}
}

func TestExploreQuit(t *testing.T) {
	m := newTestExplore(t, 1, 1)
	if _, cmd := press(m, runes("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
	if _, cmd := press(m, keyDown); cmd != nil {
		t.Error("navigation should not return a command")
	}
}

func TestExploreView(t *testing.T) {
	m := newTestExplore(t, 5, 2)
	m, _ = press(m, keyDown, keyEnter)
	view := m.View()
	for _, want := range []string{"Predecessors of 13 (k=3)", "5 ← 13", "1101", "depth 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
