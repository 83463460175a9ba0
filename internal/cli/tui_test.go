package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/store"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testModel(n int) VertexListModel {
	vs := make([]flow.Vertex, n)
	for i := range vs {
		vs[i] = flow.NewVertex(string(rune('a'+i)), strings.ToUpper(string(rune('a'+i))), flow.Position{})
	}
	st := store.New("g", store.WithVertices(vs), store.WithEdges([]flow.Edge{
		{ID: "e1", Source: "a", Target: "b", Data: flow.EdgeData{Weight: 0.25}},
	}))
	return newVertexListModel(st, statsOf(st))
}

func press(m VertexListModel, keys ...string) (VertexListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(VertexListModel)
	}
	return m, cmd
}

func TestVertexListNavigation(t *testing.T) {
	m := testModel(3)
	m.Height = 2

	m, _ = press(m, "down", "down", "down")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2", m.Cursor)
	}
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}

	m, _ = press(m, "k", "k", "k")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("Cursor, Offset = %d, %d, want 0, 0", m.Cursor, m.Offset)
	}
}

func TestVertexListDetail(t *testing.T) {
	m, _ := press(testModel(2), "enter")
	if !m.Detail {
		t.Fatal("enter should open the detail view")
	}
	view := m.View()
	if !strings.Contains(view, "e1") || !strings.Contains(view, "w=0.25") {
		t.Errorf("detail view lacks edge e1:\n%s", view)
	}

	m, cmd := press(m, "esc")
	if m.Detail || cmd != nil {
		t.Error("esc in detail view should go back, not quit")
	}
	if _, cmd = press(m, "esc"); cmd == nil {
		t.Error("esc in list view should quit")
	}
}

func TestVertexListEmpty(t *testing.T) {
	m, _ := press(testModel(0), "enter")
	if m.Detail {
		t.Error("enter on an empty list should not open details")
	}
	if !strings.Contains(m.View(), "empty graph") {
		t.Error("empty view should say so")
	}
}

func TestVertexListWindowSize(t *testing.T) {
	next, _ := testModel(1).Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(VertexListModel).Height; got != 5 {
		t.Errorf("Height = %d, want 5", got)
	}
}
