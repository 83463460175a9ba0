package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flowgraph/pkg/flow"
	"github.com/matzehuels/flowgraph/pkg/store"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	detailKeyStyle = lipgloss.NewStyle().Foreground(colorGray).Width(10)
)

// =============================================================================
// VertexListModel - Interactive vertex browser
// =============================================================================

// VertexListModel is the bubbletea model behind "inspect -i". It lists the
// vertices of a graph and shows the selected vertex's edges.
type VertexListModel struct {
	Vertices []flow.Vertex
	Edges    []flow.Edge
	Stats    graphStats
	Cursor   int
	Height   int
	Offset   int
	Detail   bool
}

func newVertexListModel(st *store.Store, stats graphStats) VertexListModel {
	return VertexListModel{
		Vertices: st.Vertices(),
		Edges:    st.Edges(),
		Stats:    stats,
		Height:   15,
	}
}

func (m VertexListModel) Init() tea.Cmd {
	return nil
}

func (m VertexListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.Detail {
				return m, tea.Quit
			}
			m.Detail = false
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Vertices)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Vertices) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m VertexListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Vertices"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Vertices) == 0 {
		b.WriteString(listDimStyle.Render("  (empty graph)"))
		return b.String()
	}
	if m.Detail {
		b.WriteString(m.detailView(m.Vertices[m.Cursor]))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Vertices))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, vertexRow(m.Vertices[i], m.Stats)...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, vertexHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Vertices))))
	return b.String()
}

func (m VertexListModel) detailView(v flow.Vertex) string {
	var b strings.Builder
	line := func(k, val string) {
		b.WriteString(detailKeyStyle.Render(k) + " " + StyleValue.Render(val) + "\n")
	}
	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(v.Fill())).
		Foreground(lipgloss.Color(flow.ContrastColor(v.Fill()))).
		Padding(0, 1).
		Render(v.Data.Label)

	b.WriteString(swatch + "\n\n")
	line("ID", v.ID)
	line("Radius", fmt.Sprintf("%g", v.Radius()))
	line("Position", fmt.Sprintf("%.1f, %.1f", v.Position.X, v.Position.Y))
	if v.Style.Color != "" {
		line("Text", v.Style.Color)
	}

	b.WriteString("\n" + StyleTitle.Render("Edges") + "\n")
	n := 0
	for _, e := range m.Edges {
		if e.Source != v.ID && e.Target != v.ID {
			continue
		}
		n++
		dir := "→ " + e.Target
		if e.Target == v.ID && e.Source != v.ID {
			dir = "← " + e.Source
		}
		style := "continue"
		if e.Dashed() {
			style = "dashed"
		}
		b.WriteString(fmt.Sprintf("  %-12s %-10s w=%.2f  %s  %s\n", e.ID, dir, e.Data.Weight, style, listDimStyle.Render(e.Stroke())))
	}
	if n == 0 {
		b.WriteString(listDimStyle.Render("  (none)") + "\n")
	}
	b.WriteString("\n" + listDimStyle.Render("esc back"))
	return b.String()
}
