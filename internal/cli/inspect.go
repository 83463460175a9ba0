package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowgraph/pkg/flow"
	pkgio "github.com/matzehuels/flowgraph/pkg/io"
	"github.com/matzehuels/flowgraph/pkg/store"
)

// graphStats summarises a store for display.
type graphStats struct {
	vertices   int
	edges      int
	dashed     int
	dangling   int
	meanWeight float64
	outDegree  map[string]int
	inDegree   map[string]int
}

func statsOf(st *store.Store) graphStats {
	s := graphStats{
		vertices:  st.VertexCount(),
		edges:     st.EdgeCount(),
		dangling:  len(st.DanglingEdges()),
		outDegree: make(map[string]int),
		inDegree:  make(map[string]int),
	}
	var total float64
	for _, e := range st.Edges() {
		s.outDegree[e.Source]++
		s.inDegree[e.Target]++
		total += e.Data.Weight
		if e.Dashed() {
			s.dashed++
		}
	}
	if s.edges > 0 {
		s.meanWeight = total / float64(s.edges)
	}
	return s
}

func (c *CLI) inspectCommand() *cobra.Command {
	var interactive bool
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the vertices and edges of a graph file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pkgio.ImportGraph(args[0])
			if err != nil {
				return err
			}
			st := store.New(p.Name)
			st.ReplaceGraph(p)
			stats := statsOf(st)

			if interactive {
				_, err := tea.NewProgram(newVertexListModel(st, stats)).Run()
				return err
			}

			fmt.Println(StyleTitle.Render(p.Name))
			printKeyValue("Vertices", strconv.Itoa(stats.vertices))
			printKeyValue("Edges", strconv.Itoa(stats.edges))
			printKeyValue("Dashed", strconv.Itoa(stats.dashed))
			printKeyValue("Mean weight", strconv.FormatFloat(stats.meanWeight, 'f', 2, 64))
			if p.Collisions > 0 {
				printKeyValue("Parallel", strconv.Itoa(p.Collisions))
			}
			if stats.dangling > 0 {
				printWarning("%d edges point at missing vertices", stats.dangling)
			}
			if stats.vertices > 0 {
				fmt.Println()
				fmt.Println(vertexTable(st.Vertices(), stats).Render())
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse vertices interactively")
	return cmd
}

// vertexRow formats one vertex for the vertex table.
func vertexRow(v flow.Vertex, stats graphStats) []string {
	return []string{
		v.ID,
		v.Data.Label,
		strconv.FormatFloat(v.Radius(), 'f', -1, 64),
		fmt.Sprintf("%.0f, %.0f", v.Position.X, v.Position.Y),
		v.Fill(),
		strconv.Itoa(stats.outDegree[v.ID]),
		strconv.Itoa(stats.inDegree[v.ID]),
	}
}

var vertexHeaders = []string{"ID", "Label", "Radius", "Position", "Fill", "Out", "In"}

func vertexTable(vs []flow.Vertex, stats graphStats) *table.Table {
	slices.SortFunc(vs, func(a, b flow.Vertex) int { return strings.Compare(a.ID, b.ID) })
	rows := make([][]string, len(vs))
	for i, v := range vs {
		rows[i] = vertexRow(v, stats)
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(vertexHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		})
}
