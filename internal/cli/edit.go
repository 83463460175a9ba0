package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	fgerrors "github.com/matzehuels/flowgraph/pkg/errors"
	"github.com/matzehuels/flowgraph/pkg/flow"
	pkgio "github.com/matzehuels/flowgraph/pkg/io"
	"github.com/matzehuels/flowgraph/pkg/store"
)

var errNothingToDo = errors.New("no edits given, see --help")

// editOpts holds the edit flags. Each entry is "target=value" except connect
// ("source:target") and the removals (a bare id).
type editOpts struct {
	rename     []string
	background []string
	textColor  []string
	radius     []string
	move       []string
	connect    []string
	weight     []string
	lineType   []string
	stroke     []string
	removeV    []string
	removeE    []string
	overwrite  bool
}

func (o *editOpts) empty() bool {
	return len(o.rename)+len(o.background)+len(o.textColor)+len(o.radius)+len(o.move)+
		len(o.connect)+len(o.weight)+len(o.lineType)+len(o.stroke)+len(o.removeV)+len(o.removeE) == 0
}

func (c *CLI) editCommand() *cobra.Command {
	var (
		opts   editOpts
		output string
	)
	cmd := &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit vertices and edges of a graph file",
		Long: `Edit a graph file in place (or into --output).

Edits are applied in this order: connect, vertex data and style, move, edge
data and style, removals. Removing a vertex removes its edges. By default
empty values are ignored; --overwrite applies them.

Edge edits address edges already in the file, whose ids are e{source}-{target}.
An edge made by --connect gets a fresh hex id, printed after the run; edit it in
a later run.`,
		Example: `  flowgraph edit g1.json --rename v1="Entry" --bg v1=#ffcc00
  flowgraph edit g1.json --connect v2:v3 --weight ev1-v2=0.5 --line ev1-v2=dashed
  flowgraph edit g1.json --move v3=120,40 --remove-vertex v4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.empty() {
				return errNothingToDo
			}
			path := args[0]
			p, err := pkgio.ImportGraph(path)
			if err != nil {
				return err
			}
			st := store.New(p.Name)
			st.ReplaceGraph(p)

			var changed int
			cancel := st.Subscribe(func(store.Event) { changed++ })
			sum, err := opts.apply(st)
			cancel()
			if err != nil {
				return err
			}

			if output == "" {
				output = path
			}
			if err := pkgio.ExportJSON(st.Snapshot(), output); err != nil {
				return err
			}
			printSuccess("Applied %d edits (%d changes)", sum.edits, changed)
			for _, e := range sum.connected {
				printDetail("connected %s → %s as %s", e.Source, e.Target, e.ID)
			}
			printStats(st.VertexCount(), st.EdgeCount())
			printFile(output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	f.StringArrayVar(&opts.rename, "rename", nil, "set a vertex label: id=label")
	f.StringArrayVar(&opts.background, "bg", nil, "set a vertex background color: id=#rrggbb")
	f.StringArrayVar(&opts.textColor, "color", nil, "set a vertex text color: id=#rrggbb")
	f.StringArrayVar(&opts.radius, "radius", nil, "set a vertex radius: id=1.5")
	f.StringArrayVar(&opts.move, "move", nil, "move a vertex: id=x,y")
	f.StringArrayVar(&opts.connect, "connect", nil, "connect two vertices: source:target")
	f.StringArrayVar(&opts.weight, "weight", nil, "set an edge weight in [0, 1]: edge=0.5")
	f.StringArrayVar(&opts.lineType, "line", nil, "set an edge line type: edge=continue|dashed")
	f.StringArrayVar(&opts.stroke, "stroke", nil, "set an edge stroke color: edge=#rrggbb")
	f.StringArrayVar(&opts.removeV, "remove-vertex", nil, "remove a vertex and its edges")
	f.StringArrayVar(&opts.removeE, "remove-edge", nil, "remove an edge")
	f.BoolVar(&opts.overwrite, "overwrite", false, "apply empty values instead of skipping them")
	return cmd
}

type editSummary struct {
	edits     int
	connected []flow.Edge
}

// apply runs every edit against st. It stops at the first invalid edit;
// edits before it stay applied to st but the caller does not write them.
func (o *editOpts) apply(st *store.Store) (editSummary, error) {
	var sum editSummary
	policy := flow.SkipEmpty
	if o.overwrite {
		policy = flow.Overwrite
	}

	for _, arg := range o.connect {
		src, dst, ok := strings.Cut(arg, ":")
		if !ok || src == "" || dst == "" {
			return sum, fgerrors.New(fgerrors.ErrCodeInvalidInput, "--connect %q: want source:target", arg)
		}
		for _, id := range []string{src, dst} {
			if _, ok := st.VertexByID(id); !ok {
				return sum, fgerrors.New(fgerrors.ErrCodeNotFound, "vertex %q not found", id)
			}
		}
		sum.connected = append(sum.connected, st.Connect(src, dst))
		sum.edits++
	}

	vertexData := func(flag string, args []string, build func(string) (flow.VertexDataPatch, error)) error {
		return eachPair(flag, args, func(id, val string) error {
			patch, err := build(val)
			if err == nil {
				err = patch.Validate(policy)
			}
			if err != nil {
				return err
			}
			return found(st.UpdateVertexData(id, patch, policy), "vertex", id, &sum)
		})
	}
	vertexStyle := func(flag string, args []string, build func(string) flow.VertexStylePatch) error {
		return eachPair(flag, args, func(id, val string) error {
			patch := build(val)
			if err := patch.Validate(); err != nil {
				return err
			}
			return found(st.UpdateVertexStyle(id, patch, policy), "vertex", id, &sum)
		})
	}

	steps := []func() error{
		func() error {
			return vertexData("--rename", o.rename, func(v string) (flow.VertexDataPatch, error) {
				return flow.VertexDataPatch{Label: &v}, nil
			})
		},
		func() error {
			return vertexData("--radius", o.radius, func(v string) (flow.VertexDataPatch, error) {
				r, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return flow.VertexDataPatch{}, fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, err, "--radius")
				}
				return flow.VertexDataPatch{Radius: &r}, nil
			})
		},
		func() error {
			return vertexStyle("--bg", o.background, func(v string) flow.VertexStylePatch {
				return flow.VertexStylePatch{BackgroundColor: &v}
			})
		},
		func() error {
			return vertexStyle("--color", o.textColor, func(v string) flow.VertexStylePatch {
				return flow.VertexStylePatch{Color: &v}
			})
		},
		func() error { return o.applyMoves(st, &sum) },
		func() error { return o.applyEdgeEdits(st, policy, &sum) },
		func() error {
			for _, id := range o.removeE {
				if err := found(st.RemoveEdge(id), "edge", id, &sum); err != nil {
					return err
				}
			}
			for _, id := range o.removeV {
				if err := found(st.RemoveVertex(id), "vertex", id, &sum); err != nil {
					return err
				}
			}
			return nil
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (o *editOpts) applyMoves(st *store.Store, sum *editSummary) error {
	var changes []flow.Change
	err := eachPair("--move", o.move, func(id, val string) error {
		xs, ys, ok := strings.Cut(val, ",")
		x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
		if !ok || errX != nil || errY != nil {
			return fgerrors.New(fgerrors.ErrCodeInvalidInput, "--move %s=%s: want x,y", id, val)
		}
		if _, ok := st.VertexByID(id); !ok {
			return fgerrors.New(fgerrors.ErrCodeNotFound, "vertex %q not found", id)
		}
		changes = append(changes, flow.Change{Kind: flow.ChangePosition, ID: id, Position: &flow.Position{X: x, Y: y}})
		return nil
	})
	if err != nil {
		return err
	}
	if len(changes) > 0 {
		st.ApplyVertexChanges(changes)
		sum.edits += len(changes)
	}
	return nil
}

func (o *editOpts) applyEdgeEdits(st *store.Store, policy flow.MergePolicy, sum *editSummary) error {
	edgeData := func(flag string, args []string, build func(string) (flow.EdgeDataPatch, error)) error {
		return eachPair(flag, args, func(id, val string) error {
			patch, err := build(val)
			if err == nil {
				err = patch.Validate()
			}
			if err != nil {
				return err
			}
			return found(st.UpdateEdgeData(id, patch, policy), "edge", id, sum)
		})
	}

	err := edgeData("--weight", o.weight, func(v string) (flow.EdgeDataPatch, error) {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return flow.EdgeDataPatch{}, fgerrors.Wrap(fgerrors.ErrCodeInvalidInput, err, "--weight")
		}
		return flow.EdgeDataPatch{Weight: &w}, nil
	})
	if err != nil {
		return err
	}
	err = edgeData("--line", o.lineType, func(v string) (flow.EdgeDataPatch, error) {
		lt := flow.LineType(v)
		return flow.EdgeDataPatch{LineType: &lt}, nil
	})
	if err != nil {
		return err
	}
	return eachPair("--stroke", o.stroke, func(id, val string) error {
		patch := flow.EdgeStylePatch{Stroke: &val}
		if err := patch.Validate(); err != nil {
			return err
		}
		return found(st.UpdateEdgeStyle(id, patch, policy), "edge", id, sum)
	})
}

// eachPair splits every "id=value" argument and calls fn.
func eachPair(flag string, args []string, fn func(id, val string) error) error {
	for _, arg := range args {
		id, val, ok := strings.Cut(arg, "=")
		if !ok || id == "" {
			return fgerrors.New(fgerrors.ErrCodeInvalidInput, "%s %q: want id=value", flag, arg)
		}
		if err := fn(id, val); err != nil {
			return err
		}
	}
	return nil
}

func found(ok bool, kind, id string, sum *editSummary) error {
	if !ok {
		return fgerrors.New(fgerrors.ErrCodeNotFound, "%s %q not found", kind, id)
	}
	sum.edits++
	return nil
}

