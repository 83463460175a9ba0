package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowgraph/pkg/flow"
)

// DefaultScale is the number of canvas units per Graphviz inch.
const DefaultScale = 100.0

// Options configures diagram generation.
type Options struct {
	// Scale is canvas units per inch. Zero uses DefaultScale.
	Scale float64

	// ShowWeights labels each edge with its weight.
	ShowWeights bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return DefaultScale
	}
	return o.Scale
}

// ToDOT converts vertices and edges to Graphviz DOT source with every node
// pinned at its canvas position. The canvas y axis points down, so y is
// negated.
func ToDOT(vertices []flow.Vertex, edges []flow.Edge, opts Options) string {
	scale := opts.scale()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, fontsize=12];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	for _, v := range vertices {
		fmt.Fprintf(&buf, "  %s [%s];\n", quote(v.ID), strings.Join(vertexAttrs(v, scale), ", "))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quote(e.Source), quote(e.Target), strings.Join(edgeAttrs(e, opts.ShowWeights), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func vertexAttrs(v flow.Vertex, scale float64) []string {
	size := formatFloat(v.Diameter() / scale)
	fill := v.Fill()
	attrs := []string{
		"label=" + quote(v.Data.Label),
		fmt.Sprintf("pos=\"%s,%s!\"", formatFloat(v.Position.X/scale), formatFloat(-v.Position.Y/scale)),
		"width=" + size,
		"height=" + size,
		"fillcolor=" + quote(fill),
		"fontcolor=" + quote(flow.ContrastColor(fill)),
	}
	if v.Style.Color != "" {
		attrs = append(attrs, "color="+quote(v.Style.Color))
	}
	if v.Selected {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

func edgeAttrs(e flow.Edge, weights bool) []string {
	attrs := []string{"color=" + quote(e.Stroke())}
	if e.Dashed() {
		attrs = append(attrs, "style=dashed")
	}
	if weights {
		attrs = append(attrs, "label="+quote(formatFloat(e.Data.Weight)))
	}
	if e.Selected {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// quote returns s as a DOT double-quoted string.
func quote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RenderSVG lays out DOT source with neato and renders it to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's svg tag with one whose width and
// height match the view box, so the preview scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
