// Package nodelink renders an edited graph as a node-link diagram.
//
// Vertices keep the positions they have on the editing canvas: [ToDOT] pins
// every node with Graphviz's `pos="x,y!"` and [RenderSVG] lays the graph out
// with the neato engine, which honours pinned positions. Circles are sized
// from the vertex radius, filled with the vertex background, and labelled in
// the contrasting text color. Edges use their stroke color and dashed edges
// are drawn dashed.
//
//	dot := nodelink.ToDOT(st.Vertices(), st.Edges(), nodelink.Options{ShowWeights: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Rendering runs Graphviz in-process through [github.com/goccy/go-graphviz].
package nodelink
