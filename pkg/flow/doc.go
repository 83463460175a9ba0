// Package flow defines the in-memory model of a graph being authored on a
// canvas: vertices, edges, their visual styles, and the change records the
// canvas emits.
//
// # Model
//
// A [Vertex] carries a label and radius ([VertexData]), a render position
// and an optional [VertexStyle]. An [Edge] connects a source and target
// vertex id and carries a weight, a semantic color and a [LineType]. Vertices
// and edges hold no references to each other or to any container; identity is
// always by id.
//
// Empty style fields mean "unset": the renderer applies [DefaultBackgroundColor]
// for vertices and [DefaultEdgeColor] for edges.
//
// # Partial updates
//
// Property editors change one or two fields at a time. Patches such as
// [VertexDataPatch] use pointer fields so that an absent field is
// distinguishable from a zero value, and every merge takes an explicit
// [MergePolicy]:
//
//	p := flow.VertexDataPatch{Label: flow.Ptr("")}
//	d = p.Apply(d, flow.SkipEmpty) // label unchanged
//	d = p.Apply(d, flow.Overwrite) // label cleared
//
// # Canvas changes
//
// [ApplyVertexChanges] and [ApplyEdgeChanges] fold a batch of [Change]
// records (drag, select, remove) into a collection, strictly in batch order.
package flow
