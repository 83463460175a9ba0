// Package graph provides the portable JSON wire format for authored graphs
// and the codec between it and the in-memory model in package flow.
//
// # Wire Format
//
// A document wraps one or more named graphs. Each vertex carries its outgoing
// adjacency list; edges have no identity on the wire:
//
//	{
//	  "graph": [{
//	    "name": "g1",
//	    "data": [{
//	      "id": "v1",
//	      "label": "A",
//	      "coordenates": {"x": 0, "y": 0},
//	      "radius": 1,
//	      "data": {"backgroundColor": "#ff0000"},
//	      "linkedTo": [{"nodeId": "v2", "weight": 0.5, "lineType": "dashed"}]
//	    }]
//	  }]
//	}
//
// The "coordenates" spelling is part of the format. Vertex and target ids may
// be JSON numbers or strings on input and are always written as strings.
// [UnmarshalDocument] also accepts a bare graph object ({"name","data"}),
// the shape the backend stores.
//
// # Codec
//
// [Parse] turns the first graph of a document into vertices and edges. Edge
// ids are derived as "e{source}-{target}"; parallel edges between the same
// pair get "-2", "-3", and so on in document order, so re-parsing the same
// document always yields the same ids. [Export] rebuilds adjacency lists
// from an edge collection.
//
// Round trip: Parse(Export(id, V, E)) reproduces every vertex's id, label,
// position and radius, and every edge's endpoints, weight and color.
package graph
