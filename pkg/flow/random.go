package flow

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/flowgraph/pkg/idgen"
)

// canvasExtent bounds the coordinates of randomly placed vertices.
const canvasExtent = 1000

// RandomGraph seeds a throwaway graph locally, without the backend. It
// returns size vertices labelled "Node 0".."Node size-1" at uniform random
// positions and size edges between randomly chosen vertices. Edges may be
// self-loops or parallel.
func RandomGraph(size int, rnd *rand.Rand) ([]Vertex, []Edge) {
	if size <= 0 {
		return nil, nil
	}
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	vs := make([]Vertex, size)
	for i := range vs {
		v := NewVertex(idgen.GenRandomHex(idgen.EdgeIDLength), fmt.Sprintf("Node %d", i), Position{
			X: rnd.Float64() * canvasExtent,
			Y: rnd.Float64() * canvasExtent,
		})
		v.Style.BackgroundColor = DefaultBackgroundColor
		vs[i] = v
	}

	es := make([]Edge, size)
	for i := range es {
		src, dst := vs[rnd.IntN(size)], vs[rnd.IntN(size)]
		es[i] = Edge{
			ID:     idgen.GenRandomHex(idgen.EdgeIDLength),
			Source: src.ID,
			Target: dst.ID,
			Data:   EdgeData{LineType: LineContinuous},
		}
	}
	return vs, es
}
