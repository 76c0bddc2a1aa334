// Copyright (c) 2024 LevelGraph Go Contributors
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following
// conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

package hammingstore

import (
	"context"
	"fmt"

	"github.com/benbenbenbenbenben/hnswcore"
)

// MemGraph is a generic in-memory GraphStore: one map-of-neighbors per
// layer, grown lazily as SetEntryPoint reports higher layer counts. It
// asserts the entry-point monotonicity invariant itself, the way the
// reference implementation's own in-memory graph store does.
type MemGraph[V comparable, D any] struct {
	entryPoint *hnsw.EntryPoint[V]
	layers     []map[V]*hnsw.FurthestQueue[V, D]
}

// NewMemGraph returns an empty MemGraph.
func NewMemGraph[V comparable, D any]() *MemGraph[V, D] {
	return &MemGraph[V, D]{}
}

// GetEntryPoint returns the current entry point and true, or the zero
// value and false if none has been set yet.
func (g *MemGraph[V, D]) GetEntryPoint(ctx context.Context) (hnsw.EntryPoint[V], bool, error) {
	if g.entryPoint == nil {
		return hnsw.EntryPoint[V]{}, false, nil
	}
	return *g.entryPoint, true, nil
}

// SetEntryPoint replaces the entry point, growing the layer slice as
// needed, and panics if entryPoint is not on a strictly higher layer than
// the previous one.
func (g *MemGraph[V, D]) SetEntryPoint(ctx context.Context, entryPoint hnsw.EntryPoint[V]) error {
	if g.entryPoint != nil && g.entryPoint.LayerCount >= entryPoint.LayerCount {
		panic(&hnsw.InvariantViolation{Msg: fmt.Sprintf(
			"new entry point must be on a higher layer than before (had %d, got %d)",
			g.entryPoint.LayerCount, entryPoint.LayerCount)})
	}
	for len(g.layers) < entryPoint.LayerCount {
		g.layers = append(g.layers, make(map[V]*hnsw.FurthestQueue[V, D]))
	}
	ep := entryPoint
	g.entryPoint = &ep
	return nil
}

// GetLinks returns the neighbor queue stored for base at layer lc, or an
// empty queue if none is stored.
func (g *MemGraph[V, D]) GetLinks(ctx context.Context, base V, lc int) (*hnsw.FurthestQueue[V, D], error) {
	if lc >= len(g.layers) {
		return hnsw.NewFurthestQueue[V, D](), nil
	}
	if q, ok := g.layers[lc][base]; ok {
		return q, nil
	}
	return hnsw.NewFurthestQueue[V, D](), nil
}

// SetLinks replaces the neighbor queue stored for base at layer lc.
func (g *MemGraph[V, D]) SetLinks(ctx context.Context, base V, links *hnsw.FurthestQueue[V, D], lc int) error {
	for len(g.layers) <= lc {
		g.layers = append(g.layers, make(map[V]*hnsw.FurthestQueue[V, D]))
	}
	g.layers[lc][base] = links
	return nil
}
