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

package hnsw

import (
	"context"
	"math"
	"sync"
)

// Searcher is the generic HNSW algorithm: layer-local beam search,
// search-to-insert, bidirectional connection and entry-point promotion.
// It holds no vector or graph state of its own — every lookup and mutation
// is delegated to the VectorStore and GraphStore it was built with. Q is
// the query handle type, V the vector handle type and D the distance
// handle type; none of the three is interpreted here beyond passing them
// back into the backends.
//
// A Searcher is safe for concurrent read-only use (SearchToInsert,
// IsMatch) only if the backends it wraps are; InsertFromSearchResults
// mutates graph state and must not race with any other Searcher call
// against the same backends. See doc.go for the full thread-safety note.
type Searcher[Q any, V comparable, D any] struct {
	vectors VectorStore[Q, V, D]
	graph   GraphStore[V, D]
	params  Params

	randMu sync.Mutex
	rand   RandSource
}

// New builds a Searcher over the given backends. vectors and graph must be
// non-nil; source drives layer assignment (select_layer) and may be shared
// across Searchers if its underlying generator is safe for concurrent use,
// though the common case (rand.NewSource) is not, and New does not wrap it
// in its own lock beyond what Searcher itself needs.
func New[Q any, V comparable, D any](vectors VectorStore[Q, V, D], graph GraphStore[V, D], source RandSource, params Params) (*Searcher[Q, V, D], error) {
	if vectors == nil || graph == nil {
		return nil, ErrNilBackend
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Searcher[Q, V, D]{
		vectors: vectors,
		graph:   graph,
		params:  params,
		rand:    source,
	}, nil
}

// selectLayer draws the layer at which a new insertion gets its own entry,
// following level = floor(-ln(r) * m_L) for r uniform in (0, 1). r is
// redrawn on an exact 0 sample from the underlying source, since ln(0) is
// undefined and Go's rand.Float64 returns a value in [0, 1).
func (s *Searcher[Q, V, D]) selectLayer() int {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	r := float64(0)
	for r == 0 {
		r = randFloat64(s.rand)
	}
	return int(math.Floor(-math.Log(r) * s.params.ML))
}

// randFloat64 draws a value in [0, 1) from an arbitrary math/rand.Source,
// matching the algorithm math/rand.Rand itself uses for Float64, so that
// any RandSource (not just *rand.Rand) can drive selectLayer.
func randFloat64(src RandSource) float64 {
	for {
		f := float64(src.Int63()) / (1 << 63)
		if f < 1 {
			return f
		}
	}
}

// efForLayer returns the candidate-list cap used at layer lc. The
// reference algorithm reserves room for a per-layer ef; this package
// deliberately collapses that to the single configured EF at every layer,
// per Params' documentation.
func (s *Searcher[Q, V, D]) efForLayer(lc int) int {
	return s.params.EF
}

// searchInit seeds a single-candidate FurthestQueue from the current entry
// point, or returns an empty queue if the graph has no entry point yet.
func (s *Searcher[Q, V, D]) searchInit(ctx context.Context, query Q) (*FurthestQueue[V, D], int, bool, error) {
	ep, ok, err := s.graph.GetEntryPoint(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	if !ok {
		return NewFurthestQueue[V, D](), 0, false, nil
	}
	dist, err := s.vectors.EvalDistance(ctx, query, ep.VectorRef)
	if err != nil {
		return nil, 0, false, err
	}
	q := NewFurthestQueue[V, D]()
	if err := q.Insert(ctx, s.vectors, ep.VectorRef, dist); err != nil {
		return nil, 0, false, err
	}
	return q, ep.LayerCount - 1, true, nil
}

// searchLayer runs one layer of beam search starting from results (already
// populated with at least the entry candidates) and returns the best ef
// candidates found at layer lc, in ascending-distance order.
func (s *Searcher[Q, V, D]) searchLayer(ctx context.Context, query Q, results *FurthestQueue[V, D], ef, lc int) (*FurthestQueue[V, D], error) {
	invariant(results.Len() > 0, "searchLayer: results (W) cannot be empty on entry")

	visited := make(map[V]struct{}, results.Len())
	candidates := NearestQueueFromFurthest(results)
	for _, p := range results.Pairs() {
		visited[p.Vector] = struct{}{}
	}

	for candidates.Len() > 0 {
		c, _ := candidates.PopNearest()

		furthest, ok := results.GetFurthest()
		if ok {
			closer, err := s.vectors.LessThan(ctx, furthest.Dist, c.Dist)
			if err != nil {
				return nil, err
			}
			if closer {
				break
			}
		}

		links, err := s.graph.GetLinks(ctx, c.Vector, lc)
		if err != nil {
			return nil, err
		}

		var unvisited []V
		for _, p := range links.Pairs() {
			if _, seen := visited[p.Vector]; seen {
				continue
			}
			visited[p.Vector] = struct{}{}
			unvisited = append(unvisited, p.Vector)
		}
		if len(unvisited) == 0 {
			continue
		}

		dists, err := s.vectors.EvalDistanceBatch(ctx, query, unvisited)
		if err != nil {
			return nil, err
		}

		for i, v := range unvisited {
			d := dists[i]
			furthest, ok := results.GetFurthest()
			shouldAdd := !ok || results.Len() < ef
			if !shouldAdd {
				farther, err := s.vectors.LessThan(ctx, d, furthest.Dist)
				if err != nil {
					return nil, err
				}
				shouldAdd = farther
			}
			if !shouldAdd {
				continue
			}
			if err := candidates.Insert(ctx, s.vectors, v, d); err != nil {
				return nil, err
			}
			if err := results.Insert(ctx, s.vectors, v, d); err != nil {
				return nil, err
			}
			if results.Len() > ef {
				results.TrimToKNearest(ef)
			}
		}
	}
	return results, nil
}

// SearchToInsert runs the full multi-layer search for query: starting
// from the entry point, it runs a full ef-width beam search (efForLayer)
// at every existing layer from the current top down to layer 0, carrying
// the surviving candidates from one layer into the next. It returns one
// FurthestQueue per existing layer, indexed so that index 0 is layer 0;
// on an empty graph (no entry point yet) it returns an empty slice.
//
// The per-layer ef is the same at every layer (efForLayer), not a
// smaller beam above some insertion layer — see Params' documentation on
// the deliberate collapse of the reference algorithm's per-role ef
// variants.
func (s *Searcher[Q, V, D]) SearchToInsert(ctx context.Context, query Q) ([]*FurthestQueue[V, D], error) {
	results, topLayer, hasEntry, err := s.searchInit(ctx, query)
	if err != nil {
		return nil, err
	}
	if !hasEntry {
		return nil, nil
	}

	layers := make([]*FurthestQueue[V, D], topLayer+1)
	for lc := topLayer; lc >= 0; lc-- {
		results, err = s.searchLayer(ctx, query, results, s.efForLayer(lc), lc)
		if err != nil {
			return nil, err
		}
		layers[lc] = results.Clone()
	}
	return layers, nil
}

// connectBidir links vector to each of neighbors at layer lc, and links
// each of those neighbors back to vector, trimming any neighbor's queue that
// now exceeds the layer's degree cap to its nearest cap entries. neighbors is
// trimmed to M once, up front, and that same trimmed list is what both
// sides of the link get built from — vector never links forward to more
// than M neighbors, and only those M get a back-link to vector.
func (s *Searcher[Q, V, D]) connectBidir(ctx context.Context, vector V, neighbors *FurthestQueue[V, D], lc int) error {
	degreeCap := s.params.Mmax
	if lc == 0 {
		degreeCap = s.params.Mmax0
	}

	neighbors = neighbors.Clone()
	neighbors.TrimToKNearest(s.params.M)
	if err := s.graph.SetLinks(ctx, vector, neighbors, lc); err != nil {
		return err
	}

	for _, p := range neighbors.Pairs() {
		back, err := s.graph.GetLinks(ctx, p.Vector, lc)
		if err != nil {
			return err
		}
		back = back.Clone()
		if err := back.Insert(ctx, s.vectors, vector, p.Dist); err != nil {
			return err
		}
		if back.Len() > degreeCap {
			back.TrimToKNearest(degreeCap)
		}
		if err := s.graph.SetLinks(ctx, p.Vector, back, lc); err != nil {
			return err
		}
	}
	return nil
}

// InsertFromSearchResults inserts vector into the graph using the
// per-layer candidate lists a prior SearchToInsert produced for it, wiring
// bidirectional links at every layer from 0 up to insertLayer, and
// promoting the entry point if insertLayer reaches a new high. layers is
// the (possibly shorter, possibly nil on an empty graph) slice
// SearchToInsert returned; layers at or above len(layers) have no prior
// candidates to connect to; the new vector simply becomes the sole
// occupant up there; entry-point promotion then creates them.
func (s *Searcher[Q, V, D]) InsertFromSearchResults(ctx context.Context, vector V, layers []*FurthestQueue[V, D], insertLayer int) error {
	top := insertLayer
	if top > len(layers)-1 {
		top = len(layers) - 1
	}
	for lc := top; lc >= 0; lc-- {
		neighbors := layers[lc]
		if err := s.connectBidir(ctx, vector, neighbors, lc); err != nil {
			return err
		}
	}

	ep, ok, err := s.graph.GetEntryPoint(ctx)
	if err != nil {
		return err
	}
	if !ok || insertLayer+1 > ep.LayerCount {
		if err := s.graph.SetEntryPoint(ctx, EntryPoint[V]{VectorRef: vector, LayerCount: insertLayer + 1}); err != nil {
			return err
		}
	}
	return nil
}

// IsMatch reports whether the nearest candidate in layers' bottom layer is
// an exact (backend-defined) match for the query that produced layers. It
// takes the full per-layer result of SearchToInsert rather than a bare
// distance so callers never have to hand-roll the empty-graph / empty-layer
// guard themselves: an empty layers (no entry point yet) or an empty bottom
// layer both report false.
func (s *Searcher[Q, V, D]) IsMatch(ctx context.Context, layers []*FurthestQueue[V, D]) (bool, error) {
	if len(layers) == 0 {
		return false, nil
	}
	nearest, ok := layers[0].GetNearest()
	if !ok {
		return false, nil
	}
	return s.vectors.IsMatch(ctx, nearest.Dist)
}

// SelectLayer exposes the layer draw (select_layer) so callers can decide
// the insertLayer argument to InsertFromSearchResults.
func (s *Searcher[Q, V, D]) SelectLayer() int {
	return s.selectLayer()
}
