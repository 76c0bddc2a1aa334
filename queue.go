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

import "context"

// Pair is a (vector, distance) entry as stored in FurthestQueue and
// NearestQueue.
type Pair[V comparable, D any] struct {
	Vector V
	Dist   D
}

// FurthestQueue holds (vector, distance) pairs in ascending distance
// order, with fast access to both ends. Ordering is entirely
// backend-driven: Insert asks the Orderer where the new pair belongs
// rather than comparing distances itself, since D is opaque to this
// package.
type FurthestQueue[V comparable, D any] struct {
	items []Pair[V, D]
}

// NewFurthestQueue returns an empty FurthestQueue.
func NewFurthestQueue[V comparable, D any]() *FurthestQueue[V, D] {
	return &FurthestQueue[V, D]{}
}

// FurthestQueueFromAscending wraps an already-ascending slice of pairs
// without re-sorting it, for backends that receive pairs already in order
// (for example over the wire). Nothing in this module calls it.
func FurthestQueueFromAscending[V comparable, D any](items []Pair[V, D]) *FurthestQueue[V, D] {
	cp := make([]Pair[V, D], len(items))
	copy(cp, items)
	return &FurthestQueue[V, D]{items: cp}
}

// Len returns the number of pairs in the queue.
func (q *FurthestQueue[V, D]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Pairs returns the queue's pairs in ascending order. The returned slice
// must not be mutated by the caller.
func (q *FurthestQueue[V, D]) Pairs() []Pair[V, D] {
	if q == nil {
		return nil
	}
	return q.items
}

// Insert splices (vector, dist) into the queue at the position the
// backend's Orderer reports, preserving ascending order.
func (q *FurthestQueue[V, D]) Insert(ctx context.Context, orderer Orderer[D], vector V, dist D) error {
	dists := make([]D, len(q.items))
	for i, p := range q.items {
		dists[i] = p.Dist
	}
	idx, err := orderer.SearchSorted(ctx, dists, dist)
	if err != nil {
		return err
	}
	q.items = append(q.items, Pair[V, D]{})
	copy(q.items[idx+1:], q.items[idx:])
	q.items[idx] = Pair[V, D]{Vector: vector, Dist: dist}
	return nil
}

// GetNearest returns the first (smallest-distance) pair.
func (q *FurthestQueue[V, D]) GetNearest() (Pair[V, D], bool) {
	if q.Len() == 0 {
		return Pair[V, D]{}, false
	}
	return q.items[0], true
}

// GetFurthest returns the last (largest-distance) pair.
func (q *FurthestQueue[V, D]) GetFurthest() (Pair[V, D], bool) {
	if q.Len() == 0 {
		return Pair[V, D]{}, false
	}
	return q.items[len(q.items)-1], true
}

// PopFurthest removes and returns the last (largest-distance) pair.
func (q *FurthestQueue[V, D]) PopFurthest() (Pair[V, D], bool) {
	n := len(q.items)
	if n == 0 {
		return Pair[V, D]{}, false
	}
	p := q.items[n-1]
	q.items = q.items[:n-1]
	return p, true
}

// GetKNearest returns the first k pairs (or all of them, if k exceeds the
// queue's length).
func (q *FurthestQueue[V, D]) GetKNearest(k int) []Pair[V, D] {
	if k > len(q.items) {
		k = len(q.items)
	}
	return q.items[:k]
}

// TrimToKNearest truncates the queue's tail so at most k pairs remain.
func (q *FurthestQueue[V, D]) TrimToKNearest(k int) {
	if k < len(q.items) {
		q.items = q.items[:k]
	}
}

// Clone returns a deep-enough copy: the pair slice is copied, but Vector
// and Dist values are copied by value (they are expected to be cheap
// handles, per the data model).
func (q *FurthestQueue[V, D]) Clone() *FurthestQueue[V, D] {
	cp := make([]Pair[V, D], len(q.items))
	copy(cp, q.items)
	return &FurthestQueue[V, D]{items: cp}
}

// NearestQueue holds the same pairs as a FurthestQueue but in descending
// distance order, with fast pop of the nearest (last) element. It exists
// purely so search_layer can walk candidates nearest-first without
// re-deriving that order from a FurthestQueue on every pop.
type NearestQueue[V comparable, D any] struct {
	items []Pair[V, D]
}

// NearestQueueFromFurthest builds a NearestQueue by reversing fq. fq is
// not modified.
func NearestQueueFromFurthest[V comparable, D any](fq *FurthestQueue[V, D]) *NearestQueue[V, D] {
	n := fq.Len()
	items := make([]Pair[V, D], n)
	for i, p := range fq.items {
		items[n-1-i] = p
	}
	return &NearestQueue[V, D]{items: items}
}

// Len returns the number of pairs in the queue.
func (q *NearestQueue[V, D]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Insert splices (vector, dist) into the queue, preserving descending
// order. It mirrors FurthestQueue.Insert: the backend is asked to place
// dist among the queue's distances in ascending order, and that ascending
// index is translated to a descending-order insertion point.
func (q *NearestQueue[V, D]) Insert(ctx context.Context, orderer Orderer[D], vector V, dist D) error {
	n := len(q.items)
	asc := make([]D, n)
	for i, p := range q.items {
		asc[n-1-i] = p.Dist
	}
	idxAsc, err := orderer.SearchSorted(ctx, asc, dist)
	if err != nil {
		return err
	}
	idxDesc := n - idxAsc
	q.items = append(q.items, Pair[V, D]{})
	copy(q.items[idxDesc+1:], q.items[idxDesc:])
	q.items[idxDesc] = Pair[V, D]{Vector: vector, Dist: dist}
	return nil
}

// PopNearest removes and returns the last pair, which is the nearest one
// given the queue's descending order.
func (q *NearestQueue[V, D]) PopNearest() (Pair[V, D], bool) {
	n := len(q.items)
	if n == 0 {
		return Pair[V, D]{}, false
	}
	p := q.items[n-1]
	q.items = q.items[:n-1]
	return p, true
}
