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

// Orderer is the ordering capability a backend lends to the queues in
// this package. Distances are opaque to Searcher and to FurthestQueue /
// NearestQueue; only a backend knows how to compare two of its own
// DistanceRef values, so insertion position is always computed by asking
// the backend, never by comparing D with Go's < operator.
type Orderer[D any] interface {
	// SearchSorted returns the index at which target should be inserted
	// into sorted (ascending order, as judged by this same backend) to
	// keep it sorted. Implementations are free to do this with a linear
	// or binary scan; FurthestQueue/NearestQueue only require that the
	// result is consistent with repeated calls to LessThan.
	SearchSorted(ctx context.Context, sorted []D, target D) (int, error)
}

// VectorStore is the backend contract for everything that touches actual
// vector data. Every method may fail (backend error) or block (ctx);
// Searcher never interprets a QueryRef, VectorRef or DistanceRef itself —
// it only ever passes them back into this interface.
//
// Q is the query handle type, V is the inserted-vector handle type (used
// as a map key by GraphStore implementations, hence the comparable
// constraint), and D is the distance handle type.
//
// Implementations must be deterministic for a given (query, vector) pair
// for the duration of a single search: Searcher relies on repeated calls
// to EvalDistance for the same pair returning equivalent results, or more
// precisely on LessThan/IsMatch agreeing with themselves across calls.
type VectorStore[Q any, V comparable, D any] interface {
	Orderer[D]

	// Insert persists query as a new vector and returns a handle to it.
	// Subsequent EvalDistance calls against the returned ref must be
	// meaningful.
	Insert(ctx context.Context, query Q) (V, error)

	// EvalDistance produces a handle comparable via LessThan and testable
	// via IsMatch. Distances need not be numeric — they may be deferred
	// comparison tokens resolved lazily inside LessThan/IsMatch.
	EvalDistance(ctx context.Context, query Q, vector V) (D, error)

	// EvalDistanceBatch is semantically equivalent to calling EvalDistance
	// for every vector in vectors, in order; backends may fuse the work.
	// The result must have exactly len(vectors) entries.
	EvalDistanceBatch(ctx context.Context, query Q, vectors []V) ([]D, error)

	// IsMatch reports whether distance represents "same vector" under
	// this backend's equivalence.
	IsMatch(ctx context.Context, distance D) (bool, error)

	// LessThan is a strict, backend-defined order over distances
	// (irreflexive, transitive; ties are allowed but must be consistent
	// for the lifetime of the index).
	LessThan(ctx context.Context, d1, d2 D) (bool, error)

	// LessThanBatch is the vectorized form of LessThan: result[i] ==
	// LessThan(distance, distances[i]).
	LessThanBatch(ctx context.Context, distance D, distances []D) ([]bool, error)
}

// EntryPoint is the node at which every search begins. LayerCount must be
// strictly monotonically increasing across successive calls to
// GraphStore.SetEntryPoint for the lifetime of a graph (invariant I1);
// backends are responsible for enforcing this (see GraphStore.SetEntryPoint).
type EntryPoint[V comparable] struct {
	VectorRef  V
	LayerCount int
}

// GraphStore is the backend contract for per-layer adjacency and
// entry-point persistence. Layers are created lazily: setting an entry
// point with LayerCount = L logically ensures layers 0..L-1 exist, and a
// GetLinks on a base/lc with no stored entry must return an empty queue,
// not an error.
type GraphStore[V comparable, D any] interface {
	// GetEntryPoint returns the current entry point and true, or the zero
	// value and false if the graph is empty.
	GetEntryPoint(ctx context.Context) (EntryPoint[V], bool, error)

	// SetEntryPoint replaces the entry point. Implementations must assert
	// (panic, per this package's InvariantViolation convention) if
	// entryPoint.LayerCount is not strictly greater than the previous
	// entry point's LayerCount — re-promoting to the same or a lower
	// level is a programmer error, never a recoverable one.
	SetEntryPoint(ctx context.Context, entryPoint EntryPoint[V]) error

	// GetLinks returns the neighbor queue stored for base at layer lc, in
	// ascending-distance order. A base with no stored links at lc returns
	// an empty, non-nil queue.
	GetLinks(ctx context.Context, base V, lc int) (*FurthestQueue[V, D], error)

	// SetLinks replaces, atomically from the caller's point of view, the
	// neighbor queue stored for base at layer lc.
	SetLinks(ctx context.Context, base V, links *FurthestQueue[V, D], lc int) error
}
