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

// Package hammingstore provides minimal Hamming-distance VectorStore
// fixtures, plus a generic in-memory GraphStore, used by this module's own
// tests and by cmd/hnswdemo. Two VectorStore variants are provided — Eager and
// Lazy — because the core searcher must behave identically regardless of
// when a backend actually computes a distance: Eager resolves distances
// immediately in EvalDistance, Lazy defers the comparison until LessThan
// or IsMatch is called. Neither is exported outside the module; this
// module ships no other concrete backend.
package hammingstore

import (
	"context"
	"math/bits"
)

// Eager is a Hamming-distance VectorStore over uint64-encoded vectors that
// computes distances immediately in EvalDistance.
type Eager struct {
	vectors   []uint64
	queries   []uint64
	distances []uint32
}

// NewEager returns an empty Eager store.
func NewEager() *Eager {
	return &Eager{}
}

// PrepareQuery registers a raw query value and returns the QueryRef for it.
func (s *Eager) PrepareQuery(raw uint64) int {
	s.queries = append(s.queries, raw)
	return len(s.queries) - 1
}

// Insert persists the query registered under queryRef as a new vector.
func (s *Eager) Insert(ctx context.Context, queryRef int) (int, error) {
	s.vectors = append(s.vectors, s.queries[queryRef])
	return len(s.vectors) - 1, nil
}

// EvalDistance computes and stores the Hamming distance between the query
// and vectorRef, returning a handle to the stored distance.
func (s *Eager) EvalDistance(ctx context.Context, queryRef int, vectorRef int) (int, error) {
	d := bits.OnesCount64(s.queries[queryRef] ^ s.vectors[vectorRef])
	s.distances = append(s.distances, uint32(d))
	return len(s.distances) - 1, nil
}

// EvalDistanceBatch evaluates EvalDistance against every vector in vectorRefs.
func (s *Eager) EvalDistanceBatch(ctx context.Context, queryRef int, vectorRefs []int) ([]int, error) {
	out := make([]int, len(vectorRefs))
	for i, v := range vectorRefs {
		d, err := s.EvalDistance(ctx, queryRef, v)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

// Distance resolves a stored DistanceRef back to the Hamming distance it
// represents. Callers outside this package normally never need this — D
// is opaque to the core — but a caller built directly against the
// concrete Eager type (such as a CLI printing a human-readable result)
// may want the underlying number.
func (s *Eager) Distance(distanceRef int) uint32 {
	return s.distances[distanceRef]
}

// IsMatch reports whether the stored distance is exactly zero.
func (s *Eager) IsMatch(ctx context.Context, distanceRef int) (bool, error) {
	return s.distances[distanceRef] == 0, nil
}

// LessThan compares two stored distances numerically.
func (s *Eager) LessThan(ctx context.Context, d1, d2 int) (bool, error) {
	return s.distances[d1] < s.distances[d2], nil
}

// LessThanBatch is the vectorized form of LessThan.
func (s *Eager) LessThanBatch(ctx context.Context, distanceRef int, distanceRefs []int) ([]bool, error) {
	out := make([]bool, len(distanceRefs))
	for i, d := range distanceRefs {
		lt, err := s.LessThan(ctx, distanceRef, d)
		if err != nil {
			return nil, err
		}
		out[i] = lt
	}
	return out, nil
}

// SearchSorted performs a linear scan to find target's insertion point
// among sorted, delegating the actual comparisons to LessThan so the
// eager/lazy distinction stays entirely inside this store.
func (s *Eager) SearchSorted(ctx context.Context, sorted []int, target int) (int, error) {
	for i, d := range sorted {
		lt, err := s.LessThan(ctx, target, d)
		if err != nil {
			return 0, err
		}
		if lt {
			return i, nil
		}
	}
	return len(sorted), nil
}

// point is a vector pending insertion or already persisted, keyed by its
// position in Lazy.points.
type point struct {
	data       uint64
	persistent bool
}

// Lazy is a Hamming-distance VectorStore whose DistanceRef is a pair of
// point IDs rather than a resolved number: the actual XOR/popcount only
// happens inside LessThan/IsMatch. It exercises the same searcher code
// path as Eager but proves the algorithm never needs to interpret D
// itself.
type Lazy struct {
	points []point
}

// NewLazy returns an empty Lazy store.
func NewLazy() *Lazy {
	return &Lazy{}
}

// PrepareQuery registers a raw query value, returning the PointID it was
// assigned (shared by QueryRef and VectorRef, matching the reference
// implementation's PointId type).
func (s *Lazy) PrepareQuery(raw uint64) int {
	s.points = append(s.points, point{data: raw})
	return len(s.points) - 1
}

// Insert marks the point registered under queryRef as persistent.
func (s *Lazy) Insert(ctx context.Context, queryRef int) (int, error) {
	s.points[queryRef].persistent = true
	return queryRef, nil
}

// LazyDistance is the deferred-comparison DistanceRef: a pair of point IDs
// whose Hamming distance is not computed until it is actually compared.
type LazyDistance struct {
	A, B int
}

func (s *Lazy) resolve(d LazyDistance) int {
	return bits.OnesCount64(s.points[d.A].data ^ s.points[d.B].data)
}

// EvalDistance forwards the (query, vector) pair without resolving it.
func (s *Lazy) EvalDistance(ctx context.Context, queryRef int, vectorRef int) (LazyDistance, error) {
	return LazyDistance{A: queryRef, B: vectorRef}, nil
}

// EvalDistanceBatch is the vectorized form of EvalDistance.
func (s *Lazy) EvalDistanceBatch(ctx context.Context, queryRef int, vectorRefs []int) ([]LazyDistance, error) {
	out := make([]LazyDistance, len(vectorRefs))
	for i, v := range vectorRefs {
		out[i] = LazyDistance{A: queryRef, B: v}
	}
	return out, nil
}

// IsMatch resolves distance and reports whether it is exactly zero.
func (s *Lazy) IsMatch(ctx context.Context, distance LazyDistance) (bool, error) {
	return s.resolve(distance) == 0, nil
}

// LessThan resolves both distances and compares them numerically.
func (s *Lazy) LessThan(ctx context.Context, d1, d2 LazyDistance) (bool, error) {
	return s.resolve(d1) < s.resolve(d2), nil
}

// LessThanBatch is the vectorized form of LessThan.
func (s *Lazy) LessThanBatch(ctx context.Context, distance LazyDistance, distances []LazyDistance) ([]bool, error) {
	out := make([]bool, len(distances))
	for i, d := range distances {
		out[i] = s.resolve(distance) < s.resolve(d)
	}
	return out, nil
}

// SearchSorted performs a linear scan, resolving distances lazily via
// LessThan.
func (s *Lazy) SearchSorted(ctx context.Context, sorted []LazyDistance, target LazyDistance) (int, error) {
	for i, d := range sorted {
		lt, err := s.LessThan(ctx, target, d)
		if err != nil {
			return 0, err
		}
		if lt {
			return i, nil
		}
	}
	return len(sorted), nil
}

// LinearScan is a brute-force existence checker that gives ground truth for
// Searcher.IsMatch on small datasets, mirroring the reference
// implementation's own linear database test helper. In this module only
// its own unit test exercises it.
type LinearScan struct {
	vectors []uint64
}

// NewLinearScan returns an empty LinearScan.
func NewLinearScan() *LinearScan {
	return &LinearScan{}
}

// InsertVector records raw as present in the reference set.
func (l *LinearScan) InsertVector(raw uint64) {
	l.vectors = append(l.vectors, raw)
}

// Exists reports whether raw is present in the reference set (Hamming
// distance zero from some inserted vector).
func (l *LinearScan) Exists(raw uint64) bool {
	for _, v := range l.vectors {
		if v == raw {
			return true
		}
	}
	return false
}
