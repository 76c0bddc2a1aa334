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

// Package hnsw implements the Hierarchical Navigable Small World
// approximate-nearest-neighbor algorithm over pluggable vector and graph
// backends.
//
// # Why pluggable backends
//
// The searcher never looks at a vector or a distance directly. Every
// comparison is delegated to a VectorStore, and every adjacency read/write
// is delegated to a GraphStore. This lets the exact same algorithm run
// against:
//
//   - an in-memory store that computes distances eagerly, or
//   - a store that only returns comparison tokens and defers the actual
//     arithmetic to a remote service (e.g. a secure multi-party computation
//     backend), or
//   - a graph persisted in a relational database instead of in memory.
//
// None of that is visible to Searcher: it only ever calls EvalDistance,
// EvalDistanceBatch, LessThan, SearchSorted, IsMatch, GetEntryPoint,
// SetEntryPoint, GetLinks and SetLinks, and treats their return values as
// opaque handles.
//
// # Basic usage
//
//	params, err := hnsw.NewParams() // defaults: ef=M=Mmax=Mmax0=32, m_L=0.3
//	searcher, err := hnsw.New[MyQuery, MyVectorRef, MyDistRef](vectors, graph, hnsw.NewSeededSource(42), params)
//
//	layer := searcher.SelectLayer()
//	layers, err := searcher.SearchToInsert(ctx, query)
//	if match, _ := searcher.IsMatch(ctx, layers); match {
//	    return // already present
//	}
//	ref, err := vectors.Insert(ctx, query)
//	err = searcher.InsertFromSearchResults(ctx, ref, layers, layer)
//
// # Thread safety
//
// A Searcher is not safe for concurrent inserts: the HNSW algorithm is a
// single-writer algorithm by design (see the Concurrency section of the
// design notes). Concurrent read-only searches are safe as long as the
// underlying backends allow concurrent reads.
package hnsw
