package hnsw_test

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	hnsw "github.com/benbenbenbenbenben/hnswcore"
	"github.com/benbenbenbenbenben/hnswcore/internal/hammingstore"
)

// TestPropertyIdempotentMembership is P1: inserting a sequence of distinct
// queries into an initially empty index, then immediately searching each
// one again, always reports a match.
func TestPropertyIdempotentMembership(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("every inserted query matches on immediate re-search", prop.ForAll(
		func(raws []uint64) bool {
			ctx := context.Background()
			store := hammingstore.NewEager()
			graph := hammingstore.NewMemGraph[int, int]()
			params := hnsw.DefaultParams()
			s, err := hnsw.New[int, int, int](store, graph, hnsw.NewSeededSource(1), params)
			if err != nil {
				return false
			}

			seen := map[uint64]bool{}
			var distinct []uint64
			for _, r := range raws {
				if !seen[r] {
					seen[r] = true
					distinct = append(distinct, r)
				}
			}

			for _, raw := range distinct {
				query := store.PrepareQuery(raw)
				layer := s.SelectLayer()
				results, err := s.SearchToInsert(ctx, query)
				if err != nil {
					return false
				}
				vector, err := store.Insert(ctx, query)
				if err != nil {
					return false
				}
				if err := s.InsertFromSearchResults(ctx, vector, results, layer); err != nil {
					return false
				}
			}

			for _, raw := range distinct {
				query := store.PrepareQuery(raw)
				layers, err := s.SearchToInsert(ctx, query)
				if err != nil {
					return false
				}
				match, err := s.IsMatch(ctx, layers)
				if err != nil || !match {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt64Range(0, 1<<20)),
	))

	properties.TestingRun(t)
}

// TestPropertyNonExistenceBeforeInsert is P2: searching a query whose
// value was never inserted reports no match.
func TestPropertyNonExistenceBeforeInsert(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("an unseen query never matches", prop.ForAll(
		func(inserted []uint64, probe uint64) bool {
			ctx := context.Background()
			store := hammingstore.NewEager()
			graph := hammingstore.NewMemGraph[int, int]()
			params := hnsw.DefaultParams()
			s, err := hnsw.New[int, int, int](store, graph, hnsw.NewSeededSource(2), params)
			if err != nil {
				return false
			}

			seenVal := false
			for _, raw := range inserted {
				if raw == probe {
					seenVal = true
				}
				query := store.PrepareQuery(raw)
				layer := s.SelectLayer()
				results, err := s.SearchToInsert(ctx, query)
				if err != nil {
					return false
				}
				vector, err := store.Insert(ctx, query)
				if err != nil {
					return false
				}
				if err := s.InsertFromSearchResults(ctx, vector, results, layer); err != nil {
					return false
				}
			}
			if seenVal {
				return true // precondition (never-before-seen) not met, vacuously fine
			}

			query := store.PrepareQuery(probe)
			layers, err := s.SearchToInsert(ctx, query)
			if err != nil {
				return false
			}
			match, err := s.IsMatch(ctx, layers)
			if err != nil {
				return false
			}
			return !match
		},
		gen.SliceOf(gen.UInt64Range(0, 1<<20)),
		gen.UInt64Range(0, 1<<20),
	))

	properties.TestingRun(t)
}

// TestPropertyDegreeCaps is P4: every stored neighbor queue respects Mmax0
// at layer 0 and Mmax above it.
func TestPropertyDegreeCaps(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("stored links never exceed the layer's degree cap", prop.ForAll(
		func(raws []uint64, m, mmax, mmax0 int) bool {
			if m < 1 || mmax < m || mmax0 < m || mmax > 64 || mmax0 > 64 {
				return true
			}
			ctx := context.Background()
			store := hammingstore.NewEager()
			graph := hammingstore.NewMemGraph[int, int]()
			params, err := hnsw.NewParams(hnsw.WithM(m), hnsw.WithMmax(mmax), hnsw.WithMmax0(mmax0))
			if err != nil {
				return true
			}
			s, err := hnsw.New[int, int, int](store, graph, hnsw.NewSeededSource(3), params)
			if err != nil {
				return false
			}

			var vectors []int
			for _, raw := range raws {
				query := store.PrepareQuery(raw)
				layer := s.SelectLayer()
				results, err := s.SearchToInsert(ctx, query)
				if err != nil {
					return false
				}
				vector, err := store.Insert(ctx, query)
				if err != nil {
					return false
				}
				if err := s.InsertFromSearchResults(ctx, vector, results, layer); err != nil {
					return false
				}
				vectors = append(vectors, vector)
			}

			for lc := 0; lc < 64; lc++ {
				degreeCap := mmax
				if lc == 0 {
					degreeCap = mmax0
				}
				for _, v := range vectors {
					links, err := graph.GetLinks(ctx, v, lc)
					if err != nil {
						return false
					}
					if links.Len() > degreeCap {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOfN(12, gen.UInt64Range(0, 1<<16)),
		gen.IntRange(1, 6),
		gen.IntRange(1, 8),
		gen.IntRange(1, 8),
	))

	properties.TestingRun(t)
}

// TestPropertyQueueOrdering is P8: a FurthestQueue handed back to caller
// code is non-decreasing under the backend's own LessThan. It checks the
// bottom-layer queue SearchToInsert returns for a probe query.
func TestPropertyQueueOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("consecutive pairs never satisfy less_than(next, prev)", prop.ForAll(
		func(raws []uint64, probe uint64) bool {
			ctx := context.Background()
			store := hammingstore.NewEager()
			graph := hammingstore.NewMemGraph[int, int]()
			params := hnsw.DefaultParams()
			s, err := hnsw.New[int, int, int](store, graph, hnsw.NewSeededSource(4), params)
			if err != nil {
				return false
			}

			for _, raw := range raws {
				query := store.PrepareQuery(raw)
				layer := s.SelectLayer()
				results, err := s.SearchToInsert(ctx, query)
				if err != nil {
					return false
				}
				vector, err := store.Insert(ctx, query)
				if err != nil {
					return false
				}
				if err := s.InsertFromSearchResults(ctx, vector, results, layer); err != nil {
					return false
				}
			}

			query := store.PrepareQuery(probe)
			layers, err := s.SearchToInsert(ctx, query)
			if err != nil {
				return false
			}
			pairs := layers[0].Pairs()
			for i := 1; i < len(pairs); i++ {
				lt, err := store.LessThan(ctx, pairs[i].Dist, pairs[i-1].Dist)
				if err != nil {
					return false
				}
				if lt {
					return false
				}
			}
			return true
		},
		gen.SliceOfN(15, gen.UInt64Range(0, 1<<16)),
		gen.UInt64Range(0, 1<<16),
	))

	properties.TestingRun(t)
}

// TestPropertyEntryPointMonotonicity is P3: across an insert sequence, the
// observed entry_point.layer_count is non-decreasing. MemGraph enforces
// this by panicking, so a non-monotone sequence would already have
// crashed the test; this property additionally checks the observed
// sequence read back after every insert is itself non-decreasing.
func TestPropertyEntryPointMonotonicity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	properties.Property("entry point layer count never decreases", prop.ForAll(
		func(raws []uint64) bool {
			ctx := context.Background()
			store := hammingstore.NewEager()
			graph := hammingstore.NewMemGraph[int, int]()
			params := hnsw.DefaultParams()
			s, err := hnsw.New[int, int, int](store, graph, hnsw.NewSeededSource(5), params)
			if err != nil {
				return false
			}

			last := -1
			for _, raw := range raws {
				query := store.PrepareQuery(raw)
				layer := s.SelectLayer()
				results, err := s.SearchToInsert(ctx, query)
				if err != nil {
					return false
				}
				vector, err := store.Insert(ctx, query)
				if err != nil {
					return false
				}
				if err := s.InsertFromSearchResults(ctx, vector, results, layer); err != nil {
					return false
				}
				ep, ok, err := graph.GetEntryPoint(ctx)
				if err != nil || !ok {
					return false
				}
				if ep.LayerCount < last {
					return false
				}
				last = ep.LayerCount
			}
			return true
		},
		gen.SliceOf(gen.UInt64Range(0, 1<<20)),
	))

	properties.TestingRun(t)
}
