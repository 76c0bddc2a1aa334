package hnsw

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// intOrderer is a trivial Orderer[int] used only by this package's own
// tests: distances are plain ints, compared numerically.
type intOrderer struct{}

func (intOrderer) SearchSorted(ctx context.Context, sorted []int, target int) (int, error) {
	return sort.SearchInts(sorted, target), nil
}

func TestFurthestQueueInsertMaintainsAscendingOrder(t *testing.T) {
	ctx := context.Background()
	q := NewFurthestQueue[string, int]()
	require.NoError(t, q.Insert(ctx, intOrderer{}, "c", 30))
	require.NoError(t, q.Insert(ctx, intOrderer{}, "a", 10))
	require.NoError(t, q.Insert(ctx, intOrderer{}, "b", 20))

	pairs := q.Pairs()
	require.Len(t, pairs, 3)
	assert.Equal(t, []int{10, 20, 30}, []int{pairs[0].Dist, pairs[1].Dist, pairs[2].Dist})
	assert.Equal(t, []string{"a", "b", "c"}, []string{pairs[0].Vector, pairs[1].Vector, pairs[2].Vector})
}

func TestFurthestQueueGetNearestAndFurthest(t *testing.T) {
	ctx := context.Background()
	q := NewFurthestQueue[string, int]()
	require.NoError(t, q.Insert(ctx, intOrderer{}, "mid", 20))
	require.NoError(t, q.Insert(ctx, intOrderer{}, "near", 5))
	require.NoError(t, q.Insert(ctx, intOrderer{}, "far", 50))

	nearest, ok := q.GetNearest()
	require.True(t, ok)
	assert.Equal(t, "near", nearest.Vector)

	furthest, ok := q.GetFurthest()
	require.True(t, ok)
	assert.Equal(t, "far", furthest.Vector)
}

func TestFurthestQueueEmptyGetters(t *testing.T) {
	q := NewFurthestQueue[string, int]()
	_, ok := q.GetNearest()
	assert.False(t, ok)
	_, ok = q.GetFurthest()
	assert.False(t, ok)
	_, ok = q.PopFurthest()
	assert.False(t, ok)
}

func TestFurthestQueueTrimToKNearest(t *testing.T) {
	ctx := context.Background()
	q := NewFurthestQueue[string, int]()
	for i, v := range []int{40, 10, 30, 20} {
		require.NoError(t, q.Insert(ctx, intOrderer{}, string(rune('a'+i)), v))
	}
	q.TrimToKNearest(2)
	pairs := q.Pairs()
	require.Len(t, pairs, 2)
	assert.Equal(t, 10, pairs[0].Dist)
	assert.Equal(t, 20, pairs[1].Dist)
}

func TestFurthestQueueCloneIsIndependent(t *testing.T) {
	ctx := context.Background()
	q := NewFurthestQueue[string, int]()
	require.NoError(t, q.Insert(ctx, intOrderer{}, "a", 1))

	clone := q.Clone()
	require.NoError(t, clone.Insert(ctx, intOrderer{}, "b", 2))

	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestNearestQueueFromFurthestReversesOrder(t *testing.T) {
	ctx := context.Background()
	fq := NewFurthestQueue[string, int]()
	require.NoError(t, fq.Insert(ctx, intOrderer{}, "a", 1))
	require.NoError(t, fq.Insert(ctx, intOrderer{}, "b", 2))
	require.NoError(t, fq.Insert(ctx, intOrderer{}, "c", 3))

	nq := NearestQueueFromFurthest(fq)
	require.Equal(t, 3, nq.Len())

	p, ok := nq.PopNearest()
	require.True(t, ok)
	assert.Equal(t, "a", p.Vector)

	p, ok = nq.PopNearest()
	require.True(t, ok)
	assert.Equal(t, "b", p.Vector)

	p, ok = nq.PopNearest()
	require.True(t, ok)
	assert.Equal(t, "c", p.Vector)

	_, ok = nq.PopNearest()
	assert.False(t, ok)
}

func TestNearestQueueInsertMaintainsDescendingPopOrder(t *testing.T) {
	ctx := context.Background()
	nq := &NearestQueue[string, int]{}
	require.NoError(t, nq.Insert(ctx, intOrderer{}, "c", 30))
	require.NoError(t, nq.Insert(ctx, intOrderer{}, "a", 10))
	require.NoError(t, nq.Insert(ctx, intOrderer{}, "b", 20))

	var order []string
	for nq.Len() > 0 {
		p, _ := nq.PopNearest()
		order = append(order, p.Vector)
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)
}
