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

// Package adapter reifies every VectorStore/GraphStore call a Searcher
// makes as a message sent over a channel, with the reply delivered on a
// one-shot reply channel carried inside the message itself. This is the
// goroutine/channel equivalent of an alternative host adapter that is
// explicitly not part of the core: it lets a search run in one goroutine
// while the actual backend work (a remote call, a different thread pool,
// a batched executor) happens in another, with Op values as the queue
// between them instead of Rust's mpsc/oneshot pair.
package adapter

import (
	"context"
	"fmt"

	hnsw "github.com/benbenbenbenbenben/hnswcore"
)

// OpKind identifies which VectorStore/GraphStore call an Op carries.
type OpKind int

const (
	OpInsert OpKind = iota
	OpEvalDistanceBatch
	OpIsMatch
	OpLessThanBatch
	OpSearchSorted
	OpGetEntryPoint
	OpSetEntryPoint
	OpGetLinks
	OpSetLinks
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "Insert"
	case OpEvalDistanceBatch:
		return "EvalDistanceBatch"
	case OpIsMatch:
		return "IsMatch"
	case OpLessThanBatch:
		return "LessThanBatch"
	case OpSearchSorted:
		return "SearchSorted"
	case OpGetEntryPoint:
		return "GetEntryPoint"
	case OpSetEntryPoint:
		return "SetEntryPoint"
	case OpGetLinks:
		return "GetLinks"
	case OpSetLinks:
		return "SetLinks"
	default:
		return "Unknown"
	}
}

// Op is a single reified backend call. Exactly the fields relevant to
// Kind are populated by the sender; the Host reads them, performs the
// real call against its wrapped backend, and sends the result on the
// matching reply channel.
type Op[Q any, V comparable, D any] struct {
	Kind OpKind

	Query      Q
	Vector     V
	Vectors    []V
	Distance   D
	Distances  []D
	Sorted     []D
	EntryPoint hnsw.EntryPoint[V]
	Base       V
	Links      *hnsw.FurthestQueue[V, D]
	LC         int

	replyVector     chan vectorReply[V]
	replyDistance   chan distanceReply[D]
	replyDistances  chan distancesReply[D]
	replyBool       chan boolReply
	replyBools      chan boolsReply
	replyInt        chan intReply
	replyEntryPoint chan entryPointReply[V]
	replyLinks      chan linksReply[V, D]
	replyErr        chan error
}

type vectorReply[V comparable] struct {
	value V
	err   error
}
type distanceReply[D any] struct {
	value D
	err   error
}
type distancesReply[D any] struct {
	value []D
	err   error
}
type boolReply struct {
	value bool
	err   error
}
type boolsReply struct {
	value []bool
	err   error
}
type intReply struct {
	value int
	err   error
}
type entryPointReply[V comparable] struct {
	value hnsw.EntryPoint[V]
	ok    bool
	err   error
}
type linksReply[V comparable, D any] struct {
	value *hnsw.FurthestQueue[V, D]
	err   error
}

// ChannelStore implements both hnsw.VectorStore and hnsw.GraphStore by
// sending an Op on Ops for every call and blocking on that Op's private
// reply channel. It holds no backend state itself — a Host on the other
// end of Ops performs the actual work.
type ChannelStore[Q any, V comparable, D any] struct {
	Ops chan<- *Op[Q, V, D]
}

// NewChannelStore wraps an already-created Ops channel. The matching Host
// must be running (Host.Run) on the receiving end for calls to return.
func NewChannelStore[Q any, V comparable, D any](ops chan<- *Op[Q, V, D]) *ChannelStore[Q, V, D] {
	return &ChannelStore[Q, V, D]{Ops: ops}
}

func (c *ChannelStore[Q, V, D]) send(ctx context.Context, op *Op[Q, V, D]) error {
	select {
	case c.Ops <- op:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Insert sends an OpInsert and waits for the assigned vector handle.
func (c *ChannelStore[Q, V, D]) Insert(ctx context.Context, query Q) (V, error) {
	reply := make(chan vectorReply[V], 1)
	op := &Op[Q, V, D]{Kind: OpInsert, Query: query, replyVector: reply}
	if err := c.send(ctx, op); err != nil {
		var zero V
		return zero, err
	}
	select {
	case r := <-reply:
		return r.value, r.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// EvalDistance sends an OpEvalDistanceBatch with a single vector, matching
// the reference adapter which implements eval_distance in terms of its
// batch form.
func (c *ChannelStore[Q, V, D]) EvalDistance(ctx context.Context, query Q, vector V) (D, error) {
	ds, err := c.EvalDistanceBatch(ctx, query, []V{vector})
	if err != nil {
		var zero D
		return zero, err
	}
	return ds[0], nil
}

// EvalDistanceBatch sends an OpEvalDistanceBatch and waits for the result.
func (c *ChannelStore[Q, V, D]) EvalDistanceBatch(ctx context.Context, query Q, vectors []V) ([]D, error) {
	reply := make(chan distancesReply[D], 1)
	op := &Op[Q, V, D]{Kind: OpEvalDistanceBatch, Query: query, Vectors: vectors, replyDistances: reply}
	if err := c.send(ctx, op); err != nil {
		return nil, err
	}
	select {
	case r := <-reply:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsMatch sends an OpIsMatch and waits for the result.
func (c *ChannelStore[Q, V, D]) IsMatch(ctx context.Context, distance D) (bool, error) {
	reply := make(chan boolReply, 1)
	op := &Op[Q, V, D]{Kind: OpIsMatch, Distance: distance, replyBool: reply}
	if err := c.send(ctx, op); err != nil {
		return false, err
	}
	select {
	case r := <-reply:
		return r.value, r.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// LessThan sends an OpLessThanBatch with a single comparand, matching the
// reference adapter's batch-backed less_than.
func (c *ChannelStore[Q, V, D]) LessThan(ctx context.Context, d1, d2 D) (bool, error) {
	bs, err := c.LessThanBatch(ctx, d1, []D{d2})
	if err != nil {
		return false, err
	}
	return bs[0], nil
}

// LessThanBatch sends an OpLessThanBatch and waits for the result.
func (c *ChannelStore[Q, V, D]) LessThanBatch(ctx context.Context, distance D, distances []D) ([]bool, error) {
	reply := make(chan boolsReply, 1)
	op := &Op[Q, V, D]{Kind: OpLessThanBatch, Distance: distance, Distances: distances, replyBools: reply}
	if err := c.send(ctx, op); err != nil {
		return nil, err
	}
	select {
	case r := <-reply:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SearchSorted sends an OpSearchSorted and waits for the result.
func (c *ChannelStore[Q, V, D]) SearchSorted(ctx context.Context, sorted []D, target D) (int, error) {
	reply := make(chan intReply, 1)
	op := &Op[Q, V, D]{Kind: OpSearchSorted, Sorted: sorted, Distance: target, replyInt: reply}
	if err := c.send(ctx, op); err != nil {
		return 0, err
	}
	select {
	case r := <-reply:
		return r.value, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// GetEntryPoint sends an OpGetEntryPoint and waits for the result.
func (c *ChannelStore[Q, V, D]) GetEntryPoint(ctx context.Context) (hnsw.EntryPoint[V], bool, error) {
	reply := make(chan entryPointReply[V], 1)
	op := &Op[Q, V, D]{Kind: OpGetEntryPoint, replyEntryPoint: reply}
	if err := c.send(ctx, op); err != nil {
		return hnsw.EntryPoint[V]{}, false, err
	}
	select {
	case r := <-reply:
		return r.value, r.ok, r.err
	case <-ctx.Done():
		return hnsw.EntryPoint[V]{}, false, ctx.Err()
	}
}

// SetEntryPoint sends an OpSetEntryPoint and waits for acknowledgement.
func (c *ChannelStore[Q, V, D]) SetEntryPoint(ctx context.Context, entryPoint hnsw.EntryPoint[V]) error {
	reply := make(chan error, 1)
	op := &Op[Q, V, D]{Kind: OpSetEntryPoint, EntryPoint: entryPoint, replyErr: reply}
	if err := c.send(ctx, op); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetLinks sends an OpGetLinks and waits for the result.
func (c *ChannelStore[Q, V, D]) GetLinks(ctx context.Context, base V, lc int) (*hnsw.FurthestQueue[V, D], error) {
	reply := make(chan linksReply[V, D], 1)
	op := &Op[Q, V, D]{Kind: OpGetLinks, Base: base, LC: lc, replyLinks: reply}
	if err := c.send(ctx, op); err != nil {
		return nil, err
	}
	select {
	case r := <-reply:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SetLinks sends an OpSetLinks and waits for acknowledgement.
func (c *ChannelStore[Q, V, D]) SetLinks(ctx context.Context, base V, links *hnsw.FurthestQueue[V, D], lc int) error {
	reply := make(chan error, 1)
	op := &Op[Q, V, D]{Kind: OpSetLinks, Base: base, Links: links, LC: lc, replyErr: reply}
	if err := c.send(ctx, op); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Host drains Ops against a real VectorStore/GraphStore pair and replies
// to each Op's private channel, running until ctx is cancelled or Ops is
// closed. Run it in its own goroutine, opposite whatever goroutine holds
// the matching ChannelStore.
type Host[Q any, V comparable, D any] struct {
	Vectors hnsw.VectorStore[Q, V, D]
	Graph   hnsw.GraphStore[V, D]
	Ops     <-chan *Op[Q, V, D]
}

// NewHost wires vectors/graph to an already-created Ops channel.
func NewHost[Q any, V comparable, D any](vectors hnsw.VectorStore[Q, V, D], graph hnsw.GraphStore[V, D], ops <-chan *Op[Q, V, D]) *Host[Q, V, D] {
	return &Host[Q, V, D]{Vectors: vectors, Graph: graph, Ops: ops}
}

// Run services Ops until ctx is cancelled or the channel is closed.
func (h *Host[Q, V, D]) Run(ctx context.Context) error {
	for {
		select {
		case op, ok := <-h.Ops:
			if !ok {
				return nil
			}
			h.dispatch(ctx, op)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *Host[Q, V, D]) dispatch(ctx context.Context, op *Op[Q, V, D]) {
	switch op.Kind {
	case OpInsert:
		v, err := h.Vectors.Insert(ctx, op.Query)
		op.replyVector <- vectorReply[V]{value: v, err: err}
	case OpEvalDistanceBatch:
		ds, err := h.Vectors.EvalDistanceBatch(ctx, op.Query, op.Vectors)
		op.replyDistances <- distancesReply[D]{value: ds, err: err}
	case OpIsMatch:
		m, err := h.Vectors.IsMatch(ctx, op.Distance)
		op.replyBool <- boolReply{value: m, err: err}
	case OpLessThanBatch:
		bs, err := h.Vectors.LessThanBatch(ctx, op.Distance, op.Distances)
		op.replyBools <- boolsReply{value: bs, err: err}
	case OpSearchSorted:
		idx, err := h.Vectors.SearchSorted(ctx, op.Sorted, op.Distance)
		op.replyInt <- intReply{value: idx, err: err}
	case OpGetEntryPoint:
		ep, ok, err := h.Graph.GetEntryPoint(ctx)
		op.replyEntryPoint <- entryPointReply[V]{value: ep, ok: ok, err: err}
	case OpSetEntryPoint:
		err := h.Graph.SetEntryPoint(ctx, op.EntryPoint)
		op.replyErr <- err
	case OpGetLinks:
		links, err := h.Graph.GetLinks(ctx, op.Base, op.LC)
		op.replyLinks <- linksReply[V, D]{value: links, err: err}
	case OpSetLinks:
		err := h.Graph.SetLinks(ctx, op.Base, op.Links, op.LC)
		op.replyErr <- err
	default:
		panic(fmt.Sprintf("adapter: unhandled op kind %v", op.Kind))
	}
}
