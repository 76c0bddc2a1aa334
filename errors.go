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
	"errors"
	"fmt"
)

var (
	// ErrNilBackend is returned by New when the vector or graph store is nil.
	ErrNilBackend = errors.New("hnsw: vector store and graph store are required")
	// ErrInvalidParams is returned when a Params value fails validation.
	ErrInvalidParams = errors.New("hnsw: invalid parameters")
)

// InvariantViolation marks a programmer error: a contract the core or a
// backend was required to uphold did not hold. Per spec, these are not
// recoverable backend failures and must abort deterministically rather
// than propagate as an ordinary error. Searcher methods panic with a
// *InvariantViolation instead of returning one.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string {
	return "hnsw: invariant violation: " + e.Msg
}

func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
	}
}
