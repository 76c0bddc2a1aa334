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

import "fmt"

// Params holds the HNSW tuning knobs. Defaults (ef=M=Mmax=Mmax0=32, m_L=0.3)
// match the reference implementation this package generalizes.
//
// EF (candidate-list cap) controls both search and construction recall;
// this package deliberately collapses the reference algorithm's per-role
// ef variants (search vs. construction, bottom vs. upper layers) into the
// single EF field — see Searcher.efForLayer.
type Params struct {
	// EF is the candidate-list cap used at every layer and every call
	// (search and insert alike).
	EF int
	// M is the number of neighbors selected for a newly inserted vector.
	M int
	// Mmax caps the degree of any node at layers above the bottom.
	Mmax int
	// Mmax0 caps the degree of any node at the bottom layer (layer 0).
	Mmax0 int
	// ML (m_L) is the geometric factor controlling layer assignment:
	// level = floor(-ln(r) * ML) for r uniform in (0, 1).
	ML float64
}

// DefaultParams returns the package defaults: ef=M=Mmax=Mmax0=32, m_L=0.3.
func DefaultParams() Params {
	return Params{
		EF:    32,
		M:     32,
		Mmax:  32,
		Mmax0: 32,
		ML:    0.3,
	}
}

// ParamsOption configures a Params value built by NewParams.
type ParamsOption func(*Params)

// WithEF sets the candidate-list cap (ef) for search and construction.
func WithEF(ef int) ParamsOption {
	return func(p *Params) { p.EF = ef }
}

// WithM sets the number of neighbors selected for newly inserted vectors.
func WithM(m int) ParamsOption {
	return func(p *Params) { p.M = m }
}

// WithMmax sets the per-node degree cap above the bottom layer.
func WithMmax(mmax int) ParamsOption {
	return func(p *Params) { p.Mmax = mmax }
}

// WithMmax0 sets the per-node degree cap at the bottom layer.
func WithMmax0(mmax0 int) ParamsOption {
	return func(p *Params) { p.Mmax0 = mmax0 }
}

// WithLevelMultiplier sets m_L, the geometric factor used by layer
// assignment.
func WithLevelMultiplier(mL float64) ParamsOption {
	return func(p *Params) { p.ML = mL }
}

// NewParams builds a Params value from DefaultParams plus the given
// options, then validates it. An invalid configuration (ef/M/Mmax/Mmax0
// non-positive, m_L non-positive, or M exceeding min(Mmax, Mmax0)) is
// rejected here rather than discovered later as a corrupted graph — this
// resolves the open question in the design notes about enforcing
// M <= min(Mmax, Mmax0).
func NewParams(opts ...ParamsOption) (Params, error) {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Validate reports whether p is a usable configuration.
func (p Params) Validate() error {
	if p.EF <= 0 || p.M <= 0 || p.Mmax <= 0 || p.Mmax0 <= 0 {
		return fmt.Errorf("%w: ef, m, mmax and mmax0 must all be positive (got ef=%d m=%d mmax=%d mmax0=%d)",
			ErrInvalidParams, p.EF, p.M, p.Mmax, p.Mmax0)
	}
	if p.ML <= 0 {
		return fmt.Errorf("%w: m_L must be positive (got %v)", ErrInvalidParams, p.ML)
	}
	limit := p.Mmax
	if p.Mmax0 < limit {
		limit = p.Mmax0
	}
	if p.M > limit {
		return fmt.Errorf("%w: m (%d) must be <= min(mmax, mmax0) (%d); connect_bidir only trims the forward queue to m, so a larger m would silently exceed the stored degree cap",
			ErrInvalidParams, p.M, limit)
	}
	return nil
}
