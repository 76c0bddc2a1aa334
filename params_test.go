package hnsw

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParamsValidate(t *testing.T) {
	p := DefaultParams()
	require.NoError(t, p.Validate())
}

func TestNewParamsAppliesOptions(t *testing.T) {
	p, err := NewParams(WithEF(16), WithM(8), WithMmax(8), WithMmax0(16), WithLevelMultiplier(0.5))
	require.NoError(t, err)
	assert.Equal(t, 16, p.EF)
	assert.Equal(t, 8, p.M)
	assert.Equal(t, 8, p.Mmax)
	assert.Equal(t, 16, p.Mmax0)
	assert.Equal(t, 0.5, p.ML)
}

func TestParamsValidateRejectsNonPositive(t *testing.T) {
	cases := []Params{
		{EF: 0, M: 1, Mmax: 1, Mmax0: 1, ML: 0.3},
		{EF: 1, M: 0, Mmax: 1, Mmax0: 1, ML: 0.3},
		{EF: 1, M: 1, Mmax: 0, Mmax0: 1, ML: 0.3},
		{EF: 1, M: 1, Mmax: 1, Mmax0: 0, ML: 0.3},
		{EF: 1, M: 1, Mmax: 1, Mmax0: 1, ML: 0},
	}
	for _, p := range cases {
		err := p.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidParams))
	}
}

func TestParamsValidateRejectsMAboveCap(t *testing.T) {
	p := Params{EF: 32, M: 10, Mmax: 8, Mmax0: 32, ML: 0.3}
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

func TestNewParamsPropagatesValidationError(t *testing.T) {
	_, err := NewParams(WithM(1000), WithMmax(4), WithMmax0(4))
	require.Error(t, err)
}
