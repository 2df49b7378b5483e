package dense_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lvlopt/dense"
)

func TestNew_Validation(t *testing.T) {
	_, err := dense.New(-1, 3)
	assert.ErrorIs(t, err, dense.ErrBadShape)

	_, err = dense.NewFromSlice(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, dense.ErrDimensionMismatch)
}

func TestDense_AtSetUpdate(t *testing.T) {
	m, err := dense.New(2, 3)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 2, 5))
	require.NoError(t, m.Update(1, 2, 2.5))

	v, err := m.At(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 7.5, v)

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, dense.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, 3, 1), dense.ErrOutOfRange)
}

func TestDense_CloneIsDeep(t *testing.T) {
	m, err := dense.NewFromSlice(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 99))

	v, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)
}

func TestDense_RowAliasesStorage(t *testing.T) {
	m, err := dense.NewFromSlice(2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	m.Row(1)[0] = -7
	v, err := m.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, -7.0, v)
}

func TestOnes(t *testing.T) {
	e := dense.Ones(4)
	assert.Equal(t, []float64{1, 1, 1, 1}, e)
}
