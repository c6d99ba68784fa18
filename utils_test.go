package mbcbigp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	mbcbigp "github.com/guhjy/MBCbigP"
)

// TestSymDenseConvert verifies symmetrization and the square-shape check.
func TestSymDenseConvert(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2.000001, 1.999999, 3})
	s, err := mbcbigp.SymDenseConvert(m)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, s.At(0, 1), 1e-9)
	assert.Equal(t, s.At(0, 1), s.At(1, 0))

	_, err = mbcbigp.SymDenseConvert(mat.NewDense(2, 3, nil))
	assert.ErrorIs(t, err, mbcbigp.ErrDimensionMismatch)
}

// TestJoinColumns verifies horizontal concatenation.
func TestJoinColumns(t *testing.T) {
	a := mat.NewDense(2, 1, []float64{1, 2})
	b := mat.NewDense(2, 2, []float64{3, 4, 5, 6})

	j, err := mbcbigp.JoinColumns(a, b)
	require.NoError(t, err)
	r, c := j.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 1.0, j.At(0, 0))
	assert.Equal(t, 4.0, j.At(0, 2))
	assert.Equal(t, 5.0, j.At(1, 1))

	_, err = mbcbigp.JoinColumns(a, mat.NewDense(3, 1, nil))
	assert.ErrorIs(t, err, mbcbigp.ErrDimensionMismatch)
}

// TestHardAssignments verifies per-row argmax extraction.
func TestHardAssignments(t *testing.T) {
	z := mat.NewDense(3, 2, []float64{
		0.9, 0.1,
		0.2, 0.8,
		0.5, 0.5,
	})
	assert.Equal(t, []int{0, 1, 0}, mbcbigp.HardAssignments(z))
}

// TestColumnSums verifies the per-column totals.
func TestColumnSums(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	assert.Equal(t, []float64{4, 6}, mbcbigp.ColumnSums(m))
}
