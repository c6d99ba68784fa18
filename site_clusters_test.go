package mbcbigp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	mbcbigp "github.com/guhjy/MBCbigP"
)

// TestRandomResponsibilities_RowStochastic verifies the random soft
// initializer satisfies the initialization contract.
func TestRandomResponsibilities_RowStochastic(t *testing.T) {
	z, err := mbcbigp.RandomResponsibilities(40, 3, rand.NewSource(1))
	require.NoError(t, err)
	assertRowStochastic(t, z)
}

// TestRandomResponsibilities_Deterministic verifies a fixed source reproduces
// the draw.
func TestRandomResponsibilities_Deterministic(t *testing.T) {
	a, err := mbcbigp.RandomResponsibilities(10, 2, rand.NewSource(7))
	require.NoError(t, err)
	b, err := mbcbigp.RandomResponsibilities(10, 2, rand.NewSource(7))
	require.NoError(t, err)
	assert.Equal(t, a.RawMatrix().Data, b.RawMatrix().Data)
}

// TestIndicatorResponsibilities verifies hard labels expand to indicator rows
// and out-of-range labels are rejected.
func TestIndicatorResponsibilities(t *testing.T) {
	z, err := mbcbigp.IndicatorResponsibilities([]int{0, 2, 1}, 3)
	require.NoError(t, err)
	assertRowStochastic(t, z)
	assert.Equal(t, 1.0, z.At(0, 0))
	assert.Equal(t, 1.0, z.At(1, 2))
	assert.Equal(t, 1.0, z.At(2, 1))

	_, err = mbcbigp.IndicatorResponsibilities([]int{0, 3}, 3)
	assert.ErrorIs(t, err, mbcbigp.ErrInvalidRange)

	_, err = mbcbigp.IndicatorResponsibilities(nil, 3)
	assert.ErrorIs(t, err, mbcbigp.ErrEmptySet)
}

// TestRandomAssignments_InRange verifies labels stay inside [0, k).
func TestRandomAssignments_InRange(t *testing.T) {
	labels := mbcbigp.RandomAssignments(100, 4, rand.NewSource(3))
	require.Len(t, labels, 100)
	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 4)
	}
}
