package mbcbigp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	mbcbigp "github.com/guhjy/MBCbigP"
)

// TestFitMixture_TwoWellSeparatedClusters is the canonical end-to-end run:
// two spherical clusters at (0,0) and (10,10), 100 points each, balanced
// mixing, a reasonable soft initialization. The fit must converge with
// proportions near (0.5, 0.5), means within 0.3 of the truth, and a
// non-decreasing checkpoint trace.
func TestFitMixture_TwoWellSeparatedClusters(t *testing.T) {
	x := sampleTwoClusters(t, 100, 7)
	z0 := softInitTwoClusters(x)

	trace := &mbcbigp.TraceObserver{}
	cfg := mbcbigp.DefaultFitConfig()
	cfg.Observers = []mbcbigp.ProgressObserver{trace}

	res, err := mbcbigp.FitMixture(x, z0, cfg)
	require.NoError(t, err)
	assert.True(t, res.Converged)

	require.Len(t, res.Params.Props, 2)
	for _, p := range res.Params.Props {
		assert.InDelta(t, 0.5, p, 0.05)
	}

	// clusters may come out in either order
	truth := [][]float64{{0, 0}, {10, 10}}
	for _, want := range truth {
		found := false
		for _, m := range res.Params.Mean {
			if math.Abs(m.AtVec(0)-want[0]) < 0.3 && math.Abs(m.AtVec(1)-want[1]) < 0.3 {
				found = true
			}
		}
		assert.True(t, found, "no estimated mean near %v", want)
	}

	for i := 1; i < len(res.Trace); i++ {
		assert.GreaterOrEqual(t, res.Trace[i], res.Trace[i-1]-1e-6)
	}
	assert.Equal(t, res.Trace, trace.Trace)
	assertRowStochastic(t, res.Resp)
}

// TestFitMixture_Deterministic verifies that identical data and identical
// initial responsibilities reproduce the trajectory exactly.
func TestFitMixture_Deterministic(t *testing.T) {
	x := sampleTwoClusters(t, 80, 11)
	z0 := softInitTwoClusters(x)

	cfg := mbcbigp.DefaultFitConfig()
	a, err := mbcbigp.FitMixture(x, z0, cfg)
	require.NoError(t, err)
	b, err := mbcbigp.FitMixture(x, z0, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Trace, b.Trace)
	assert.Equal(t, a.Iterations, b.Iterations)
	assert.Equal(t, a.Params.Props, b.Params.Props)
	for k := range a.Params.Mean {
		assert.True(t, mat.Equal(a.Params.Mean[k], b.Params.Mean[k]))
		assert.True(t, mat.Equal(a.Params.Cov[k], b.Params.Cov[k]))
	}
}

// TestFitMixture_MaxIterIsNotAnError verifies that hitting the iteration cap
// returns the last state with Converged=false rather than failing.
func TestFitMixture_MaxIterIsNotAnError(t *testing.T) {
	x := sampleTwoClusters(t, 50, 13)
	z0 := softInitTwoClusters(x)

	cfg := mbcbigp.DefaultFitConfig()
	cfg.MaxIter = 3 // below the first likelihood checkpoint

	res, err := mbcbigp.FitMixture(x, z0, cfg)
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Equal(t, 3, res.Iterations)
	assert.NotNil(t, res.Params)
	assert.Empty(t, res.Trace)
}

// TestFitMixture_SingleGroupConvergesAtSecondCheckpoint verifies the K=1
// fit converges within one checkpoint interval of the first evaluation.
func TestFitMixture_SingleGroupConvergesAtSecondCheckpoint(t *testing.T) {
	x := sampleTwoClusters(t, 50, 17)
	n, _ := x.Dims()
	z0 := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		z0.Set(i, 0, 1)
	}

	res, err := mbcbigp.FitMixture(x, z0, mbcbigp.DefaultFitConfig())
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, 10, res.Iterations)
}

// TestFitMixture_ConfigErrors verifies configuration rejection.
func TestFitMixture_ConfigErrors(t *testing.T) {
	x := sampleTwoClusters(t, 10, 19)
	z0 := softInitTwoClusters(x)

	cfg := mbcbigp.DefaultFitConfig()
	cfg.MaxIter = 0
	_, err := mbcbigp.FitMixture(x, z0, cfg)
	assert.ErrorIs(t, err, mbcbigp.ErrZeroIterations)

	short := mat.NewDense(3, 2, nil)
	_, err = mbcbigp.FitMixture(x, short, mbcbigp.DefaultFitConfig())
	assert.ErrorIs(t, err, mbcbigp.ErrDimensionMismatch)
}

// TestMixtureLogLikelihood_SingleGroup checks the likelihood against a direct
// per-row density sum when there is nothing to mix.
func TestMixtureLogLikelihood_SingleGroup(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{0, 1, 2})
	params := &mbcbigp.MixtureParams{
		Props: []float64{1},
		Mean:  []*mat.VecDense{mat.NewVecDense(1, []float64{0})},
		Cov:   []*mat.SymDense{mat.NewSymDense(1, []float64{1})},
	}

	got, err := mbcbigp.MixtureLogLikelihood(x, params, 1)
	require.NoError(t, err)

	dens, err := mbcbigp.MVNLogDensity(x, params.Mean[0], params.Cov[0])
	require.NoError(t, err)
	want := dens[0] + dens[1] + dens[2]
	assert.InDelta(t, want, got, 1e-12)
}
