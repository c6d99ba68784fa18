package mbcbigp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//weightedLogDensities will fill an n x k matrix with
//log(prop_j) + log N(x_i; mean_j, cov_j), the shared core of the E-step and
//the likelihood evaluation.
func weightedLogDensities(x *mat.Dense, props []float64, mean []*mat.VecDense, cov []*mat.SymDense, workers int) (*mat.Dense, error) {
	n, _ := x.Dims()
	k := len(props)
	if len(mean) != k || len(cov) != k {
		return nil, ErrDimensionMismatch
	}
	logp := mat.NewDense(n, k, nil)
	err := forEachCluster(k, workers, func(j int) error {
		dens, err := MVNLogDensity(x, mean[j], cov[j])
		if err != nil {
			return &DegenerateClusterError{Cluster: j, Cause: err}
		}
		lp := math.Log(props[j])
		for i := 0; i < n; i++ {
			logp.Set(i, j, lp+dens[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logp, nil
}

//normalizeResponsibilities will exponentiate and row-normalize a matrix of
//weighted log-densities through a per-row log-sum-exp. A row whose densities
//all underflowed has no valid posterior and aborts the fit.
func normalizeResponsibilities(logp *mat.Dense) (*mat.Dense, error) {
	n, k := logp.Dims()
	z := mat.NewDense(n, k, nil)
	row := make([]float64, k)
	for i := 0; i < n; i++ {
		mat.Row(row, i, logp)
		lse := floats.LogSumExp(row)
		if math.IsInf(lse, -1) || math.IsNaN(lse) {
			return nil, ErrUnderflow
		}
		for j := 0; j < k; j++ {
			z.Set(i, j, math.Exp(row[j]-lse))
		}
	}
	return z, nil
}

//StandardEStep will compute the posterior responsibility matrix for the data
//under the current parameters. Rows of the result are row-stochastic.
func StandardEStep(x *mat.Dense, params *MixtureParams, workers int) (*mat.Dense, error) {
	logp, err := weightedLogDensities(x, params.Props, params.Mean, params.Cov, workers)
	if err != nil {
		return nil, err
	}
	return normalizeResponsibilities(logp)
}
