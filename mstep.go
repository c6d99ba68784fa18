package mbcbigp

import (
	"gonum.org/v1/gonum/mat"
)

//StandardMStep will re-estimate mixture parameters from the data and the
//current responsibility matrix. Mixing proportions are the column means of z;
//each cluster's mean and covariance are the weighted moments of x under that
//cluster's responsibility column. A cluster whose responsibility mass has
//collapsed to zero leaves its covariance undefined and aborts the fit.
func StandardMStep(x, z *mat.Dense, workers int) (*MixtureParams, error) {
	n, _ := x.Dims()
	if n == 0 {
		return nil, ErrEmptySet
	}
	zn, k := z.Dims()
	if zn != n {
		return nil, ErrDimensionMismatch
	}
	props := ColumnSums(z)
	for j := range props {
		props[j] /= float64(n)
	}
	params := &MixtureParams{
		Props: props,
		Mean:  make([]*mat.VecDense, k),
		Cov:   make([]*mat.SymDense, k),
	}
	err := forEachCluster(k, workers, func(j int) error {
		w := mat.Col(nil, j, z)
		m, err := WeightedMean(x, w)
		if err != nil {
			return &DegenerateClusterError{Cluster: j, Cause: err}
		}
		c, err := WeightedCovarianceSym(x, w)
		if err != nil {
			return &DegenerateClusterError{Cluster: j, Cause: err}
		}
		params.Mean[j] = m
		params.Cov[j] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return params, nil
}
