package mbcbigp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Effective responsibility mass below this is treated as an empty cluster.
const minWeightSum = 1e-12

//WeightedMean will calculate sum(w_i * x_i) / sum(w_i) over the rows of x.
func WeightedMean(x mat.Matrix, w []float64) (*mat.VecDense, error) {
	n, p := x.Dims()
	if n == 0 {
		return nil, ErrEmptySet
	}
	if len(w) != n {
		return nil, ErrDimensionMismatch
	}
	wsum := floats.Sum(w)
	if wsum <= minWeightSum {
		return nil, ErrZeroWeights
	}
	mean := make([]float64, p)
	for i := 0; i < n; i++ {
		wi := w[i]
		if wi == 0 {
			continue
		}
		for j := 0; j < p; j++ {
			mean[j] += wi * x.At(i, j)
		}
	}
	floats.Scale(1/wsum, mean)
	return mat.NewVecDense(p, mean), nil
}

//WeightedCovariance will calculate the weighted cross-covariance between the
//feature blocks x and y under shared weights w. The weights are normalized to
//sum to one, each block is centered by its own weighted mean, and the result
//is the maximum-likelihood estimate (sqrt(w) ⊙ cx)ᵀ (sqrt(w) ⊙ cy). With
//x == y this is the weighted covariance matrix; soft responsibility counts are
//not a drawn sample, so no n-1 style correction applies.
func WeightedCovariance(x, y mat.Matrix, w []float64) (*mat.Dense, error) {
	nx, px := x.Dims()
	ny, py := y.Dims()
	if nx != ny {
		return nil, ErrDimensionMismatch
	}
	mx, err := WeightedMean(x, w)
	if err != nil {
		return nil, err
	}
	my, err := WeightedMean(y, w)
	if err != nil {
		return nil, err
	}
	wsum := floats.Sum(w)
	cx := mat.NewDense(nx, px, nil)
	cy := mat.NewDense(nx, py, nil)
	for i := 0; i < nx; i++ {
		sw := math.Sqrt(w[i] / wsum)
		for j := 0; j < px; j++ {
			cx.Set(i, j, sw*(x.At(i, j)-mx.AtVec(j)))
		}
		for j := 0; j < py; j++ {
			cy.Set(i, j, sw*(y.At(i, j)-my.AtVec(j)))
		}
	}
	cov := mat.NewDense(px, py, nil)
	cov.Mul(cx.T(), cy)
	return cov, nil
}

//WeightedCovarianceSym will calculate the weighted covariance of x with itself
//and return it in symmetric form.
func WeightedCovarianceSym(x mat.Matrix, w []float64) (*mat.SymDense, error) {
	cov, err := WeightedCovariance(x, x, w)
	if err != nil {
		return nil, err
	}
	return SymDenseConvert(cov)
}
