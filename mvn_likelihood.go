package mbcbigp

import (
	"gonum.org/v1/gonum/mat"
)

const log2Pi = 1.8378770664093453

//MVNLogDensity will evaluate the multivariate normal log-density of every row
//of x under the given mean and covariance. The quadratic form and the
//log-determinant come from a Cholesky factorization; no explicit inverse is
//formed here. A covariance that fails to factorize surfaces ErrSingular.
func MVNLogDensity(x mat.Matrix, mean *mat.VecDense, sigma *mat.SymDense) ([]float64, error) {
	n, p := x.Dims()
	if mean.Len() != p || sigma.SymmetricDim() != p {
		return nil, ErrDimensionMismatch
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return nil, ErrSingular
	}
	logdet := chol.LogDet()
	norm := -0.5 * (float64(p)*log2Pi + logdet)
	out := make([]float64, n)
	d := mat.NewVecDense(p, nil)
	s := mat.NewVecDense(p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			d.SetVec(j, x.At(i, j)-mean.AtVec(j))
		}
		if err := chol.SolveVecTo(s, d); err != nil {
			return nil, ErrSingular
		}
		out[i] = norm - 0.5*mat.Dot(d, s)
	}
	return out, nil
}

//PrecisionMatrix will invert a covariance matrix through its Cholesky factor.
//The Schur-complement algebra in the conditional M-step works on explicit
//precision matrices, so the one inversion routine is shared by everything
//that needs one.
func PrecisionMatrix(sigma *mat.SymDense) (*mat.SymDense, error) {
	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return nil, ErrSingular
	}
	prec := mat.NewSymDense(sigma.SymmetricDim(), nil)
	if err := chol.InverseTo(prec); err != nil {
		return nil, ErrSingular
	}
	return prec, nil
}
