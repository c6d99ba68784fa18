package mbcbigp

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//MixtureLogLikelihood will evaluate the mixture log-likelihood
//sum_i log(sum_k prop_k * N(x_i; mean_k, cov_k)) via a per-row log-sum-exp.
//Pure function of the data and parameters.
func MixtureLogLikelihood(x *mat.Dense, params *MixtureParams, workers int) (float64, error) {
	logp, err := weightedLogDensities(x, params.Props, params.Mean, params.Cov, workers)
	if err != nil {
		return 0, err
	}
	return sumRowLogSumExp(logp)
}

//ConditionalLogLikelihood will evaluate the joint log-likelihood of both
//blocks under the conditional model, using the per-cluster joint Gaussian
//over the concatenated (A, B) feature vector.
func ConditionalLogLikelihood(xa, xb *mat.Dense, params *ConditionalParams, workers int) (float64, error) {
	joint, err := JoinColumns(xa, xb)
	if err != nil {
		return 0, err
	}
	k := params.Groups()
	mean := make([]*mat.VecDense, k)
	cov := make([]*mat.SymDense, k)
	for j := 0; j < k; j++ {
		mean[j], cov[j] = params.JointBlock(j)
	}
	logp, err := weightedLogDensities(joint, params.Props, mean, cov, workers)
	if err != nil {
		return 0, err
	}
	return sumRowLogSumExp(logp)
}

func sumRowLogSumExp(logp *mat.Dense) (float64, error) {
	n, k := logp.Dims()
	row := make([]float64, k)
	total := 0.
	for i := 0; i < n; i++ {
		mat.Row(row, i, logp)
		total += floats.LogSumExp(row)
	}
	return total, nil
}
