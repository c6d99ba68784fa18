package mbcbigp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//CrossCovMethod selects how the per-cluster cross-covariance between blocks A
//and B is estimated. The method is fixed once per fit.
type CrossCovMethod int

const (
	// CrossAnalytic centers both blocks and forms the sqrt-weighted product,
	// the same estimator WeightedCovariance uses.
	CrossAnalytic CrossCovMethod = iota
	// CrossNumeric uses the uncentered moment identity
	// E[a bᵀ] − E[a]E[b]ᵀ. Algebraically equal to CrossAnalytic, it takes a
	// different floating-point path and serves as a cross-check or fallback.
	CrossNumeric
)

//crossCovariance will estimate the p_A x p_B cross-covariance of the two
//blocks under shared weights, by the selected method.
func crossCovariance(xa, xb mat.Matrix, w []float64, method CrossCovMethod) (*mat.Dense, error) {
	if method != CrossNumeric {
		return WeightedCovariance(xa, xb, w)
	}
	na, pa := xa.Dims()
	nb, pb := xb.Dims()
	if na != nb {
		return nil, ErrDimensionMismatch
	}
	wsum := floats.Sum(w)
	if wsum <= minWeightSum {
		return nil, ErrZeroWeights
	}
	ma, err := WeightedMean(xa, w)
	if err != nil {
		return nil, err
	}
	mb, err := WeightedMean(xb, w)
	if err != nil {
		return nil, err
	}
	cross := mat.NewDense(pa, pb, nil)
	for i := 0; i < na; i++ {
		wi := w[i] / wsum
		if wi == 0 {
			continue
		}
		for r := 0; r < pa; r++ {
			for c := 0; c < pb; c++ {
				cross.Set(r, c, cross.At(r, c)+wi*xa.At(i, r)*xb.At(i, c))
			}
		}
	}
	for r := 0; r < pa; r++ {
		for c := 0; c < pb; c++ {
			cross.Set(r, c, cross.At(r, c)-ma.AtVec(r)*mb.AtVec(c))
		}
	}
	return cross, nil
}

//blockPrecisions will return per-cluster precision matrices for block A,
//taking the supplied ones when present and inverting the covariances once
//otherwise.
func blockPrecisions(a *BlockParams) ([]*mat.SymDense, error) {
	if len(a.Prec) == len(a.Cov) && len(a.Prec) > 0 {
		return a.Prec, nil
	}
	precs := make([]*mat.SymDense, len(a.Cov))
	for k, cov := range a.Cov {
		prec, err := PrecisionMatrix(cov)
		if err != nil {
			return nil, &DegenerateClusterError{Cluster: k, Cause: err}
		}
		precs[k] = prec
	}
	return precs, nil
}

//ConditionalMStep will re-estimate the conditional model's parameters given
//both blocks of data, the responsibilities, and block-A parameters. Block B's
//mean is the weighted mean corrected for block A's deviation from its own
//cluster mean through the Schur-complement identity
//
//	mean_B = wmean(x_B) + cov_ABᵀ · prec_A · (wmean(x_A) − mean_A)
//
//and B's unconditional covariance is assembled from the weighted covariance of
//the conditional residuals plus the cross term cov_ABᵀ·prec_A·cov_AB, so that
//the joint (A, B) covariance stays positive semi-definite by construction.
//prevCross, when non-nil, carries the previous iteration's cross-covariance
//and backstops a cluster whose fresh estimate comes out non-finite. With
//updateA set, block A's moments are also re-estimated under the same
//responsibilities and returned as a fresh snapshot; the input is never
//mutated either way.
func ConditionalMStep(xa, xb, z *mat.Dense, a *BlockParams, prevCross []*mat.Dense, method CrossCovMethod, updateA bool, workers int) (*ConditionalParams, error) {
	n, pa := xa.Dims()
	nb, pb := xb.Dims()
	zn, k := z.Dims()
	if n != nb || zn != n {
		return nil, ErrDimensionMismatch
	}
	if len(a.Mean) != k || len(a.Cov) != k {
		return nil, ErrDimensionMismatch
	}
	precs, err := blockPrecisions(a)
	if err != nil {
		return nil, err
	}
	props := ColumnSums(z)
	for j := range props {
		props[j] /= float64(n)
	}
	params := &ConditionalParams{
		Props: props,
		A:     a,
		B: &BlockParams{
			Mean: make([]*mat.VecDense, k),
			Cov:  make([]*mat.SymDense, k),
		},
		Cross: make([]*mat.Dense, k),
	}
	if updateA {
		params.A = &BlockParams{
			Mean: make([]*mat.VecDense, k),
			Cov:  make([]*mat.SymDense, k),
		}
	}
	err = forEachCluster(k, workers, func(j int) error {
		w := mat.Col(nil, j, z)
		wmA, err := WeightedMean(xa, w)
		if err != nil {
			return &DegenerateClusterError{Cluster: j, Cause: err}
		}
		wmB, err := WeightedMean(xb, w)
		if err != nil {
			return &DegenerateClusterError{Cluster: j, Cause: err}
		}
		cross, err := crossCovariance(xa, xb, w, method)
		if err != nil {
			return &DegenerateClusterError{Cluster: j, Cause: err}
		}
		if prevCross != nil && hasNonFinite(cross) {
			cross = mat.DenseCopyOf(prevCross[j])
		}

		// regression coefficient prec_A · cov_AB, shared by the mean
		// correction and the residual adjustment
		beta := mat.NewDense(pa, pb, nil)
		beta.Mul(precs[j], cross)

		devA := mat.NewVecDense(pa, nil)
		devA.SubVec(wmA, a.Mean[j])
		corr := mat.NewVecDense(pb, nil)
		corr.MulVec(beta.T(), devA)
		meanB := mat.NewVecDense(pb, nil)
		meanB.AddVec(wmB, corr)

		// conditional residuals r_i = b_i − betaᵀ(a_i − mean_A)
		centeredA := mat.NewDense(n, pa, nil)
		for i := 0; i < n; i++ {
			for c := 0; c < pa; c++ {
				centeredA.Set(i, c, xa.At(i, c)-a.Mean[j].AtVec(c))
			}
		}
		adj := mat.NewDense(n, pb, nil)
		adj.Mul(centeredA, beta)
		resid := mat.NewDense(n, pb, nil)
		resid.Sub(xb, adj)
		condCov, err := WeightedCovariance(resid, resid, w)
		if err != nil {
			return &DegenerateClusterError{Cluster: j, Cause: err}
		}
		crossTerm := mat.NewDense(pb, pb, nil)
		crossTerm.Mul(cross.T(), beta)
		condCov.Add(condCov, crossTerm)
		covB, err := SymDenseConvert(condCov)
		if err != nil {
			return &DegenerateClusterError{Cluster: j, Cause: err}
		}

		params.B.Mean[j] = meanB
		params.B.Cov[j] = covB
		params.Cross[j] = cross
		if updateA {
			covA, err := WeightedCovarianceSym(xa, w)
			if err != nil {
				return &DegenerateClusterError{Cluster: j, Cause: err}
			}
			params.A.Mean[j] = wmA
			params.A.Cov[j] = covA
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return params, nil
}

//ConditionalEStep will compute responsibilities from the joint Gaussian over
//the concatenated (A, B) feature vector per cluster. The two blocks may have
//different widths.
func ConditionalEStep(xa, xb *mat.Dense, params *ConditionalParams, workers int) (*mat.Dense, error) {
	joint, err := JoinColumns(xa, xb)
	if err != nil {
		return nil, err
	}
	k := params.Groups()
	mean := make([]*mat.VecDense, k)
	cov := make([]*mat.SymDense, k)
	for j := 0; j < k; j++ {
		mean[j], cov[j] = params.JointBlock(j)
	}
	logp, err := weightedLogDensities(joint, params.Props, mean, cov, workers)
	if err != nil {
		return nil, err
	}
	return normalizeResponsibilities(logp)
}

func hasNonFinite(m *mat.Dense) bool {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}
