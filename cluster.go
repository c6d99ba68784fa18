package mbcbigp

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//MixtureParams holds a fitted finite mixture of multivariate Gaussians: the
//mixing proportions, one mean vector per cluster, and one covariance matrix
//per cluster. An M-step rebuilds the whole struct; nothing mutates it in
//place afterwards.
type MixtureParams struct {
	Props []float64
	Mean  []*mat.VecDense
	Cov   []*mat.SymDense
}

//Groups will return the number of mixture components.
func (p *MixtureParams) Groups() int { return len(p.Props) }

//Dim will return the feature dimensionality.
func (p *MixtureParams) Dim() int {
	if len(p.Mean) == 0 {
		return 0
	}
	return p.Mean[0].Len()
}

//BlockParams holds per-cluster means and covariances for one feature block of
//the conditional model. Prec optionally carries precomputed per-cluster
//precision matrices; when absent the covariances are inverted once per fit.
type BlockParams struct {
	Mean []*mat.VecDense
	Cov  []*mat.SymDense
	Prec []*mat.SymDense
}

//Clone will deep-copy the block parameters. The conditional driver chooses
//between the previous and a freshly re-estimated block-A snapshot each
//iteration, so snapshots must not alias.
func (b *BlockParams) Clone() *BlockParams {
	out := &BlockParams{
		Mean: make([]*mat.VecDense, len(b.Mean)),
		Cov:  make([]*mat.SymDense, len(b.Cov)),
	}
	for i, m := range b.Mean {
		out.Mean[i] = mat.VecDenseCopyOf(m)
	}
	for i, c := range b.Cov {
		cp := mat.NewSymDense(c.SymmetricDim(), nil)
		cp.CopySym(c)
		out.Cov[i] = cp
	}
	if b.Prec != nil {
		out.Prec = make([]*mat.SymDense, len(b.Prec))
		for i, c := range b.Prec {
			cp := mat.NewSymDense(c.SymmetricDim(), nil)
			cp.CopySym(c)
			out.Prec[i] = cp
		}
	}
	return out
}

//ConditionalParams holds the joint parameterization of the conditional model:
//shared mixing proportions, block-A and block-B parameters, and the
//per-cluster cross-covariance linking the two blocks (p_A x p_B).
type ConditionalParams struct {
	Props []float64
	A     *BlockParams
	B     *BlockParams
	Cross []*mat.Dense
}

//Groups will return the number of mixture components.
func (p *ConditionalParams) Groups() int { return len(p.Props) }

//JointBlock will assemble cluster k's joint mean and covariance over the
//concatenated (A, B) feature vector from the three covariance sub-blocks.
func (p *ConditionalParams) JointBlock(k int) (*mat.VecDense, *mat.SymDense) {
	pa := p.A.Mean[k].Len()
	pb := p.B.Mean[k].Len()
	mean := mat.NewVecDense(pa+pb, nil)
	for i := 0; i < pa; i++ {
		mean.SetVec(i, p.A.Mean[k].AtVec(i))
	}
	for i := 0; i < pb; i++ {
		mean.SetVec(pa+i, p.B.Mean[k].AtVec(i))
	}
	cov := mat.NewSymDense(pa+pb, nil)
	for i := 0; i < pa; i++ {
		for j := i; j < pa; j++ {
			cov.SetSym(i, j, p.A.Cov[k].At(i, j))
		}
		for j := 0; j < pb; j++ {
			cov.SetSym(i, pa+j, p.Cross[k].At(i, j))
		}
	}
	for i := 0; i < pb; i++ {
		for j := i; j < pb; j++ {
			cov.SetSym(pa+i, pa+j, p.B.Cov[k].At(i, j))
		}
	}
	return mean, cov
}

//validateProps will check that mixing proportions form a distribution.
func validateProps(props []float64) error {
	if len(props) == 0 {
		return ErrZeroGroups
	}
	sum := floats.Sum(props)
	if math.Abs(sum-1) > 1e-6 {
		return ErrBadProportions
	}
	return nil
}
