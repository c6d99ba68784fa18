package mbcbigp

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Reference implementations of the initialization contract: anything
// row-stochastic with no empty cluster works, these are just the obvious ones.

//RandomResponsibilities will draw a random soft assignment: each row gets
//independent uniform draws, normalized to sum to one.
func RandomResponsibilities(n, k int, src rand.Source) (*mat.Dense, error) {
	if n < 1 {
		return nil, ErrEmptySet
	}
	if k < 1 {
		return nil, ErrZeroGroups
	}
	rng := rand.New(src)
	z := mat.NewDense(n, k, nil)
	row := make([]float64, k)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			row[j] = rng.Float64()
		}
		floats.Scale(1/floats.Sum(row), row)
		z.SetRow(i, row)
	}
	return z, nil
}

//RandomAssignments will draw a hard random cluster label for every
//observation.
func RandomAssignments(n, k int, src rand.Source) []int {
	rng := rand.New(src)
	out := make([]int, n)
	for i := range out {
		out[i] = rng.Intn(k)
	}
	return out
}

//IndicatorResponsibilities will expand hard cluster labels, such as a k-means
//assignment, into indicator rows.
func IndicatorResponsibilities(assign []int, k int) (*mat.Dense, error) {
	if len(assign) == 0 {
		return nil, ErrEmptySet
	}
	if k < 1 {
		return nil, ErrZeroGroups
	}
	z := mat.NewDense(len(assign), k, nil)
	for i, a := range assign {
		if a < 0 || a >= k {
			return nil, ErrInvalidRange
		}
		z.Set(i, a, 1)
	}
	return z, nil
}
