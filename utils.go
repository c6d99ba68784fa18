package mbcbigp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

func matPrint(X mat.Matrix) {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	fmt.Printf("%v\n", fa)
}

//SymDenseConvert will convert a square *Dense to a *SymDense, averaging
//opposing entries to absorb small floating-point asymmetries.
func SymDenseConvert(m *mat.Dense) (*mat.SymDense, error) {
	r, c := m.Dims()
	if r != c {
		return nil, ErrDimensionMismatch
	}
	s := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			s.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}
	return s, nil
}

//ColumnSums will return the per-column sums of a matrix.
func ColumnSums(m mat.Matrix) []float64 {
	r, c := m.Dims()
	sums := make([]float64, c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			sums[j] += m.At(i, j)
		}
	}
	return sums
}

//JoinColumns will horizontally concatenate two matrices sharing a row count.
func JoinColumns(a, b mat.Matrix) (*mat.Dense, error) {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra != rb {
		return nil, ErrDimensionMismatch
	}
	out := mat.NewDense(ra, ca+cb, nil)
	out.Slice(0, ra, 0, ca).(*mat.Dense).Copy(a)
	out.Slice(0, ra, ca, ca+cb).(*mat.Dense).Copy(b)
	return out, nil
}

//HardAssignments will return, for each row of a responsibility matrix, the
//index of the cluster carrying the largest posterior weight.
func HardAssignments(z *mat.Dense) []int {
	n, k := z.Dims()
	out := make([]int, n)
	for i := 0; i < n; i++ {
		best := 0
		for j := 1; j < k; j++ {
			if z.At(i, j) > z.At(i, best) {
				best = j
			}
		}
		out[i] = best
	}
	return out
}
