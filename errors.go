package mbcbigp

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySet          = errors.New("Empty data set")
	ErrZeroIterations    = errors.New("Number of iterations cannot be less than 1")
	ErrZeroGroups        = errors.New("Number of groups cannot be less than 1")
	ErrDimensionMismatch = errors.New("Dimensions of paired inputs do not match")
	ErrZeroWeights       = errors.New("Weight vector sums to zero")
	ErrUnderflow         = errors.New("All component densities underflowed for an observation")
	ErrInvalidRange      = errors.New("Invalid column range")
	ErrSingular          = errors.New("Covariance matrix is singular or not positive definite")
	ErrBadProportions    = errors.New("Mixing proportions must sum to one")
)

// DegenerateClusterError aborts a fit when a cluster collapses: its
// responsibility mass is numerically zero, or its covariance cannot be
// factorized for density evaluation or Schur-complement algebra.
type DegenerateClusterError struct {
	Cluster   int
	Iteration int
	Cause     error
}

func (e *DegenerateClusterError) Error() string {
	if e.Iteration > 0 {
		return fmt.Sprintf("degenerate cluster %d at iteration %d: %v", e.Cluster, e.Iteration, e.Cause)
	}
	return fmt.Sprintf("degenerate cluster %d: %v", e.Cluster, e.Cause)
}

func (e *DegenerateClusterError) Unwrap() error { return e.Cause }

// MonotonicityError reports a log-likelihood decrease beyond numerical slack
// between checkpoints of the standard driver. EM guarantees a non-decreasing
// likelihood, so a violation means a bug or severe numerical breakdown and the
// fit is not resumable.
type MonotonicityError struct {
	Iteration int
	Previous  float64
	Current   float64
}

func (e *MonotonicityError) Error() string {
	return fmt.Sprintf("log-likelihood decreased at iteration %d: %g -> %g", e.Iteration, e.Previous, e.Current)
}
