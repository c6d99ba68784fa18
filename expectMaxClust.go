package mbcbigp

import (
	"errors"
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// Likelihood is evaluated at every 5th iteration of the standard driver.
	likelihoodCheckInterval = 5
	// Relative-improvement threshold of the standard stopping rule.
	relativeTol = 1e-7
	// Numerical slack allowed before a likelihood decrease between
	// checkpoints is treated as a monotonicity violation.
	monotonicitySlack = 1e-6
)

//FitConfig controls a standard EM fit. Observers and sinks are informational
//collaborators and never affect the numerical trajectory.
type FitConfig struct {
	MaxIter         int
	Workers         int
	TrackLikelihood bool
	Observers       []ProgressObserver
	Sinks           []VisualizationSink
}

//DefaultFitConfig will return the configuration used when callers have no
//opinion: a generous iteration cap with likelihood tracking on.
func DefaultFitConfig() FitConfig {
	return FitConfig{MaxIter: 1000, TrackLikelihood: true}
}

//FitResult is the terminal state of a standard fit. Converged=false with a
//full iteration count means the cap was hit; that is a valid, possibly
//under-converged result, not an error.
type FitResult struct {
	Params     *MixtureParams
	Resp       *mat.Dense
	LogLik     float64
	Trace      []float64
	Iterations int
	Converged  bool
}

//convergenceState is the explicit mutable record threaded through the loop:
//the previous checkpoint value and the append-only trace.
type convergenceState struct {
	has   bool
	last  float64
	trace []float64
}

func (s *convergenceState) record(ll float64) {
	s.has = true
	s.last = ll
	s.trace = append(s.trace, ll)
}

//checkpoint applies the standard driver's convergence policy to a new
//likelihood value: a decrease beyond slack is a fatal monotonicity violation,
//and a relative improvement at or below |previous|*1e-7 means convergence.
func (s *convergenceState) checkpoint(ll float64, iter int) (bool, error) {
	converged := false
	if s.has {
		if ll < s.last-monotonicitySlack*(1+math.Abs(s.last)) {
			return false, &MonotonicityError{Iteration: iter, Previous: s.last, Current: ll}
		}
		if ll-s.last <= math.Abs(s.last)*relativeTol {
			converged = true
		}
	}
	s.record(ll)
	return converged, nil
}

//FitMixture will fit a finite mixture of multivariate Gaussians by EM,
//starting from an externally supplied row-stochastic responsibility matrix.
//Each iteration runs the M-step, evaluates the log-likelihood at every 5th
//iteration when tracking is enabled, and otherwise runs the E-step. A
//checkpoint decrease beyond slack aborts with MonotonicityError; the fit
//stops as CONVERGED once the relative improvement drops to
//|previous|*1e-7 or below.
func FitMixture(x, z0 *mat.Dense, cfg FitConfig) (*FitResult, error) {
	if cfg.MaxIter < 1 {
		return nil, ErrZeroIterations
	}
	n, _ := x.Dims()
	if n == 0 {
		return nil, ErrEmptySet
	}
	zn, k := z0.Dims()
	if zn != n {
		return nil, ErrDimensionMismatch
	}
	if k < 1 {
		return nil, ErrZeroGroups
	}

	z := z0
	state := convergenceState{}
	var params *MixtureParams
	converged := false
	iters := 0
	for iter := 1; iter <= cfg.MaxIter; iter++ {
		iters = iter
		var err error
		params, err = StandardMStep(x, z, cfg.Workers)
		if err != nil {
			return nil, annotateIteration(err, iter)
		}
		hasLL := false
		if cfg.TrackLikelihood && iter%likelihoodCheckInterval == 0 {
			ll, err := MixtureLogLikelihood(x, params, cfg.Workers)
			if err != nil {
				return nil, annotateIteration(err, iter)
			}
			hasLL = true
			converged, err = state.checkpoint(ll, iter)
			if err != nil {
				return nil, err
			}
		}
		notify(cfg.Observers, cfg.Sinks, Progress{
			Iteration: iter,
			LogLik:    state.last,
			HasLogLik: hasLL,
			Params:    params,
			Resp:      z,
		})
		if converged {
			break
		}
		z, err = StandardEStep(x, params, cfg.Workers)
		if err != nil {
			return nil, annotateIteration(err, iter)
		}
	}
	return &FitResult{
		Params:     params,
		Resp:       z,
		LogLik:     state.last,
		Trace:      state.trace,
		Iterations: iters,
		Converged:  converged,
	}, nil
}

func notify(obs []ProgressObserver, sinks []VisualizationSink, p Progress) {
	for _, o := range obs {
		o.Observe(p)
	}
	for _, s := range sinks {
		if err := s.Render(p); err != nil {
			log.Printf("visualization sink: %v", err)
		}
	}
}

//annotateIteration will stamp the current iteration onto a degenerate-cluster
//error that does not carry one yet.
func annotateIteration(err error, iter int) error {
	var dce *DegenerateClusterError
	if errors.As(err, &dce) && dce.Iteration == 0 {
		dce.Iteration = iter
	}
	return err
}
