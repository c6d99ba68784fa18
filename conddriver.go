package mbcbigp

import (
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
)

//DecreasePolicy governs how the conditional driver reacts to a likelihood
//decrease between iterations. The conditional model has no EM monotonicity
//guarantee when block A keeps moving, so a decrease is never fatal here.
type DecreasePolicy int

const (
	// DecreaseWarn logs every decrease.
	DecreaseWarn DecreasePolicy = iota
	// DecreaseSilent tolerates decreases without comment.
	DecreaseSilent
)

//ConditionalFitConfig controls a conditional (batch-correction) fit.
type ConditionalFitConfig struct {
	MaxIter         int
	Workers         int
	AbsTol          float64
	UpdateA         bool
	CrossMethod     CrossCovMethod
	TrackLikelihood bool
	OnDecrease      DecreasePolicy
	Observers       []ProgressObserver
	Sinks           []VisualizationSink
}

//DefaultConditionalFitConfig will return the defaults: analytic
//cross-covariance, block A held fixed, decreases warned about.
func DefaultConditionalFitConfig() ConditionalFitConfig {
	return ConditionalFitConfig{MaxIter: 500, AbsTol: 1e-4, TrackLikelihood: true}
}

//ConditionalFitResult is the terminal state of a conditional fit, including
//the complete likelihood trace rather than just its last value.
type ConditionalFitResult struct {
	Params     *ConditionalParams
	Resp       *mat.Dense
	LogLik     float64
	Trace      []float64
	Iterations int
	Converged  bool
}

//FitConditional will fit block B jointly with a previously fitted block A,
//starting from externally supplied responsibilities and proportions. Each
//iteration runs the conditional M-step (the previous iteration's
//cross-covariance feeds forward, except on iteration 1), optionally
//re-estimates block A, evaluates the joint log-likelihood, and runs the
//conditional E-step. The fit stops once |ll[t] − ll[t−1]| < AbsTol; the
//absolute difference also triggers on a decrease, which is tolerated per the
//configured policy rather than enforced as in the standard driver.
func FitConditional(xa, xb *mat.Dense, a *BlockParams, z0 *mat.Dense, props0 []float64, cfg ConditionalFitConfig) (*ConditionalFitResult, error) {
	if cfg.MaxIter < 1 {
		return nil, ErrZeroIterations
	}
	na, _ := xa.Dims()
	nb, _ := xb.Dims()
	zn, k := z0.Dims()
	if na == 0 {
		return nil, ErrEmptySet
	}
	if na != nb || zn != na {
		return nil, ErrDimensionMismatch
	}
	if k < 1 {
		return nil, ErrZeroGroups
	}
	if len(props0) != k {
		return nil, ErrDimensionMismatch
	}
	if err := validateProps(props0); err != nil {
		return nil, err
	}

	z := z0
	aCur := a
	var params *ConditionalParams
	var prevCross []*mat.Dense
	state := convergenceState{}
	converged := false
	iters := 0
	for iter := 1; iter <= cfg.MaxIter; iter++ {
		iters = iter
		var err error
		params, err = ConditionalMStep(xa, xb, z, aCur, prevCross, cfg.CrossMethod, cfg.UpdateA, cfg.Workers)
		if err != nil {
			return nil, annotateIteration(err, iter)
		}
		prevCross = params.Cross
		aCur = params.A
		hasLL := false
		if cfg.TrackLikelihood {
			ll, err := ConditionalLogLikelihood(xa, xb, params, cfg.Workers)
			if err != nil {
				return nil, annotateIteration(err, iter)
			}
			hasLL = true
			if state.has {
				if ll < state.last && cfg.OnDecrease == DecreaseWarn {
					log.Printf("conditional EM: log-likelihood decreased at iteration %d: %g -> %g", iter, state.last, ll)
				}
				if math.Abs(ll-state.last) < cfg.AbsTol {
					converged = true
				}
			}
			state.record(ll)
		}
		notify(cfg.Observers, cfg.Sinks, Progress{
			Iteration:   iter,
			LogLik:      state.last,
			HasLogLik:   hasLL,
			Conditional: params,
			Resp:        z,
		})
		if converged {
			break
		}
		z, err = ConditionalEStep(xa, xb, params, cfg.Workers)
		if err != nil {
			return nil, annotateIteration(err, iter)
		}
	}
	return &ConditionalFitResult{
		Params:     params,
		Resp:       z,
		LogLik:     state.last,
		Trace:      state.trace,
		Iterations: iters,
		Converged:  converged,
	}, nil
}
