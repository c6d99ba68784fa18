package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	mbcbigp "github.com/guhjy/MBCbigP"
)

type progressPrinter struct {
	every int
}

func (p *progressPrinter) Observe(pr mbcbigp.Progress) {
	if p.every < 1 || pr.Iteration%p.every != 0 {
		return
	}
	if pr.HasLogLik {
		fmt.Println("ITERATION", pr.Iteration, "lnL", pr.LogLik)
	} else {
		fmt.Println("ITERATION", pr.Iteration)
	}
}

func main() {
	dataArg := flag.String("m", "", "CSV file of observations")
	kArg := flag.Int("K", 2, "number of mixture components")
	genArg := flag.Int("gen", 1000, "maximum number of EM iterations")
	printFreqArg := flag.Int("pr", 10, "Frequency with which to print to the screen")
	modeArg := flag.Int("f", 0, "Indicate whether to perform:\n 0\tstandard mixture fit \nor\n1\tconditional (batch-correction) fit")
	blockAArg := flag.Int("a", 0, "number of leading columns forming block A (conditional fit)")
	seedArg := flag.Int64("seed", 0, "random seed; 0 seeds from the clock")
	workersArg := flag.Int("W", 1, "Number of Go workers to use for per-cluster concurrency")
	runNameArg := flag.String("o", "mbcbigp", "specify the prefix for outfile names")
	tolArg := flag.Float64("tol", 1e-4, "absolute convergence tolerance (conditional fit)")
	updateAArg := flag.Bool("updateA", false, "re-estimate block-A parameters each iteration")
	numericArg := flag.Bool("numeric", false, "use the numeric cross-covariance estimator (conditional fit)")
	plotArg := flag.Bool("plot", false, "write PNG snapshots of the evolving mixture")
	flag.Parse()

	seed := uint64(*seedArg)
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewSource(seed)

	x, err := mbcbigp.NewImporter().ImportAll(*dataArg)
	if err != nil {
		log.Fatal(err)
	}
	n, p := x.Dims()
	fmt.Println("read", n, "observations of", p, "features")

	trace := &mbcbigp.TraceObserver{}
	observers := []mbcbigp.ProgressObserver{trace, &progressPrinter{every: *printFreqArg}}

	if *modeArg == 1 {
		runConditional(x, *blockAArg, *kArg, *genArg, *workersArg, *tolArg, *updateAArg, *numericArg, src, observers)
	} else {
		runStandard(x, *kArg, *genArg, *workersArg, *plotArg, *runNameArg, *printFreqArg, src, observers)
	}

	if s := trace.Sparkline(10); s != "" {
		fmt.Println("log-likelihood trace:")
		fmt.Println(s)
	}
}

func runStandard(x *mat.Dense, k, gen, workers int, plot bool, runName string, printFreq int, src rand.Source, observers []mbcbigp.ProgressObserver) {
	n, _ := x.Dims()
	z0, err := mbcbigp.RandomResponsibilities(n, k, src)
	if err != nil {
		log.Fatal(err)
	}
	cfg := mbcbigp.DefaultFitConfig()
	cfg.MaxIter = gen
	cfg.Workers = workers
	cfg.Observers = observers
	if plot {
		cfg.Sinks = []mbcbigp.VisualizationSink{&mbcbigp.PlotSink{X: x, Prefix: runName, Every: printFreq}}
	}
	res, err := mbcbigp.FitMixture(x, z0, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("converged:", res.Converged, "after", res.Iterations, "iterations, lnL", res.LogLik)
	printMixture(res.Params)
}

func runConditional(x *mat.Dense, pa, k, gen, workers int, tol float64, updateA, numeric bool, src rand.Source, observers []mbcbigp.ProgressObserver) {
	n, p := x.Dims()
	if pa < 1 || pa >= p {
		log.Fatal("conditional fit needs 0 < a < number of columns")
	}
	xa := x.Slice(0, n, 0, pa).(*mat.Dense)
	xb := x.Slice(0, n, pa, p).(*mat.Dense)

	// block A gets its own standard fit first; its parameters and final
	// responsibilities seed the conditional run
	z0, err := mbcbigp.RandomResponsibilities(n, k, src)
	if err != nil {
		log.Fatal(err)
	}
	acfg := mbcbigp.DefaultFitConfig()
	acfg.MaxIter = gen
	acfg.Workers = workers
	ares, err := mbcbigp.FitMixture(xa, z0, acfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("block A fit: converged:", ares.Converged, "lnL", ares.LogLik)

	cfg := mbcbigp.DefaultConditionalFitConfig()
	cfg.MaxIter = gen
	cfg.Workers = workers
	cfg.AbsTol = tol
	cfg.UpdateA = updateA
	cfg.Observers = observers
	if numeric {
		cfg.CrossMethod = mbcbigp.CrossNumeric
	}
	aParams := &mbcbigp.BlockParams{Mean: ares.Params.Mean, Cov: ares.Params.Cov}
	res, err := mbcbigp.FitConditional(xa, xb, aParams, ares.Resp, ares.Params.Props, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("converged:", res.Converged, "after", res.Iterations, "iterations, lnL", res.LogLik)
	fmt.Println("proportions:", res.Params.Props)
	for j := range res.Params.Cross {
		fmt.Printf("cluster %d cross-covariance:\n%v\n", j, mat.Formatted(res.Params.Cross[j], mat.Squeeze()))
	}
}

func printMixture(params *mbcbigp.MixtureParams) {
	fmt.Println("proportions:", params.Props)
	for j, m := range params.Mean {
		fmt.Printf("cluster %d mean: %v\n", j, mat.Formatted(m.T(), mat.Squeeze()))
	}
}
