package mbcbigp

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

//Progress is the per-iteration payload handed to observers. Exactly one of
//Params and Conditional is non-nil, depending on which driver is running.
//Observers are informational only; nothing they do feeds back into the fit.
type Progress struct {
	Iteration   int
	LogLik      float64
	HasLogLik   bool
	Params      *MixtureParams
	Conditional *ConditionalParams
	Resp        *mat.Dense
}

//ProgressObserver is notified once per driver iteration.
type ProgressObserver interface {
	Observe(p Progress)
}

//VisualizationSink renders the evolving mixture. Render errors are logged by
//the drivers and never abort a fit.
type VisualizationSink interface {
	Render(p Progress) error
}

//TraceObserver collects the likelihood checkpoints seen during a fit and can
//render them as a terminal graph.
type TraceObserver struct {
	Trace []float64
}

func (t *TraceObserver) Observe(p Progress) {
	if p.HasLogLik {
		t.Trace = append(t.Trace, p.LogLik)
	}
}

//Sparkline will render the collected trace with asciigraph. Needs at least
//two checkpoints to draw anything.
func (t *TraceObserver) Sparkline(height int) string {
	if len(t.Trace) < 2 {
		return ""
	}
	return asciigraph.Plot(t.Trace, asciigraph.Height(height), asciigraph.Precision(2))
}

//PlotSink writes a scatter of the first two features, colored by hard cluster
//assignment, to prefix_NNNN.png every Every iterations. Data with fewer than
//two features is skipped.
type PlotSink struct {
	X      *mat.Dense
	Prefix string
	Every  int
}

func (s *PlotSink) Render(p Progress) error {
	if s.Every > 1 && p.Iteration%s.Every != 0 {
		return nil
	}
	_, cols := s.X.Dims()
	if cols < 2 || p.Resp == nil {
		return nil
	}
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("iteration %d", p.Iteration)
	assign := HardAssignments(p.Resp)
	_, k := p.Resp.Dims()
	for j := 0; j < k; j++ {
		var xys plotter.XYs
		for i, a := range assign {
			if a == j {
				xys = append(xys, plotter.XY{X: s.X.At(i, 0), Y: s.X.At(i, 1)})
			}
		}
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = plotutil.Color(j)
		pl.Add(sc)
	}
	if p.Params != nil {
		var centers plotter.XYs
		for _, m := range p.Params.Mean {
			centers = append(centers, plotter.XY{X: m.AtVec(0), Y: m.AtVec(1)})
		}
		sc, err := plotter.NewScatter(centers)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Radius = vg.Points(5)
		pl.Add(sc)
	}
	return pl.Save(5*vg.Inch, 5*vg.Inch, fmt.Sprintf("%s_%04d.png", s.Prefix, p.Iteration))
}
