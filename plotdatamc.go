package ecalplot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// PlotOptions controls the layout of a data/MC comparison.
type PlotOptions struct {
	XLabel     string
	YLabel     string
	YLabelUnit string
	LogX       bool
	LogY       bool
	StackMC    bool

	// Ratio adds a data/MC panel below the main plot, with the y axis
	// spanning RatioMin to RatioMax.
	Ratio    bool
	RatioMin float64
	RatioMax float64

	Formats []string
	Width   vg.Length
	Height  vg.Length
}

func (o *PlotOptions) setDefaults() {
	if o.RatioMin == 0 && o.RatioMax == 0 {
		o.RatioMin, o.RatioMax = 0.5, 1.5
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{"png", "pdf"}
	}
	if o.Width == 0 {
		o.Width = 6 * vg.Inch
	}
	if o.Height == 0 {
		o.Height = 5 * vg.Inch
	}
}

// PlotDataMC draws data points over the simulation histograms and writes
// dir/name.<format> for every format. It returns the written paths.
func PlotDataMC(data, mc []*Hist, dir, name string, opts PlotOptions) ([]string, error) {
	if len(data)+len(mc) == 0 {
		return nil, errors.New("nothing to plot")
	}
	if name == "" {
		return nil, errors.New("empty plot name")
	}
	opts.setDefaults()

	ref := firstHist(data, mc)
	xMin, xMax := ref.XMin(), ref.XMax()

	top, err := plot.New()
	if err != nil {
		return nil, err
	}
	top.Legend.Top = true
	top.X.Min, top.X.Max = xMin, xMax
	top.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	top.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	top.Y.Label.Text = yLabel(opts, (xMax-xMin)/float64(ref.Len()))
	if opts.LogX {
		top.X.Scale = LogScale{}
		top.X.Tick.Marker = LogTicks{}
	}
	if opts.LogY {
		top.Y.Scale = LogScale{}
		top.Y.Tick.Marker = LogTicks{}
	}

	drawn := mc
	if opts.StackMC {
		drawn = stackHists(mc)
	}
	// The stack is drawn from its total down so that every layer stays visible.
	for i := len(drawn) - 1; i >= 0; i-- {
		h := drawn[i]
		hp := hplot.NewH1D(h.H1D)
		hp.Infos.Style = hplot.HInfoNone
		hp.LineStyle.Color = h.Color
		hp.FillColor = nil
		if opts.StackMC {
			hp.FillColor = h.Color
		}
		top.Add(hp)
	}
	for i, h := range mc {
		hp := hplot.NewH1D(h.H1D)
		hp.LineStyle.Color = h.Color
		if opts.StackMC {
			hp.FillColor = drawn[i].Color
		}
		top.Legend.Add(PlainLabel(h.Label), hp)
	}

	for _, h := range data {
		pts, errs := HistPoints(h.H1D)
		scatter, yerrs, err := markers(pts, errs, h.Color)
		if err != nil {
			return nil, err
		}
		if scatter == nil {
			continue
		}
		top.Add(scatter, yerrs)
		top.Legend.Add(PlainLabel(h.Label), scatter)
	}

	yMin, yMax := contentRange(append(append([]*Hist{}, data...), drawn...))
	if opts.LogY {
		top.Y.Min = yMin / 2
		top.Y.Max = yMax * 10
	} else {
		top.Y.Min = 0
		top.Y.Max = 1.25 * yMax
	}

	var bottom *plot.Plot
	if opts.Ratio && len(data) > 0 && len(mc) > 0 {
		denom := mc[0]
		if opts.StackMC {
			denom = drawn[len(drawn)-1]
		}
		bottom, err = ratioPlot(data[0], denom, opts)
		if err != nil {
			return nil, err
		}
		bottom.X.Min, bottom.X.Max = xMin, xMax
		top.X.Tick.Label.Color = color.Transparent
	} else {
		top.X.Label.Text = PlainLabel(opts.XLabel)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create plot directory: %w", err)
	}

	var paths []string
	for _, format := range opts.Formats {
		path := filepath.Join(dir, name+"."+format)
		if err := savePanels(path, format, opts, top, bottom); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func savePanels(path, format string, opts PlotOptions, top, bottom *plot.Plot) error {
	c, err := draw.NewFormattedCanvas(opts.Width, opts.Height, format)
	if err != nil {
		return fmt.Errorf("could not create %s canvas: %w", format, err)
	}
	dc := draw.New(c)
	if bottom == nil {
		top.Draw(dc)
	} else {
		h := opts.Height
		top.Draw(draw.Crop(dc, 0, 0, 0.3*h, 0))
		bottom.Draw(draw.Crop(dc, 0, 0, 0, -0.7*h))
	}

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(w); err != nil {
		w.Close()
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return w.Close()
}

func ratioPlot(num, denom *Hist, opts PlotOptions) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.X.Label.Text = PlainLabel(opts.XLabel)
	p.Y.Label.Text = "Data/MC"
	p.Y.Min, p.Y.Max = opts.RatioMin, opts.RatioMax
	p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 3}
	if opts.LogX {
		p.X.Scale = LogScale{}
		p.X.Tick.Marker = LogTicks{}
	}

	pts, errs := RatioPoints(num.H1D, denom.H1D)
	scatter, yerrs, err := markers(pts, errs, num.Color)
	if err != nil {
		return nil, err
	}

	unity, err := plotter.NewLine(plotter.XYs{{X: num.XMin(), Y: 1}, {X: num.XMax(), Y: 1}})
	if err != nil {
		return nil, err
	}
	unity.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	unity.LineStyle.Color = color.Gray{Y: 128}

	p.Add(unity)
	if scatter != nil {
		p.Add(scatter, yerrs)
	}
	return p, nil
}

// RatioPoints divides num by denom bin by bin. The error of each point is
// the numerator error scaled by the denominator. Bins with an empty
// numerator or denominator are skipped.
func RatioPoints(num, denom *hbook.H1D) (plotter.XYs, plotter.YErrors) {
	var (
		pts  plotter.XYs
		errs plotter.YErrors
	)
	for i, bin := range num.Binning.Bins {
		if i >= len(denom.Binning.Bins) {
			break
		}
		d := denom.Binning.Bins[i].SumW()
		if d <= 0 || bin.SumW() == 0 {
			continue
		}
		e := math.Sqrt(bin.SumW2()) / d
		pts = append(pts, struct{ X, Y float64 }{bin.XMid(), bin.SumW() / d})
		errs = append(errs, struct{ Low, High float64 }{e, e})
	}
	return pts, errs
}

// HistPoints returns the non-empty bins of h with sqrt(sumw2) errors.
func HistPoints(h *hbook.H1D) (plotter.XYs, plotter.YErrors) {
	var (
		pts  plotter.XYs
		errs plotter.YErrors
	)
	for _, bin := range h.Binning.Bins {
		if bin.SumW() == 0 {
			continue
		}
		e := math.Sqrt(bin.SumW2())
		pts = append(pts, struct{ X, Y float64 }{bin.XMid(), bin.SumW()})
		errs = append(errs, struct{ Low, High float64 }{e, e})
	}
	return pts, errs
}

// markers returns nil plotters when pts is empty.
func markers(pts plotter.XYs, errs plotter.YErrors, c color.Color) (*plotter.Scatter, *plotter.YErrorBars, error) {
	if len(pts) == 0 {
		return nil, nil, nil
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, nil, err
	}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2)

	yerrs, err := plotter.NewYErrorBars(plotutil.ErrorPoints{XYs: pts, YErrors: errs})
	if err != nil {
		return nil, nil, err
	}
	yerrs.LineStyle.Color = c
	return scatter, yerrs, nil
}

// stackHists returns the cumulative sums of hs, keeping their colours.
func stackHists(hs []*Hist) []*Hist {
	var (
		out []*Hist
		sum *hbook.H1D
	)
	for _, h := range hs {
		next := hbook.NewH1D(h.Len(), h.XMin(), h.XMax())
		for i, bin := range h.Binning.Bins {
			w := bin.SumW()
			if sum != nil {
				w += sum.Binning.Bins[i].SumW()
			}
			if w != 0 {
				next.Fill(bin.XMid(), w)
			}
		}
		sum = next
		out = append(out, &Hist{H1D: next, Label: h.Label, Color: h.Color})
	}
	return out
}

// contentRange returns the smallest positive and the largest bin content,
// including error bars.
func contentRange(hs []*Hist) (float64, float64) {
	yMin, yMax := math.Inf(1), 0.
	for _, h := range hs {
		for _, bin := range h.Binning.Bins {
			v := bin.SumW()
			hi := v
			if h.IsData {
				hi += math.Sqrt(bin.SumW2())
			}
			if hi > yMax {
				yMax = hi
			}
			if v > 0 && v < yMin {
				yMin = v
			}
		}
	}
	if math.IsInf(yMin, 1) {
		yMin = 0.1
	}
	if yMax == 0 {
		yMax = 1
	}
	return yMin, yMax
}

func yLabel(opts PlotOptions, binWidth float64) string {
	label := PlainLabel(opts.YLabel)
	if opts.YLabelUnit == "" {
		return label
	}
	return fmt.Sprintf("%s / %s %s", label, formatFloatTick(binWidth, 3), opts.YLabelUnit)
}

func firstHist(data, mc []*Hist) *Hist {
	if len(data) > 0 {
		return data[0]
	}
	return mc[0]
}
