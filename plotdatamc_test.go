package ecalplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hbook"
	"gonum.org/v1/plot/vg"
)

func TestPlotDataMC(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")

	data := filledHist("Data", 1, 2, 2, 3, 3, 3, 4, 4, 5)
	mc1 := filledHist("MC", 1, 2, 3, 3, 4)
	mc2 := filledHist("MC2", 2, 3, 4, 5)
	ColorData(data)
	ColorMCs([]*Hist{mc1, mc2})
	Normalize([]*Hist{data}, []*Hist{mc1, mc2})

	for name, opts := range map[string]PlotOptions{
		"ratio":   {XLabel: "M_{ee}", YLabel: "Events", YLabelUnit: "GeV", Ratio: true},
		"stacked": {XLabel: "L_{T}", YLabel: "Fraction", StackMC: true, Ratio: true, RatioMin: 0.8, RatioMax: 1.2},
		"logy":    {XLabel: "#eta", YLabel: "Events", LogY: true},
	} {
		opts.Formats = []string{"png"}
		opts.Width, opts.Height = 4*vg.Inch, 3*vg.Inch

		paths, err := PlotDataMC([]*Hist{data}, []*Hist{mc1, mc2}, dir, name, opts)
		require.NoError(t, err, name)
		require.Equal(t, []string{filepath.Join(dir, name+".png")}, paths)

		info, err := os.Stat(paths[0])
		require.NoError(t, err)
		require.NotZero(t, info.Size())
	}
}

func TestPlotDataMCOnlyOneKind(t *testing.T) {
	dir := t.TempDir()
	opts := PlotOptions{Formats: []string{"png"}, Ratio: true}

	_, err := PlotDataMC(nil, []*Hist{filledHist("MC", 1, 2)}, dir, "mc", opts)
	require.NoError(t, err)
	_, err = PlotDataMC([]*Hist{filledHist("Data")}, nil, dir, "data", opts)
	require.NoError(t, err)

	_, err = PlotDataMC(nil, nil, dir, "none", opts)
	require.Error(t, err)
	_, err = PlotDataMC(nil, []*Hist{filledHist("MC", 1)}, dir, "", opts)
	require.Error(t, err)
}

func TestRatioPoints(t *testing.T) {
	num := hbook.NewH1D(3, 0, 3)
	num.Fill(0.5, 4)
	num.Fill(1.5, 1)
	denom := hbook.NewH1D(3, 0, 3)
	denom.Fill(0.5, 2)
	denom.Fill(2.5, 1)

	pts, errs := RatioPoints(num, denom)
	require.Len(t, pts, 1)
	require.Equal(t, 0.5, pts[0].X)
	require.Equal(t, 2., pts[0].Y)
	require.Equal(t, 2., errs[0].Low)
}

func TestHistPoints(t *testing.T) {
	h := filledHist("h", 1, 1, 1, 1, 7)
	pts, errs := HistPoints(h.H1D)
	require.Len(t, pts, 2)
	require.Equal(t, 1.5, pts[0].X)
	require.Equal(t, 4., pts[0].Y)
	require.Equal(t, 2., errs[0].High)
	require.Equal(t, 7.5, pts[1].X)
}

func TestStackHists(t *testing.T) {
	a := filledHist("a", 1, 2)
	b := filledHist("b", 2, 3)
	stack := stackHists([]*Hist{a, b})
	require.Len(t, stack, 2)
	require.Equal(t, "b", stack[1].Label)
	require.InDelta(t, 2, stack[0].Integral(), 1e-12)
	require.InDelta(t, 4, stack[1].Integral(), 1e-12)
	require.InDelta(t, 2, stack[1].Binning.Bins[2].SumW(), 1e-12)
}

func TestYLabel(t *testing.T) {
	require.Equal(t, "Events / 0.2 GeV", yLabel(PlotOptions{YLabel: "Events", YLabelUnit: "GeV"}, 0.2))
	require.Equal(t, "Fraction", yLabel(PlotOptions{YLabel: "Fraction"}, 1))
}
