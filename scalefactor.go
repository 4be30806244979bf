package ecalplot

import (
	"fmt"
	"math"
	"sort"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/rootcnv"
	"go-hep.org/x/hep/rootio"
)

// DefaultScaleFactorHist is the name of the 2D scale factor histogram in the
// EGamma scale factor files.
const DefaultScaleFactorHist = "EGamma_SF2D"

// ScaleFactorMap is an electron ID scale factor grid in (eta, pT).
type ScaleFactorMap struct {
	xEdges, yEdges []float64
	values         [][]float64 // [ix][iy]
}

// NewScaleFactorMap builds the grid from the bins of h. The x axis is the
// supercluster eta, the y axis the transverse momentum.
func NewScaleFactorMap(h *hbook.H2D) (*ScaleFactorMap, error) {
	xs := make(map[float64]bool)
	ys := make(map[float64]bool)
	for _, bin := range h.Binning.Bins {
		xs[bin.XRange.Min] = true
		xs[bin.XRange.Max] = true
		ys[bin.YRange.Min] = true
		ys[bin.YRange.Max] = true
	}

	m := &ScaleFactorMap{
		xEdges: sortedKeys(xs),
		yEdges: sortedKeys(ys),
	}
	if len(m.xEdges) < 2 || len(m.yEdges) < 2 {
		return nil, fmt.Errorf("scale factor histogram has no bins")
	}

	m.values = make([][]float64, len(m.xEdges)-1)
	for i := range m.values {
		m.values[i] = make([]float64, len(m.yEdges)-1)
	}
	for _, bin := range h.Binning.Bins {
		ix := findBin(m.xEdges, bin.XMid())
		iy := findBin(m.yEdges, bin.YMid())
		m.values[ix][iy] = bin.SumW()
	}
	return m, nil
}

// ReadScaleFactorMap loads the named TH2 from a ROOT file.
func ReadScaleFactorMap(path, name string) (*ScaleFactorMap, error) {
	f, err := rootio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open scale factor file %s: %w", path, err)
	}
	defer f.Close()

	obj, err := f.Get(name)
	if err != nil {
		return nil, fmt.Errorf("could not find %q in %s: %w", name, path, err)
	}
	th2, ok := obj.(rootio.H2)
	if !ok {
		return nil, fmt.Errorf("%q in %s is not a 2D histogram", name, path)
	}

	h, err := rootcnv.H2D(th2)
	if err != nil {
		return nil, fmt.Errorf("could not convert %q from %s: %w", name, path, err)
	}
	return NewScaleFactorMap(h)
}

// Value returns the scale factor for an electron. Coordinates outside the
// grid are moved to the first or last bin centre.
func (m *ScaleFactorMap) Value(eta, pT float64) float64 {
	ix := findBin(m.xEdges, clampToCentres(m.xEdges, eta))
	iy := findBin(m.yEdges, clampToCentres(m.yEdges, pT))
	return m.values[ix][iy]
}

func clampToCentres(edges []float64, v float64) float64 {
	n := len(edges)
	lo := 0.5 * (edges[0] + edges[1])
	hi := 0.5 * (edges[n-2] + edges[n-1])
	return math.Max(lo, math.Min(hi, v))
}

// findBin returns the index of the bin of edges holding v.
func findBin(edges []float64, v float64) int {
	i := sort.SearchFloat64s(edges, v)
	if i < len(edges) && edges[i] == v {
		i++
	}
	i--
	if i < 0 {
		return 0
	}
	if i > len(edges)-2 {
		return len(edges) - 2
	}
	return i
}

func sortedKeys(set map[float64]bool) []float64 {
	keys := make([]float64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}
