package ecalplot

import (
	"fmt"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hbook/rootcnv"
	"go-hep.org/x/hep/rootio"
)

// DefaultPileupHist is the histogram name written by the pileup calculator.
const DefaultPileupHist = "pileup"

// Pileup reweights simulated events so that their number of pileup
// interactions follows the data distribution.
type Pileup struct {
	weights []float64
	low     float64
	width   float64
}

// NewPileup builds the reweighting from the data and MC pileup
// distributions, which must share the same binning. Both are normalised to
// unit area first.
func NewPileup(data, mc *hbook.H1D) (*Pileup, error) {
	if data.Len() != mc.Len() || data.XMin() != mc.XMin() || data.XMax() != mc.XMax() {
		return nil, fmt.Errorf("pileup histograms have different binnings")
	}
	dataSum := data.Integral()
	mcSum := mc.Integral()
	if dataSum <= 0 || mcSum <= 0 {
		return nil, fmt.Errorf("empty pileup histogram")
	}

	p := &Pileup{
		weights: make([]float64, data.Len()),
		low:     data.XMin(),
		width:   (data.XMax() - data.XMin()) / float64(data.Len()),
	}
	for i := range p.weights {
		d := data.Binning.Bins[i].SumW() / dataSum
		m := mc.Binning.Bins[i].SumW() / mcSum
		if m > 0 {
			p.weights[i] = d / m
		}
	}
	return p, nil
}

// ReadPileup loads the data and MC pileup histograms from two ROOT files.
func ReadPileup(dataPath, mcPath, name string) (*Pileup, error) {
	data, err := readH1D(dataPath, name)
	if err != nil {
		return nil, err
	}
	mc, err := readH1D(mcPath, name)
	if err != nil {
		return nil, err
	}
	return NewPileup(data, mc)
}

// Weight returns the weight for nPU true interactions. Values outside the
// histogram range weigh 0.
func (p *Pileup) Weight(nPU float64) float64 {
	if nPU < p.low {
		return 0
	}
	i := int((nPU - p.low) / p.width)
	if i >= len(p.weights) {
		return 0
	}
	return p.weights[i]
}

func readH1D(path, name string) (*hbook.H1D, error) {
	f, err := rootio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	obj, err := f.Get(name)
	if err != nil {
		return nil, fmt.Errorf("could not find %q in %s: %w", name, path, err)
	}
	th1, ok := obj.(rootio.H1)
	if !ok {
		return nil, fmt.Errorf("%q in %s is not a 1D histogram", name, path)
	}
	h, err := rootcnv.H1D(th1)
	if err != nil {
		return nil, fmt.Errorf("could not convert %q from %s: %w", name, path, err)
	}
	return h, nil
}
