package ecalplot

import (
	"fmt"
	"image/color"
	"log/slog"
	"sort"

	"go-hep.org/x/hep/hbook"
)

// Hist is a labelled histogram ready for plotting.
type Hist struct {
	*hbook.H1D
	Label  string
	IsData bool
	Color  color.Color
}

// HistRequest describes what FillHist should put in a histogram.
type HistRequest struct {
	Branch   string
	Binning  Binning
	Category string
	Label    string
	IsMC     bool
	Weights  WeightOptions
	Parser   *CategoryParser
	Logger   *slog.Logger
}

// FillHist fills the histogram of req.Branch over the entries of src in
// req.Category. Simulated entries are weighted according to req.Weights.
func FillHist(src Source, req HistRequest) (*Hist, error) {
	branches := src.Branches()

	formula, err := CompileFormula(req.Branch, branches)
	if err != nil {
		return nil, err
	}

	parser := req.Parser
	if parser == nil {
		parser = NewCategoryParser(req.Weights.EnergyBranch)
	}
	cutSrc, err := parser.Cut(req.Category)
	if err != nil {
		return nil, err
	}
	cut, err := CompileFormula(cutSrc, branches)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", req.Category, err)
	}

	var weighter *Weighter
	if req.IsMC {
		weighter, err = NewWeighter(src, req.Weights)
		if err != nil {
			return nil, err
		}
	}

	names := union(formula.Branches(), cut.Branches())
	if weighter != nil {
		names = union(names, weighter.Branches())
	}

	h := &Hist{
		H1D:    hbook.NewH1D(req.Binning.N, req.Binning.Low, req.Binning.High),
		Label:  req.Label,
		IsData: !req.IsMC,
	}
	h.Annotation()["name"] = req.Label

	var nFailed int64
	err = src.Scan(names, func(ev Event) error {
		pass, err := cut.Eval(ev)
		if err != nil {
			nFailed++
			return nil
		}
		vals, err := formula.Eval(ev)
		if err != nil {
			nFailed++
			return nil
		}

		weight := 1.
		if weighter != nil {
			weight = weighter.Weight(ev)
		}
		for i, v := range vals {
			if !selected(pass, i) {
				continue
			}
			h.Fill(v, weight)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not fill %q from %s: %w", req.Branch, src.Name(), err)
	}

	if nFailed > 0 && req.Logger != nil {
		req.Logger.Warn(fmt.Sprintf("%d entries of %s could not be evaluated", nFailed, src.Name()), "module", "hist")
	}
	return h, nil
}

// FillHistFile opens path and fills a histogram from its tree.
func FillHistFile(path, tree string, req HistRequest) (*Hist, error) {
	src, err := OpenROOT(path, tree)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return FillHist(src, req)
}

// selected pairs cut instances with formula instances. A single cut value
// applies to every instance.
func selected(pass []float64, i int) bool {
	if len(pass) == 1 {
		return pass[0] != 0
	}
	return i < len(pass) && pass[i] != 0
}

func union(a, b []string) []string {
	set := make(map[string]bool, len(a)+len(b))
	for _, s := range a {
		set[s] = true
	}
	for _, s := range b {
		set[s] = true
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
