package ecalplot

import (
	"errors"
	"fmt"
	"math"
)

const (
	puWeightBranch    = "puWeight"
	nPUBranch         = "nPU"
	mcGenWeightBranch = "mcGenWeight"
	eleIDSFBranch     = "EleIDSF"
	ltWeightBranch    = "LTweight"

	// missingValue marks unfilled electron slots in the ntuples.
	missingValue = -999
)

// WeightOptions selects the per-event weights applied to simulation.
type WeightOptions struct {
	UsePU bool
	// EleIDSF is the number of electrons whose ID scale factor multiplies
	// the event weight. Zero disables it.
	EleIDSF      int
	UseLT        bool
	EnergyBranch string

	Pileup       *Pileup
	ScaleFactors *ScaleFactorMap
}

// Weighter computes the weight of each simulated event.
type Weighter struct {
	opts     WeightOptions
	branches []string
	ltWeight float64

	puFromBranch bool
	sfFromBranch bool
	ltFromBranch bool
	hasGenWeight bool
	etaBranch    string
}

// NewWeighter checks which weight inputs src provides. A requested weight
// with no branch and no external input is an error.
func NewWeighter(src Source, opts WeightOptions) (*Weighter, error) {
	branches := src.Branches()
	has := func(name string) bool {
		_, ok := FindBranch(branches, name)
		return ok
	}

	w := &Weighter{opts: opts, ltWeight: 1, etaBranch: "etaSCEle"}
	if has(mcGenWeightBranch) {
		w.hasGenWeight = true
		w.branches = append(w.branches, mcGenWeightBranch)
	}

	if opts.UsePU {
		switch {
		case has(puWeightBranch):
			w.puFromBranch = true
			w.branches = append(w.branches, puWeightBranch)
		case opts.Pileup != nil && has(nPUBranch):
			w.branches = append(w.branches, nPUBranch)
		default:
			return nil, fmt.Errorf("pileup weights requested but %s has no %s branch and no pileup histograms were given", src.Name(), puWeightBranch)
		}
	}

	if opts.EleIDSF > 0 {
		switch {
		case has(eleIDSFBranch):
			w.sfFromBranch = true
			w.branches = append(w.branches, eleIDSFBranch)
		case opts.ScaleFactors != nil:
			if opts.EnergyBranch == "" {
				return nil, errors.New("electron ID scale factors need an energy branch")
			}
			for _, name := range []string{w.etaBranch, opts.EnergyBranch} {
				if !has(name) {
					return nil, fmt.Errorf("electron ID scale factors need branch %q, missing in %s", name, src.Name())
				}
				w.branches = append(w.branches, name)
			}
		default:
			return nil, fmt.Errorf("electron ID scale factors requested but %s has no %s branch and no scale factor map was given", src.Name(), eleIDSFBranch)
		}
	}

	if opts.UseLT {
		if has(ltWeightBranch) {
			w.ltFromBranch = true
			w.branches = append(w.branches, ltWeightBranch)
		} else {
			w.ltWeight = LTWeight(src.Name())
		}
	}

	return w, nil
}

// Branches lists the branches the weighter reads.
func (w *Weighter) Branches() []string {
	return w.branches
}

func (w *Weighter) Weight(ev Event) float64 {
	weight := 1.
	if w.hasGenWeight {
		weight *= first(ev, mcGenWeightBranch, 1)
	}

	if w.opts.UsePU {
		if w.puFromBranch {
			weight *= first(ev, puWeightBranch, 1)
		} else {
			weight *= w.opts.Pileup.Weight(first(ev, nPUBranch, 0))
		}
	}

	if w.opts.EleIDSF > 0 {
		weight *= w.eleIDSF(ev)
	}

	if w.opts.UseLT {
		if w.ltFromBranch {
			weight *= first(ev, ltWeightBranch, 1)
		} else {
			weight *= w.ltWeight
		}
	}
	return weight
}

func (w *Weighter) eleIDSF(ev Event) float64 {
	sf := 1.
	if w.sfFromBranch {
		vals, _ := ev.Float64s(eleIDSFBranch)
		for i := 0; i < w.opts.EleIDSF && i < len(vals); i++ {
			sf *= vals[i]
		}
		return sf
	}

	etas, _ := ev.Float64s(w.etaBranch)
	energies, _ := ev.Float64s(w.opts.EnergyBranch)
	for i := 0; i < w.opts.EleIDSF && i < len(etas) && i < len(energies); i++ {
		if etas[i] == missingValue || energies[i] == missingValue {
			continue
		}
		pT := energies[i] / math.Cosh(etas[i])
		sf *= w.opts.ScaleFactors.Value(etas[i], pT)
	}
	return sf
}

func first(ev Event, name string, def float64) float64 {
	vals, ok := ev.Float64s(name)
	if !ok || len(vals) == 0 {
		return def
	}
	return vals[0]
}
