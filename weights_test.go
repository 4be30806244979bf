package ecalplot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/hbook"
)

func TestLTWeight(t *testing.T) {
	require.Equal(t, 1., LTWeight("tmp/Moriond17_oldRegr/s1_chain.root"))
	require.Equal(t, 1., LTWeight("DYJets_LT_unknown.root"))
	require.InDelta(t, 1.599e+02/2853483*1000, LTWeight("/data/DYJetsToLL_LT_80To85_ext.root"), 1e-12)
	require.InDelta(t, 8.329e-03/933956*1000, LTWeight("DYJetsToLL_LT_800To2000.root"), 1e-15)
	require.InDelta(t, 8.670e+02/5061547*1000, LTWeight("LT_5To75.root"), 1e-12)
}

func TestContainsTag(t *testing.T) {
	require.True(t, containsTag("LT_80To85_chain", "LT_80To85"))
	require.False(t, containsTag("LT_5To750", "LT_5To75"))
	require.True(t, containsTag("LT_5To750_LT_5To75", "LT_5To75"))
}

func TestPileup(t *testing.T) {
	data := hbook.NewH1D(3, 0, 3)
	data.Fill(0.5, 1)
	data.Fill(1.5, 3)
	mc := hbook.NewH1D(3, 0, 3)
	mc.Fill(0.5, 2)
	mc.Fill(1.5, 2)

	pu, err := NewPileup(data, mc)
	require.NoError(t, err)
	require.InDelta(t, 0.5, pu.Weight(0.2), 1e-12)
	require.InDelta(t, 1.5, pu.Weight(1.7), 1e-12)
	require.Equal(t, 0., pu.Weight(2.5))
	require.Equal(t, 0., pu.Weight(-1))
	require.Equal(t, 0., pu.Weight(3))

	_, err = NewPileup(data, hbook.NewH1D(4, 0, 3))
	require.Error(t, err)
	_, err = NewPileup(data, hbook.NewH1D(3, 0, 3))
	require.Error(t, err)
}

func testScaleFactors(t *testing.T) *ScaleFactorMap {
	h := hbook.NewH2D(2, -2.5, 2.5, 2, 10, 50)
	h.Fill(-1, 20, 0.9)
	h.Fill(1, 20, 0.95)
	h.Fill(-1, 40, 1.1)
	h.Fill(1, 40, 1.05)

	sfs, err := NewScaleFactorMap(h)
	require.NoError(t, err)
	return sfs
}

func TestScaleFactorMap(t *testing.T) {
	sfs := testScaleFactors(t)
	require.InDelta(t, 0.9, sfs.Value(-1, 20), 1e-12)
	require.InDelta(t, 1.05, sfs.Value(2, 45), 1e-12)
	require.InDelta(t, 1.05, sfs.Value(1, 500), 1e-12)
	require.InDelta(t, 0.9, sfs.Value(-3, 5), 1e-12)
	require.InDelta(t, 1.1, sfs.Value(-2.5, 30), 1e-12)
}

func TestFindBin(t *testing.T) {
	edges := []float64{0, 1, 2, 3}
	require.Equal(t, 0, findBin(edges, -1))
	require.Equal(t, 0, findBin(edges, 0))
	require.Equal(t, 0, findBin(edges, 0.5))
	require.Equal(t, 1, findBin(edges, 1))
	require.Equal(t, 2, findBin(edges, 2.5))
	require.Equal(t, 2, findBin(edges, 3))
	require.Equal(t, 2, findBin(edges, 10))
}

func TestWeighterBranches(t *testing.T) {
	src := &memSource{
		name: "DYJetsToLL_LT_5To75.root",
		branches: []Branch{
			{Name: "mcGenWeight"},
			{Name: "puWeight"},
			{Name: "EleIDSF", Len: 3},
		},
	}
	w, err := NewWeighter(src, WeightOptions{UsePU: true, EleIDSF: 2, UseLT: true})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"mcGenWeight", "puWeight", "EleIDSF"}, w.Branches())

	got := w.Weight(event(map[string][]float64{
		"mcGenWeight": {-1},
		"puWeight":    {0.8},
		"EleIDSF":     {0.9, 0.95, 0.5},
	}))
	require.InDelta(t, -1*0.8*0.9*0.95*LTWeight(src.name), got, 1e-15)
}

func TestWeighterExternalInputs(t *testing.T) {
	data := hbook.NewH1D(2, 0, 50)
	data.Fill(10, 1)
	data.Fill(30, 1)
	mc := hbook.NewH1D(2, 0, 50)
	mc.Fill(10, 3)
	mc.Fill(30, 1)
	pu, err := NewPileup(data, mc)
	require.NoError(t, err)

	src := &memSource{
		name: "s_chain.root",
		branches: []Branch{
			{Name: "nPU"},
			{Name: "etaSCEle", Len: 3},
			{Name: "energy_ECAL_ele", Len: 3},
		},
	}
	opts := WeightOptions{
		UsePU:        true,
		EleIDSF:      2,
		EnergyBranch: "energy_ECAL_ele",
		Pileup:       pu,
		ScaleFactors: testScaleFactors(t),
	}
	w, err := NewWeighter(src, opts)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"nPU", "etaSCEle", "energy_ECAL_ele"}, w.Branches())

	// The second electron slot is empty and does not enter the product.
	got := w.Weight(event(map[string][]float64{
		"nPU":             {12},
		"etaSCEle":        {1, -999, 0},
		"energy_ECAL_ele": {40 * math.Cosh(1), -999, 10},
	}))
	require.InDelta(t, (0.5/0.75)*1.05, got, 1e-12)
}

func TestWeighterMissingInputs(t *testing.T) {
	src := &memSource{name: "s_chain.root", branches: []Branch{{Name: "nPU"}}}

	_, err := NewWeighter(src, WeightOptions{UsePU: true})
	require.Error(t, err)

	_, err = NewWeighter(src, WeightOptions{EleIDSF: 2})
	require.Error(t, err)

	_, err = NewWeighter(src, WeightOptions{EleIDSF: 2, ScaleFactors: &ScaleFactorMap{}})
	require.Error(t, err)

	w, err := NewWeighter(src, WeightOptions{UseLT: true})
	require.NoError(t, err)
	require.Equal(t, 1., w.Weight(event(nil)))
}
