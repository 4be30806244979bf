package ecalplot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

var testBranches = []Branch{
	{Name: "energy_ECAL_ele", Len: 3},
	{Name: "etaSCEle", Len: 3},
	{Name: "R9Ele", Len: 3},
	{Name: "recoFlagsEle", Len: 3},
	{Name: "eleID", Len: 3},
	{Name: "invMass_ECAL_ele"},
	{Name: "runNumber"},
	{Name: "nHits", Len: -1},
}

func TestFormulaIndexed(t *testing.T) {
	f, err := CompileFormula("energy_ECAL_ele[0]/cosh(etaSCEle[0])", testBranches)
	require.NoError(t, err)
	require.False(t, f.Iterated())
	require.Equal(t, []string{"energy_ECAL_ele", "etaSCEle"}, f.Branches())
	require.Equal(t, "energy_ECAL_ele[0]/cosh(etaSCEle[0])", f.String())

	vals, err := f.Eval(event(map[string][]float64{
		"energy_ECAL_ele": {50, 40, -999},
		"etaSCEle":        {0.5, 1, -999},
	}))
	require.NoError(t, err)
	require.Len(t, vals, 1)
	require.InDelta(t, 50/math.Cosh(0.5), vals[0], 1e-9)
}

func TestFormulaIterated(t *testing.T) {
	f, err := CompileFormula("nHits * 2 + invMass_ECAL_ele", testBranches)
	require.NoError(t, err)
	require.True(t, f.Iterated())

	vals, err := f.Eval(event(map[string][]float64{
		"nHits":            {1, 2, 3},
		"invMass_ECAL_ele": {90},
	}))
	require.NoError(t, err)
	require.Equal(t, []float64{92, 94, 96}, vals)

	vals, err = f.Eval(event(map[string][]float64{
		"nHits":            {},
		"invMass_ECAL_ele": {90},
	}))
	require.NoError(t, err)
	require.Empty(t, vals)
}

func TestFormulaIteratedShortest(t *testing.T) {
	f, err := CompileFormula("energy_ECAL_ele/cosh(etaSCEle)", testBranches)
	require.NoError(t, err)

	vals, err := f.Eval(event(map[string][]float64{
		"energy_ECAL_ele": {10, 20, 30},
		"etaSCEle":        {0, 0},
	}))
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20}, vals)
}

func TestFormulaBool(t *testing.T) {
	f, err := CompileFormula("runNumber >= 273150 && hasbits(eleID[0], 6)", testBranches)
	require.NoError(t, err)

	ev := event(map[string][]float64{
		"runNumber": {273158},
		"eleID":     {7, 0, 0},
	})
	vals, err := f.Eval(ev)
	require.NoError(t, err)
	require.Equal(t, []float64{1}, vals)

	ev = event(map[string][]float64{
		"runNumber": {273158},
		"eleID":     {5, 0, 0},
	})
	vals, err = f.Eval(ev)
	require.NoError(t, err)
	require.Equal(t, []float64{0}, vals)
}

func TestFormulaFunctions(t *testing.T) {
	for src, want := range map[string]float64{
		"abs(-2.5)":            2.5,
		"max(1, 3, 2)":         3,
		"min(1, 3, 2)":         1,
		"pow(2, 10)":           1024,
		"sqrt(16)":             4,
		"log10(1000)":          3,
		"atan2(1, 1)":          math.Pi / 4,
		"exp(0)":               1,
		"cosh(0)":              1,
		"true ? 1 : 2":         1,
		"invMass_ECAL_ele % 7": 6,
	} {
		f, err := CompileFormula(src, testBranches)
		require.NoError(t, err, src)
		vals, err := f.Eval(event(map[string][]float64{"invMass_ECAL_ele": {90}}))
		require.NoError(t, err, src)
		require.InDelta(t, want, vals[0], 1e-9, src)
	}

	f, err := CompileFormula("sqrt(invMass_ECAL_ele)", testBranches)
	require.NoError(t, err)
	_, err = f.Eval(event(map[string][]float64{"invMass_ECAL_ele": {-1}}))
	require.Error(t, err)
}

func TestFormulaErrors(t *testing.T) {
	for _, src := range []string{
		"unknownBranch > 1",
		"energy_ECAL_ele[0] + energy_ECAL_ele",
		"energy_ECAL_ele[",
	} {
		_, err := CompileFormula(src, testBranches)
		require.Error(t, err, src)
	}

	f, err := CompileFormula("etaSCEle[2]", testBranches)
	require.NoError(t, err)
	_, err = f.Eval(event(map[string][]float64{"etaSCEle": {0.1}}))
	require.Error(t, err, "index out of range")

	_, err = f.Eval(event(nil))
	require.Error(t, err, "branch not loaded")

	f, err = CompileFormula(`"text"`, testBranches)
	require.NoError(t, err)
	_, err = f.Eval(event(nil))
	require.Error(t, err)
}

func TestFormulaNaN(t *testing.T) {
	nan := math.NaN()

	f, err := CompileFormula("invMass_ECAL_ele", testBranches)
	require.NoError(t, err)
	_, err = f.Eval(event(map[string][]float64{"invMass_ECAL_ele": {nan}}))
	require.ErrorIs(t, err, errNaN)

	f, err = CompileFormula("etaSCEle[0] * 2", testBranches)
	require.NoError(t, err)
	_, err = f.Eval(event(map[string][]float64{"etaSCEle": {nan, 0.5}}))
	require.ErrorIs(t, err, errNaN)

	// A NaN element the formula does not read is harmless.
	vals, err := f.Eval(event(map[string][]float64{"etaSCEle": {0.5, nan}}))
	require.NoError(t, err)
	require.Equal(t, []float64{1}, vals)

	f, err = CompileFormula("nHits + 1", testBranches)
	require.NoError(t, err)
	_, err = f.Eval(event(map[string][]float64{"nHits": {1, nan}}))
	require.ErrorIs(t, err, errNaN)
}
