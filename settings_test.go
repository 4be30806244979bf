package ecalplot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings()
	require.NoError(t, err)
	require.Equal(t, "plots/", s.PlotDir)
	require.Equal(t, DefaultTreeName, s.TreeName)
	require.Equal(t, []string{"png", "pdf"}, s.Formats)
	require.Equal(t, "energy_ECAL_ele", s.EnergyBranch)
	require.Equal(t, DefaultScaleFactorHist, s.EleIDSFHist)
	require.Equal(t, DefaultPileupHist, s.PileupHist)

	t.Setenv("ECALPLOT_PLOTDIR", "out/")
	t.Setenv("ECALPLOT_FORMATS", "svg")
	t.Setenv("ECALPLOT_VERBOSE", "true")
	s, err = LoadSettings()
	require.NoError(t, err)
	require.Equal(t, "out/", s.PlotDir)
	require.Equal(t, []string{"svg"}, s.Formats)
	require.True(t, s.Verbose)

	t.Setenv("ECALPLOT_VERBOSE", "maybe")
	_, err = LoadSettings()
	require.Error(t, err)
}

func TestWeightInputs(t *testing.T) {
	pu, sfs, err := Settings{}.WeightInputs()
	require.NoError(t, err)
	require.Nil(t, pu)
	require.Nil(t, sfs)

	_, _, err = Settings{PileupData: "pu_data.root"}.WeightInputs()
	require.Error(t, err)

	_, _, err = Settings{EleIDSFMap: "does_not_exist.root", EleIDSFHist: DefaultScaleFactorHist}.WeightInputs()
	require.Error(t, err)
}
