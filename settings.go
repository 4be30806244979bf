package ecalplot

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds the defaults shared by the commands. Every field can be
// overridden from the environment; command line flags override both.
type Settings struct {
	PlotDir       string   `env:"ECALPLOT_PLOTDIR" envDefault:"plots/"`
	TreeName      string   `env:"ECALPLOT_TREE" envDefault:"selected"`
	Formats       []string `env:"ECALPLOT_FORMATS" envDefault:"png,pdf" envSeparator:","`
	EnergyBranch  string   `env:"ECALPLOT_ENERGY_BRANCH" envDefault:"energy_ECAL_ele"`
	InvMassBranch string   `env:"ECALPLOT_INVMASS_BRANCH" envDefault:"invMass_ECAL_ele"`
	EleIDSFMap    string   `env:"ECALPLOT_ELEIDSF_MAP"`
	EleIDSFHist   string   `env:"ECALPLOT_ELEIDSF_HIST" envDefault:"EGamma_SF2D"`
	PileupData    string   `env:"ECALPLOT_PU_DATA"`
	PileupMC      string   `env:"ECALPLOT_PU_MC"`
	PileupHist    string   `env:"ECALPLOT_PU_HIST" envDefault:"pileup"`
	Verbose       bool     `env:"ECALPLOT_VERBOSE"`
}

// LoadSettings reads the settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return s, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// WeightInputs loads the external pileup and scale factor inputs named in
// the settings. Unset inputs are returned as nil.
func (s Settings) WeightInputs() (*Pileup, *ScaleFactorMap, error) {
	var (
		pu  *Pileup
		sfs *ScaleFactorMap
		err error
	)
	if s.PileupData != "" || s.PileupMC != "" {
		if s.PileupData == "" || s.PileupMC == "" {
			return nil, nil, fmt.Errorf("pileup reweighting needs both a data and an MC pileup file")
		}
		pu, err = ReadPileup(s.PileupData, s.PileupMC, s.PileupHist)
		if err != nil {
			return nil, nil, err
		}
	}
	if s.EleIDSFMap != "" {
		sfs, err = ReadScaleFactorMap(s.EleIDSFMap, s.EleIDSFHist)
		if err != nil {
			return nil, nil, err
		}
	}
	return pu, sfs, nil
}
