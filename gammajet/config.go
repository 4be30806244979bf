// Package gammajet holds the parameter set of the GammaJetAnalysis
// analyzer. The analyzer itself runs inside the CMSSW framework; this package
// owns its defaults, reads overrides from HCL and renders the block back as
// a cfi fragment.
package gammajet

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ModuleType is the C++ plugin name of the analyzer.
const ModuleType = "GammaJetAnalysis"

// InputTag names a product as "label:instance:process".
type InputTag struct {
	Label    string
	Instance string
	Process  string
}

// ParseInputTag reads "label", "label:instance" or
// "label:instance:process".
func ParseInputTag(s string) (InputTag, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 || parts[0] == "" {
		return InputTag{}, fmt.Errorf("invalid input tag %q", s)
	}
	var tag InputTag
	tag.Label = parts[0]
	if len(parts) > 1 {
		tag.Instance = parts[1]
	}
	if len(parts) > 2 {
		tag.Process = parts[2]
	}
	return tag, nil
}

func (t InputTag) String() string {
	switch {
	case t.Process != "":
		return t.Label + ":" + t.Instance + ":" + t.Process
	case t.Instance != "":
		return t.Label + ":" + t.Instance
	}
	return t.Label
}

// Config is the GammaJetAnalysis parameter set. Attribute names follow the
// analyzer's parameter names.
type Config struct {
	CaloJetCollName      string   `hcl:"caloJetCollName,optional"`
	RhoColl              string   `hcl:"rhoColl,optional"`
	PFMETColl            string   `hcl:"PFMETColl,optional"`
	PFMETTYPE1Coll       string   `hcl:"PFMETTYPE1Coll,optional"`
	PhotonCollName       string   `hcl:"photonCollName,optional"`
	CaloJetCorrName      string   `hcl:"caloJetCorrName,optional"`
	PFJetCollName        string   `hcl:"pfJetCollName,optional"`
	PFJetCorrName        string   `hcl:"pfJetCorrName,optional"`
	GenJetCollName       string   `hcl:"genJetCollName,optional"`
	GenParticleCollName  string   `hcl:"genParticleCollName,optional"`
	GenEventInfoName     string   `hcl:"genEventInfoName,optional"`
	HBHERecHitName       string   `hcl:"hbheRecHitName,optional"`
	HFRecHitName         string   `hcl:"hfRecHitName,optional"`
	HORecHitName         string   `hcl:"hoRecHitName,optional"`
	RootHistFilename     string   `hcl:"rootHistFilename,optional"`
	PVCollName           string   `hcl:"pvCollName,optional"`
	AllowNoPhoton        bool     `hcl:"allowNoPhoton,optional"`
	PhotonJetDPhiMin     float64  `hcl:"photonJetDPhiMin,optional"`
	PhotonPtMin          float64  `hcl:"photonPtMin,optional"`
	JetEtMin             float64  `hcl:"jetEtMin,optional"`
	Jet2EtMax            float64  `hcl:"jet2EtMax,optional"`
	Jet3EtMax            float64  `hcl:"jet3EtMax,optional"`
	PhotonTriggers       []string `hcl:"photonTriggers,optional"`
	JetTriggers          []string `hcl:"jetTriggers,optional"`
	WriteTriggerPrescale bool     `hcl:"writeTriggerPrescale,optional"`
	DoPFJets             bool     `hcl:"doPFJets,optional"`
	DoGenJets            bool     `hcl:"doGenJets,optional"`
	Debug                int      `hcl:"debug,optional"`
	WorkOnAOD            bool     `hcl:"workOnAOD,optional"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		CaloJetCollName:      "ak5CaloJets",
		RhoColl:              "kt6PFJets:rho",
		PFMETColl:            "pfMet",
		PFMETTYPE1Coll:       "pfType1CorrectedMet",
		PhotonCollName:       "photons",
		CaloJetCorrName:      "ak5CaloL2L3",
		PFJetCollName:        "ak5PFJetsCHS",
		PFJetCorrName:        "ak5PFchsL2L3",
		GenJetCollName:       "ak5GenJets",
		GenParticleCollName:  "genParticles",
		GenEventInfoName:     "generator",
		HBHERecHitName:       "hbhereco",
		HFRecHitName:         "hfreco",
		HORecHitName:         "horeco",
		RootHistFilename:     "PhotonPlusJet_tree.root",
		PVCollName:           "offlinePrimaryVertices",
		AllowNoPhoton:        false,
		PhotonJetDPhiMin:     2.0, // 0.75 pi= 2.356, 0.7 pi=2.2
		PhotonPtMin:          15.,
		JetEtMin:             15.,
		Jet2EtMax:            100.,
		Jet3EtMax:            50.,
		PhotonTriggers:       []string{""},
		JetTriggers:          []string{""},
		WriteTriggerPrescale: false,
		DoPFJets:             true,
		DoGenJets:            true,
		Debug:                0,
		WorkOnAOD:            false,
	}
}

// Validate checks the values the analyzer would otherwise reject at run
// time or silently misuse.
func (c Config) Validate() error {
	var errs []string
	for name, v := range map[string]string{
		"caloJetCollName":  c.CaloJetCollName,
		"photonCollName":   c.PhotonCollName,
		"pfJetCollName":    c.PFJetCollName,
		"rootHistFilename": c.RootHistFilename,
		"pvCollName":       c.PVCollName,
	} {
		if v == "" {
			errs = append(errs, name+" is empty")
		}
	}
	for name, v := range map[string]string{
		"rhoColl":        c.RhoColl,
		"PFMETColl":      c.PFMETColl,
		"PFMETTYPE1Coll": c.PFMETTYPE1Coll,
	} {
		if _, err := ParseInputTag(v); err != nil {
			errs = append(errs, name+": "+err.Error())
		}
	}
	if c.PhotonJetDPhiMin < 0 || c.PhotonJetDPhiMin > math.Pi {
		errs = append(errs, fmt.Sprintf("photonJetDPhiMin %g outside [0, pi]", c.PhotonJetDPhiMin))
	}
	if c.PhotonPtMin < 0 {
		errs = append(errs, "photonPtMin is negative")
	}
	if c.JetEtMin < 0 {
		errs = append(errs, "jetEtMin is negative")
	}
	if c.Jet3EtMax > c.Jet2EtMax {
		errs = append(errs, fmt.Sprintf("jet3EtMax %g exceeds jet2EtMax %g", c.Jet3EtMax, c.Jet2EtMax))
	}
	if c.Debug < 0 {
		errs = append(errs, "debug is negative")
	}
	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	return fmt.Errorf("invalid %s parameters: %s", ModuleType, strings.Join(errs, "; "))
}
