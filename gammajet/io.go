package gammajet

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

type analyzerFile struct {
	Analyzers []analyzerBlock `hcl:"analyzer,block"`
}

type analyzerBlock struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

// Load reads the analyzer "GammaJetAnalysis" block of an HCL file. Parameters
// missing from the block keep their default value.
func Load(path string) (Config, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Decode(src, path)
}

// Decode is Load on an in-memory file.
func Decode(src []byte, filename string) (Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}

	var f analyzerFile
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return Config{}, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}

	cfg := Default()
	found := false
	for _, block := range f.Analyzers {
		if block.Type != ModuleType {
			continue
		}
		if found {
			return Config{}, fmt.Errorf("%s: more than one %s block", filename, ModuleType)
		}
		found = true
		diags = gohcl.DecodeBody(block.Body, nil, &cfg)
		if diags.HasErrors() {
			return Config{}, fmt.Errorf("failed to decode %s block in %s: %s", ModuleType, filename, diags.Error())
		}
	}
	if !found {
		return Config{}, fmt.Errorf("%s: no analyzer %q block", filename, ModuleType)
	}
	return cfg, cfg.Validate()
}

// WriteHCL writes cfg as an analyzer block that Load reads back.
func WriteHCL(w io.Writer, cfg Config) error {
	f := hclwrite.NewEmptyFile()
	block := f.Body().AppendNewBlock("analyzer", []string{ModuleType})
	gohcl.EncodeIntoBody(&cfg, block.Body())
	_, err := w.Write(f.Bytes())
	return err
}

type param struct {
	name  string
	value string
}

func (c Config) params() ([]param, error) {
	rho, err := ParseInputTag(c.RhoColl)
	if err != nil {
		return nil, err
	}
	met, err := ParseInputTag(c.PFMETColl)
	if err != nil {
		return nil, err
	}
	met1, err := ParseInputTag(c.PFMETTYPE1Coll)
	if err != nil {
		return nil, err
	}

	return []param{
		{"caloJetCollName", cmsString(c.CaloJetCollName)},
		{"rhoColl", cmsInputTag(rho)},
		{"PFMETColl", cmsInputTag(met)},
		{"PFMETTYPE1Coll", cmsInputTag(met1)},
		{"photonCollName", cmsString(c.PhotonCollName)},
		{"caloJetCorrName", cmsString(c.CaloJetCorrName)},
		{"pfJetCollName", cmsString(c.PFJetCollName)},
		{"pfJetCorrName", cmsString(c.PFJetCorrName)},
		{"genJetCollName", cmsString(c.GenJetCollName)},
		{"genParticleCollName", cmsString(c.GenParticleCollName)},
		{"genEventInfoName", cmsString(c.GenEventInfoName)},
		{"hbheRecHitName", cmsString(c.HBHERecHitName)},
		{"hfRecHitName", cmsString(c.HFRecHitName)},
		{"hoRecHitName", cmsString(c.HORecHitName)},
		{"rootHistFilename", cmsString(c.RootHistFilename)},
		{"pvCollName", cmsString(c.PVCollName)},
		{"allowNoPhoton", cmsBool(c.AllowNoPhoton)},
		{"photonJetDPhiMin", cmsDouble(c.PhotonJetDPhiMin)},
		{"photonPtMin", cmsDouble(c.PhotonPtMin)},
		{"jetEtMin", cmsDouble(c.JetEtMin)},
		{"jet2EtMax", cmsDouble(c.Jet2EtMax)},
		{"jet3EtMax", cmsDouble(c.Jet3EtMax)},
		{"photonTriggers", cmsVString(c.PhotonTriggers)},
		{"jetTriggers", cmsVString(c.JetTriggers)},
		{"writeTriggerPrescale", cmsBool(c.WriteTriggerPrescale)},
		{"doPFJets", cmsBool(c.DoPFJets)},
		{"doGenJets", cmsBool(c.DoGenJets)},
		{"debug", "cms.untracked.int32(" + strconv.Itoa(c.Debug) + ")"},
		{"workOnAOD", cmsBool(c.WorkOnAOD)},
	}, nil
}

// WriteCfi renders cfg as the python configuration fragment that declares
// the analyzer module under the given label.
func WriteCfi(w io.Writer, label string, cfg Config) error {
	params, err := cfg.params()
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("import FWCore.ParameterSet.Config as cms\n\n")
	fmt.Fprintf(&b, "%s = cms.EDAnalyzer('%s',\n", label, ModuleType)
	for i, p := range params {
		sep := ","
		if i == len(params)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    %s = %s%s\n", p.name, p.value, sep)
	}
	b.WriteString(")\n")

	_, err = io.WriteString(w, b.String())
	return err
}

func cmsString(s string) string {
	return "cms.string(" + pyString(s) + ")"
}

func cmsBool(v bool) string {
	if v {
		return "cms.bool(True)"
	}
	return "cms.bool(False)"
}

func cmsDouble(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return "cms.double(" + s + ")"
}

func cmsVString(vs []string) string {
	quoted := make([]string, len(vs))
	for i, v := range vs {
		quoted[i] = pyString(v)
	}
	return "cms.vstring(" + strings.Join(quoted, ", ") + ")"
}

func cmsInputTag(t InputTag) string {
	args := []string{strconv.Quote(t.Label)}
	if t.Instance != "" || t.Process != "" {
		args = append(args, strconv.Quote(t.Instance))
	}
	if t.Process != "" {
		args = append(args, strconv.Quote(t.Process))
	}
	return "cms.InputTag(" + strings.Join(args, ",") + ")"
}

// pyString quotes s as a single quoted python literal.
func pyString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
