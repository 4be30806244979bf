package main

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/decibelcooper/ecalplot"
)

// Job describes an L_T binned validation: the inclusive sample, its L_T
// binned replacement split per bin and merged, and the data to compare to.
type Job struct {
	Category string `hcl:"category,optional"`
	PlotDir  string `hcl:"plotdir,optional"`
	Tree     string `hcl:"tree,optional"`

	Inclusive      string `hcl:"inclusive"`
	InclusiveLabel string `hcl:"inclusive_label,optional"`
	Data           string `hcl:"data"`
	DataLabel      string `hcl:"data_label,optional"`
	BinnedAll      string `hcl:"binned_all"`
	BinnedAllLabel string `hcl:"binned_all_label,optional"`
	// BinnedAllLTWeight applies the cross section weights to the merged
	// L_T binned sample. They are read from its LTweight branch, usually a
	// friend tree added when the bins were merged. Without that branch the
	// weight falls back to the LT_<lo>To<hi> tag of the file name, and a
	// merged file carrying no tag, such as s_chain.root, weighs 1.
	BinnedAllLTWeight bool `hcl:"binned_all_lt_weight,optional"`

	Bins        []LTBin      `hcl:"bin,block"`
	Comparisons []Comparison `hcl:"comparison,block"`
}

type LTBin struct {
	Name string `hcl:"name,label"`
	File string `hcl:"file"`
}

// Comparison is one observable to validate.
type Comparison struct {
	Name    string    `hcl:"name,label"`
	Branch  string    `hcl:"branch"`
	Binning string    `hcl:"binning"`
	XLabel  string    `hcl:"xlabel"`
	Unit    string    `hcl:"unit,optional"`
	Ratio   []float64 `hcl:"ratio,optional"`
	NEle    int       `hcl:"nele,optional"`
	LogX    bool      `hcl:"logx,optional"`
}

func defaultJob() Job {
	return Job{
		PlotDir:           "plots/validation/LTBinned/",
		Tree:              ecalplot.DefaultTreeName,
		InclusiveLabel:    "Inclusive Madgraph",
		DataLabel:         "Data OldRegr",
		BinnedAllLabel:    "LTBinned Madgraph",
		BinnedAllLTWeight: true,
	}
}

// DecodeJob parses an HCL job. filename is only used in diagnostics.
func DecodeJob(src []byte, filename string) (*Job, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %s", filename, diags.Error())
	}

	job := defaultJob()
	diags = gohcl.DecodeBody(file.Body, nil, &job)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %s", filename, diags.Error())
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job %s: %w", filename, err)
	}
	return &job, nil
}

func (j *Job) Validate() error {
	if len(j.Bins) == 0 {
		return fmt.Errorf("no L_T bins")
	}
	seen := make(map[string]bool)
	for _, c := range j.Comparisons {
		if seen[c.Name] {
			return fmt.Errorf("duplicate comparison %q", c.Name)
		}
		seen[c.Name] = true

		if _, err := ecalplot.ParseBinning(c.Binning); err != nil {
			return fmt.Errorf("comparison %q: %w", c.Name, err)
		}
		switch len(c.Ratio) {
		case 0:
		case 2:
			if c.Ratio[1] <= c.Ratio[0] {
				return fmt.Errorf("comparison %q: empty ratio range", c.Name)
			}
		default:
			return fmt.Errorf("comparison %q: ratio wants [low, high]", c.Name)
		}
		if c.NEle < 0 {
			return fmt.Errorf("comparison %q: negative nele", c.Name)
		}
	}
	return nil
}

// ratioRange returns the ratio panel bounds, zero meaning the default.
func (c Comparison) ratioRange() (float64, float64) {
	if len(c.Ratio) == 2 {
		return c.Ratio[0], c.Ratio[1]
	}
	return 0, 0
}
