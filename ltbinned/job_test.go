package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultJob(t *testing.T) {
	job, err := DecodeJob(defaultJobHCL, "validation.hcl")
	require.NoError(t, err)

	require.Equal(t, "Et_25-isEle-eleID_loose25nsRun22016Moriond", job.Category)
	require.Equal(t, "plots/validation/LTBinned/", job.PlotDir)
	require.Equal(t, "selected", job.Tree)
	require.Equal(t, "Inclusive Madgraph", job.InclusiveLabel)
	require.True(t, job.BinnedAllLTWeight)

	require.Len(t, job.Bins, 10)
	require.Equal(t, LTBin{Name: "5 - 75", File: "tmp/LTregrOld/s1_chain.root"}, job.Bins[0])
	require.Equal(t, "800 - 2000", job.Bins[9].Name)

	var names []string
	for _, c := range job.Comparisons {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"invMass_ECAL_ele", "LT", "LT_logx", "ET", "eta", "R9"}, names)

	mass := job.Comparisons[0]
	require.Equal(t, "GeV", mass.Unit)
	require.Equal(t, 2, mass.NEle)
	lo, hi := mass.ratioRange()
	require.Equal(t, 0.9, lo)
	require.Equal(t, 1.1, hi)

	require.True(t, job.Comparisons[2].LogX)

	eta := job.Comparisons[4]
	require.Empty(t, eta.Unit)
	lo, hi = eta.ratioRange()
	require.Zero(t, lo)
	require.Zero(t, hi)
}

func TestDecodeJobOverrides(t *testing.T) {
	job, err := DecodeJob([]byte(`
inclusive  = "incl.root"
data       = "data.root"
binned_all = "lt.root"
tree       = "extended"

binned_all_lt_weight = false

bin "5 - 75" { file = "lt1.root" }

comparison "R9" {
  branch  = "R9Ele"
  binning = "(100,.3,1)"
  xlabel  = "R_{9}"
}
`), "job.hcl")
	require.NoError(t, err)
	require.Equal(t, "extended", job.Tree)
	require.False(t, job.BinnedAllLTWeight)
	require.Equal(t, "Data OldRegr", job.DataLabel)
	require.Empty(t, job.Category)
	require.Zero(t, job.Comparisons[0].NEle)
}

// r9Comparison returns a comparison block with the given binning and extra
// attributes.
func r9Comparison(binning, extra string) string {
	return `
comparison "R9" {
  branch  = "R9Ele"
  binning = "` + binning + `"
  xlabel  = "R_{9}"
  ` + extra + `
}
`
}

func TestDecodeJobErrors(t *testing.T) {
	const (
		samples = `
inclusive  = "incl.root"
data       = "data.root"
binned_all = "lt.root"
`
		bin = `bin "5 - 75" { file = "lt1.root" }` + "\n"
	)

	for name, src := range map[string]string{
		"syntax":     samples + `bin "5 - 75" {`,
		"missing":    bin + r9Comparison("(10,0,1)", ""),
		"no bins":    samples + r9Comparison("(10,0,1)", ""),
		"binning":    samples + bin + r9Comparison("(10,1,0)", ""),
		"ratio":      samples + bin + r9Comparison("(10,0,1)", "ratio = [1]"),
		"ratio low":  samples + bin + r9Comparison("(10,0,1)", "ratio = [1.2, 0.8]"),
		"duplicate":  samples + bin + r9Comparison("(10,0,1)", "") + r9Comparison("(10,0,1)", ""),
		"nele":       samples + bin + r9Comparison("(10,0,1)", "nele = -1"),
		"unexpected": samples + bin + "\ncolour = \"red\"\n",
	} {
		_, err := DecodeJob([]byte(src), "job.hcl")
		require.Error(t, err, name)
	}
}
