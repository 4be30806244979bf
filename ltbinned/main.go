package main

import (
	_ "embed"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/decibelcooper/ecalplot"
)

//go:embed validation.hcl
var defaultJobHCL []byte

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] [job.hcl]

Compares the inclusive Drell-Yan simulation with its L_T binned replacement
and both with data. Without a job file the built-in validation job is run.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("ltbinned: ")
	log.SetFlags(0)

	settings, err := ecalplot.LoadSettings()
	if err != nil {
		log.Fatalf("could not load settings: %+v", err)
	}

	var (
		plotDir = flag.String("plotdir", "", "outdir for plots (overrides the job)")
		only    = flag.String("only", "", "run only the named comparison")
		verbose = flag.Bool("v", settings.Verbose, "verbose output")
	)
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() > 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	src, filename := defaultJobHCL, "validation.hcl"
	if flag.NArg() == 1 {
		filename = flag.Arg(0)
		src, err = os.ReadFile(filename)
		if err != nil {
			log.Fatalf("could not read job: %+v", err)
		}
	}
	job, err := DecodeJob(src, filename)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if *plotDir != "" {
		job.PlotDir = *plotDir
	}

	r, err := newRunner(job, settings, ecalplot.NewLogger(os.Stdout, *verbose))
	if err != nil {
		log.Fatalf("%+v", err)
	}
	for _, c := range job.Comparisons {
		if *only != "" && c.Name != *only {
			continue
		}
		if err := r.compare(c); err != nil {
			log.Fatalf("comparison %q: %+v", c.Name, err)
		}
	}
}

type runner struct {
	job      *Job
	settings ecalplot.Settings
	logger   *slog.Logger

	pu   *ecalplot.Pileup
	sfs  *ecalplot.ScaleFactorMap
	open func(path, tree string) (ecalplot.Source, error)
}

// newRunner loads the external weight inputs named in settings once for all
// comparisons. Simulation is pileup reweighted only when pileup inputs are
// given.
func newRunner(job *Job, settings ecalplot.Settings, logger *slog.Logger) (*runner, error) {
	pu, sfs, err := settings.WeightInputs()
	if err != nil {
		return nil, err
	}
	return &runner{
		job:      job,
		settings: settings,
		logger:   logger,
		pu:       pu,
		sfs:      sfs,
		open:     ecalplot.OpenROOT,
	}, nil
}

func (r *runner) hist(path, label string, isMC bool, c Comparison, useLT bool) (*ecalplot.Hist, error) {
	binning, err := ecalplot.ParseBinning(c.Binning)
	if err != nil {
		return nil, err
	}
	parser := ecalplot.NewCategoryParser(r.settings.EnergyBranch)
	parser.InvMassBranch = r.settings.InvMassBranch

	req := ecalplot.HistRequest{
		Branch:   c.Branch,
		Binning:  binning,
		Category: r.job.Category,
		Label:    label,
		IsMC:     isMC,
		Parser:   parser,
		Logger:   r.logger,
		Weights: ecalplot.WeightOptions{
			UsePU:        r.pu != nil,
			EnergyBranch: r.settings.EnergyBranch,
			UseLT:        useLT,
			Pileup:       r.pu,
			ScaleFactors: r.sfs,
		},
	}
	if isMC {
		req.Weights.EleIDSF = c.NEle
	}

	src, err := r.open(path, r.job.Tree)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return ecalplot.FillHist(src, req)
}

// compare draws the L_T bins stacked against the inclusive sample, both as
// fractions, then data against the merged L_T binned and inclusive samples.
func (r *runner) compare(c Comparison) error {
	inclusive, err := r.hist(r.job.Inclusive, r.job.InclusiveLabel, true, c, false)
	if err != nil {
		return err
	}

	var (
		ltHists []*ecalplot.Hist
		ltSum   float64
	)
	for _, bin := range r.job.Bins {
		r.logger.Info("Getting "+bin.Name, "module", "ltbinned")
		h, err := r.hist(bin.File, "L_{T} "+bin.Name+" GeV", true, c, false)
		if err != nil {
			return err
		}
		ltHists = append(ltHists, h)
		ltSum += h.Integral()
	}

	ecalplot.ColorData(inclusive)
	ecalplot.ColorMCs(ltHists)
	ecalplot.ScaleToUnity(inclusive)
	if ltSum != 0 {
		ecalplot.ScaleBy(1/ltSum, ltHists...)
	}

	lo, hi := c.ratioRange()
	xlabel := c.XLabel
	if c.Unit != "" {
		xlabel += " [" + c.Unit + "]"
	}
	opts := ecalplot.PlotOptions{
		XLabel:     xlabel,
		YLabel:     "Fraction",
		YLabelUnit: c.Unit,
		LogX:       c.LogX,
		StackMC:    true,
		Ratio:      true,
		RatioMin:   lo,
		RatioMax:   hi,
		Formats:    r.settings.Formats,
	}
	_, err = ecalplot.PlotDataMC([]*ecalplot.Hist{inclusive}, ecalplot.Reverse(ltHists), r.job.PlotDir, "LT_comparison_"+c.Name, opts)
	if err != nil {
		return err
	}

	data, err := r.hist(r.job.Data, r.job.DataLabel, false, c, false)
	if err != nil {
		return err
	}
	binnedAll, err := r.hist(r.job.BinnedAll, r.job.BinnedAllLabel, true, c, r.job.BinnedAllLTWeight)
	if err != nil {
		return err
	}
	// Normalize rescales the inclusive histogram to the data, so its unit
	// area scaling above does not matter here.
	mc := []*ecalplot.Hist{binnedAll, inclusive}
	ecalplot.ColorData(data)
	ecalplot.ColorMCs(mc)
	ecalplot.Normalize([]*ecalplot.Hist{data}, mc)

	opts.YLabel = "Events"
	opts.StackMC = false
	_, err = ecalplot.PlotDataMC([]*ecalplot.Hist{data}, mc, r.job.PlotDir, "LT_dataMC__"+c.Name, opts)
	return err
}
