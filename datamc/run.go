package main

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/decibelcooper/ecalplot"
)

// dielectronSFs is the number of electrons whose ID scale factor enters the
// weight of a Z->ee event.
const dielectronSFs = 2

func run(opts *options, logger *slog.Logger) error {
	pu, sfs, err := opts.settings.WeightInputs()
	if err != nil {
		return err
	}
	parser := ecalplot.NewCategoryParser(opts.settings.EnergyBranch)
	parser.InvMassBranch = opts.settings.InvMassBranch

	for _, branch := range opts.branches {
		name, err := outputName(opts, branch)
		if err != nil {
			return err
		}
		xlabel := opts.xlabel
		if xlabel == "" {
			xlabel, _ = firstBranch(opts, branch)
		}

		var dataHists, mcHists []*ecalplot.Hist
		if len(opts.data) > 0 {
			logger.Info("Data: "+branch, "status", "STATUS")
			dataHists, err = makeHists(opts, opts.data, branch, false, parser, pu, sfs, logger)
			if err != nil {
				return err
			}
			ecalplot.ColorData(dataHists...)
		}

		if len(opts.mc) > 0 {
			logger.Info("MC: "+branch, "status", "STATUS")
			mcHists, err = makeHists(opts, opts.mc, branch, true, parser, pu, sfs, logger)
			if err != nil {
				return err
			}
			ecalplot.ColorMCs(mcHists)
		}

		ecalplot.Normalize(dataHists, mcHists)
		paths, err := ecalplot.PlotDataMC(dataHists, mcHists, opts.plotDir, name, ecalplot.PlotOptions{
			XLabel:     xlabel,
			YLabel:     "Events",
			YLabelUnit: "GeV",
			LogY:       opts.logy,
			Ratio:      !opts.noRatio,
			RatioMin:   opts.ratio[0],
			RatioMax:   opts.ratio[1],
			Formats:    opts.formats,
		})
		if err != nil {
			return fmt.Errorf("could not plot %q: %w", branch, err)
		}
		for _, path := range paths {
			logger.Debug("wrote "+path, "module", "datamc")
		}
		logger.Info("Done: "+branch, "status", "STATUS")
	}
	return nil
}

// makeHists fills one histogram per sample. A branch given in a sample spec
// also applies to the following samples of the list that do not name one.
func makeHists(opts *options, samples []ecalplot.Sample, branch string, isMC bool,
	parser *ecalplot.CategoryParser, pu *ecalplot.Pileup, sfs *ecalplot.ScaleFactorMap,
	logger *slog.Logger) ([]*ecalplot.Hist, error) {

	var hs []*ecalplot.Hist
	for _, s := range samples {
		b, err := s.ResolveBranch(branch)
		if err != nil {
			return nil, err
		}
		branch = b
		energyBranch := s.EnergyBranch
		if energyBranch == "" {
			energyBranch = opts.settings.EnergyBranch
		}
		p := *parser
		p.EnergyBranch = energyBranch

		req := ecalplot.HistRequest{
			Branch:   b,
			Binning:  opts.binning,
			Category: opts.category,
			Label:    s.Label,
			IsMC:     isMC,
			Parser:   &p,
			Logger:   logger,
			Weights: ecalplot.WeightOptions{
				UsePU:        !opts.noPU,
				EnergyBranch: energyBranch,
				Pileup:       pu,
				ScaleFactors: sfs,
			},
		}
		if !opts.noEleIDSF {
			req.Weights.EleIDSF = dielectronSFs
		}

		logger.Debug(fmt.Sprintf("filling %s from %s", b, s.File), "module", "datamc")
		h, err := fillSample(opts, s, req)
		if err != nil {
			return nil, err
		}
		hs = append(hs, h)
	}
	return hs, nil
}

func fillSample(opts *options, s ecalplot.Sample, req ecalplot.HistRequest) (*ecalplot.Hist, error) {
	src, err := opts.open(s.File, opts.tree)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return ecalplot.FillHist(src, req)
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.+-]+`)

// outputName picks the file base name for branch. An explicit name is
// suffixed with the branch when several branches are plotted.
func outputName(opts *options, branch string) (string, error) {
	b, err := firstBranch(opts, branch)
	if err != nil {
		return "", err
	}
	clean := unsafeChars.ReplaceAllString(b, "_")

	switch {
	case opts.name == "":
		return clean, nil
	case len(opts.branches) > 1:
		return opts.name + "_" + clean, nil
	}
	return opts.name, nil
}

// firstBranch resolves branch against the first sample, so that an empty
// positional branch takes the branch given in the sample spec.
func firstBranch(opts *options, branch string) (string, error) {
	samples := append(append([]ecalplot.Sample{}, opts.data...), opts.mc...)
	if len(samples) == 0 {
		if branch == "" {
			return "", fmt.Errorf("no branch given")
		}
		return branch, nil
	}
	return samples[0].ResolveBranch(branch)
}
