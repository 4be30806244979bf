package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/pkg/profile"

	"github.com/decibelcooper/ecalplot"
)

func printUsage(w io.Writer, fs *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, `Usage: `+os.Args[0]+` [options] <category> <binning> [branch...]

Standard data/MC comparison plots. Samples are given as
FILE,LABEL[,BRANCH[,ENERGYBRANCH]]; a branch in the sample spec overrides the
positional branch.

ex:
 $> `+os.Args[0]+` -d d_chain.root,Data -s s_chain.root,MC "Et_25-isEle" "(100,80,100)" invMass_ECAL_ele

options:
`,
		)
		fs.PrintDefaults()
	}
}

type options struct {
	category string
	binning  ecalplot.Binning
	branches []string

	data []ecalplot.Sample
	mc   []ecalplot.Sample

	name      string
	xlabel    string
	plotDir   string
	tree      string
	formats   []string
	noPU      bool
	noEleIDSF bool
	logy      bool
	noRatio   bool
	ratio     []float64
	profile   bool
	settings  ecalplot.Settings

	open func(path, tree string) (ecalplot.Source, error)
}

func parseOptions(args []string, settings ecalplot.Settings, usage io.Writer) (*options, error) {
	var (
		data    ecalplot.StringArrayFlags
		mc      ecalplot.StringArrayFlags
		ratio   = ecalplot.FloatArrayFlags{Array: []float64{0.5, 1.5}}
		opts    = &options{settings: settings, open: ecalplot.OpenROOT}
		formats string
	)

	fs := flag.NewFlagSet("datamc", flag.ContinueOnError)
	fs.SetOutput(usage)
	fs.Usage = printUsage(usage, fs)

	fs.Var(&data, "d", "data `FILE,LABEL[,BRANCH[,ENERGYBRANCH]]` (repeatable)")
	fs.Var(&data, "data", "same as -d")
	fs.Var(&mc, "s", "mc `FILE,LABEL[,BRANCH[,ENERGYBRANCH]]` (repeatable)")
	fs.Var(&mc, "mc", "same as -s")
	fs.StringVar(&opts.name, "n", "", "outfile base name (default=branchname)")
	fs.StringVar(&opts.name, "name", "", "same as -n")
	fs.StringVar(&opts.xlabel, "x", "", "x axis label (default=branchname)")
	fs.StringVar(&opts.xlabel, "xlabel", "", "same as -x")
	fs.StringVar(&opts.plotDir, "plotdir", settings.PlotDir, "outdir for plots")
	fs.BoolVar(&opts.noPU, "noPU", false, "no pileup weights")
	fs.BoolVar(&opts.noEleIDSF, "noEleIDSF", false, "no EleIDSF weights")
	fs.StringVar(&opts.tree, "tree", settings.TreeName, "name of the event tree")
	fs.StringVar(&formats, "formats", strings.Join(settings.Formats, ","), "comma separated output formats")
	fs.BoolVar(&opts.logy, "logy", false, "logarithmic y axis")
	fs.BoolVar(&opts.noRatio, "noRatio", false, "no data/MC ratio panel")
	fs.Var(&ratio, "ratio", "ratio panel range, given twice: -ratio lo -ratio hi")
	fs.StringVar(&opts.settings.EleIDSFMap, "eleIDSF-map", settings.EleIDSFMap, "ROOT file with the electron ID scale factor map")
	fs.StringVar(&opts.settings.PileupData, "pu-data", settings.PileupData, "ROOT file with the data pileup distribution")
	fs.StringVar(&opts.settings.PileupMC, "pu-mc", settings.PileupMC, "ROOT file with the MC pileup distribution")
	fs.BoolVar(&opts.profile, "profile", false, "write a CPU profile")
	fs.BoolVar(&opts.settings.Verbose, "v", settings.Verbose, "verbose output")

	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return nil, err
	}
	if len(positional) < 2 {
		fs.Usage()
		return nil, errors.New("missing category or binning")
	}

	opts.category = positional[0]
	opts.binning, err = ecalplot.ParseBinning(positional[1])
	if err != nil {
		return nil, err
	}
	opts.branches = positional[2:]
	if len(opts.branches) == 0 {
		opts.branches = []string{""}
	}

	if opts.data, err = ecalplot.ParseSamples(data.Array); err != nil {
		return nil, err
	}
	if opts.mc, err = ecalplot.ParseSamples(mc.Array); err != nil {
		return nil, err
	}
	if len(opts.data)+len(opts.mc) == 0 {
		return nil, errors.New("no data or mc samples given")
	}

	if len(ratio.Array) != 2 || ratio.Array[1] <= ratio.Array[0] {
		return nil, fmt.Errorf("invalid ratio range %v", ratio.Array)
	}
	opts.ratio = ratio.Array

	for _, f := range strings.Split(formats, ",") {
		if f = strings.TrimSpace(f); f != "" {
			opts.formats = append(opts.formats, f)
		}
	}
	return opts, nil
}

// parseInterleaved parses flags placed before, between or after the
// positional arguments, which the flag package alone does not allow.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

func main() {
	log.SetPrefix("datamc: ")
	log.SetFlags(0)

	settings, err := ecalplot.LoadSettings()
	if err != nil {
		log.Fatalf("could not load settings: %+v", err)
	}

	opts, err := parseOptions(os.Args[1:], settings, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatalf("invalid arguments: %+v", err)
	}

	if opts.profile {
		defer profile.Start(profile.ProfilePath(opts.plotDir)).Stop()
	}

	logger := ecalplot.NewLogger(os.Stdout, opts.settings.Verbose)
	if err := run(opts, logger); err != nil {
		log.Fatalf("%+v", err)
	}
}
