package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/decibelcooper/ecalplot/gammajet"
)

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: `+os.Args[0]+` [options] [analyzer.hcl]

Prints the GammaJetAnalysis parameter set. Parameters not set in the HCL file
keep their defaults.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	log.SetPrefix("gammajetcfg: ")
	log.SetFlags(0)

	var (
		format = flag.String("format", "cfi", "output format: cfi or hcl")
		label  = flag.String("label", gammajet.ModuleType, "module label in the cfi output")
		output = flag.String("o", "", "output file (default stdout)")
	)
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() > 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	cfg := gammajet.Default()
	if flag.NArg() == 1 {
		var err error
		cfg, err = gammajet.Load(flag.Arg(0))
		if err != nil {
			log.Fatalf("could not load parameters: %+v", err)
		}
	}

	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("could not create output: %+v", err)
		}
		defer f.Close()
		w = f
	}

	var err error
	switch *format {
	case "cfi":
		err = gammajet.WriteCfi(w, *label, cfg)
	case "hcl":
		err = gammajet.WriteHCL(w, cfg)
	default:
		log.Fatalf("unknown format %q", *format)
	}
	if err != nil {
		log.Fatalf("could not write parameters: %+v", err)
	}
}
