package ecalplot

import (
	"fmt"
	"strings"
)

// Sample is one input given on the command line as
// FILE,LABEL[,BRANCH[,ENERGYBRANCH]].
type Sample struct {
	File         string
	Label        string
	Branch       string
	EnergyBranch string
}

func ParseSample(arg string) (Sample, error) {
	parts := strings.Split(arg, ",")
	if len(parts) < 2 || parts[0] == "" {
		return Sample{}, fmt.Errorf("invalid sample %q: want FILE,LABEL[,BRANCH[,ENERGYBRANCH]]", arg)
	}
	if len(parts) > 4 {
		return Sample{}, fmt.Errorf("invalid sample %q: too many fields", arg)
	}

	s := Sample{File: parts[0], Label: parts[1]}
	if len(parts) > 2 {
		s.Branch = parts[2]
	}
	if len(parts) > 3 {
		s.EnergyBranch = parts[3]
	}
	return s, nil
}

// ParseSamples parses every argument, stopping at the first error.
func ParseSamples(args []string) ([]Sample, error) {
	var samples []Sample
	for _, arg := range args {
		s, err := ParseSample(arg)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// ResolveBranch returns the branch to plot for s. A branch given in the
// sample spec wins over defaultBranch.
func (s Sample) ResolveBranch(defaultBranch string) (string, error) {
	if s.Branch != "" {
		return s.Branch, nil
	}
	if defaultBranch == "" {
		return "", fmt.Errorf("branch not defined for %s %s", s.File, s.Label)
	}
	return defaultBranch, nil
}
