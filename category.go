package ecalplot

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
)

const (
	barrelEtaMax = 1.4442
	endcapEtaMin = 1.566
	endcapEtaMax = 2.5
	goldR9       = 0.94
)

// DefaultEleIDBits maps electron identification working points to their bit
// in the eleID branch.
var DefaultEleIDBits = map[string]uint32{
	"fiducial":                  0x0001,
	"loose":                     0x0002,
	"medium":                    0x0004,
	"tight":                     0x0008,
	"WP90PU":                    0x0010,
	"WP80PU":                    0x0020,
	"WP70PU":                    0x0040,
	"loose25nsRun2":             0x0080,
	"medium25nsRun2":            0x0100,
	"tight25nsRun2":             0x0200,
	"loose25nsRun22016Moriond":  0x0400,
	"medium25nsRun22016Moriond": 0x0800,
	"tight25nsRun22016Moriond":  0x1000,
	"veto":                      0x2000,
}

// CategoryParser turns category strings such as
// "absEta_0_1-gold-EtLeading_32-EtSubLeading_20-isEle" into cut formulas.
type CategoryParser struct {
	EnergyBranch  string
	InvMassBranch string
	EtaBranch     string
	R9Branch      string
	RecoFlags     string
	EleIDBranch   string
	NEle          int
	EleIDBits     map[string]uint32
}

func NewCategoryParser(energyBranch string) *CategoryParser {
	return &CategoryParser{
		EnergyBranch:  energyBranch,
		InvMassBranch: "invMass_ECAL_ele",
		EtaBranch:     "etaSCEle",
		R9Branch:      "R9Ele",
		RecoFlags:     "recoFlagsEle",
		EleIDBranch:   "eleID",
		NEle:          2,
		EleIDBits:     DefaultEleIDBits,
	}
}

// Cut returns the cut formula selecting category. The empty category
// selects every entry.
func (p *CategoryParser) Cut(category string) (string, error) {
	if strings.TrimSpace(category) == "" {
		return "true", nil
	}

	var cuts []string
	for _, token := range strings.Split(category, "-") {
		if token == "" {
			continue
		}
		cut, err := p.token(token)
		if err != nil {
			return "", fmt.Errorf("category %q: %w", category, err)
		}
		cuts = append(cuts, "("+cut+")")
	}
	if len(cuts) == 0 {
		return "true", nil
	}
	return strings.Join(cuts, " && "), nil
}

func (p *CategoryParser) token(token string) (string, error) {
	name, args, _ := strings.Cut(token, "_")

	switch name {
	case "EB":
		return p.perEle(func(i int) string {
			return fmt.Sprintf("abs(%s[%d]) < %g", p.EtaBranch, i, barrelEtaMax)
		}), nil
	case "EE":
		return p.perEle(func(i int) string {
			return fmt.Sprintf("abs(%s[%d]) > %g && abs(%s[%d]) < %g", p.EtaBranch, i, endcapEtaMin, p.EtaBranch, i, endcapEtaMax)
		}), nil
	case "gold":
		return p.perEle(func(i int) string {
			return fmt.Sprintf("%s[%d] >= %g", p.R9Branch, i, goldR9)
		}), nil
	case "bad":
		return p.perEle(func(i int) string {
			return fmt.Sprintf("%s[%d] < %g", p.R9Branch, i, goldR9)
		}), nil
	case "isEle":
		return p.perEle(func(i int) string {
			return fmt.Sprintf("%s[%d] > 1", p.RecoFlags, i)
		}), nil
	case "noPF":
		return p.perEle(func(i int) string {
			return fmt.Sprintf("%s[%d] != 3", p.RecoFlags, i)
		}), nil
	case "absEta":
		lo, hi, err := rangeArgs(token, args)
		if err != nil {
			return "", err
		}
		return p.perEle(func(i int) string {
			return fmt.Sprintf("abs(%s[%d]) >= %g && abs(%s[%d]) < %g", p.EtaBranch, i, lo, p.EtaBranch, i, hi)
		}), nil
	case "Et":
		threshold, err := valueArg(token, args)
		if err != nil {
			return "", err
		}
		return p.perEle(func(i int) string {
			return fmt.Sprintf("%s > %g", p.et(i), threshold)
		}), nil
	case "EtLeading":
		threshold, err := valueArg(token, args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("max(%s, %s) > %g", p.et(0), p.et(1), threshold), nil
	case "EtSubLeading":
		threshold, err := valueArg(token, args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("min(%s, %s) > %g", p.et(0), p.et(1), threshold), nil
	case "invMass":
		lo, hi, err := rangeArgs(token, args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s >= %g && %s < %g", p.InvMassBranch, lo, p.InvMassBranch, hi), nil
	case "runNumber":
		lo, hi, err := rangeArgs(token, args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("runNumber >= %g && runNumber <= %g", lo, hi), nil
	case "eleID":
		mask, err := p.eleIDMask(args)
		if err != nil {
			return "", err
		}
		return p.perEle(func(i int) string {
			return fmt.Sprintf("hasbits(%s[%d], %d)", p.EleIDBranch, i, mask)
		}), nil
	}
	return "", fmt.Errorf("unknown category token %q", token)
}

func (p *CategoryParser) perEle(cut func(i int) string) string {
	cuts := make([]string, p.NEle)
	for i := range cuts {
		cuts[i] = "(" + cut(i) + ")"
	}
	return strings.Join(cuts, " && ")
}

func (p *CategoryParser) et(i int) string {
	return fmt.Sprintf("%s[%d]/cosh(%s[%d])", p.EnergyBranch, i, p.EtaBranch, i)
}

// eleIDMask resolves a working point name. Names written in the
// "producer|campaign|...|point" form use their last component.
func (p *CategoryParser) eleIDMask(name string) (uint32, error) {
	if name == "" {
		return 0, fmt.Errorf("missing electron ID name")
	}
	if bit, ok := p.EleIDBits[name]; ok {
		return bit, nil
	}
	if i := strings.LastIndex(name, "|"); i >= 0 {
		if bit, ok := p.EleIDBits[name[i+1:]]; ok {
			return bit, nil
		}
	}
	return 0, fmt.Errorf("unknown electron ID %q (known: %s)", name, strings.Join(p.KnownEleIDs(), ", "))
}

// KnownEleIDs lists the configured working points in sorted order.
func (p *CategoryParser) KnownEleIDs() []string {
	keys := maps.Keys(p.EleIDBits)
	slices.Sort(keys)
	return keys
}

func valueArg(token, args string) (float64, error) {
	v, err := strconv.ParseFloat(args, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value in %q", token)
	}
	return v, nil
}

func rangeArgs(token, args string) (float64, float64, error) {
	lo, hi, ok := strings.Cut(args, "_")
	if !ok {
		return 0, 0, fmt.Errorf("invalid range in %q: want %s_LOW_HIGH", token, strings.SplitN(token, "_", 2)[0])
	}
	low, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lower bound in %q", token)
	}
	high, err := strconv.ParseFloat(hi, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid upper bound in %q", token)
	}
	if high <= low {
		return 0, 0, fmt.Errorf("empty range in %q", token)
	}
	return low, high, nil
}
