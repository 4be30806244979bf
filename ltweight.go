package ecalplot

import (
	"path/filepath"
	"strings"
)

// ltLumi normalises the L_T binned samples to 1 fb^-1.
const ltLumi = 1000.

type ltBin struct {
	tag     string
	xsec    float64 // pb, after filter
	nEvents float64
}

var ltBins = []ltBin{
	{"LT_5To75", 8.670e+02, 5061547},
	{"LT_75To80", 1.345e+02, 1915515},
	{"LT_80To85", 1.599e+02, 2853483},
	{"LT_85To90", 2.295e+02, 2987343},
	{"LT_90To95", 1.654e+02, 1960045},
	{"LT_95To100", 4.896e+01, 1310896},
	{"LT_100To200", 9.401e+01, 2280265},
	{"LT_200To400", 3.588e+00, 1194817},
	{"LT_400To800", 2.012e-01, 1023888},
	{"LT_800To2000", 8.329e-03, 933956},
}

// LTWeight returns the cross section weight of the L_T binned Drell-Yan
// sample the file belongs to. Files that are not L_T binned weigh 1, as do
// L_T files whose bin is unknown.
func LTWeight(filename string) float64 {
	base := filepath.Base(filename)
	if !strings.Contains(base, "LT") {
		return 1
	}
	for _, bin := range ltBins {
		if containsTag(base, bin.tag) {
			return bin.xsec / bin.nEvents * ltLumi
		}
	}
	return 1
}

// containsTag matches tag as a whole token so that LT_80To85 does not match
// LT_800To2000.
func containsTag(s, tag string) bool {
	for {
		i := strings.Index(s, tag)
		if i < 0 {
			return false
		}
		end := i + len(tag)
		if end == len(s) || !isDigit(s[end]) {
			return true
		}
		s = s[end:]
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
