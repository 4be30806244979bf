package ecalplot

import (
	"image/color"
	"strings"
)

// mcColors follows the order used for overlaid simulation samples.
var mcColors = []color.Color{
	color.RGBA{R: 255, A: 255},
	color.RGBA{B: 255, A: 255},
	color.RGBA{G: 180, A: 255},
	color.RGBA{R: 255, B: 255, A: 255},
	color.RGBA{R: 255, G: 150, A: 255},
	color.RGBA{G: 200, B: 200, A: 255},
	color.RGBA{R: 150, G: 75, B: 0, A: 255},
	color.RGBA{R: 255, B: 127, G: 127, A: 255},
	color.RGBA{R: 127, G: 127, B: 255, A: 255},
	color.RGBA{R: 127, G: 127, B: 127, A: 255},
}

// ColorData marks hs as data, drawn as black points.
func ColorData(hs ...*Hist) {
	for _, h := range hs {
		h.IsData = true
		h.Color = color.RGBA{A: 255}
	}
}

// ColorMCs assigns each simulation histogram its colour by position.
func ColorMCs(hs []*Hist) {
	for i, h := range hs {
		h.IsData = false
		h.Color = mcColors[i%len(mcColors)]
	}
}

// Normalize scales every simulation histogram to the integral of the first
// data histogram. Without data nothing is changed.
func Normalize(data, mc []*Hist) {
	if len(data) == 0 {
		return
	}
	ScaleTo(data[0].Integral(), mc...)
}

// ScaleTo scales each histogram so that its integral is total. Empty
// histograms are left alone.
func ScaleTo(total float64, hs ...*Hist) {
	for _, h := range hs {
		if integral := h.Integral(); integral != 0 {
			h.Scale(total / integral)
		}
	}
}

// ScaleToUnity normalises h to unit area.
func ScaleToUnity(h *Hist) {
	ScaleTo(1, h)
}

// ScaleBy scales every histogram by factor.
func ScaleBy(factor float64, hs ...*Hist) {
	for _, h := range hs {
		h.Scale(factor)
	}
}

// Reverse returns hs in reverse order.
func Reverse(hs []*Hist) []*Hist {
	out := make([]*Hist, len(hs))
	for i, h := range hs {
		out[len(hs)-1-i] = h
	}
	return out
}

var latexReplacer = strings.NewReplacer(
	"#eta", "η",
	"#phi", "φ",
	"#sigma", "σ",
	"#mu", "μ",
	"#gamma", "γ",
	"#Delta", "Δ",
	"#pm", "±",
	"#rightarrow", "→",
	"_{", "_",
	"^{", "^",
	"{", "",
	"}", "",
)

// PlainLabel converts the TLatex subset used in axis labels to plain text,
// e.g. "#eta_{SC}" becomes "η_SC".
func PlainLabel(s string) string {
	return latexReplacer.Replace(s)
}
