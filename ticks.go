package ecalplot

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks places major ticks on round values with labels that are not
// truncated, plus unlabelled minor ticks between them.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	n := t.NSuggestedTicks
	if n < 2 {
		n = 4
	}
	if max <= min {
		return nil
	}

	tens := math.Pow10(int(math.Floor(math.Log10(max - min))))
	steps := (max - min) / tens
	for steps < float64(n-1) {
		tens /= 10
		steps = (max - min) / tens
	}

	majorMult := int(steps / float64(n-1))
	switch majorMult {
	case 0:
		majorMult = 1
	case 7:
		majorMult = 6
	case 9:
		majorMult = 8
	}
	majorDelta := float64(majorMult) * tens

	var ticks []plot.Tick
	val := math.Floor(min/majorDelta) * majorDelta
	for ; val <= max; val += majorDelta {
		if val < min {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: val})
	}
	prec := int(math.Ceil(math.Log10(math.Max(math.Abs(val), majorDelta))) - math.Floor(math.Log10(majorDelta)))
	for i := range ticks {
		v := round(ticks[i].Value, prec)
		ticks[i] = plot.Tick{Value: v, Label: formatFloatTick(v, -1)}
	}

	minorDelta := majorDelta / 2
	switch majorMult {
	case 3, 6:
		minorDelta = majorDelta / 3
	case 5:
		minorDelta = majorDelta / 5
	}
	major := len(ticks)
	for val = math.Floor(min/minorDelta) * minorDelta; val <= max; val += minorDelta {
		if val < min || hasTick(ticks[:major], val) {
			continue
		}
		ticks = append(ticks, plot.Tick{Value: val})
	}
	return ticks
}

func hasTick(ticks []plot.Tick, v float64) bool {
	for _, t := range ticks {
		if math.Abs(t.Value-v) < 1e-9*math.Max(1, math.Abs(v)) {
			return true
		}
	}
	return false
}

// LogTicks labels every power of ten and places minor ticks on the
// multiples in between.
type LogTicks struct{}

func (LogTicks) Ticks(min, max float64) []plot.Tick {
	if min <= 0 || max <= min {
		return nil
	}

	var ticks []plot.Tick
	for exp := math.Floor(math.Log10(min)); exp <= math.Ceil(math.Log10(max)); exp++ {
		decade := math.Pow10(int(exp))
		for mult := 1.; mult < 10; mult++ {
			v := mult * decade
			if v < min || v > max {
				continue
			}
			t := plot.Tick{Value: v}
			if mult == 1 {
				t.Label = formatFloatTick(v, -1)
			}
			ticks = append(ticks, t)
		}
	}
	return ticks
}

// LogScale maps an axis logarithmically. Non-positive bounds are replaced by
// a small positive value.
type LogScale struct{}

func (LogScale) Normalize(min, max, x float64) float64 {
	if min <= 0 {
		min = math.Min(1e-3, max*1e-3)
	}
	if x <= min {
		return 0
	}
	logMin := math.Log(min)
	return (math.Log(x) - logMin) / (math.Log(max) - logMin)
}

func round(x float64, prec int) float64 {
	if x == 0 {
		// Make sure zero is returned
		// without the negative bit set.
		return 0
	}
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	intermed := x * pow
	if math.IsInf(intermed, 0) {
		return x
	}
	if x < 0 {
		x = math.Ceil(intermed - 0.5)
	} else {
		x = math.Floor(intermed + 0.5)
	}
	if x == 0 {
		return 0
	}
	return x / pow
}

func formatFloatTick(v float64, prec int) string {
	return strconv.FormatFloat(v, 'g', prec, 64)
}
