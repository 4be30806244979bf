package ecalplot

import (
	"fmt"
	"strconv"
	"strings"
)

// Binning is a fixed-width histogram axis.
type Binning struct {
	N         int
	Low, High float64
}

// ParseBinning reads a binning of the form "(nbins,low,high)". The
// parentheses are optional.
func ParseBinning(s string) (Binning, error) {
	str := strings.TrimSpace(s)
	str = strings.TrimPrefix(str, "(")
	str = strings.TrimSuffix(str, ")")

	fields := strings.Split(str, ",")
	if len(fields) != 3 {
		return Binning{}, fmt.Errorf("invalid binning %q: want (nbins,low,high)", s)
	}

	n, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return Binning{}, fmt.Errorf("invalid number of bins in %q: %w", s, err)
	}
	if n <= 0 {
		return Binning{}, fmt.Errorf("invalid binning %q: number of bins must be positive", s)
	}

	low, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return Binning{}, fmt.Errorf("invalid lower edge in %q: %w", s, err)
	}
	high, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return Binning{}, fmt.Errorf("invalid upper edge in %q: %w", s, err)
	}
	if high <= low {
		return Binning{}, fmt.Errorf("invalid binning %q: upper edge must exceed lower edge", s)
	}

	return Binning{N: n, Low: low, High: high}, nil
}

func (b Binning) Width() float64 {
	return (b.High - b.Low) / float64(b.N)
}

func (b Binning) String() string {
	return fmt.Sprintf("(%d,%s,%s)", b.N, formatFloatTick(b.Low, -1), formatFloatTick(b.High, -1))
}
