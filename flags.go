package ecalplot

import (
	"fmt"
	"strconv"
	"strings"
)

// FloatArrayFlags collects repeated float flags. The first Set replaces any
// default values.
type FloatArrayFlags struct {
	Array   []float64
	beenSet bool
}

func (f *FloatArrayFlags) Set(valueStr string) error {
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return err
	}

	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	f.Array = append(f.Array, value)
	return nil
}

func (f *FloatArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}

// StringArrayFlags collects repeated string flags, as in
// `-s a.root,MC -s b.root,MC2`.
type StringArrayFlags struct {
	Array []string
}

func (f *StringArrayFlags) Set(valueStr string) error {
	f.Array = append(f.Array, valueStr)
	return nil
}

func (f *StringArrayFlags) String() string {
	return strings.Join(f.Array, " ")
}
