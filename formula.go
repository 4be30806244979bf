package ecalplot

import (
	"fmt"
	"math"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Formula is a compiled branch expression such as
// "energy_ECAL_ele[0]/cosh(etaSCEle[0])".
//
// Array branches referenced without an index are iterated element by
// element: the formula yields one value per element, up to the length of the
// shortest such array.
type Formula struct {
	src      string
	expr     hcl.Expression
	branches []string
	scalars  []string
	arrays   []string
	iterated []string
	funcs    map[string]function.Function
}

// CompileFormula parses src and checks every referenced name against
// branches.
func CompileFormula(src string, branches []Branch) (*Formula, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "formula", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("could not parse formula %q: %s", src, diags.Error())
	}

	f := &Formula{src: src, expr: expr, funcs: formulaFunctions()}

	indexed := make(map[string]bool)
	plain := make(map[string]bool)
	for _, traversal := range expr.Variables() {
		name := traversal.RootName()
		b, ok := FindBranch(branches, name)
		if !ok {
			return nil, fmt.Errorf("unknown branch %q in formula %q", name, src)
		}

		if !b.IsArray() {
			plain[name] = true
			continue
		}
		if len(traversal) > 1 {
			if _, ok := traversal[1].(hcl.TraverseIndex); ok {
				indexed[name] = true
				continue
			}
		}
		plain[name] = true
	}

	for name := range plain {
		b, _ := FindBranch(branches, name)
		switch {
		case !b.IsArray():
			f.scalars = append(f.scalars, name)
		case indexed[name]:
			return nil, fmt.Errorf("branch %q used both with and without an index in formula %q", name, src)
		default:
			f.iterated = append(f.iterated, name)
		}
	}
	for name := range indexed {
		f.arrays = append(f.arrays, name)
	}

	sort.Strings(f.scalars)
	sort.Strings(f.arrays)
	sort.Strings(f.iterated)
	f.branches = append(f.branches, f.scalars...)
	f.branches = append(f.branches, f.arrays...)
	f.branches = append(f.branches, f.iterated...)
	sort.Strings(f.branches)

	return f, nil
}

func (f *Formula) String() string {
	return f.src
}

// Branches returns the sorted names of the branches the formula reads.
func (f *Formula) Branches() []string {
	return f.branches
}

// Iterated reports whether the formula yields one value per array element.
func (f *Formula) Iterated() bool {
	return len(f.iterated) > 0
}

// Eval evaluates the formula for the current entry of ev. Boolean results
// are returned as 1 or 0.
func (f *Formula) Eval(ev Event) ([]float64, error) {
	vars := make(map[string]cty.Value, len(f.branches))
	for _, name := range f.scalars {
		vals, ok := ev.Float64s(name)
		if !ok || len(vals) == 0 {
			return nil, fmt.Errorf("branch %q not loaded", name)
		}
		vars[name] = numberVal(vals[0])
	}
	for _, name := range f.arrays {
		vals, ok := ev.Float64s(name)
		if !ok {
			return nil, fmt.Errorf("branch %q not loaded", name)
		}
		vars[name] = listVal(vals)
	}

	ctx := &hcl.EvalContext{Variables: vars, Functions: f.funcs}
	if !f.Iterated() {
		v, err := f.eval(ctx)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}

	n := math.MaxInt
	elems := make(map[string][]float64, len(f.iterated))
	for _, name := range f.iterated {
		vals, ok := ev.Float64s(name)
		if !ok {
			return nil, fmt.Errorf("branch %q not loaded", name)
		}
		elems[name] = vals
		if len(vals) < n {
			n = len(vals)
		}
	}

	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		for _, name := range f.iterated {
			vars[name] = numberVal(elems[name][i])
		}
		v, err := f.eval(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (f *Formula) eval(ctx *hcl.EvalContext) (float64, error) {
	v, diags := f.expr.Value(ctx)
	if diags.HasErrors() {
		return 0, fmt.Errorf("could not evaluate %q: %s", f.src, diags.Error())
	}
	if v.IsNull() {
		return 0, fmt.Errorf("formula %q evaluated to null", f.src)
	}
	if !v.IsKnown() {
		return 0, fmt.Errorf("formula %q: %w", f.src, errNaN)
	}

	switch v.Type() {
	case cty.Number:
		x, _ := v.AsBigFloat().Float64()
		return x, nil
	case cty.Bool:
		if v.True() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("formula %q evaluated to %s, want a number", f.src, v.Type().FriendlyName())
}

// numberVal maps NaN to an unknown number, so that any formula reading it
// fails to evaluate.
func numberVal(x float64) cty.Value {
	if math.IsNaN(x) {
		return cty.UnknownVal(cty.Number)
	}
	return cty.NumberFloatVal(x)
}

func listVal(xs []float64) cty.Value {
	if len(xs) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	vals := make([]cty.Value, len(xs))
	for i, x := range xs {
		vals[i] = numberVal(x)
	}
	return cty.ListVal(vals)
}
