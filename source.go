package ecalplot

import (
	"fmt"
	"io"
	"reflect"

	"go-hep.org/x/hep/rootio"
)

// DefaultTreeName is the tree holding the selected events in every ntuple.
const DefaultTreeName = "selected"

// Branch describes one column of an event tree. Len is 0 for scalars and the
// array length otherwise; variable length arrays report -1.
type Branch struct {
	Name string
	Len  int
}

func (b Branch) IsArray() bool {
	return b.Len != 0
}

// Event gives access to the values of the branches loaded for the current
// entry. Scalars are returned as a one element slice.
type Event interface {
	Float64s(name string) ([]float64, bool)
}

// Source is a readable event tree.
type Source interface {
	Name() string
	Branches() []Branch
	// Scan calls fn for every entry, loading only the named branches.
	Scan(names []string, fn func(Event) error) error
	Close() error
}

// FindBranch looks up a branch by name.
func FindBranch(branches []Branch, name string) (Branch, bool) {
	for _, b := range branches {
		if b.Name == name {
			return b, true
		}
	}
	return Branch{}, false
}

type rootSource struct {
	path string
	file *rootio.File
	tree rootio.Tree
}

// OpenROOT opens treeName inside the ROOT file at path.
func OpenROOT(path, treeName string) (Source, error) {
	f, err := rootio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}

	obj, err := f.Get(treeName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("could not find tree %q in %s: %w", treeName, path, err)
	}
	tree, ok := obj.(rootio.Tree)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("object %q in %s is not a tree", treeName, path)
	}

	return &rootSource{path: path, file: f, tree: tree}, nil
}

func (s *rootSource) Name() string {
	return s.path
}

func (s *rootSource) Branches() []Branch {
	var branches []Branch
	for _, leaf := range s.tree.Leaves() {
		b := Branch{Name: leaf.Name()}
		switch {
		case leaf.LeafCount() != nil:
			b.Len = -1
		case leaf.Len() > 1:
			b.Len = leaf.Len()
		}
		branches = append(branches, b)
	}
	return branches
}

func (s *rootSource) leaf(name string) (rootio.Leaf, error) {
	for _, leaf := range s.tree.Leaves() {
		if leaf.Name() == name {
			return leaf, nil
		}
	}
	return nil, fmt.Errorf("no branch %q in %s", name, s.path)
}

func (s *rootSource) Scan(names []string, fn func(Event) error) error {
	if len(names) == 0 {
		return fmt.Errorf("no branches requested from %s", s.path)
	}

	vars := make([]rootio.ScanVar, len(names))
	values := make([]reflect.Value, len(names))
	for i, name := range names {
		leaf, err := s.leaf(name)
		if err != nil {
			return err
		}

		typ := leaf.Type()
		switch {
		case leaf.LeafCount() != nil:
			typ = reflect.SliceOf(typ)
		case leaf.Len() > 1:
			typ = reflect.ArrayOf(leaf.Len(), typ)
		}
		values[i] = reflect.New(typ)
		vars[i] = rootio.ScanVar{Name: name, Value: values[i].Interface()}
	}

	sc, err := rootio.NewScannerVars(s.tree, vars...)
	if err != nil {
		return fmt.Errorf("could not create scanner for %s: %w", s.path, err)
	}
	defer sc.Close()

	ev := &mapEvent{values: make(map[string][]float64, len(names))}
	for sc.Next() {
		if err := sc.Scan(); err != nil {
			return fmt.Errorf("could not read entry %d of %s: %w", sc.Entry(), s.path, err)
		}
		for i, name := range names {
			ev.values[name] = appendFloats(ev.values[name][:0], values[i].Elem())
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (s *rootSource) Close() error {
	return s.file.Close()
}

type mapEvent struct {
	values map[string][]float64
}

func (e *mapEvent) Float64s(name string) ([]float64, bool) {
	v, ok := e.values[name]
	return v, ok
}

// appendFloats flattens a numeric scalar, array or slice into dst.
func appendFloats(dst []float64, v reflect.Value) []float64 {
	switch v.Kind() {
	case reflect.Array, reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			dst = appendFloats(dst, v.Index(i))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst = append(dst, float64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dst = append(dst, float64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		dst = append(dst, v.Float())
	case reflect.Bool:
		if v.Bool() {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	return dst
}
