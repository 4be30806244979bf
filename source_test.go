package ecalplot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// memSource is an in-memory Source for tests.
type memSource struct {
	name     string
	branches []Branch
	entries  []map[string][]float64
}

func (s *memSource) Name() string       { return s.name }
func (s *memSource) Branches() []Branch { return s.branches }
func (s *memSource) Close() error       { return nil }

func (s *memSource) Scan(names []string, fn func(Event) error) error {
	for _, entry := range s.entries {
		ev := &mapEvent{values: make(map[string][]float64, len(names))}
		for _, name := range names {
			if v, ok := entry[name]; ok {
				ev.values[name] = v
			}
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}

func event(values map[string][]float64) Event {
	return &mapEvent{values: values}
}

const flatTree = "testdata/small-flat-tree.root"

func TestOpenROOT(t *testing.T) {
	src, err := OpenROOT(flatTree, "tree")
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, flatTree, src.Name())
	branches := src.Branches()
	for _, want := range []Branch{
		{Name: "Int32"},
		{Name: "Float64"},
		{Name: "N"},
		{Name: "ArrayInt32", Len: 10},
		{Name: "SliceInt32", Len: -1},
	} {
		b, ok := FindBranch(branches, want.Name)
		require.True(t, ok, want.Name)
		require.Equal(t, want, b)
	}

	_, err = OpenROOT(flatTree, "selected")
	require.Error(t, err)
	_, err = OpenROOT("testdata/missing.root", "tree")
	require.Error(t, err)
}

func TestROOTScan(t *testing.T) {
	src, err := OpenROOT(flatTree, "tree")
	require.NoError(t, err)
	defer src.Close()

	var entries, sliceLen int
	err = src.Scan([]string{"Float64", "ArrayInt32", "SliceInt32"}, func(ev Event) error {
		i := float64(entries)

		f64, ok := ev.Float64s("Float64")
		require.True(t, ok)
		require.Equal(t, []float64{i}, f64)

		arr, _ := ev.Float64s("ArrayInt32")
		require.Len(t, arr, 10)
		require.Equal(t, i, arr[9])

		// Entry i holds i%10 copies of i.
		sli, _ := ev.Float64s("SliceInt32")
		require.Len(t, sli, entries%10)
		for _, v := range sli {
			require.Equal(t, i, v)
		}
		sliceLen += len(sli)
		entries++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 100, entries)
	require.Equal(t, 450, sliceLen)

	require.Error(t, src.Scan([]string{"noSuchBranch"}, func(Event) error { return nil }))
	require.Error(t, src.Scan(nil, func(Event) error { return nil }))
}

func TestFillHistFile(t *testing.T) {
	h, err := FillHistFile(flatTree, "tree", HistRequest{
		Branch:  "SliceInt32",
		Binning: Binning{N: 10, Low: 0, High: 100},
		Label:   "Data",
	})
	require.NoError(t, err)
	require.EqualValues(t, 450, h.Entries())

	h, err = FillHistFile(flatTree, "tree", HistRequest{
		Branch:  "ArrayInt32[0]",
		Binning: Binning{N: 10, Low: 0, High: 100},
		Label:   "Data",
	})
	require.NoError(t, err)
	require.EqualValues(t, 100, h.Entries())
	require.InDelta(t, 10, h.Binning.Bins[3].SumW(), 1e-12)

	_, err = FillHistFile(flatTree, "selected", HistRequest{Branch: "Int32", Binning: Binning{N: 1, Low: 0, High: 1}})
	require.Error(t, err)
}
