package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/polybuild/pkg/feature"
)

func TestSummarize(t *testing.T) {
	g := Build([]*feature.Feature{
		feat("Array.from", "Symbol.iterator"),
		feat("Set", "Array.from", "Symbol.iterator"),
		feat("Symbol.iterator"),
		feat("fetch", "Promise"),
	})

	want := Summary{
		Roots:  []string{"Symbol.iterator", "fetch"},
		Leaves: []string{"Set", "fetch"},
		Features: []FeatureSummary{
			{Name: "Array.from", Dependencies: []string{"Symbol.iterator"}, Dependents: []string{"Set"}},
			{Name: "Set", Dependencies: []string{"Array.from", "Symbol.iterator"}},
			{Name: "Symbol.iterator", Dependents: []string{"Array.from", "Set"}},
			{Name: "fetch"},
		},
	}
	if diff := cmp.Diff(want, Summarize(g), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
	}
}
