package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/feature"
)

func feat(name string, deps ...string) *feature.Feature {
	if deps == nil {
		deps = []string{}
	}
	return &feature.Feature{
		Name: name,
		Config: feature.Config{
			Dependencies: deps,
			Aliases:      []string{},
			IsPublic:     !strings.HasPrefix(name, "_"),
		},
	}
}

func TestBuild(t *testing.T) {
	features := []*feature.Feature{
		feat("baz", "foo"),
		feat("foo"),
		feat("qux", "missing"),
	}

	g := Build(features)

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1 (dangling edge omitted)", g.EdgeCount())
	}
	if diff := cmp.Diff([]string{"baz"}, g.Children("foo")); diff != "" {
		t.Errorf("Children(foo) mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		features []*feature.Feature
		want     []string
		wantCode errors.Code
		wantMsg  []string
	}{
		{
			name:     "dependency before dependent",
			features: []*feature.Feature{feat("baz", "foo"), feat("foo")},
			want:     []string{"foo", "baz"},
		},
		{
			name:     "ties keep discovery order",
			features: []*feature.Feature{feat("a"), feat("c", "b"), feat("b")},
			want:     []string{"a", "b", "c"},
		},
		{
			name:     "two feature cycle",
			features: []*feature.Feature{feat("a", "b"), feat("b", "a")},
			wantCode: errors.ErrCodeDependencyCycle,
			wantMsg:  []string{"a, b", "config.toml"},
		},
		{
			name:     "self dependency",
			features: []*feature.Feature{feat("a", "a")},
			wantCode: errors.ErrCodeDependencyCycle,
		},
		{
			name:     "missing dependency",
			features: []*feature.Feature{feat("foo"), feat("baz", "foo", "nope")},
			wantCode: errors.ErrCodeMissingDependency,
			wantMsg:  []string{"baz", "nope"},
		},
		{
			name:     "cycle reported before missing dependency",
			features: []*feature.Feature{feat("a", "b", "nope"), feat("b", "a")},
			wantCode: errors.ErrCodeDependencyCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.features)
			got, err := Validate(context.Background(), g, tt.features)

			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("Validate() error = %v, want code %s", err, tt.wantCode)
				}
				for _, msg := range tt.wantMsg {
					if !strings.Contains(err.Error(), msg) {
						t.Errorf("error %q does not mention %q", err, msg)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Validate() order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckAcyclic(t *testing.T) {
	if err := CheckAcyclic(Build([]*feature.Feature{feat("a"), feat("b", "a")})); err != nil {
		t.Errorf("CheckAcyclic() = %v, want nil", err)
	}
}

func TestCheckDependenciesMessage(t *testing.T) {
	err := CheckDependencies([]*feature.Feature{feat("baz", "foo")})
	want := "baz depends on foo, which does not exist"
	if got := errors.UserMessage(err); got != want {
		t.Errorf("UserMessage() = %q, want %q", got, want)
	}
}

func TestToDOT(t *testing.T) {
	foo := feat("foo")
	foo.Config.Aliases = []string{"bar"}
	foo.Config.Size = 42
	g := Build([]*feature.Feature{foo, feat("_internal"), feat("baz", "foo")})

	dot := ToDOT(g, DOTOptions{})
	for _, want := range []string{
		"digraph polyfills {",
		`"foo" [label="foo"];`,
		`"foo" -> "baz";`,
		"dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}

	detailed := ToDOT(g, DOTOptions{Detailed: true})
	if !strings.Contains(detailed, `foo\naliases: bar\nsize: 42`) {
		t.Errorf("detailed ToDOT() missing label details:\n%s", detailed)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`
	if !strings.HasPrefix(out, want) {
		t.Errorf("normalizeViewBox() = %q, want prefix %q", out, want)
	}
}
