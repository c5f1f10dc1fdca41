package graph_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/feature"
	"github.com/matzehuels/polybuild/pkg/graph"
)

func newFeature(name string, deps ...string) *feature.Feature {
	return &feature.Feature{Name: name, Config: feature.Config{Dependencies: deps}}
}

func ExampleValidate() {
	features := []*feature.Feature{
		newFeature("fetch", "Promise"),
		newFeature("Promise"),
	}

	order, err := graph.Validate(context.Background(), graph.Build(features), features)
	fmt.Println(order, err)
	// Output:
	// [Promise fetch] <nil>
}

func ExampleCheckDependencies() {
	features := []*feature.Feature{newFeature("fetch", "Promise")}

	err := graph.CheckDependencies(features)
	fmt.Println(errors.GetCode(err))
	fmt.Println(errors.UserMessage(err))
	// Output:
	// MISSING_DEPENDENCY
	// fetch depends on Promise, which does not exist
}
