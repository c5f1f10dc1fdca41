// Package pipeline builds a polyfill library from its source tree.
//
// This package sequences the complete build so the CLI and tests share one
// implementation:
//
//  1. Discover: walk the source tree for feature directories with a config
//  2. Load: build every feature descriptor in parallel
//  3. Validate: check the dependency graph for cycles and missing features
//  4. Write: create the destination, write aliases.json, then write every
//     feature's outputs in parallel
//
// The first error aborts the run. Nothing is written before the graph has
// been validated.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:      "polyfills",
//	    Destination: "polyfills/__dist",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Order)
package pipeline

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/polybuild/pkg/alias"
	"github.com/matzehuels/polybuild/pkg/browsers"
	"github.com/matzehuels/polybuild/pkg/dag"
	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/feature"
	"github.com/matzehuels/polybuild/pkg/spdx"
)

// Options configures a pipeline run. Paths are passed explicitly so several
// runs can share one process.
type Options struct {
	// Source is the root of the feature tree.
	Source string `flag:"source" validate:"required"`

	// Destination is the root of the output tree. Only needed for Execute.
	Destination string `flag:"dest" validate:"required"`

	// Jobs limits concurrent feature loads and writes. Zero means no limit.
	Jobs int `flag:"jobs" validate:"gte=0"`

	// Browsers supplies the baseline browser ids. Defaults to browsers.Default.
	Browsers browsers.Normalizer

	// Licenses is the SPDX registry. Defaults to the embedded table.
	Licenses spdx.Registry
}

var validate = newValidator()

// newValidator reports fields by their CLI flag name so messages match
// what the user typed.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return name
		}
		return fld.Name
	})
	return v
}

// ValidateForLoad checks the options needed to discover and load features
// and applies defaults.
func (o *Options) ValidateForLoad() error {
	if err := checkOptions(validate.StructExcept(o, "Destination")); err != nil {
		return err
	}
	o.setDefaults()
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := checkOptions(validate.Struct(o)); err != nil {
		return err
	}
	o.setDefaults()
	return nil
}

func (o *Options) setDefaults() {
	if o.Browsers == nil {
		o.Browsers = browsers.Default
	}
	if o.Licenses == nil {
		o.Licenses = spdx.Default()
	}
}

// checkOptions converts validator failures into one INVALID_INPUT error
// naming every offending option.
func checkOptions(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("--%s is required", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("--%s=%v fails %q", e.Field(), e.Value(), e.ActualTag()+"="+e.Param()))
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid options: %s", strings.Join(msgs, "; "))
}

// Result contains the outcome of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Features are the loaded features in build order.
	Features []*feature.Feature

	// Order is the build order: dependencies before dependents.
	Order []string

	// Graph is the validated dependency graph.
	Graph *dag.DAG

	// Aliases is the index written to aliases.json.
	Aliases alias.Index

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Directories  int // directories discovered
	FeatureCount int
	EdgeCount    int
	AliasCount   int
	DiscoverTime time.Duration
	LoadTime     time.Duration
	ValidateTime time.Duration
	WriteTime    time.Duration
}

// Total returns the summed stage durations.
func (s Stats) Total() time.Duration {
	return s.DiscoverTime + s.LoadTime + s.ValidateTime + s.WriteTime
}
