// Package pkg provides the libraries behind polybuild, the polyfill library
// compiler.
//
// # Overview
//
// A polyfill library is a source tree with one directory per feature. polybuild
// validates every feature and compiles the tree into the output served to
// browsers. The pkg directory is organized by pipeline stage:
//
//  1. [feature] - discovery and descriptor loading (config, license, sources)
//  2. [minify] - JavaScript validation and minification
//  3. [dag], [graph] - dependency graph structure and validation
//  4. [alias] - the alias index
//  5. [io] - reading and writing the output tree
//  6. [pipeline] - orchestration (discover → load → validate → write)
//
// Supporting packages: [cache] (minification cache backends), [browsers]
// (baseline browser table), [spdx] (license registry), [errors] (structured
// error codes), [observability] (hooks), [watch] (rebuild on change) and
// [buildinfo].
//
// # Architecture
//
// The data flow through a build:
//
//	source tree
//	     ↓
//	[feature] Discover + FilterConfigured
//	     ↓
//	[feature] Loader.Load (parallel, uses [minify] + [cache])
//	     ↓
//	[graph] Build + Validate (acyclic, dependencies exist)
//	     ↓
//	[alias] Build
//	     ↓
//	[io] WriteAliases + WriteFeature (parallel)
//	     ↓
//	output tree
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:      "polyfills",
//	    Destination: "polyfills/__dist",
//	})
//	if err != nil {
//	    fmt.Println(errors.JSON(err))
//	    os.Exit(1)
//	}
//	fmt.Println(result.Order)
//
// [feature]: github.com/matzehuels/polybuild/pkg/feature
// [minify]: github.com/matzehuels/polybuild/pkg/minify
// [dag]: github.com/matzehuels/polybuild/pkg/dag
// [graph]: github.com/matzehuels/polybuild/pkg/graph
// [alias]: github.com/matzehuels/polybuild/pkg/alias
// [io]: github.com/matzehuels/polybuild/pkg/io
// [pipeline]: github.com/matzehuels/polybuild/pkg/pipeline
// [cache]: github.com/matzehuels/polybuild/pkg/cache
// [browsers]: github.com/matzehuels/polybuild/pkg/browsers
// [spdx]: github.com/matzehuels/polybuild/pkg/spdx
// [errors]: github.com/matzehuels/polybuild/pkg/errors
// [observability]: github.com/matzehuels/polybuild/pkg/observability
// [watch]: github.com/matzehuels/polybuild/pkg/watch
// [buildinfo]: github.com/matzehuels/polybuild/pkg/buildinfo
package pkg
