// Package feature discovers polyfill feature directories and builds their
// descriptors.
//
// # Source Layout
//
// A polyfill library is a tree of directories. Every directory holding a
// config.toml is a feature:
//
//	polyfills/
//	├── Array/
//	│   └── from/
//	│       ├── config.toml   required
//	│       ├── polyfill.js   required
//	│       ├── detect.js     optional detection expression
//	│       └── tests.js      optional, only its existence is recorded
//	└── __dist/               reserved, never walked
//
// The directory Array/from yields the feature name "Array.from". Names that
// begin with "_" denote internal features, which are not public and must
// declare "*" support for every baseline browser.
//
// # Loading
//
// [Discover] and [FilterConfigured] produce the candidate [Path] list.
// [Loader.Load] then runs four stages per feature, each depending on the
// previous one: load config, check license, load sources and update the
// derived size. Any failure aborts the load with a structured error from
// package errors.
package feature
