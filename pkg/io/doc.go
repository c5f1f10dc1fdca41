// Package io reads and writes the compiled output tree of a polyfill library.
//
// # Layout
//
//	dist/
//	├── aliases.json          alias → feature names
//	├── Array.from/
//	│   ├── meta.json         serialized feature config
//	│   ├── raw.js            annotated, unminified source
//	│   └── min.js            minified source
//	└── Promise/
//	    └── ...
//
// Feature directories are named by the dotted feature name, so the tree is
// flat regardless of how the source tree is nested.
//
// # Export
//
// [WriteAliases] writes the alias index once per run. [WriteFeature] creates
// a feature's directory and writes its three files concurrently. Every
// failure is an IO_ERROR. [LockDestination] serializes builds writing the
// same tree through a ".dist.lock" file beside it.
//
// # Import
//
// [ReadAliases], [ListFeatures], [ReadMeta], [ReadSource] and [ReadFeature]
// read a tree back. They back the aliases, browse and graph commands and are
// the reference for anything consuming the output.
package io
