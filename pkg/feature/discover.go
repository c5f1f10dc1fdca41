package feature

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/polybuild/pkg/errors"
)

// File names inside a feature directory.
const (
	ConfigFile   = "config.toml"
	PolyfillFile = "polyfill.js"
	DetectFile   = "detect.js"
	TestsFile    = "tests.js"
)

const (
	// ReservedPrefix marks organizational directories that are skipped
	// together with everything below them.
	ReservedPrefix = "__"

	// InternalPrefix marks internal feature names.
	InternalPrefix = "_"
)

// Discover returns every directory below root, excluding directories whose
// name starts with ReservedPrefix and their descendants.
//
// Paths are returned in lexical order with parents before children.
// Symlinked directories are not followed.
func Discover(root string) ([]Path, error) {
	if _, err := os.ReadDir(root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read source root %s", root)
	}

	var (
		paths []Path
		stack = []string{root}
	)
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if dir != root {
			p, err := NewPath(root, dir)
			if err != nil {
				return nil, err
			}
			paths = append(paths, p)
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "read directory %s", dir)
		}

		var children []string
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ReservedPrefix) {
				continue
			}
			children = append(children, filepath.Join(dir, e.Name()))
		}
		// os.ReadDir sorts by name; push in reverse so the first child pops first.
		slices.Reverse(children)
		stack = append(stack, children...)
	}
	return paths, nil
}

// FilterConfigured keeps the paths that contain a config file.
// Directories without one are organizational and dropped silently.
func FilterConfigured(paths []Path) []Path {
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		if info, err := os.Stat(p.file(ConfigFile)); err == nil && info.Mode().IsRegular() {
			out = append(out, p)
		}
	}
	return out
}
