package feature

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/polybuild/pkg/errors"
)

// Path locates a feature directory.
type Path struct {
	Abs string // absolute directory path
	Rel string // path relative to the source root, "/" separated

	name string
}

// NewPath builds the Path of dir below root and derives its feature name.
func NewPath(root, dir string) (Path, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Path{}, errors.Wrap(errors.ErrCodeIO, err, "resolve %s", dir)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Path{}, errors.Wrap(errors.ErrCodeIO, err, "resolve %s", root)
	}
	rel, err := filepath.Rel(absRoot, abs)
	if err != nil {
		return Path{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s is not below %s", dir, root)
	}
	rel = filepath.ToSlash(rel)
	if err := errors.ValidateRelativePath(rel); err != nil {
		return Path{}, err
	}

	name := strings.ReplaceAll(rel, "/", ".")
	if err := errors.ValidateFeatureName(name); err != nil {
		return Path{}, err
	}
	return Path{Abs: abs, Rel: rel, name: name}, nil
}

// Name returns the canonical feature name: Rel with separators replaced
// by dots.
func (p Path) Name() string { return p.name }

// IsInternal reports whether the feature belongs to the internal namespace.
func (p Path) IsInternal() bool { return strings.HasPrefix(p.name, InternalPrefix) }

func (p Path) file(name string) string { return filepath.Join(p.Abs, name) }
