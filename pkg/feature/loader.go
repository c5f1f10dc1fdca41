package feature

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/polybuild/pkg/browsers"
	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/minify"
	"github.com/matzehuels/polybuild/pkg/observability"
	"github.com/matzehuels/polybuild/pkg/spdx"
)

// misspelledLicenseKey is rejected outright; silently ignoring it would ship
// a feature without license information.
const misspelledLicenseKey = "licence"

// gplCompatible lists non-OSI licenses accepted anyway.
var gplCompatible = map[string]bool{
	"CC0-1.0": true,
	"WTFPL":   true,
}

var sourceMapComment = regexp.MustCompile(`(?m)^[ \t]*//[#@] sourceMappingURL=[^\n]*(\n|$)`)

// Loader builds feature descriptors. The zero value uses the built-in
// browser baselines, the embedded SPDX table and an uncached minifier.
// A Loader is safe for concurrent use.
type Loader struct {
	Browsers browsers.Normalizer
	Licenses spdx.Registry
	Minifier *minify.Minifier
	Logger   *log.Logger
}

type stage struct {
	name string
	run  func(ctx context.Context, f *Feature) error
}

// Load builds the descriptor of the feature at p.
func (l *Loader) Load(ctx context.Context, p Path) (*Feature, error) {
	start := time.Now()
	f := &Feature{Path: p, Name: p.Name()}

	stages := []stage{
		{"load config", l.loadConfig},
		{"check license", l.checkLicense},
		{"load sources", l.loadSources},
		{"update config", updateConfig},
	}

	var err error
	for _, s := range stages {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = s.run(ctx, f); err != nil {
			l.logger().Debug("feature stage failed", "feature", f.Name, "stage", s.name, "err", err)
			break
		}
	}
	observability.Pipeline().OnFeatureLoaded(ctx, f.Name, f.Config.Size, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	l.logger().Debug("loaded feature", "feature", f.Name, "size", f.Config.Size, "minified", f.Config.ShouldMinify())
	return f, nil
}

func (l *Loader) loadConfig(ctx context.Context, f *Feature) error {
	data, err := os.ReadFile(f.Path.file(ConfigFile))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config: %s", f.Name)
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config: %s", f.Name)
	}
	if md.IsDefined(misspelledLicenseKey) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid config: %s: unknown field %q, did you mean \"license\"?", f.Name, misspelledLicenseKey)
	}
	if cfg.Dependencies == nil {
		cfg.Dependencies = []string{}
	}
	if cfg.Aliases == nil {
		cfg.Aliases = []string{}
	}

	if f.Path.IsInternal() {
		if err := checkInternalBrowsers(f.Name, cfg.Browsers, l.browsers()); err != nil {
			return err
		}
	}

	cfg.HasTests = exists(f.Path.file(TestsFile))
	cfg.IsTestable = cfg.Test.CI == nil || *cfg.Test.CI
	cfg.IsPublic = !f.Path.IsInternal()
	cfg.BaseDir = f.Path.Rel
	f.Config = cfg

	return l.loadDetect(ctx, f)
}

// checkInternalBrowsers requires "*" for every baseline browser.
func checkInternalBrowsers(name string, declared map[string]string, n browsers.Normalizer) error {
	ids := browsers.IDs(n)
	var missing bool
	for _, id := range ids {
		if declared[id] != "*" {
			missing = true
			break
		}
	}
	if !missing {
		return nil
	}

	var want strings.Builder
	want.WriteString("[browsers]\n")
	for _, id := range ids {
		fmt.Fprintf(&want, "%s = \"*\"\n", id)
	}
	return errors.New(errors.ErrCodeInvalidConfig,
		"invalid config: internal feature %s must support all browsers; expected the browsers table to be:\n\n%s",
		name, want.String())
}

func (l *Loader) loadDetect(ctx context.Context, f *Feature) error {
	data, err := os.ReadFile(f.Path.file(DetectFile))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid source: %s/%s", f.Name, DetectFile)
	}

	snippet := strings.TrimRightFunc(string(data), unicode.IsSpace)
	m := l.minifier()
	detect, err := m.Minify(ctx, snippet, minify.ModeDetect)
	if err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "parse error in %s/%s", f.Name, DetectFile)
	}
	if err := m.CheckDetect(detect); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "parse error in %s/%s", f.Name, DetectFile)
	}
	f.Config.DetectSource = detect
	return nil
}

func (l *Loader) checkLicense(_ context.Context, f *Feature) error {
	id := f.Config.License
	if id == "" {
		return nil
	}
	if err := errors.ValidateLicenseID(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLicense, err, "invalid license %q in %s", id, f.Name)
	}

	lic, ok := l.licenses().Lookup(id)
	if !ok {
		return errors.New(errors.ErrCodeInvalidLicense, "unknown license %q in %s: not on the SPDX license list", id, f.Name)
	}
	if !lic.OSIApproved && !gplCompatible[lic.ID] {
		return errors.New(errors.ErrCodeInvalidLicense,
			"license %q in %s is neither OSI approved nor an accepted GPL-compatible license", id, f.Name)
	}
	return nil
}

func (l *Loader) loadSources(ctx context.Context, f *Feature) error {
	data, err := os.ReadFile(f.Path.file(PolyfillFile))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidSource, err, "invalid source: %s", f.Name)
	}
	src := string(data)
	header := "// " + f.Name + "\n"

	if !f.Config.ShouldMinify() {
		raw := stripSourceMaps(header + src + "\n")
		f.Sources = Sources{Raw: raw, Min: raw}
		return nil
	}

	m := l.minifier()
	if err := m.Check(src); err != nil {
		return errors.Wrap(errors.ErrCodeParse, err, "parse error in %s/%s", f.Name, PolyfillFile)
	}
	minified, err := m.Minify(ctx, src, minify.ModePolyfill)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMinify, err, "error minifying %s", f.Name)
	}

	f.Sources = Sources{
		Raw: stripSourceMaps(header + src + "\n"),
		Min: stripSourceMaps(header + strings.TrimRight(minified, "\n") + "\n"),
	}
	return nil
}

func updateConfig(_ context.Context, f *Feature) error {
	f.Config.Size = len(f.Sources.Min)
	return nil
}

func stripSourceMaps(s string) string {
	return sourceMapComment.ReplaceAllString(s, "")
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (l *Loader) browsers() browsers.Normalizer {
	if l.Browsers == nil {
		return browsers.Default
	}
	return l.Browsers
}

func (l *Loader) licenses() spdx.Registry {
	if l.Licenses == nil {
		return spdx.Default()
	}
	return l.Licenses
}

func (l *Loader) minifier() *minify.Minifier {
	if l.Minifier == nil {
		return minify.New(nil, nil)
	}
	return l.Minifier
}

func (l *Loader) logger() *log.Logger {
	if l.Logger == nil {
		return log.Default()
	}
	return l.Logger
}
