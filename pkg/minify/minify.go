// Package minify validates and minifies polyfill JavaScript.
//
// Sources are parsed and minified with esbuild. Polyfills are served to
// legacy engines, so output targets ES5 and function names are preserved
// for code that inspects Function.prototype.name. Results are cached by
// content hash; see package cache.
package minify

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/polybuild/pkg/buildinfo"
	"github.com/matzehuels/polybuild/pkg/cache"
	"github.com/matzehuels/polybuild/pkg/observability"
)

// Mode selects the minification flavor.
type Mode string

const (
	// ModePolyfill minifies a complete polyfill source. Statement
	// terminators are kept.
	ModePolyfill Mode = "polyfill"

	// ModeDetect minifies a single detection expression. The trailing
	// semicolon is stripped so the result can be embedded in an expression.
	ModeDetect Mode = "detect"
)

// optionsRevision is part of every cache key together with the linked
// esbuild version; bump it when the transform options below change.
const optionsRevision = "2"

// detectBinding wraps a detect expression so it survives syntax minification
// as a whole. It is removed again from the output.
const detectBinding = "__polybuild_detect__"

// SyntaxError reports JavaScript that failed to parse or transform.
type SyntaxError struct {
	Messages []string
}

func (e *SyntaxError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// keepNamesFeatures lets esbuild preserve function names under ES5; it
// rejects KeepNames there unless Function.prototype.name is declared
// configurable.
var keepNamesFeatures = map[string]bool{"function-name-configurable": true}

// Minifier minifies JavaScript with an optional result cache.
// It is safe for concurrent use.
type Minifier struct {
	cache   cache.Cache
	keyer   cache.Keyer
	target  api.Target
	version string
}

// New creates a Minifier. A nil cache disables caching and a nil keyer
// uses cache.DefaultKeyer.
func New(c cache.Cache, keyer cache.Keyer) *Minifier {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &Minifier{
		cache:   c,
		keyer:   keyer,
		target:  api.ES5,
		version: "esbuild-" + buildinfo.Minifier() + "+" + optionsRevision,
	}
}

// Check reports whether src parses as a JavaScript script.
// It returns a *SyntaxError describing every parse error otherwise.
func (m *Minifier) Check(src string) error {
	result := api.Transform(src, api.TransformOptions{
		Loader:   api.LoaderJS,
		LogLevel: api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return newSyntaxError(result.Errors)
	}
	return nil
}

// CheckDetect reports whether snippet is usable as the condition of an
// if statement.
func (m *Minifier) CheckDetect(snippet string) error {
	return m.Check("if (" + snippet + ") true;")
}

// Minify returns the minified form of src. Callers are expected to have
// validated src with Check; transform failures are still reported as
// *SyntaxError.
func (m *Minifier) Minify(ctx context.Context, src string, mode Mode) (string, error) {
	key := m.keyer.MinifyKey(cache.Hash([]byte(src)), cache.MinifyKeyOpts{
		Mode:     string(mode),
		Target:   "es5",
		Version:  m.version,
		KeepName: mode == ModePolyfill,
	})

	if data, hit, err := m.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, string(mode))
		return string(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, string(mode))

	var (
		out string
		err error
	)
	switch mode {
	case ModePolyfill:
		out, err = m.transform(src, true)
	case ModeDetect:
		out, err = m.minifyDetect(src)
	default:
		return "", fmt.Errorf("unknown minify mode %q", mode)
	}
	if err != nil {
		return "", err
	}

	if err := m.cache.Set(ctx, key, []byte(out), cache.TTLMinified); err == nil {
		observability.Cache().OnCacheSet(ctx, string(mode), len(out))
	}
	return out, nil
}

// minifyDetect accepts a single expression, optionally written as a
// terminated expression statement.
func (m *Minifier) minifyDetect(snippet string) (string, error) {
	snippet = strings.TrimSpace(snippet)
	snippet = strings.TrimRightFunc(strings.TrimSuffix(snippet, ";"), unicode.IsSpace)
	out, err := m.transform("var "+detectBinding+"=(\n"+snippet+"\n);", false)
	if err != nil {
		return "", err
	}
	prefix := "var " + detectBinding + "="
	out = strings.TrimSpace(out)
	if !strings.HasPrefix(out, prefix) {
		return "", fmt.Errorf("unexpected minifier output for detect snippet: %q", out)
	}
	return strings.TrimSuffix(strings.TrimPrefix(out, prefix), ";"), nil
}

func (m *Minifier) transform(src string, keepNames bool) (string, error) {
	result := api.Transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            m.target,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		KeepNames:         keepNames,
		Supported:         supported(keepNames),
		Charset:           api.CharsetASCII,
		LegalComments:     api.LegalCommentsNone,
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return "", newSyntaxError(result.Errors)
	}
	return string(result.Code), nil
}

func supported(keepNames bool) map[string]bool {
	if keepNames {
		return keepNamesFeatures
	}
	return nil
}

func newSyntaxError(msgs []api.Message) *SyntaxError {
	e := &SyntaxError{Messages: make([]string, 0, len(msgs))}
	for _, msg := range msgs {
		if loc := msg.Location; loc != nil {
			e.Messages = append(e.Messages, fmt.Sprintf("%s (line %d, column %d)", msg.Text, loc.Line, loc.Column+1))
			continue
		}
		e.Messages = append(e.Messages, msg.Text)
	}
	return e
}
