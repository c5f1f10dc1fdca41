package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/observability"
	"github.com/matzehuels/polybuild/pkg/pipeline"
)

// sourceTree writes the foo/baz example library and returns its root.
func sourceTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"foo/config.toml": "aliases = [\"bar\"]\n",
		"foo/polyfill.js": "var foo = 1;",
		"baz/config.toml": "dependencies = [\"foo\"]\n",
		"baz/polyfill.js": "var baz = foo + 1;",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// execute runs the CLI with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&logs)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"aliases", "browse", "build", "cache", "completion", "graph"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestBuildCommand(t *testing.T) {
	src := sourceTree(t)
	dest := filepath.Join(t.TempDir(), "dist")

	out, err := execute(t, "build", "--source", src, "--dest", dest, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, out, "Built 2 features")

	data, err := os.ReadFile(filepath.Join(dest, "aliases.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"all": ["foo", "baz"], "bar": ["foo"]}`, string(data))
}

func TestBuildCommandFromEnv(t *testing.T) {
	src := sourceTree(t)
	dest := filepath.Join(t.TempDir(), "dist")
	t.Setenv("POLYBUILD_SOURCE", src)
	t.Setenv("POLYBUILD_DEST", dest)
	t.Setenv("POLYBUILD_NO_CACHE", "true")

	_, err := execute(t, "build")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "foo", "min.js"))
}

func TestBuildCommandFromConfigFile(t *testing.T) {
	src := sourceTree(t)
	dest := filepath.Join(t.TempDir(), "dist")
	cfg := filepath.Join(t.TempDir(), "polybuild.toml")
	content := "source = " + quote(src) + "\ndest = " + quote(dest) + "\nno-cache = true\njobs = 1\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o644))

	_, err := execute(t, "build", "--config", cfg)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "baz", "meta.json"))
}

func TestBuildCommandErrors(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		_, err := execute(t, "build", "--dest", t.TempDir(), "--no-cache")
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := execute(t, "build", "--config", filepath.Join(t.TempDir(), "nope.toml"))
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
	})

	t.Run("missing dependency", func(t *testing.T) {
		src := sourceTree(t)
		require.NoError(t, os.RemoveAll(filepath.Join(src, "foo")))

		_, err := execute(t, "build", "--source", src, "--dest", t.TempDir(), "--no-cache")
		assert.True(t, errors.Is(err, errors.ErrCodeMissingDependency), "got %v", err)
	})
}

func TestAliasesCommand(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dist")
	_, err := execute(t, "build", "--source", sourceTree(t), "--dest", dest, "--no-cache")
	require.NoError(t, err)

	out, err := execute(t, "aliases", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "all")
	assert.Contains(t, out, "bar")
	assert.Contains(t, out, "foo, baz")

	out, err = execute(t, "aliases", dest, "bar")
	require.NoError(t, err)
	assert.Contains(t, out, "foo")
	assert.NotContains(t, out, "baz")

	_, err = execute(t, "aliases", dest, "nope")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestGraphCommand(t *testing.T) {
	out, err := execute(t, "graph", "--source", sourceTree(t))
	require.NoError(t, err)
	assert.Contains(t, out, "digraph polyfills {")
	assert.Contains(t, out, `"foo" -> "baz";`)
}

func TestGraphCommandSummary(t *testing.T) {
	out, err := execute(t, "graph", "--source", sourceTree(t), "--format", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Depends on")
	assert.Contains(t, out, "roots:  foo\n")
	assert.Contains(t, out, "leaves: baz\n")
}

func TestLoadFeatureItems(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "dist")
	_, err := execute(t, "build", "--source", sourceTree(t), "--dest", dest, "--no-cache")
	require.NoError(t, err)

	items, err := loadFeatureItems(dest)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "baz", items[0].Name)
	assert.Equal(t, []string{"foo"}, items[0].Config.Dependencies)
	assert.Equal(t, "// baz\nvar baz = foo + 1;\n", items[0].Sources.Raw)
	assert.Equal(t, len(items[0].Sources.Min), items[0].Config.Size)

	_, err = loadFeatureItems(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, errors.ErrCodeIO), "got %v", err)
}

func TestGraphCommandInvalidFormat(t *testing.T) {
	_, err := execute(t, "graph", "--source", sourceTree(t), "--format", "png")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestCachePathCommand(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, appName), strings.TrimSpace(out))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a, b", preview([]string{"a", "b"}, 4))
	assert.Equal(t, "a, b, +3 more", preview([]string{"a", "b", "c", "d", "e"}, 2))
}

func quote(s string) string {
	return "'" + s + "'"
}

func TestBuildCommandWatch(t *testing.T) {
	t.Cleanup(observability.Reset)
	src := sourceTree(t)
	dest := filepath.Join(src, "__dist")

	var logs, out bytes.Buffer
	c := New(&logs, LogInfo)
	c.SetOutput(&out)
	root := c.RootCommand()
	root.SetArgs([]string{"build", "--source", src, "--dest", dest, "--no-cache", "--watch"})
	root.SetOut(&out)
	root.SetErr(&logs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	aliases := filepath.Join(dest, "aliases.json")
	readAliases := func() string {
		data, _ := os.ReadFile(aliases)
		return string(data)
	}
	require.Eventually(t, func() bool { return strings.Contains(readAliases(), `"bar"`) },
		10*time.Second, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(src, "foo", "config.toml"), []byte("aliases = [\"qux\"]\n"), 0o644))
	require.Eventually(t, func() bool { return strings.Contains(readAliases(), `"qux"`) },
		10*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchIgnores(t *testing.T) {
	src := t.TempDir()

	got := watchIgnores(optsFor(src, filepath.Join(src, "out", "dist")), []string{"*.md"})
	assert.Equal(t, []string{"*.md", "out/dist", "out/dist/**"}, got)

	got = watchIgnores(optsFor(src, filepath.Join(t.TempDir(), "dist")), nil)
	assert.Empty(t, got)
}

func optsFor(src, dest string) pipeline.Options {
	return pipeline.Options{Source: src, Destination: dest}
}

func TestBuildCommandMetricsFile(t *testing.T) {
	src := sourceTree(t)
	dest := filepath.Join(t.TempDir(), "dist")
	metrics := filepath.Join(t.TempDir(), "polybuild.prom")

	_, err := execute(t, "build", "--source", src, "--dest", dest, "--no-cache", "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "polybuild_features_discovered 2")
	assert.Contains(t, string(data), "polybuild_graph_edges 1")
}
