package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.New(&strings.Builder{})
}

func TestNewErrors(t *testing.T) {
	_, err := New(Config{Root: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = New(Config{Root: file})
	assert.ErrorContains(t, err, "not a directory")

	_, err = New(Config{Root: t.TempDir(), Ignore: []string{"[unclosed"}})
	assert.ErrorContains(t, err, "invalid ignore pattern")
}

func TestIgnored(t *testing.T) {
	w, err := New(Config{Root: t.TempDir(), Ignore: []string{"dist/**"}, Logger: quietLogger()})
	require.NoError(t, err)
	defer w.fsw.Close()

	tests := []struct {
		rel  string
		want bool
	}{
		{"Promise/polyfill.js", false},
		{"Array/from/config.toml", false},
		{"__dist", true},
		{"__dist/aliases.json", true},
		{"Array/__tests/x.js", true},
		{".git/HEAD", true},
		{"Promise/polyfill.js.swp", true},
		{"dist/aliases.json", true},
		{"_ESAbstract/IsCallable/polyfill.js", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, w.ignored(tt.rel), tt.rel)
	}
}

func TestRunCallsOnChange(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "foo"), 0o755))

	changes := make(chan []string, 4)
	w, err := New(Config{
		Root:     root,
		Debounce: 50 * time.Millisecond,
		Logger:   quietLogger(),
		OnChange: func(_ context.Context, changed []string) error {
			changes <- changed
			return nil
		},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "__dist"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "__dist", "aliases.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "foo", "polyfill.js"), []byte("var a;"), 0o644))

	select {
	case changed := <-changes:
		assert.Contains(t, changed, "foo/polyfill.js")
		for _, c := range changed {
			assert.False(t, strings.HasPrefix(c, "__dist"), c)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("OnChange was not called")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunOnlyOnce(t *testing.T) {
	w, err := New(Config{Root: t.TempDir(), Logger: quietLogger()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	assert.Error(t, w.Run(ctx))
}
