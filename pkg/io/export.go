package io

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/polybuild/pkg/alias"
	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/feature"
	"github.com/matzehuels/polybuild/pkg/observability"
)

// File names of the output tree.
const (
	AliasesFile = "aliases.json"
	MetaFile    = "meta.json"
	RawFile     = "raw.js"
	MinFile     = "min.js"
)

// WriteJSON encodes v as indented JSON to w. HTML characters are not
// escaped, so detect snippets stay readable.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// EnsureDir creates dest and any missing parents.
func EnsureDir(dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create directory %s", dest)
	}
	return nil
}

// WriteAliases writes idx to dest/aliases.json.
func WriteAliases(dest string, idx alias.Index) error {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, idx); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode %s", AliasesFile)
	}
	return writeFile(filepath.Join(dest, AliasesFile), buf.Bytes())
}

// WriteFeature writes the meta.json, raw.js and min.js files of f below
// dest/<name>. The three files are written concurrently.
func WriteFeature(ctx context.Context, dest string, f *feature.Feature) error {
	start := time.Now()
	err := writeFeature(ctx, dest, f)
	observability.Pipeline().OnFeatureWritten(ctx, f.Name, time.Since(start), err)
	return err
}

func writeFeature(ctx context.Context, dest string, f *feature.Feature) error {
	if err := errors.ValidateFeatureName(f.Name); err != nil {
		return err
	}
	dir := filepath.Join(dest, f.Name)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	var meta bytes.Buffer
	if err := WriteJSON(&meta, f.Config); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode %s for %s", MetaFile, f.Name)
	}

	g, ctx := errgroup.WithContext(ctx)
	for name, data := range map[string][]byte{
		MetaFile: meta.Bytes(),
		RawFile:  []byte(f.Sources.Raw),
		MinFile:  []byte(f.Sources.Min),
	} {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeFile(filepath.Join(dir, name), data)
		})
	}
	return g.Wait()
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
