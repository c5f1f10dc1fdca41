package io

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/matzehuels/polybuild/pkg/alias"
	"github.com/matzehuels/polybuild/pkg/errors"
	"github.com/matzehuels/polybuild/pkg/feature"
)

// ReadAliases reads dir/aliases.json.
func ReadAliases(dir string) (alias.Index, error) {
	var idx alias.Index
	if err := readJSON(filepath.Join(dir, AliasesFile), &idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// ListFeatures returns the names of the features in dir, sorted. A
// directory counts as a feature when it holds a meta.json.
func ListFeatures(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read output tree %s", dir)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), MetaFile)); err == nil {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// ReadMeta reads the meta.json of feature name.
func ReadMeta(dir, name string) (feature.Config, error) {
	var cfg feature.Config
	if err := errors.ValidateFeatureName(name); err != nil {
		return cfg, err
	}
	err := readJSON(filepath.Join(dir, name, MetaFile), &cfg)
	return cfg, err
}

// ReadSource reads the raw.js or, if minified is set, the min.js of
// feature name.
func ReadSource(dir, name string, minified bool) (string, error) {
	if err := errors.ValidateFeatureName(name); err != nil {
		return "", err
	}
	file := RawFile
	if minified {
		file = MinFile
	}
	path := filepath.Join(dir, name, file)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	return string(data), nil
}

// ReadFeature reads everything written for feature name. The returned
// feature has no source Path.
func ReadFeature(dir, name string) (*feature.Feature, error) {
	cfg, err := ReadMeta(dir, name)
	if err != nil {
		return nil, err
	}
	raw, err := ReadSource(dir, name, false)
	if err != nil {
		return nil, err
	}
	minified, err := ReadSource(dir, name, true)
	if err != nil {
		return nil, err
	}
	return &feature.Feature{
		Name:    name,
		Config:  cfg,
		Sources: feature.Sources{Raw: raw, Min: minified},
	}, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "decode %s", path)
	}
	return nil
}
