// Package spdx looks up license identifiers on the SPDX license list.
package spdx

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// License is one entry of the SPDX license list.
type License struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	OSIApproved bool   `toml:"osi"`
	Deprecated  bool   `toml:"deprecated"`
}

// Registry resolves SPDX license identifiers.
type Registry interface {
	// Lookup returns the license registered under id.
	Lookup(id string) (License, bool)
}

// Table is an in-memory Registry. Lookups are case-insensitive, like the
// SPDX list itself.
type Table struct {
	byID map[string]License
}

// NewTable builds a Table from a list of licenses.
func NewTable(licenses []License) *Table {
	t := &Table{byID: make(map[string]License, len(licenses))}
	for _, l := range licenses {
		t.byID[strings.ToLower(l.ID)] = l
	}
	return t
}

// Lookup implements Registry.
func (t *Table) Lookup(id string) (License, bool) {
	l, ok := t.byID[strings.ToLower(id)]
	return l, ok
}

// Len returns the number of registered licenses.
func (t *Table) Len() int { return len(t.byID) }

//go:embed licenses.toml
var embedded string

// Parse decodes a license table in the embedded TOML format.
func Parse(data string) (*Table, error) {
	var doc struct {
		License []License `toml:"license"`
	}
	if _, err := toml.Decode(data, &doc); err != nil {
		return nil, fmt.Errorf("decode license table: %w", err)
	}
	return NewTable(doc.License), nil
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Parse(embedded)
	if err != nil {
		panic(err)
	}
	return t
})

// Default returns the registry backed by the embedded license list.
func Default() Registry { return defaultTable() }
