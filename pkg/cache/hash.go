package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mitchellh/hashstructure/v2"
)

// hashKey builds "<ns>:<ns>:...:<contentHash>:<optsHash>". Empty namespace
// segments are dropped. opts is hashed structurally, so adding a field to an
// options struct changes every key built from it.
func hashKey(namespace []string, contentHash string, opts any) string {
	var b strings.Builder
	for _, ns := range namespace {
		if ns != "" {
			b.WriteString(ns)
			b.WriteByte(':')
		}
	}
	b.WriteString(contentHash)

	h, err := hashstructure.Hash(opts, hashstructure.FormatV2, nil)
	if err != nil {
		// Only unhashable types such as funcs fail.
		b.WriteString(":" + Hash([]byte(fmt.Sprintf("%#v", opts)))[:16])
		return b.String()
	}
	fmt.Fprintf(&b, ":%016x", h)
	return b.String()
}

// Hash returns the hex SHA-256 of data. Sources are keyed by their hash so
// identical polyfills share one cache entry regardless of name.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
