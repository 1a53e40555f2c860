// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Make lowercases name and collapses every run of non-alphanumeric
// characters into a single hyphen: "Web Development" -> "web-development".
func Make(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ExistsFunc reports whether a candidate slug is already taken.
type ExistsFunc func(ctx context.Context, slug string) (bool, error)

// MakeUnique derives a slug from name and resolves collisions by
// suffixing -1, -2, ... until exists reports free.
func MakeUnique(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	base := Make(name)
	if base == "" {
		base = "item"
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
