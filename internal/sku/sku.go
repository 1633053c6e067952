// Package sku derives the catalog SKU of a legacy vendor product.
//
// The SKU doubles as a cross-service join key: the segment after the last
// hyphen is always the legacy product id, which lets the order-item
// reconciliation rebuild the legacy -> external id mapping from the remote
// catalog alone.
package sku

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// Prefix marks every SKU created for a legacy vendor product.
	Prefix = "VENDOR-"

	prefixSegment = "VENDOR"
	maxNameLength = 20
)

// Generate returns VENDOR-<NORMALIZED_NAME>-<id>.
func Generate(name string, id int64) string {
	return Prefix + Normalize(name) + "-" + strconv.FormatInt(id, 10)
}

// Normalize strips diacritics and every character outside [a-zA-Z0-9],
// upper-cases the result and truncates it to 20 characters.
func Normalize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	decomposed, _, err := transform.String(t, name)
	if err != nil {
		decomposed = name
	}

	var b strings.Builder
	for _, r := range decomposed {
		if isASCIIAlnum(r) {
			b.WriteRune(unicode.ToUpper(r))
			if b.Len() == maxNameLength {
				break
			}
		}
	}
	return b.String()
}

// LegacyID extracts the legacy product id encoded in a vendor SKU.
// Foreign or malformed SKUs report false.
func LegacyID(value string) (int64, bool) {
	parts := strings.Split(value, "-")
	if len(parts) < 3 || parts[0] != prefixSegment {
		return 0, false
	}

	last := parts[len(parts)-1]
	if last == "" {
		return 0, false
	}
	for _, r := range last {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	id, err := strconv.ParseInt(last, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
