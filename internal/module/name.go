package module

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder tokens substituted during template expansion.
const (
	PlaceholderIdentifier = "Placeholder"
	PlaceholderSlug       = "placeholder"
)

var slugPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

var titleCaser = cases.Title(language.English)

// Name is the canonical pair of textual forms for a module. Registries key
// their entries by one form or the other, so the two are always derived
// together by Parse and never built by hand.
type Name struct {
	Slug       string // e.g. "ecommerce", used for paths and aliases
	Identifier string // e.g. "Ecommerce", used for namespaces and class names
}

// Parse lowercases raw, validates it and derives the identifier.
func Parse(raw string) (Name, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if !slugPattern.MatchString(slug) {
		return Name{}, fmt.Errorf("invalid module name %q: must match pattern [a-z][a-z0-9_-]*", raw)
	}
	return Name{Slug: slug, Identifier: Studly(slug)}, nil
}

// String returns the slug.
func (n Name) String() string { return n.Slug }

// Studly converts "my-shop", "my_shop" or "my shop" to "MyShop".
func Studly(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(titleCaser.String(p))
	}
	return b.String()
}

// StudlyPreserve upper-cases the first letter of each segment and keeps the
// rest as typed, so "productCategory" becomes "ProductCategory". Artifact
// names (models, controllers) use this form.
func StudlyPreserve(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	var b strings.Builder
	for _, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(p[size:])
	}
	return b.String()
}

// Snake converts "ProductCategory" to "product_category".
func Snake(s string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range s {
		switch {
		case r == '-' || r == ' ':
			b.WriteRune('_')
			prevLower = false
		case r >= 'A' && r <= 'Z':
			if prevLower {
				b.WriteRune('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = r != '_'
		}
	}
	return b.String()
}

// Camel lowercases the first letter: "Product" becomes "product".
func Camel(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Plural applies the common English plural rules used for table names.
func Plural(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.HasSuffix(lower, "y") && len(s) > 1 && !strings.ContainsRune("aeiou", rune(lower[len(lower)-2])):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(lower, "s"), strings.HasSuffix(lower, "x"), strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"), strings.HasSuffix(lower, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}
