package validate

import (
	"regexp"
	"strconv"
	"strings"

	"sneakstore/internal/domain"
)

var (
	// Query text: letters (any script, the catalog is bilingual), digits,
	// spaces and a few joiners.
	reQ    = regexp.MustCompile(`^[\p{L}\p{N} _'\-]{1,60}$`)
	reSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Q validates a search query: trims, enforces allowed characters and max length.
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return s, reQ.MatchString(s)
}

// Slug validates a product slug like "air-max-1".
func Slug(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && len(s) <= 64 && reSlug.MatchString(s)
}

// Qty parses a quantity, clamped to the cart's per-line bound.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	if n > 10 {
		return 10
	}
	return n
}

// Size accepts plausible shoe sizes only.
func Size(n int) bool { return n >= 15 && n <= 60 }

// Sort returns a whitelisted sort mode, falling back to relevance.
func Sort(s string) string {
	switch s {
	case domain.SortPriceAsc, domain.SortPriceDesc, domain.SortName,
		domain.SortRating, domain.SortNew, domain.SortRelevance:
		return s
	}
	return domain.SortRelevance
}

// Limit clamps a result-count parameter into [1, max], defaulting to def.
func Limit(s string, def, max int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}

// Page parses a 1-based page number.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
