package digest

import (
	"html"
	"strings"

	"github.com/lysyi3m/feed-digest/app/config"
)

// NormalizeTitle cleans a raw feed title into a (prefix, title) pair.
// It decodes HTML entities, collapses whitespace, applies the full-string
// replacement rules in registration order, splits off the prefix at the first
// ": ", and applies prefix rules or the suspicious-prefix heuristic. A title
// that ends up empty at any step yields ok=false and the item is dropped.
func NormalizeTitle(rawTitle string, fullRules []config.Rule, prefixRules map[string]string, autoStrip bool) (prefix, title string, ok bool) {
	title = html.UnescapeString(rawTitle)
	title = collapseWhitespace(title)
	if title == "" {
		return "", "", false
	}

	title = applyFullRules(title, fullRules)
	if title == "" {
		return "", "", false
	}

	prefix, title = splitPrefix(title)

	if prefix != "" {
		if replacement, found := prefixRules[prefix]; found {
			prefix = replacement
		} else if autoStrip && IsSuspiciousPrefix(prefix) {
			prefix = ""
		}
	}

	prefix = strings.TrimSpace(prefix)
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", false
	}

	return prefix, title, true
}

// applyFullRules runs every rule, in order, against the evolving title.
// Rules are not exclusive: a later rule sees the output of earlier ones.
// Replacing a pattern that spans the original prefix can leave a ": "
// artifact at the front, which is stripped after each applied rule.
func applyFullRules(title string, rules []config.Rule) string {
	for _, rule := range rules {
		if !strings.Contains(title, rule.Pattern) {
			continue
		}

		title = strings.ReplaceAll(title, rule.Pattern, rule.Replacement)
		title = strings.TrimSpace(title)
		title = strings.TrimSpace(strings.TrimPrefix(title, ": "))
	}

	return title
}

// splitPrefix splits a title at the first ": " separator. Without a
// separator the whole string is the title.
func splitPrefix(title string) (string, string) {
	prefix, rest, found := strings.Cut(title, ": ")
	if !found {
		return "", title
	}
	return prefix, rest
}

// IsSuspiciousPrefix reports whether a prefix looks like a hostname or slug
// rather than a site name: it contains a dot and no spaces. Prose prefixes
// with punctuation but containing spaces are never considered suspicious.
func IsSuspiciousPrefix(prefix string) bool {
	return strings.Contains(prefix, ".") && !strings.Contains(prefix, " ")
}

// collapseWhitespace reduces every whitespace run, including non-breaking
// spaces, to a single ASCII space and trims the ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
