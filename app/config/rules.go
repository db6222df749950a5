package config

import "strings"

// Rule is a single title replacement, applied in registration order.
type Rule struct {
	Pattern     string
	Replacement string
}

// ParseRules parses replacement rule text, one rule per line in the form
// "LEFT => RIGHT". The first "=>" is the separator; blank or whitespace-only
// lines are ignored. An empty RIGHT is a valid rule (delete semantics for
// prefix rules).
func ParseRules(text string) []Rule {
	var rules []Rule

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		pattern, replacement, found := strings.Cut(line, "=>")
		if !found {
			continue
		}

		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		rules = append(rules, Rule{
			Pattern:     pattern,
			Replacement: strings.TrimSpace(replacement),
		})
	}

	return rules
}

// PrefixRuleMap converts prefix rules into an exact-match lookup table.
// When the same prefix appears twice, the first rule wins.
func PrefixRuleMap(rules []Rule) map[string]string {
	m := make(map[string]string, len(rules))
	for _, rule := range rules {
		if _, exists := m[rule.Pattern]; exists {
			continue
		}
		m[rule.Pattern] = rule.Replacement
	}
	return m
}

// FullRules parses the digest's full-string replacement rules.
func (c *Config) FullRules() []Rule {
	return ParseRules(c.Replacements)
}

// PrefixRules parses the digest's prefix replacement rules into a lookup table.
func (c *Config) PrefixRules() map[string]string {
	return PrefixRuleMap(ParseRules(c.PrefixReplacements))
}
