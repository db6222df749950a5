package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lysyi3m/feed-digest/app/config"
)

// SkipReason explains why a run produced no digest document.
type SkipReason string

const (
	SkipNoItems        SkipReason = "no_new_items"
	SkipBelowThreshold SkipReason = "below_threshold"
)

// Assembler sorts normalized entries and composes the digest document.
type Assembler struct {
	collator *collate.Collator
}

func NewAssembler() *Assembler {
	return &Assembler{
		collator: collate.New(language.Und, collate.IgnoreCase),
	}
}

// Run orders the entries and applies the minimum-count gate. When the gate
// rejects the run, the returned document is nil and the reason is non-empty.
func (a *Assembler) Run(entries []Entry, digestConfig *config.Config, runTime time.Time) (*Document, SkipReason) {
	if len(entries) == 0 {
		return nil, SkipNoItems
	}
	if len(entries) < digestConfig.Settings.MinItems {
		return nil, SkipBelowThreshold
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	// Stable: ties keep the original feed order
	sort.SliceStable(sorted, func(i, j int) bool {
		return a.collator.CompareString(sortKey(sorted[i]), sortKey(sorted[j])) < 0
	})

	return &Document{
		TitleLine:  fmt.Sprintf("%s: %s", digestConfig.Title, runTime.Format("January 2, 2006")),
		Header:     digestConfig.Header,
		Footer:     digestConfig.Footer,
		Entries:    sorted,
		LinkFormat: digestConfig.Settings.LinkFormat,
	}, ""
}

// sortKey derives the comparison key for an entry: "prefix: title" when the
// prefix is non-empty, with a leading article stripped from the key only.
// The displayed title keeps its article.
func sortKey(entry Entry) string {
	key := entry.Title
	if entry.Prefix != "" {
		key = entry.Prefix + ": " + entry.Title
	}
	return stripLeadingArticle(key)
}

var leadingArticles = []string{"The ", "A ", "An "}

func stripLeadingArticle(s string) string {
	for _, article := range leadingArticles {
		if len(s) > len(article) && strings.EqualFold(s[:len(article)], article) {
			return s[len(article):]
		}
	}
	return s
}
