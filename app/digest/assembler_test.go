package digest

import (
	"strings"
	"testing"
	"time"

	"github.com/lysyi3m/feed-digest/app/config"
)

func testDigestConfig() *config.Config {
	return &config.Config{
		Name:  "test",
		URL:   "https://example.com/feed.xml",
		Title: "Morning Links",
		Settings: config.ConfigSettings{
			MinItems:   1,
			LinkFormat: config.LinkFormatFull,
		},
	}
}

var testRunTime = time.Date(2026, time.September, 1, 8, 30, 0, 0, time.UTC)

func TestAssemblerSortIgnoresLeadingArticles(t *testing.T) {
	entries := []Entry{
		{Prefix: "The Verge", Title: "X", Link: "https://example.com/1"},
		{Prefix: "Ars", Title: "Y", Link: "https://example.com/2"},
		{Prefix: "A Blog", Title: "Z", Link: "https://example.com/3"},
	}

	assembler := NewAssembler()
	doc, skip := assembler.Run(entries, testDigestConfig(), testRunTime)
	if skip != "" {
		t.Fatalf("Unexpected skip: %s", skip)
	}

	// Sort keys: "Ars: Y", "Blog: Z", "Verge: X"
	if doc.Entries[0].Prefix != "Ars" {
		t.Errorf("Expected 'Ars' first, got '%s'", doc.Entries[0].Prefix)
	}
	if doc.Entries[1].Prefix != "A Blog" {
		t.Errorf("Expected 'A Blog' second, got '%s'", doc.Entries[1].Prefix)
	}
	if doc.Entries[2].Prefix != "The Verge" {
		t.Errorf("Expected 'The Verge' last, got '%s'", doc.Entries[2].Prefix)
	}

	// Displayed prefixes keep their articles
	if doc.Entries[2].Prefix != "The Verge" {
		t.Error("Article must never be stripped from the displayed text")
	}
}

func TestAssemblerSortCaseInsensitive(t *testing.T) {
	entries := []Entry{
		{Title: "zebra", Link: "https://example.com/1"},
		{Title: "Apple", Link: "https://example.com/2"},
		{Title: "mango", Link: "https://example.com/3"},
	}

	assembler := NewAssembler()
	doc, skip := assembler.Run(entries, testDigestConfig(), testRunTime)
	if skip != "" {
		t.Fatalf("Unexpected skip: %s", skip)
	}

	got := []string{doc.Entries[0].Title, doc.Entries[1].Title, doc.Entries[2].Title}
	want := []string{"Apple", "mango", "zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected entry %d to be '%s', got '%s'", i, want[i], got[i])
		}
	}
}

func TestAssemblerSortStableOnTies(t *testing.T) {
	entries := []Entry{
		{Title: "Same Key", Link: "https://example.com/first"},
		{Title: "same key", Link: "https://example.com/second"},
		{Title: "SAME KEY", Link: "https://example.com/third"},
	}

	assembler := NewAssembler()
	doc, skip := assembler.Run(entries, testDigestConfig(), testRunTime)
	if skip != "" {
		t.Fatalf("Unexpected skip: %s", skip)
	}

	want := []string{"https://example.com/first", "https://example.com/second", "https://example.com/third"}
	for i, link := range want {
		if doc.Entries[i].Link != link {
			t.Errorf("Tie broke feed order: expected entry %d to be %s, got %s", i, link, doc.Entries[i].Link)
		}
	}
}

func TestAssemblerGate(t *testing.T) {
	assembler := NewAssembler()

	digestConfig := testDigestConfig()
	digestConfig.Settings.MinItems = 3

	twoEntries := []Entry{
		{Title: "One", Link: "https://example.com/1"},
		{Title: "Two", Link: "https://example.com/2"},
	}

	if _, skip := assembler.Run(nil, digestConfig, testRunTime); skip != SkipNoItems {
		t.Errorf("Expected SkipNoItems for empty entries, got '%s'", skip)
	}

	if _, skip := assembler.Run(twoEntries, digestConfig, testRunTime); skip != SkipBelowThreshold {
		t.Errorf("Expected SkipBelowThreshold with 2 of 3 entries, got '%s'", skip)
	}

	threeEntries := append(twoEntries, Entry{Title: "Three", Link: "https://example.com/3"})
	doc, skip := assembler.Run(threeEntries, digestConfig, testRunTime)
	if skip != "" {
		t.Errorf("Expected no skip with 3 of 3 entries, got '%s'", skip)
	}
	if doc == nil || len(doc.Entries) != 3 {
		t.Error("Expected a document with 3 entries")
	}
}

func TestAssemblerTitleLine(t *testing.T) {
	entries := []Entry{{Title: "One", Link: "https://example.com/1"}}

	assembler := NewAssembler()
	doc, skip := assembler.Run(entries, testDigestConfig(), testRunTime)
	if skip != "" {
		t.Fatalf("Unexpected skip: %s", skip)
	}

	if doc.TitleLine != "Morning Links: September 1, 2026" {
		t.Errorf("Unexpected title line: '%s'", doc.TitleLine)
	}
}

func TestAssemblerDoesNotMutateInput(t *testing.T) {
	entries := []Entry{
		{Title: "zebra", Link: "https://example.com/1"},
		{Title: "apple", Link: "https://example.com/2"},
	}

	assembler := NewAssembler()
	if _, skip := assembler.Run(entries, testDigestConfig(), testRunTime); skip != "" {
		t.Fatalf("Unexpected skip: %s", skip)
	}

	if entries[0].Title != "zebra" {
		t.Error("Assembler must not reorder the caller's slice")
	}
}

func TestStripLeadingArticle(t *testing.T) {
	cases := map[string]string{
		"The Verge: X":  "Verge: X",
		"A Blog: Z":     "Blog: Z",
		"An Update":     "Update",
		"the quiet one": "quiet one",
		"Theodore wins": "Theodore wins", // no space boundary, not an article
		"Anvil news":    "Anvil news",
		"The ":          "The ", // nothing after the article
	}

	for in, want := range cases {
		if got := stripLeadingArticle(in); got != want {
			t.Errorf("stripLeadingArticle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRendererFullLink(t *testing.T) {
	doc := &Document{
		TitleLine:  "Links: January 2, 2026",
		LinkFormat: config.LinkFormatFull,
		Entries: []Entry{
			{Prefix: "The Verge", Title: "Big news", Link: "https://example.com/1"},
			{Title: "Bare title", Link: "https://example.com/2"},
		},
	}

	body := NewRenderer().Run(doc)

	if !strings.Contains(body, `<a href="https://example.com/1">The Verge: Big news</a>`) {
		t.Errorf("Expected full link entry, got:\n%s", body)
	}
	if !strings.Contains(body, `<a href="https://example.com/2">Bare title</a>`) {
		t.Errorf("Expected bare-title entry, got:\n%s", body)
	}
}

func TestRendererBoldPrefix(t *testing.T) {
	doc := &Document{
		LinkFormat: config.LinkFormatBoldPrefix,
		Entries: []Entry{
			{Prefix: "Ars", Title: "Review", Link: "https://example.com/1"},
			{Title: "No prefix", Link: "https://example.com/2"},
		},
	}

	body := NewRenderer().Run(doc)

	if !strings.Contains(body, `<strong>Ars:</strong> <a href="https://example.com/1">Review</a>`) {
		t.Errorf("Expected bold prefix entry, got:\n%s", body)
	}
	if !strings.Contains(body, `<li><a href="https://example.com/2">No prefix</a></li>`) {
		t.Errorf("Expected plain link for empty prefix, got:\n%s", body)
	}
}

func TestRendererLinkOnly(t *testing.T) {
	doc := &Document{
		LinkFormat: config.LinkFormatLinkOnly,
		Entries: []Entry{
			{Prefix: "Hidden Prefix", Title: "Only the title", Link: "https://example.com/1"},
		},
	}

	body := NewRenderer().Run(doc)

	if strings.Contains(body, "Hidden Prefix") {
		t.Errorf("link_only must never show the prefix, got:\n%s", body)
	}
	if !strings.Contains(body, `<a href="https://example.com/1">Only the title</a>`) {
		t.Errorf("Expected linked title, got:\n%s", body)
	}
}

func TestRendererHeaderFooter(t *testing.T) {
	doc := &Document{
		Header:     "<p>Good morning.</p>",
		Footer:     "<p>See you tomorrow.</p>",
		LinkFormat: config.LinkFormatFull,
		Entries:    []Entry{{Title: "One", Link: "https://example.com/1"}},
	}

	body := NewRenderer().Run(doc)

	if !strings.HasPrefix(body, "<p>Good morning.</p>") {
		t.Errorf("Expected header first, got:\n%s", body)
	}
	if !strings.HasSuffix(body, "<p>See you tomorrow.</p>") {
		t.Errorf("Expected footer last, got:\n%s", body)
	}
}

func TestRendererEscapesTitles(t *testing.T) {
	doc := &Document{
		LinkFormat: config.LinkFormatFull,
		Entries: []Entry{
			{Title: "Tom & Jerry <remastered>", Link: "https://example.com/1?a=b&c=d"},
		},
	}

	body := NewRenderer().Run(doc)

	if !strings.Contains(body, "Tom &amp; Jerry &lt;remastered&gt;") {
		t.Errorf("Expected escaped title text, got:\n%s", body)
	}
	if strings.Contains(body, "<remastered>") {
		t.Errorf("Raw markup leaked into output:\n%s", body)
	}
}
