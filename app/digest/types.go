package digest

// Digest document types

// Entry is a single feed item after title normalization, ready for
// formatting and inclusion in a digest.
type Entry struct {
	Prefix string // site-name-like segment before the first ": ", possibly empty
	Title  string // never empty for an entry that survives normalization
	Link   string
}

// Document is the compiled digest handed to the publishing sink. It is built
// once per accepted run and not persisted.
type Document struct {
	TitleLine  string
	Header     string
	Footer     string
	Entries    []Entry
	LinkFormat string
}
