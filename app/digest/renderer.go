package digest

import (
	"bytes"
	"fmt"
	"html"

	"github.com/lysyi3m/feed-digest/app/config"
)

// Renderer turns a digest document into HTML markup for the publishing sink.
// Header and footer are included verbatim; they are already-sanitized rich
// text owned by the digest configuration.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Run(doc *Document) string {
	var buf bytes.Buffer

	if doc.Header != "" {
		buf.WriteString(doc.Header)
		buf.WriteString("\n")
	}

	buf.WriteString("<ul class=\"digest-links\">\n")
	for _, entry := range doc.Entries {
		r.writeEntry(&buf, entry, doc.LinkFormat)
	}
	buf.WriteString("</ul>")

	if doc.Footer != "" {
		buf.WriteString("\n")
		buf.WriteString(doc.Footer)
	}

	return buf.String()
}

func (r *Renderer) writeEntry(buf *bytes.Buffer, entry Entry, linkFormat string) {
	link := html.EscapeString(entry.Link)
	title := html.EscapeString(entry.Title)
	prefix := html.EscapeString(entry.Prefix)

	switch linkFormat {
	case config.LinkFormatBoldPrefix:
		if entry.Prefix == "" {
			fmt.Fprintf(buf, "  <li><a href=\"%s\">%s</a></li>\n", link, title)
			return
		}
		fmt.Fprintf(buf, "  <li><strong>%s:</strong> <a href=\"%s\">%s</a></li>\n", prefix, link, title)

	case config.LinkFormatLinkOnly:
		fmt.Fprintf(buf, "  <li><a href=\"%s\">%s</a></li>\n", link, title)

	default: // full_link
		text := title
		if entry.Prefix != "" {
			text = prefix + ": " + title
		}
		fmt.Fprintf(buf, "  <li><a href=\"%s\">%s</a></li>\n", link, text)
	}
}
