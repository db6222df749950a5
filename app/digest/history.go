package digest

import (
	"github.com/lysyi3m/feed-digest/app/feed"
)

const DefaultHistoryCapacity = 500

// History is the bounded, insertion-ordered set of links already emitted in
// past digests. When the capacity is exceeded the oldest links are evicted
// first, so memory stays bounded regardless of feed churn.
type History struct {
	capacity int
	links    []string
	index    map[string]struct{}
}

// NewHistory builds a history from previously stored links, oldest first.
// Duplicate links keep their first (oldest) position.
func NewHistory(capacity int, links []string) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	h := &History{
		capacity: capacity,
		index:    make(map[string]struct{}),
	}
	h.Merge(links)

	return h
}

func (h *History) Contains(link string) bool {
	_, ok := h.index[link]
	return ok
}

func (h *History) Len() int {
	return len(h.links)
}

func (h *History) Capacity() int {
	return h.capacity
}

// Links returns the stored links in insertion order, oldest first.
func (h *History) Links() []string {
	out := make([]string, len(h.links))
	copy(out, h.links)
	return out
}

// Merge appends links not yet present, then evicts the oldest entries until
// the history fits its capacity again.
func (h *History) Merge(links []string) {
	for _, link := range links {
		if _, ok := h.index[link]; ok {
			continue
		}
		h.links = append(h.links, link)
		h.index[link] = struct{}{}
	}

	for len(h.links) > h.capacity {
		oldest := h.links[0]
		h.links = h.links[1:]
		delete(h.index, oldest)
	}
}

// FilterNew returns the items whose links are not yet in the history,
// preserving feed order, together with their links. Deduplication is
// identity-based on the link and happens before any title normalization.
func (h *History) FilterNew(items []feed.Item) ([]feed.Item, []string) {
	var newItems []feed.Item
	var newLinks []string
	seen := make(map[string]struct{})

	for _, item := range items {
		if h.Contains(item.Link) {
			continue
		}
		if _, dup := seen[item.Link]; dup {
			continue
		}
		seen[item.Link] = struct{}{}
		newItems = append(newItems, item)
		newLinks = append(newLinks, item.Link)
	}

	return newItems, newLinks
}
