package feed

// Item is a single entry from a fetched feed document. Link doubles as the
// deduplication identifier.
type Item struct {
	Link  string
	Title string
}

// FetchOptions control one fetch of a feed document. All durations are in
// seconds, mirroring the digest configuration.
type FetchOptions struct {
	Timeout       int
	RetryAttempts int
	RetryDelay    int
	CacheTTL      int
	ItemLimit     int
}
