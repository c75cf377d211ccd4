package takaichirag

// LinkPriority represents crawl priority (higher = popped first).
type LinkPriority int

// Priority levels for crawl ordering: list pages are drained before
// detail articles so the full set of detail URLs is known early.
const (
	PriorityDetail LinkPriority = 50
	PriorityList   LinkPriority = 100
)

// QueuedURL is a URL waiting in the frontier with its crawl priority.
type QueuedURL struct {
	URL      string
	Priority LinkPriority
}

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a URL to the frontier.
	// Returns false if the URL has already been seen.
	Push(link QueuedURL) bool

	// Pop returns the next URL by priority.
	// Returns false if the frontier is empty.
	Pop() (QueuedURL, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}
