package crawl

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/jiangzhuo/takaichirag"
	"github.com/jiangzhuo/takaichirag/bloom"
)

// Compile-time interface verification.
var _ takaichirag.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory URL frontier with priority queue and Bloom
// filter deduplication. List pages outrank detail pages, so a category's
// pagination is walked before any article is fetched.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	queue *urlHeap
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &urlHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewFilter(n, fpRate),
		queue: h,
	}
}

// Push adds a URL to the frontier.
// Returns false if the URL has already been seen. Fragments are stripped
// before deduplication, so URLs differing only by fragment are duplicates.
func (f *Frontier) Push(link takaichirag.QueuedURL) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	url := stripFragment(link.URL)
	if f.seen.TestAndAdd(url) {
		return false
	}

	link.URL = url
	heap.Push(f.queue, link)
	return true
}

// Pop returns the next URL by priority.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (takaichirag.QueuedURL, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return takaichirag.QueuedURL{}, false
	}
	link, _ := heap.Pop(f.queue).(takaichirag.QueuedURL)
	return link, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been processed or queued.
// URL fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}

// urlHeap implements heap.Interface for QueuedURL.
// Higher priority URLs are popped first.
type urlHeap []takaichirag.QueuedURL

func (h urlHeap) Len() int { return len(h) }

// Less returns true if i has higher priority than j (max-heap).
func (h urlHeap) Less(i, j int) bool {
	return h[i].Priority > h[j].Priority
}

func (h urlHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *urlHeap) Push(x any) {
	link, _ := x.(takaichirag.QueuedURL)
	*h = append(*h, link)
}

func (h *urlHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
