package takaichirag

import "sync"

// FailureStage identifies the pipeline stage a failure occurred in.
type FailureStage string

// Stages recorded in a session's failure report.
const (
	StageFetch FailureStage = "fetch"
	StageParse FailureStage = "parse"
)

// Failure records one skipped URL and the reason it was skipped.
type Failure struct {
	URL      string       `json:"url"`
	Category Category     `json:"category"`
	Stage    FailureStage `json:"stage"`
	Err      string       `json:"error"`
}

// Session holds the mutable state of a single crawl run: the set of
// visited URLs and the accumulated failure report. It exists only to keep
// one run from fetching the same URL twice; nothing survives the run, and
// there is no cross-run deduplication.
type Session struct {
	mu       sync.Mutex
	visited  map[string]struct{}
	failures []Failure
}

// NewSession creates an empty crawl session.
func NewSession() *Session {
	return &Session{visited: make(map[string]struct{})}
}

// Visit marks url as visited. It returns true the first time a URL is
// seen and false on every subsequent call for the same URL.
func (s *Session) Visit(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visited[url]; ok {
		return false
	}
	s.visited[url] = struct{}{}
	return true
}

// Visited reports whether url has been visited in this run.
func (s *Session) Visited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.visited[url]
	return ok
}

// VisitedCount returns the number of distinct URLs visited.
func (s *Session) VisitedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visited)
}

// Fail appends a failure to the run's report.
func (s *Session) Fail(url string, category Category, stage FailureStage, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, Failure{
		URL:      url,
		Category: category,
		Stage:    stage,
		Err:      msg,
	})
}

// Failures returns a copy of the run's failure report.
func (s *Session) Failures() []Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Failure, len(s.failures))
	copy(out, s.failures)
	return out
}
