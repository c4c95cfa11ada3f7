// Package testutil provides a configurable mock of the upstream tournament
// site for tests: fixture payloads per path, request counting, failure
// injection, artificial latency, and in-flight concurrency tracking.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// MockFTL is a fake upstream server. Paths with no configured payload
// answer 404, which matches the real site's behavior for rounds that do
// not exist yet.
type MockFTL struct {
	Server *httptest.Server

	mu            sync.Mutex
	payloads      map[string]string
	forcedStatus  map[string]int
	requestCounts map[string]int
	inFlight      map[string]int
	maxInFlight   map[string]int
	delay         time.Duration
}

// NewMockFTL starts a mock upstream. Callers must Close it.
func NewMockFTL() *MockFTL {
	m := &MockFTL{
		payloads:      make(map[string]string),
		forcedStatus:  make(map[string]int),
		requestCounts: make(map[string]int),
		inFlight:      make(map[string]int),
		maxInFlight:   make(map[string]int),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// URL returns the mock server's base URL.
func (m *MockFTL) URL() string {
	return m.Server.URL
}

// Close shuts the server down.
func (m *MockFTL) Close() {
	m.Server.Close()
}

func (m *MockFTL) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	kind := pathKind(path)

	m.mu.Lock()
	m.requestCounts[path]++
	m.inFlight[kind]++
	if m.inFlight[kind] > m.maxInFlight[kind] {
		m.maxInFlight[kind] = m.inFlight[kind]
	}
	delay := m.delay
	status, forced := m.forcedStatus[path]
	body, ok := m.payloads[path]
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight[kind]--
		m.mu.Unlock()
	}()

	if delay > 0 {
		time.Sleep(delay)
	}

	switch {
	case forced:
		w.WriteHeader(status)
	case ok:
		w.Write([]byte(body))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// SetPoolScores configures the listing page for a round.
func (m *MockFTL) SetPoolScores(eventID, roundID, html string) {
	m.setPayload("/pools/scores/"+eventID+"/"+roundID, html)
}

// SetPoolDetail configures one pool's scoresheet page.
func (m *MockFTL) SetPoolDetail(eventID, roundID, poolID, html string) {
	m.setPayload("/pools/scores/"+eventID+"/"+roundID+"/"+poolID, html)
}

// SetPoolResults configures the results JSON feed for a round.
func (m *MockFTL) SetPoolResults(eventID, roundID, body string) {
	m.setPayload("/pools/results/data/"+eventID+"/"+roundID, body)
}

// SetTableau configures the bracket page for a DE round.
func (m *MockFTL) SetTableau(eventID, roundID, html string) {
	m.setPayload("/tableaus/scores/"+eventID+"/"+roundID, html)
}

// SetStatus forces a status code for an exact path, overriding any
// configured payload.
func (m *MockFTL) SetStatus(path string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forcedStatus[path] = status
}

// SetDelay makes every response sleep for d before answering. Used to
// hold requests open so concurrency bounds become observable.
func (m *MockFTL) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// RequestCount returns how many requests hit an exact path.
func (m *MockFTL) RequestCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCounts[path]
}

// TotalRequests returns the number of requests across all paths.
func (m *MockFTL) TotalRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.requestCounts {
		total += n
	}
	return total
}

// MaxInFlight returns the high-water mark of concurrent requests for a
// path kind such as "pools/scores".
func (m *MockFTL) MaxInFlight(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight[kind]
}

func (m *MockFTL) setPayload(path, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[path] = body
}

func pathKind(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
