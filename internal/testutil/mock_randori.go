// Package testutil provides testing utilities for the Randori exporter.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines a canned response for a mock endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// RecordedRequest is one request seen by the mock server.
type RecordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
	Offset int
	Limit  int
}

// MockRandori is a configurable mock of the Randori recon API.
//
// Paths registered with SetEntities serve offset/limit pages out of a fixed
// dataset. Paths registered with SetHandler or SetResponse take precedence.
type MockRandori struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	datasets map[string][]string
	requests []RecordedRequest
}

// NewMockRandori creates and starts a mock server.
func NewMockRandori() *MockRandori {
	mock := &MockRandori{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		datasets: make(map[string][]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		mock.mu.Lock()
		mock.requests = append(mock.requests, RecordedRequest{
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Offset: offset,
			Limit:  limit,
		})
		handler, hasHandler := mock.handlers[r.URL.Path]
		dataset, hasDataset := mock.datasets[r.URL.Path]
		mock.mu.Unlock()

		switch {
		case hasHandler:
			handler(w, r)
		case hasDataset:
			writePage(w, dataset, offset, limit)
		default:
			http.NotFound(w, r)
		}
	}))

	return mock
}

// URL returns the mock server base URL with a trailing slash.
func (m *MockRandori) URL() string {
	return m.server.URL + "/"
}

// Close shuts down the mock server.
func (m *MockRandori) Close() {
	m.server.Close()
}

// Reset clears recorded requests.
func (m *MockRandori) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockRandori) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockRandori) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetEntities serves records (raw JSON objects) at path with offset/limit paging.
func (m *MockRandori) SetEntities(path string, records []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets[path] = records
}

// SetSequence answers successive requests to path with bodies in order.
// Requests past the end receive the last body again.
func (m *MockRandori) SetSequence(path string, bodies ...string) {
	var (
		mu   sync.Mutex
		next int
	)
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		i := next
		if next < len(bodies)-1 {
			next++
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(bodies[i]))
	})
}

// Requests returns recorded requests for path, or all requests when path is empty.
func (m *MockRandori) Requests(path string) []RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]RecordedRequest, 0, len(m.requests))
	for _, r := range m.requests {
		if path == "" || r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockRandori) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

func writePage(w http.ResponseWriter, dataset []string, offset, limit int) {
	total := len(dataset)
	start := min(max(offset, 0), total)
	end := min(start+max(limit, 0), total)
	page := dataset[start:end]

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, PageBody(total, start, page))
}

// PageBody renders a list response envelope.
func PageBody(total, offset int, records []string) string {
	return fmt.Sprintf(`{"total":%d,"offset":%d,"count":%d,"data":[%s]}`,
		total, offset, len(records), strings.Join(records, ","))
}

// NewEntityRecords generates n homogeneous records for entity.
func NewEntityRecords(entity string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf(
			`{"id":"%s-%03d","name":"%s-%d.example.com","target_temptation":%d,"confidence":%d,"tags":["external"]}`,
			entity, i, entity, i, 100-i, 75)
	}
	return out
}

// NewErrorResponse creates a non-200 response with a JSON body.
func NewErrorResponse(status int, message string) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       fmt.Sprintf(`{"error": %q}`, message),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}
