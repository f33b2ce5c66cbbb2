package botstats

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/plexsphere/botstats/internal/metrics"
)

const (
	testKey   = "statcord.test-key"
	testBotID = "685166801394335819"
)

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(nopWriter{}, nil))
}

func ptr[T any](v T) *T { return &v }

// mockSystemReader is a test double for metrics.SystemReader.
type mockSystemReader struct {
	mu       sync.Mutex
	rx       uint64
	load     float64
	memory   metrics.MemoryStat
	platform string
	err      error
}

func (m *mockSystemReader) setRx(total uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rx = total
}

func (m *mockSystemReader) NetworkStats(_ context.Context) ([]metrics.NetworkStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return []metrics.NetworkStat{{Interface: "eth0", RxBytes: m.rx}}, nil
}

func (m *mockSystemReader) CurrentLoad(_ context.Context) (float64, error) {
	return m.load, m.err
}

func (m *mockSystemReader) Memory(_ context.Context) (metrics.MemoryStat, error) {
	return m.memory, m.err
}

func (m *mockSystemReader) Platform(_ context.Context) (string, error) {
	if m.platform == "" {
		return "linux", m.err
	}
	return m.platform, m.err
}

// statsServer is a fake stats API that records POST /stats bodies and
// answers with a configurable status.
type statsServer struct {
	*httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	requests []map[string]any
	auth     []string
}

func newStatsServer(t *testing.T, status int, body string) *statsServer {
	t.Helper()
	s := &statsServer{status: status, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var decoded map[string]any
		_ = json.Unmarshal(data, &decoded)

		s.mu.Lock()
		s.requests = append(s.requests, decoded)
		s.auth = append(s.auth, r.Header.Get("Authorization"))
		status, body := s.status, s.body
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *statsServer) setStatus(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

func (s *statsServer) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *statsServer) lastRequest() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// newTestClient creates a Client pointed at baseURL that reads host
// metrics from reader.
func newTestClient(t *testing.T, baseURL string, opts Options, reader metrics.SystemReader) *Client {
	t.Helper()
	opts.BaseURL = baseURL
	if reader == nil {
		reader = &mockSystemReader{}
	}
	c, err := newClient(testKey, testBotID, opts, reader, discardLogger())
	if err != nil {
		t.Fatalf("newClient: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// events collects handler invocations.
type events struct {
	mu       sync.Mutex
	payloads []StatsPayload
	errs     []error
}

func watch(c *Client) *events {
	ev := &events{}
	c.OnPostStats(func(_ context.Context, p StatsPayload) {
		ev.mu.Lock()
		defer ev.mu.Unlock()
		ev.payloads = append(ev.payloads, p)
	})
	c.OnError(func(_ context.Context, err error) {
		ev.mu.Lock()
		defer ev.mu.Unlock()
		ev.errs = append(ev.errs, err)
	})
	return ev
}

func (e *events) counts() (posted, failed int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.payloads), len(e.errs)
}

func metricsMemory(active, total uint64) metrics.MemoryStat {
	return metrics.MemoryStat{Active: active, Total: total}
}
