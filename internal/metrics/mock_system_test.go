package metrics

import (
	"context"
	"sync"
)

// mockSystemReader is a test double for SystemReader.
type mockSystemReader struct {
	mu       sync.Mutex
	network  []NetworkStat
	load     float64
	memory   MemoryStat
	platform string

	networkErr  error
	loadErr     error
	memoryErr   error
	platformErr error

	calls []string
}

func (m *mockSystemReader) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockSystemReader) setRx(total uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.network = []NetworkStat{{Interface: "eth0", RxBytes: total}}
}

func (m *mockSystemReader) callLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *mockSystemReader) NetworkStats(ctx context.Context) ([]NetworkStat, error) {
	m.record("network")
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.network, m.networkErr
}

func (m *mockSystemReader) CurrentLoad(_ context.Context) (float64, error) {
	m.record("cpu")
	return m.load, m.loadErr
}

func (m *mockSystemReader) Memory(_ context.Context) (MemoryStat, error) {
	m.record("memory")
	return m.memory, m.memoryErr
}

func (m *mockSystemReader) Platform(_ context.Context) (string, error) {
	m.record("platform")
	if m.platform == "" {
		return "linux", m.platformErr
	}
	return m.platform, m.platformErr
}
