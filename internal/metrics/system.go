package metrics

import (
	"context"
	"errors"
)

// ErrNetlinkUnsupported is returned by NewNetlinkReader on platforms
// without rtnetlink.
var ErrNetlinkUnsupported = errors.New("metrics: netlink: unsupported on this platform")

// NetworkStat holds the cumulative receive counter of one interface.
type NetworkStat struct {
	Interface string
	RxBytes   uint64
}

// MemoryStat holds the raw memory readings used for the memory metrics.
type MemoryStat struct {
	Active uint64
	Total  uint64
}

// SystemReader abstracts OS-level system metrics retrieval.
type SystemReader interface {
	// NetworkStats returns the receive counters of all interfaces.
	NetworkStats(ctx context.Context) ([]NetworkStat, error)
	// CurrentLoad returns the current CPU load as a percentage.
	CurrentLoad(ctx context.Context) (float64, error)
	// Memory returns active and total memory in bytes.
	Memory(ctx context.Context) (MemoryStat, error)
	// Platform returns the operating system name, e.g. "linux" or "openbsd".
	Platform(ctx context.Context) (string, error)
}
