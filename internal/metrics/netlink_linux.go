package metrics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vishvananda/netlink"
)

// NetlinkReader reads receive counters from rtnetlink link statistics and
// delegates the remaining readings to gopsutil.
type NetlinkReader struct {
	*GopsutilReader
}

// NewNetlinkReader creates a NetlinkReader.
func NewNetlinkReader(logger *slog.Logger) (*NetlinkReader, error) {
	return &NetlinkReader{GopsutilReader: NewGopsutilReader(logger)}, nil
}

// NetworkStats returns the receive counter of every link that reports
// statistics.
func (r *NetlinkReader) NetworkStats(ctx context.Context) ([]NetworkStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	stats := make([]NetworkStat, 0, len(links))
	for _, link := range links {
		attrs := link.Attrs()
		if attrs == nil || attrs.Statistics == nil {
			continue
		}
		stats = append(stats, NetworkStat{Interface: attrs.Name, RxBytes: attrs.Statistics.RxBytes})
	}
	return stats, nil
}
