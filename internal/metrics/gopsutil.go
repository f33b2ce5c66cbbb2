package metrics

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// GopsutilReader implements SystemReader with gopsutil.
type GopsutilReader struct {
	logger *slog.Logger
}

// NewGopsutilReader creates a new GopsutilReader.
func NewGopsutilReader(logger *slog.Logger) *GopsutilReader {
	return &GopsutilReader{logger: logger}
}

// NetworkStats returns per-interface receive counters.
func (r *GopsutilReader) NetworkStats(ctx context.Context) ([]NetworkStat, error) {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}
	stats := make([]NetworkStat, 0, len(counters))
	for _, c := range counters {
		stats = append(stats, NetworkStat{Interface: c.Name, RxBytes: c.BytesRecv})
	}
	return stats, nil
}

// CurrentLoad returns the system-wide CPU usage since the previous call.
func (r *GopsutilReader) CurrentLoad(ctx context.Context) (float64, error) {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		r.logger.Debug("cpu.Percent returned no readings", "component", "metrics")
		return 0, errors.New("no cpu readings")
	}
	return pcts[0], nil
}

// Memory returns active and total memory.
func (r *GopsutilReader) Memory(ctx context.Context) (MemoryStat, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, err
	}
	return MemoryStat{Active: vm.Active, Total: vm.Total}, nil
}

// Platform returns the host operating system reported by gopsutil.
func (r *GopsutilReader) Platform(ctx context.Context) (string, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return "", err
	}
	return info.OS, nil
}
