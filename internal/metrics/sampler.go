package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
)

// unsampledCPUPlatforms report a CPU load of zero instead of sampling.
var unsampledCPUPlatforms = []string{"freebsd", "netbsd", "openbsd"}

// Request carries caller-supplied readings. A non-nil field replaces the
// corresponding sampled value.
type Request struct {
	// CPULoad is a CPU load percentage.
	CPULoad *float64
	// MemoryActive is active memory in bytes.
	MemoryActive *uint64
	// MemoryLoad is a memory load percentage.
	MemoryLoad *float64
	// Bandwidth replaces the stored network baseline for this call.
	Bandwidth *uint64
}

// Sample is the result of one sampling round.
type Sample struct {
	Bandwidth uint64
	CPULoad   int64
	MemActive uint64
	MemLoad   int64
}

// Sampler produces the metrics of one submission and keeps the network
// baseline between rounds.
type Sampler struct {
	cfg    Config
	reader SystemReader
	logger *slog.Logger

	mu       sync.Mutex
	baseline uint64
}

// NewSampler creates a new Sampler.
func NewSampler(cfg Config, reader SystemReader, logger *slog.Logger) *Sampler {
	cfg.ApplyDefaults()
	return &Sampler{
		cfg:    cfg,
		reader: reader,
		logger: logger,
	}
}

// Baseline returns the stored received-bytes counter.
func (s *Sampler) Baseline() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseline
}

// Sample runs the enabled readings in the order network, CPU, memory.
// The first failing reading aborts the round; a partial Sample is never
// returned and the network baseline only moves once every reading has
// succeeded.
func (s *Sampler) Sample(ctx context.Context, req Request) (Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out Sample
	var total uint64

	if s.cfg.Network {
		bw, rx, err := s.bandwidth(ctx, req.Bandwidth)
		if err != nil {
			return Sample{}, fmt.Errorf("metrics: network: %w", err)
		}
		out.Bandwidth = bw
		total = rx
	}

	if s.cfg.CPU {
		load, err := s.cpuLoad(ctx, req.CPULoad)
		if err != nil {
			return Sample{}, fmt.Errorf("metrics: cpu: %w", err)
		}
		out.CPULoad = load
	}

	if s.cfg.Memory {
		active, load, err := s.memory(ctx, req.MemoryActive, req.MemoryLoad)
		if err != nil {
			return Sample{}, fmt.Errorf("metrics: memory: %w", err)
		}
		out.MemActive = active
		out.MemLoad = load
	}

	if s.cfg.Network {
		s.baseline = total
	}
	return out, nil
}

// bandwidth returns the bytes received since the baseline together with
// the current total. Without a positive baseline zero is reported. The
// caller holds s.mu and stores the total.
func (s *Sampler) bandwidth(ctx context.Context, override *uint64) (uint64, uint64, error) {
	baseline := s.baseline
	if override != nil {
		baseline = *override
	}

	total, err := s.rxTotal(ctx)
	if err != nil {
		return 0, 0, err
	}

	if baseline == 0 {
		return 0, total, nil
	}
	if total < baseline {
		s.logger.Debug("receive counter went backwards, reporting zero",
			"component", "metrics",
			"baseline", baseline,
			"total", total,
		)
		return 0, total, nil
	}
	return total - baseline, total, nil
}

func (s *Sampler) rxTotal(ctx context.Context) (uint64, error) {
	stats, err := s.reader.NetworkStats(ctx)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, st := range stats {
		total += st.RxBytes
	}
	return total, nil
}

func (s *Sampler) cpuLoad(ctx context.Context, supplied *float64) (int64, error) {
	if supplied != nil {
		return round(*supplied), nil
	}
	platform, err := s.reader.Platform(ctx)
	if err != nil {
		return 0, err
	}
	if slices.Contains(unsampledCPUPlatforms, platform) {
		return 0, nil
	}
	load, err := s.reader.CurrentLoad(ctx)
	if err != nil {
		return 0, err
	}
	return round(load), nil
}

func (s *Sampler) memory(ctx context.Context, active *uint64, load *float64) (uint64, int64, error) {
	if active != nil && load != nil {
		return *active, round(*load), nil
	}

	m, err := s.reader.Memory(ctx)
	if err != nil {
		return 0, 0, err
	}

	outActive := m.Active
	if active != nil {
		outActive = *active
	}
	var outLoad int64
	switch {
	case load != nil:
		outLoad = round(*load)
	case m.Total > 0:
		outLoad = round(float64(m.Active) / float64(m.Total) * 100)
	}
	return outActive, outLoad, nil
}

func round(v float64) int64 {
	return int64(math.Round(v))
}
