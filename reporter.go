package botstats

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultReportInterval is the default interval between submissions.
const DefaultReportInterval = time.Minute

// MinReportInterval is the shortest interval the stats API accepts.
const MinReportInterval = time.Minute

// ReporterConfig holds the configuration for the Reporter.
type ReporterConfig struct {
	// Interval is the time between submissions.
	// Default: 1m, minimum: 1m
	Interval time.Duration `yaml:"interval"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *ReporterConfig) ApplyDefaults() {
	if c.Interval == 0 {
		c.Interval = DefaultReportInterval
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c *ReporterConfig) Validate() error {
	if c.Interval < MinReportInterval {
		return fmt.Errorf("botstats: reporter config: Interval must be at least %s", MinReportInterval)
	}
	return nil
}

// Submitter submits one round of stats.
type Submitter interface {
	SubmitStats(ctx context.Context, in SubmitInput) error
}

// CountsFunc returns the guild and user counts, and any caller-supplied
// readings, for the next submission.
type CountsFunc func(ctx context.Context) (SubmitInput, error)

// Reporter submits stats periodically.
type Reporter struct {
	cfg       ReporterConfig
	submitter Submitter
	counts    CountsFunc
	logger    *slog.Logger
}

// NewReporter creates a new Reporter. Config defaults are applied
// automatically.
func NewReporter(cfg ReporterConfig, submitter Submitter, counts CountsFunc, logger *slog.Logger) (*Reporter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if submitter == nil {
		return nil, fmt.Errorf("%w: submitter is required", ErrInvalidArgument)
	}
	if counts == nil {
		return nil, fmt.Errorf("%w: counts function is required", ErrInvalidArgument)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		cfg:       cfg,
		submitter: submitter,
		counts:    counts,
		logger:    logger.With("component", "reporter"),
	}, nil
}

// Run submits once immediately and then at the configured interval until
// ctx is cancelled. Failed rounds are logged; the next tick tries again
// with whatever usage was kept. Run always returns nil.
func (r *Reporter) Run(ctx context.Context) error {
	r.report(ctx)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.report(ctx)
		}
	}
}

func (r *Reporter) report(ctx context.Context) {
	in, err := r.counts(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "botstats: reporter: counts unavailable, skipping round", "error", err)
		return
	}
	if err := r.submitter.SubmitStats(ctx, in); err != nil {
		r.logger.ErrorContext(ctx, "botstats: reporter: submit failed", "error", err)
	}
}
