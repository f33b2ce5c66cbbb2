package botstats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/plexsphere/botstats/internal/api"
	"github.com/plexsphere/botstats/internal/metrics"
	"github.com/plexsphere/botstats/internal/usage"
)

const tracerName = "github.com/plexsphere/botstats"

// Wire types re-exported for callers.
type (
	// StatsPayload is a submitted payload, as delivered to OnPostStats
	// handlers. It never contains the access key.
	StatsPayload = api.StatsPayload
	// PopularCommand is one popular-commands entry of a payload.
	PopularCommand = api.PopularCommand
	// BotStats is one historical stats record returned by GetStats.
	BotStats = api.BotStats
	// CommandCount is the invocation count of a single command.
	CommandCount = usage.CommandCount
	// Usage is a copy of the usage accumulated since the last successful
	// submission.
	Usage = usage.Snapshot
)

// PostStatsHandler is called with the payload of every successful
// submission.
type PostStatsHandler func(ctx context.Context, payload StatsPayload)

// ErrorHandler is called with the *APIError of every rejected submission.
type ErrorHandler func(ctx context.Context, err error)

// Client reports the statistics of a single bot. The access key is fixed
// at construction and only ever leaves the process in requests to the
// stats API.
type Client struct {
	botID   string
	opts    Options
	api     *api.Client
	sampler *metrics.Sampler
	usage   *usage.Accumulator
	tracer  trace.Tracer
	logger  *slog.Logger

	mu          sync.RWMutex
	onPostStats []PostStatsHandler
	onError     []ErrorHandler
}

// New creates a Client for botID authenticated with key. botID may be
// empty if the client is only used to fetch stats of other bots. A nil
// logger uses slog.Default.
func New(key, botID string, opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	reader, err := metrics.NewReader(opts.metricsConfig(), logger)
	if err != nil {
		return nil, err
	}
	return newClient(key, botID, opts, reader, logger)
}

func newClient(key, botID string, opts Options, reader metrics.SystemReader, logger *slog.Logger) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: key is required", ErrInvalidArgument)
	}
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger = logger.With("component", "botstats")
	apiClient, err := api.NewClient(opts.apiConfig(), key, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		botID:   botID,
		opts:    opts,
		api:     apiClient,
		sampler: metrics.NewSampler(opts.metricsConfig(), reader, logger),
		usage:   usage.NewAccumulator(),
		tracer:  otel.Tracer(tracerName),
		logger:  logger,
	}, nil
}

// BotID returns the identifier of the bot being reported on.
func (c *Client) BotID() string {
	return c.botID
}

// Options returns the effective options, defaults applied.
func (c *Client) Options() Options {
	return c.opts
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.api.Close()
}

// RecordCommand counts one invocation of commandName by userID and returns
// the command's updated count. Both must be non-empty.
func (c *Client) RecordCommand(commandName, userID string) (CommandCount, error) {
	cc, err := c.usage.Record(commandName, userID)
	if err != nil {
		return CommandCount{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return cc, nil
}

// SetCustomField sets custom slot 1 or 2. Both slots return to "0" after
// each successful submission.
func (c *Client) SetCustomField(slot int, value string) error {
	if err := c.usage.SetCustom(slot, value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return nil
}

// Usage returns a copy of the usage accumulated since the last successful
// submission.
func (c *Client) Usage() Usage {
	return c.usage.Snapshot()
}

// NetworkBaseline returns the stored received-bytes counter.
func (c *Client) NetworkBaseline() uint64 {
	return c.sampler.Baseline()
}

// OnPostStats registers a handler for successful submissions.
func (c *Client) OnPostStats(h PostStatsHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPostStats = append(c.onPostStats, h)
}

// OnError registers a handler for submissions rejected by the API.
func (c *Client) OnError(h ErrorHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = append(c.onError, h)
}

func (c *Client) emitPostStats(ctx context.Context, payload StatsPayload) {
	c.mu.RLock()
	handlers := c.onPostStats
	c.mu.RUnlock()
	for i, h := range handlers {
		c.safeCall("post_stats", i, func() { h(ctx, payload) })
	}
}

func (c *Client) emitError(ctx context.Context, err error) {
	c.mu.RLock()
	handlers := c.onError
	c.mu.RUnlock()
	for i, h := range handlers {
		c.safeCall("error", i, func() { h(ctx, err) })
	}
}

// safeCall runs a handler with panic recovery.
func (c *Client) safeCall(event string, index int, fn func()) {
	defer func() {
		if v := recover(); v != nil {
			c.logger.Error("event handler panicked",
				"event", event,
				"handler_index", index,
				"error", errors.New(fmt.Sprint(v)),
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn()
}
