package botstats

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/plexsphere/botstats/internal/api"
)

// GetStats returns the historical stats records of botID, or of the
// client's own bot when botID is empty. A non-200 response is returned as
// an *APIError carrying the status text; it matches ErrRemote.
func (c *Client) GetStats(ctx context.Context, botID string) ([]BotStats, error) {
	if c.opts.DisableFetch {
		return nil, ErrFetchDisabled
	}
	if botID == "" {
		botID = c.botID
	}
	if botID == "" {
		return nil, fmt.Errorf("%w: bot id is required", ErrInvalidArgument)
	}

	ctx, span := c.tracer.Start(ctx, "botstats.GetStats", trace.WithAttributes(
		attribute.String("bot.id", botID),
	))
	defer span.End()

	stats, err := c.api.FetchStats(ctx, botID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}

	span.SetAttributes(attribute.Int("stats.records", len(stats)))
	span.SetStatus(codes.Ok, "stats fetched")
	return stats, nil
}
