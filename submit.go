package botstats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/plexsphere/botstats/internal/api"
	"github.com/plexsphere/botstats/internal/metrics"
	"github.com/plexsphere/botstats/internal/usage"
)

// popularLimit is the number of popular commands sent per submission.
const popularLimit = 5

// SubmitInput is the caller-supplied part of a submission. Optional
// readings, when set, replace the sampled value of an enabled metric.
type SubmitInput struct {
	GuildsCount int `json:"guildsCount"`
	UsersCount  int `json:"usersCount"`

	// CPULoad is a CPU load percentage.
	CPULoad *float64 `json:"cpuload,omitempty"`
	// MemoryActive is active memory in bytes.
	MemoryActive *uint64 `json:"memoryActive,omitempty"`
	// MemoryUsed is a memory load percentage.
	MemoryUsed *float64 `json:"memoryUsed,omitempty"`
	// Bandwidth replaces the stored received-bytes baseline for this
	// submission only.
	Bandwidth *uint64 `json:"bandwidth,omitempty"`
}

// Validate rejects negative counts and readings.
func (in SubmitInput) Validate() error {
	if in.GuildsCount < 0 {
		return fmt.Errorf("%w: guildsCount %d is negative", ErrInvalidArgument, in.GuildsCount)
	}
	if in.UsersCount < 0 {
		return fmt.Errorf("%w: usersCount %d is negative", ErrInvalidArgument, in.UsersCount)
	}
	if in.CPULoad != nil && *in.CPULoad < 0 {
		return fmt.Errorf("%w: cpuload %v is negative", ErrInvalidArgument, *in.CPULoad)
	}
	if in.MemoryUsed != nil && *in.MemoryUsed < 0 {
		return fmt.Errorf("%w: memoryUsed %v is negative", ErrInvalidArgument, *in.MemoryUsed)
	}
	return nil
}

// UnmarshalJSON decodes a submission strictly: guildsCount and usersCount
// must be present and be JSON numbers.
func (in *SubmitInput) UnmarshalJSON(data []byte) error {
	var wire struct {
		GuildsCount  json.RawMessage `json:"guildsCount"`
		UsersCount   json.RawMessage `json:"usersCount"`
		CPULoad      *float64        `json:"cpuload"`
		MemoryActive *uint64         `json:"memoryActive"`
		MemoryUsed   *float64        `json:"memoryUsed"`
		Bandwidth    *uint64         `json:"bandwidth"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	guilds, err := decodeCount("guildsCount", wire.GuildsCount)
	if err != nil {
		return err
	}
	users, err := decodeCount("usersCount", wire.UsersCount)
	if err != nil {
		return err
	}

	*in = SubmitInput{
		GuildsCount:  guilds,
		UsersCount:   users,
		CPULoad:      wire.CPULoad,
		MemoryActive: wire.MemoryActive,
		MemoryUsed:   wire.MemoryUsed,
		Bandwidth:    wire.Bandwidth,
	}
	return nil
}

func decodeCount(field string, raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidArgument, field)
	}
	var n int
	if raw[0] == '"' || json.Unmarshal(raw, &n) != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %s", ErrInvalidArgument, field, raw)
	}
	return n, nil
}

// SubmitStats samples the enabled host metrics, posts the accumulated
// usage together with in, and interprets the response:
//
//   - 200: OnPostStats handlers receive the payload and the accumulated
//     usage is reset.
//   - any other status: OnError handlers receive an *APIError and the
//     usage is kept for the next submission.
//
// SubmitStats returns nil for every HTTP outcome. It fails with
// ErrInvalidArgument for bad input and with ErrTransportFailure when metrics
// could not be sampled or no response was received; usage is kept in both
// cases.
//
// Commands recorded while a submission is in flight may or may not be part
// of its payload, and are cleared by the reset that follows a successful
// submission.
func (c *Client) SubmitStats(ctx context.Context, in SubmitInput) error {
	ctx, span := c.tracer.Start(ctx, "botstats.SubmitStats", trace.WithAttributes(
		attribute.String("bot.id", c.botID),
		attribute.Int("bot.guilds", in.GuildsCount),
		attribute.Int("bot.users", in.UsersCount),
	))
	defer span.End()

	if c.botID == "" {
		span.SetStatus(codes.Error, "missing bot id")
		return fmt.Errorf("%w: client has no bot id", ErrInvalidArgument)
	}
	if err := in.Validate(); err != nil {
		span.SetStatus(codes.Error, "invalid input")
		return err
	}

	sample, err := c.sampler.Sample(ctx, metrics.Request{
		CPULoad:      in.CPULoad,
		MemoryActive: in.MemoryActive,
		MemoryLoad:   in.MemoryUsed,
		Bandwidth:    in.Bandwidth,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "metrics sampling failed")
		return fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}

	payload := buildPayload(c.botID, in, c.usage.Snapshot(), sample)

	err = c.api.PostStats(ctx, payload)
	var apiErr *api.APIError
	switch {
	case err == nil:
		c.usage.Reset()
		span.SetStatus(codes.Ok, "stats posted")
		c.logger.DebugContext(ctx, "stats submitted",
			"commands", payload.Commands,
			"active_users", len(payload.Active),
		)
		c.emitPostStats(ctx, payload)
		return nil
	case errors.As(err, &apiErr):
		span.RecordError(err)
		span.SetStatus(codes.Error, "stats rejected")
		span.SetAttributes(attribute.Int("http.status_code", apiErr.StatusCode))
		c.logger.WarnContext(ctx, "stats submission rejected",
			"status", apiErr.StatusCode,
			"error", err,
		)
		c.emitError(ctx, err)
		return nil
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "no response")
		return fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}
}

// buildPayload assembles the wire payload. All numbers are rendered as
// decimal strings.
func buildPayload(botID string, in SubmitInput, snap usage.Snapshot, sample metrics.Sample) api.StatsPayload {
	top := usage.Top(snap.Popular, popularLimit)
	popular := make([]api.PopularCommand, 0, len(top))
	for _, cc := range top {
		popular = append(popular, api.PopularCommand{Name: cc.Name, Count: strconv.Itoa(cc.Count)})
	}

	active := snap.ActiveUsers
	if active == nil {
		active = []string{}
	}

	return api.StatsPayload{
		ID:        botID,
		Servers:   strconv.Itoa(in.GuildsCount),
		Users:     strconv.Itoa(in.UsersCount),
		Active:    active,
		Commands:  strconv.Itoa(snap.CommandsRun),
		Popular:   popular,
		MemActive: strconv.FormatUint(sample.MemActive, 10),
		MemLoad:   strconv.FormatInt(sample.MemLoad, 10),
		CPULoad:   strconv.FormatInt(sample.CPULoad, 10),
		Bandwidth: strconv.FormatUint(sample.Bandwidth, 10),
		Custom1:   customOrDefault(snap.Custom1),
		Custom2:   customOrDefault(snap.Custom2),
	}
}

func customOrDefault(v string) string {
	if v == "" {
		return usage.DefaultCustomValue
	}
	return v
}
