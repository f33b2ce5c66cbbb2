package api

import (
	"context"
	"net/url"
)

// PostStats submits a stats payload. The access key is merged into the
// body. It returns nil only for 200 OK; any other status is returned as an
// *APIError and transport failures as a wrapped error.
// POST /stats
func (c *Client) PostStats(ctx context.Context, payload StatsPayload) error {
	req := statsRequest{StatsPayload: payload, Key: c.key}
	if err := c.PostJSON(ctx, "/stats", req, nil); err != nil {
		return err
	}
	c.logger.Debug("stats posted", "component", "api", "bot_id", payload.ID)
	return nil
}

// FetchStats retrieves the historical stats records of a bot.
// GET /{bot_id}
func (c *Client) FetchStats(ctx context.Context, botID string) ([]BotStats, error) {
	var resp BotStatsResponse
	if err := c.GetJSON(ctx, "/"+url.PathEscape(botID), &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}
