package botstats

import (
	"errors"

	"github.com/plexsphere/botstats/internal/api"
)

var (
	// ErrInvalidArgument is returned synchronously for malformed input.
	ErrInvalidArgument = errors.New("botstats: invalid argument")

	// ErrTransportFailure is returned when no HTTP response could be
	// obtained, or when host metrics could not be sampled.
	ErrTransportFailure = errors.New("botstats: transport failure")

	// ErrFetchDisabled is returned by GetStats when the client runs in
	// signal-only mode.
	ErrFetchDisabled = errors.New("botstats: stats fetch disabled")
)

// APIError describes a non-success response from the stats API.
type APIError = api.APIError

// Status sentinels usable with errors.Is on errors delivered to OnError
// handlers or returned by GetStats.
var (
	ErrRemote       = api.ErrRemote
	ErrBadRequest   = api.ErrBadRequest
	ErrUnauthorized = api.ErrUnauthorized
	ErrNotFound     = api.ErrNotFound
	ErrRateLimit    = api.ErrRateLimit
	ErrServer       = api.ErrServer
)
