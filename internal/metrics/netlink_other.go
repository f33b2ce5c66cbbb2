//go:build !linux

package metrics

import "log/slog"

// NetlinkReader is only available on Linux.
type NetlinkReader struct {
	*GopsutilReader
}

// NewNetlinkReader always fails with ErrNetlinkUnsupported.
func NewNetlinkReader(_ *slog.Logger) (*NetlinkReader, error) {
	return nil, ErrNetlinkUnsupported
}
