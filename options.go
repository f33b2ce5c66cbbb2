package botstats

import (
	"time"

	"github.com/plexsphere/botstats/internal/api"
	"github.com/plexsphere/botstats/internal/metrics"
)

// Options configures a Client.
type Options struct {
	// BaseURL overrides the stats API origin.
	// Default: https://api.statcord.com/v3
	BaseURL string `yaml:"base_url"`

	// PostCPUStatistics attaches the CPU load to every submission.
	PostCPUStatistics bool `yaml:"post_cpu_statistics"`

	// PostMemoryStatistics attaches active memory and memory load.
	PostMemoryStatistics bool `yaml:"post_memory_statistics"`

	// PostNetworkStatistics attaches the bytes received since the
	// previous submission.
	PostNetworkStatistics bool `yaml:"post_network_statistics"`

	// NetworkSource selects where receive counters are read from:
	// "gopsutil" or, on Linux, "netlink".
	// Default: "gopsutil"
	NetworkSource string `yaml:"network_source"`

	// ConnectTimeout is the maximum time to wait for a TCP connection.
	// Default: 10s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// RequestTimeout bounds a complete request/response cycle.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// UserAgent is sent with every request.
	// Default: "botstats/<Version>"
	UserAgent string `yaml:"user_agent"`

	// CompressRequests gzips request bodies larger than 1 KiB.
	CompressRequests bool `yaml:"compress_requests"`

	// DisableFetch puts the client in signal-only mode: GetStats
	// returns ErrFetchDisabled.
	DisableFetch bool `yaml:"disable_fetch"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (o *Options) ApplyDefaults() {
	if o.UserAgent == "" {
		o.UserAgent = "botstats/" + Version
	}
	apiCfg := o.apiConfig()
	apiCfg.ApplyDefaults()
	o.BaseURL = apiCfg.BaseURL
	o.ConnectTimeout = apiCfg.ConnectTimeout
	o.RequestTimeout = apiCfg.RequestTimeout

	metricsCfg := o.metricsConfig()
	metricsCfg.ApplyDefaults()
	o.NetworkSource = metricsCfg.Source
}

// Validate checks that configuration values are acceptable.
func (o *Options) Validate() error {
	apiCfg := o.apiConfig()
	if err := apiCfg.Validate(); err != nil {
		return err
	}
	metricsCfg := o.metricsConfig()
	return metricsCfg.Validate()
}

func (o *Options) apiConfig() api.Config {
	return api.Config{
		BaseURL:          o.BaseURL,
		ConnectTimeout:   o.ConnectTimeout,
		RequestTimeout:   o.RequestTimeout,
		UserAgent:        o.UserAgent,
		CompressRequests: o.CompressRequests,
	}
}

func (o *Options) metricsConfig() metrics.Config {
	return metrics.Config{
		Network: o.PostNetworkStatistics,
		CPU:     o.PostCPUStatistics,
		Memory:  o.PostMemoryStatistics,
		Source:  o.NetworkSource,
	}
}
