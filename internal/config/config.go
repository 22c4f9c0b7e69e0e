// Package config defines the subhunt configuration and its viper-backed loader.
package config

import (
	"github.com/vahedem/subhunt/internal/httpclient"
	"github.com/vahedem/subhunt/internal/pipeline"
	"github.com/vahedem/subhunt/internal/sources"
)

// Config represents the complete subhunt configuration. Values come from the
// config file with CLI flags taking precedence.
type Config struct {
	// AllSources enables the secondary (best-effort) sources for broader
	// but slower coverage.
	AllSources bool `yaml:"all_sources" mapstructure:"all_sources"`

	// Concurrency is the number of resolution workers.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`

	// MaxInFlight caps submitted-but-undrained resolution tasks.
	MaxInFlight int `yaml:"max_in_flight" mapstructure:"max_in_flight"`

	// Attempts is the total HTTP request budget per logical request.
	Attempts int `yaml:"attempts" mapstructure:"attempts"`

	// PageSize is the per-page result limit requested from the primary source.
	PageSize int `yaml:"page_size" mapstructure:"page_size"`

	// Nameserver, when set (host or host:port), routes resolution through a
	// direct DNS client instead of the system resolver.
	Nameserver string `yaml:"nameserver" mapstructure:"nameserver"`

	// Proxy URL (supports HTTP, HTTPS, SOCKS5).
	Proxy string `yaml:"proxy" mapstructure:"proxy"`

	// UserAgent overrides the default User-Agent string.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// GeoIPDB is the path to a MaxMind database for report enrichment.
	GeoIPDB string `yaml:"geoip_db" mapstructure:"geoip_db"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// NewDefaultConfig returns a Config with the production defaults.
func NewDefaultConfig() *Config {
	return &Config{
		AllSources:  false,
		Concurrency: pipeline.DefaultWorkers,
		MaxInFlight: pipeline.DefaultMaxInFlight,
		Attempts:    httpclient.DefaultAttempts,
		PageSize:    sources.DefaultPageSize,
		Nameserver:  "",
		Proxy:       "",
		UserAgent:   "",
		GeoIPDB:     "",
		Verbose:     false,
	}
}
