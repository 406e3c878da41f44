// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by source adapters.
type HTTPConfig struct {
	// Timeout is the client-level request timeout. The per-source search
	// timeout in SearchConfig bounds a whole adapter call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is sent with every outbound request (e.g. "museum-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// RequestsPerSecond limits outbound requests per adapter call. Zero
	// means unlimited.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// SearchConfig holds settings for the aggregation engine.
type SearchConfig struct {
	// TopK is the maximum number of results returned (default 20).
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k"`

	// PerSourceLimit is the number of raw records requested from each
	// source (default 40).
	PerSourceLimit int `json:"per_source_limit" yaml:"per_source_limit" mapstructure:"per_source_limit"`

	// SourceTimeout bounds each adapter call (default 10s).
	SourceTimeout time.Duration `json:"source_timeout" yaml:"source_timeout" mapstructure:"source_timeout"`

	// MaxConcurrency bounds concurrent adapter calls per search (default 8).
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency" mapstructure:"max_concurrency"`

	// RelevanceFloor is the minimum relevance a record needs to be kept.
	RelevanceFloor float64 `json:"relevance_floor" yaml:"relevance_floor" mapstructure:"relevance_floor"`

	// GraceYears extends a period's end year for retrospective works.
	GraceYears int `json:"grace_years" yaml:"grace_years" mapstructure:"grace_years"`

	// MaxReligious caps religious works in the top-K. Zero disables the cap.
	MaxReligious int `json:"max_religious" yaml:"max_religious" mapstructure:"max_religious"`

	// RequireImage drops records without an image before scoring.
	RequireImage bool `json:"require_image" yaml:"require_image" mapstructure:"require_image"`
}

// SourceConfig configures one collection API.
type SourceConfig struct {
	// Enabled turns the source on. Sources that need credentials stay
	// disabled when APIKey is empty.
	Enabled bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	Host            string        `json:"host" yaml:"host" mapstructure:"host"`
	Port            int           `json:"port" yaml:"port" mapstructure:"port"`
	Debug           bool          `json:"debug" yaml:"debug" mapstructure:"debug"`
	ReadTimeout     time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level       string `json:"level" yaml:"level" mapstructure:"level"`
	Development bool   `json:"development" yaml:"development" mapstructure:"development"`
}

// HistoryConfig configures the optional SQLite search log.
type HistoryConfig struct {
	// Path is the database file. Empty disables history.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// PeriodsConfig points at an optional operator-supplied period catalog that
// is appended to the built-in one.
type PeriodsConfig struct {
	File string `json:"file" yaml:"file" mapstructure:"file"`
}

// Config groups all settings for the service and CLI.
type Config struct {
	HTTP    HTTPConfig              `json:"http" yaml:"http" mapstructure:"http"`
	Search  SearchConfig            `json:"search" yaml:"search" mapstructure:"search"`
	Sources map[string]SourceConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
	Server  ServerConfig            `json:"server" yaml:"server" mapstructure:"server"`
	Logging LoggingConfig           `json:"logging" yaml:"logging" mapstructure:"logging"`
	History HistoryConfig           `json:"history" yaml:"history" mapstructure:"history"`
	Periods PeriodsConfig           `json:"periods" yaml:"periods" mapstructure:"periods"`
}
