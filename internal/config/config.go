// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads museum-search settings from a YAML file, the
// environment, a .env file, and the .secrets directory, in that order of
// increasing precedence for credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/museum-search/internal/httputil"
	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/search"
	"github.com/pdiddy/museum-search/internal/secrets"
	"github.com/pdiddy/museum-search/internal/sources"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Name is the config file base name and the env prefix root.
const (
	Name      = "museum-search"
	EnvPrefix = "MUSEUM_SEARCH"
)

// Options locates the configuration inputs. Zero values select defaults.
type Options struct {
	// File is an explicit config file. Empty searches "." and
	// ~/.config/museum-search/ for museum-search.yaml.
	File string

	// EnvFile is loaded into the process environment before reading.
	// Empty uses ".env"; a missing file is ignored.
	EnvFile string

	// SecretsDir holds "<source>-api-key" files. Empty uses ".secrets".
	SecretsDir string
}

// New returns a viper instance with search paths, environment binding, and
// defaults set. Callers may bind flags to it before calling Load.
func New(file string) *viper.Viper {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	return v
}

// SetDefaults registers every default. Registering a key also makes it
// visible to AutomaticEnv during Unmarshal.
func SetDefaults(v *viper.Viper) {
	sc := search.DefaultConfig()
	v.SetDefault("search.top_k", sc.TopK)
	v.SetDefault("search.per_source_limit", sc.PerSourceLimit)
	v.SetDefault("search.source_timeout", sc.SourceTimeout)
	v.SetDefault("search.max_concurrency", sc.MaxConcurrency)
	v.SetDefault("search.relevance_floor", sc.RelevanceFloor)
	v.SetDefault("search.grace_years", sc.GraceYears)
	v.SetDefault("search.max_religious", 0)
	v.SetDefault("search.require_image", false)

	v.SetDefault("http.timeout", httputil.DefaultTimeout)
	v.SetDefault("http.user_agent", httputil.DefaultUserAgent)
	v.SetDefault("http.requests_per_second", 0)

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 10000)
	v.SetDefault("server.debug", false)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)

	v.SetDefault("history.path", "")
	v.SetDefault("periods.file", "")

	for _, name := range sources.Names {
		v.SetDefault("sources."+name+".enabled", true)
		v.SetDefault("sources."+name+".base_url", "")
		v.SetDefault("sources."+name+".api_key", "")
	}
}

// Load reads configuration through v. A missing config file is not an
// error. Secrets from opts.SecretsDir fill API keys the file and
// environment left empty.
func Load(v *viper.Viper, opts Options, log logger.Logger) (*types.Config, error) {
	if log == nil {
		log = logger.NewNop()
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else {
		log.Info("Using config file", logger.String("path", v.ConfigFileUsed()))
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	dir := opts.SecretsDir
	if dir == "" {
		dir = secrets.DefaultDir
	}
	loaded, err := secrets.Load(dir, log)
	if err != nil {
		return nil, err
	}
	if applied := secrets.Apply(&cfg, loaded); len(applied) > 0 {
		log.Info("Loaded source credentials from secrets", logger.Strings("sources", applied))
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would make every search fail. Problems
// confined to one source are left for sources.Enabled to report.
func Validate(cfg *types.Config) error {
	var errs []error
	if cfg.Search.TopK < 0 || cfg.Search.TopK > search.DefaultTopK {
		errs = append(errs, fmt.Errorf("search.top_k must be between 0 and %d, got %d", search.DefaultTopK, cfg.Search.TopK))
	}
	// Every source needs its own slot, or queued calls outlive their timeout.
	if mc := cfg.Search.MaxConcurrency; mc < 0 || (mc > 0 && mc < len(sources.Names)) {
		errs = append(errs, fmt.Errorf("search.max_concurrency must be 0 or at least %d, got %d", len(sources.Names), mc))
	}
	if cfg.Search.SourceTimeout < 0 {
		errs = append(errs, fmt.Errorf("search.source_timeout must not be negative, got %s", cfg.Search.SourceTimeout))
	}
	if cfg.Search.RelevanceFloor > 1 {
		errs = append(errs, fmt.Errorf("search.relevance_floor must be at most 1, got %g", cfg.Search.RelevanceFloor))
	}
	if cfg.Server.Port < 0 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", cfg.Server.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
