// Package config loads server settings from an optional config file and
// PORTUNUS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	PolicySourceSQLite = "sqlite"
	PolicySourceYAML   = "yaml"
)

// MinReaderSilence is the shortest non-zero reader_silence accepted.
const MinReaderSilence = time.Second

type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`
	GRPCAddr string `mapstructure:"grpc_addr"` // empty disables the gRPC gateway

	// DB
	Env    string `mapstructure:"env"`     // "dev" | "prod"
	DBPath string `mapstructure:"db_path"` // e.g. "./data/portunus.db"

	// Policy
	PolicySource   string        `mapstructure:"policy_source"` // "sqlite" | "yaml"
	PolicyFile     string        `mapstructure:"policy_file"`
	Location       string        `mapstructure:"location"`        // IANA zone for time filters
	ReloadInterval time.Duration `mapstructure:"reload_interval"` // 0 = no periodic reload

	KnownReaders []string `mapstructure:"known_readers"`
	// Remote readers silent for longer than this are marked inactive; 0
	// disables the check.
	ReaderSilence time.Duration `mapstructure:"reader_silence"`

	// Retention
	EventRetentionDays int `mapstructure:"event_retention_days"` // 0 = keep forever
	PruneIntervalHours int `mapstructure:"prune_interval_hours"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("grpc_addr", "")
	v.SetDefault("env", "dev")
	v.SetDefault("db_path", "./data/portunus.db")
	v.SetDefault("policy_source", PolicySourceSQLite)
	v.SetDefault("policy_file", "")
	v.SetDefault("location", "UTC")
	v.SetDefault("reload_interval", time.Duration(0))
	v.SetDefault("known_readers", []string{})
	v.SetDefault("reader_silence", 2*time.Minute)
	v.SetDefault("event_retention_days", 90)
	v.SetDefault("prune_interval_hours", 6)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Load reads path, if given, and overlays PORTUNUS_* environment variables.
// The result is validated.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("PORTUNUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.PolicySource = strings.ToLower(strings.TrimSpace(cfg.PolicySource))
	cfg.KnownReaders = splitCSV(cfg.KnownReaders)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("http_addr is required"))
	}
	if c.Env != "dev" && c.Env != "prod" {
		errs = append(errs, fmt.Errorf("env must be dev or prod, got %q", c.Env))
	}
	switch c.PolicySource {
	case PolicySourceSQLite:
	case PolicySourceYAML:
		if c.PolicyFile == "" {
			errs = append(errs, errors.New("policy_file is required when policy_source is yaml"))
		}
	default:
		errs = append(errs, fmt.Errorf("policy_source must be sqlite or yaml, got %q", c.PolicySource))
	}
	if _, err := time.LoadLocation(c.Location); err != nil {
		errs = append(errs, fmt.Errorf("location: %w", err))
	}
	if c.ReloadInterval < 0 {
		errs = append(errs, errors.New("reload_interval must not be negative"))
	}
	if c.ReaderSilence != 0 && c.ReaderSilence < MinReaderSilence {
		errs = append(errs, fmt.Errorf("reader_silence must be 0 (disabled) or at least %s, got %s", MinReaderSilence, c.ReaderSilence))
	}
	if c.EventRetentionDays < 0 {
		errs = append(errs, errors.New("event_retention_days must not be negative"))
	}
	if c.PruneIntervalHours <= 0 {
		errs = append(errs, errors.New("prune_interval_hours must be positive"))
	}
	return errors.Join(errs...)
}

// TimeZone returns the location time filters are evaluated in.
func (c Config) TimeZone() *time.Location {
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return time.UTC
	}
	return loc
}

// splitCSV flattens entries that arrive as one comma-separated string from
// the environment.
func splitCSV(in []string) []string {
	var out []string
	for _, v := range in {
		for p := range strings.SplitSeq(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
