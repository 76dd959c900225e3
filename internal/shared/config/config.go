package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort           = "3000"
	DefaultScratchDir     = "uploads"
	DefaultMaxUploadBytes = 10 << 20
)

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	ScratchDir       string
	MaxUploadBytes   int64
	CORSAllowOrigins []string
	LogLevel         string
	LogFormat        string
	ConvertTimeout   time.Duration
	RateLimitRPS     float64
	RateLimitBurst   int
	OpsEndpoints     bool
	ShutdownTimeout  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	v := newViper()
	v.AutomaticEnv()
	return fromViper(v)
}

// Default returns the configuration used when no environment is set.
func Default() Config {
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("app_env", "dev")
	v.SetDefault("scratch_dir", DefaultScratchDir)
	v.SetDefault("max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("cors_allow_origins", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("convert_timeout", "0s")
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("ops_endpoints", false)
	v.SetDefault("shutdown_timeout", "10s")
	return v
}

func fromViper(v *viper.Viper) Config {
	cfg := Config{
		Port:             strings.TrimSpace(v.GetString("port")),
		Env:              normalizeEnv(v.GetString("app_env")),
		ScratchDir:       strings.TrimSpace(v.GetString("scratch_dir")),
		MaxUploadBytes:   v.GetInt64("max_upload_bytes"),
		CORSAllowOrigins: splitAndTrim(v.GetString("cors_allow_origins")),
		LogLevel:         strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
		LogFormat:        strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		ConvertTimeout:   v.GetDuration("convert_timeout"),
		RateLimitRPS:     v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:   v.GetInt("rate_limit_burst"),
		OpsEndpoints:     v.GetBool("ops_endpoints"),
		ShutdownTimeout:  v.GetDuration("shutdown_timeout"),
	}
	return cfg.withDefaults()
}

// withDefaults repairs values that would leave the service unusable.
func (c Config) withDefaults() Config {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.ScratchDir == "" {
		c.ScratchDir = DefaultScratchDir
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if len(c.CORSAllowOrigins) == 0 {
		c.CORSAllowOrigins = []string{"*"}
	}
	if c.ConvertTimeout < 0 {
		c.ConvertTimeout = 0
	}
	if c.RateLimitBurst <= 0 {
		c.RateLimitBurst = 1
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
