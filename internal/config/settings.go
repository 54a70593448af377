package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"nii-stress/internal/logging"
)

// Settings are process settings read from the environment.
type Settings struct {
	Port       string
	Env        string
	ConfigPath string
	StaticDir  string

	// Snapshot files written by fetch-curves, used when FRED is unavailable.
	CurveFile   string
	HistoryFile string

	FredAPIKey  string
	FredBaseURL string

	CacheBackend string
	CacheTTL     time.Duration
	RedisURL     string

	CORSOrigins []string

	Log logging.Config
}

func (s Settings) IsProduction() bool { return s.Env == "production" }

// LoadSettings reads settings from the environment, falling back to defaults.
func LoadSettings() (Settings, error) {
	return loadSettings(viper.New())
}

func loadSettings(v *viper.Viper) (Settings, error) {
	lc := logging.DefaultConfig()
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("API_ENV", "development")
	v.SetDefault("CONFIG_PATH", "examples/config.yaml")
	v.SetDefault("STATIC_DIR", "")
	v.SetDefault("CURVE_FILE", "examples/curves/latest.json")
	v.SetDefault("HISTORY_FILE", "examples/curves/history.json")
	v.SetDefault("FRED_API_KEY", "")
	v.SetDefault("FRED_BASE_URL", "")
	v.SetDefault("CACHE_BACKEND", "none")
	v.SetDefault("CACHE_TTL", "1h")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", lc.Level)
	v.SetDefault("LOG_FORMAT", lc.Format)
	v.SetDefault("LOG_OUTPUT", lc.Output)
	v.SetDefault("LOG_FILE", lc.FilePath)
	v.AutomaticEnv()

	ttl, err := time.ParseDuration(v.GetString("CACHE_TTL"))
	if err != nil {
		return Settings{}, fmt.Errorf("CACHE_TTL: %w", err)
	}
	backend := strings.ToLower(v.GetString("CACHE_BACKEND"))
	switch backend {
	case "none", "memory", "redis":
	default:
		return Settings{}, fmt.Errorf("CACHE_BACKEND must be none, memory or redis, got %q", backend)
	}

	lc.Level = v.GetString("LOG_LEVEL")
	lc.Format = v.GetString("LOG_FORMAT")
	lc.Output = v.GetString("LOG_OUTPUT")
	lc.FilePath = v.GetString("LOG_FILE")

	s := Settings{
		Port:         v.GetString("API_PORT"),
		Env:          v.GetString("API_ENV"),
		ConfigPath:   v.GetString("CONFIG_PATH"),
		StaticDir:    v.GetString("STATIC_DIR"),
		CurveFile:    v.GetString("CURVE_FILE"),
		HistoryFile:  v.GetString("HISTORY_FILE"),
		FredAPIKey:   v.GetString("FRED_API_KEY"),
		FredBaseURL:  v.GetString("FRED_BASE_URL"),
		CacheBackend: backend,
		CacheTTL:     ttl,
		RedisURL:     v.GetString("REDIS_URL"),
		CORSOrigins:  splitList(v.GetString("CORS_ORIGINS")),
		Log:          lc,
	}
	// Response caching of upstream data stays off in production unless it is a shared cache.
	if s.IsProduction() && s.CacheBackend == "memory" {
		s.CacheBackend = "none"
	}
	return s, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
