// Package config loads the service configuration from an optional file,
// dotenv files and ARTWRITER_* environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "ARTWRITER"

type Server struct {
	Addr               string
	DisableRequestLogs bool
}

type LLM struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// Pipeline holds the call settings of one generation pipeline.
type Pipeline struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int64
}

type Config struct {
	Env         string
	Debug       bool
	Server      Server
	LLM         LLM
	Daily       Pipeline
	Report      Pipeline
	AcademyName string
	DraftsTTL   time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.disable_request_logs", false)
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("daily.timeout", 20*time.Second)
	v.SetDefault("daily.temperature", 0.7)
	v.SetDefault("daily.max_tokens", 500)
	v.SetDefault("report.timeout", 60*time.Second)
	v.SetDefault("report.temperature", 0.75)
	v.SetDefault("report.max_tokens", 2000)
	v.SetDefault("academy.name", "")
	v.SetDefault("drafts.ttl", 30*time.Minute)
}

// Load reads path when non-empty (yaml, json or toml by extension), then
// applies environment overrides. ENV selects DEV (default), TEST or PROD;
// .env and config/.env.<env> are loaded when they exist.
func Load(path string) (Config, error) {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	if err := loadDotEnv(".env", filepath.Join("config", ".env."+strings.ToLower(env))); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "reading config %s", path)
		}
	}

	cfg := Config{
		Env:   env,
		Debug: v.GetBool("debug"),
		Server: Server{
			Addr:               v.GetString("server.addr"),
			DisableRequestLogs: v.GetBool("server.disable_request_logs"),
		},
		LLM: LLM{
			Provider: strings.ToLower(strings.TrimSpace(v.GetString("llm.provider"))),
			Model:    v.GetString("llm.model"),
			BaseURL:  v.GetString("llm.base_url"),
			APIKey:   v.GetString("llm.api_key"),
		},
		Daily: Pipeline{
			Timeout:     v.GetDuration("daily.timeout"),
			Temperature: v.GetFloat64("daily.temperature"),
			MaxTokens:   v.GetInt64("daily.max_tokens"),
		},
		Report: Pipeline{
			Timeout:     v.GetDuration("report.timeout"),
			Temperature: v.GetFloat64("report.temperature"),
			MaxTokens:   v.GetInt64("report.max_tokens"),
		},
		AcademyName: v.GetString("academy.name"),
		DraftsTTL:   v.GetDuration("drafts.ttl"),
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			return errors.New("llm.api_key is required for provider openai (or set OPENAI_API_KEY)")
		}
		if c.LLM.Model == "" {
			return errors.New("llm.model is required")
		}
	case "mock":
	default:
		return errors.Errorf("llm provider %q not supported", c.LLM.Provider)
	}
	if c.Daily.Timeout <= 0 || c.Report.Timeout <= 0 {
		return errors.New("pipeline timeouts must be positive")
	}
	if c.DraftsTTL <= 0 {
		return errors.New("drafts.ttl must be positive")
	}
	return nil
}

// loadDotEnv loads each existing file; missing files are skipped. Values
// already present in the environment win.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, "stat %s", p)
		}
		if err := godotenv.Load(p); err != nil {
			return errors.Wrapf(err, "loading %s", p)
		}
	}
	return nil
}
