package main

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/locsearch"
	"gopkg.in/yaml.v3"
)

// Config is the locsearch configuration file.
type Config struct {
	Database        string `yaml:"database"`
	DefaultLanguage string `yaml:"default_language"`

	LLM     LLMConfig     `yaml:"llm"`
	Sources SourcesConfig `yaml:"sources"`
	Limits  LimitsConfig  `yaml:"limits"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// LLMConfig selects the language model provider.
type LLMConfig struct {
	// Provider is "gemini", "mistral" or "none".
	Provider      string `yaml:"provider"`
	Model         string `yaml:"model"`
	GeminiAPIKey  string `yaml:"gemini_api_key"`
	MistralAPIKey string `yaml:"mistral_api_key"`
}

// SourcesConfig configures search and scrape sources.
type SourcesConfig struct {
	Tavily      KeyConfig         `yaml:"tavily"`
	Brave       KeyConfig         `yaml:"brave"`
	Serper      KeyConfig         `yaml:"serper"`
	ScrapingBee ScrapingBeeConfig `yaml:"scrapingbee"`
	RSS         RSSConfig         `yaml:"rss"`
	Direct      ToggleConfig      `yaml:"direct"`
	Browser     ToggleConfig      `yaml:"browser"`
}

// KeyConfig holds a source API key.
type KeyConfig struct {
	APIKey string `yaml:"api_key"`
}

// ScrapingBeeConfig configures the ScrapingBee scrape source.
type ScrapingBeeConfig struct {
	APIKey   string `yaml:"api_key"`
	RenderJS bool   `yaml:"render_js"`
}

// RSSConfig lists feeds searched by the rss source.
type RSSConfig struct {
	Feeds []string `yaml:"feeds"`
}

// ToggleConfig enables a keyless source.
type ToggleConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LimitsConfig holds the scheduler defaults.
type LimitsConfig struct {
	MaxConcurrent     int           `yaml:"max_concurrent"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	InterRequestDelay time.Duration `yaml:"inter_request_delay"`
	PerItemTimeout    time.Duration `yaml:"per_item_timeout"`
}

// LimiterConfig converts c to the scheduler configuration.
func (c LimitsConfig) LimiterConfig() locsearch.LimiterConfig {
	return locsearch.LimiterConfig{
		MaxConcurrent:     c.MaxConcurrent,
		RequestsPerMinute: c.RequestsPerMinute,
		InterRequestDelay: c.InterRequestDelay,
		PerItemTimeout:    c.PerItemTimeout,
	}
}

// ServerConfig configures "locsearch serve".
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig reads the config at path and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, locsearch.Errorf(locsearch.ECONFIG, "read config %s: %v", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, locsearch.Errorf(locsearch.ECONFIG, "parse config %s: %v", path, err)
		}
	}
	applyEnv(cfg)
	applyConfigDefaults(cfg)
	return cfg, nil
}

// SaveConfig writes cfg to path, creating directories as needed.
func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func defaultConfig() *Config {
	d := locsearch.DefaultLimiterConfig()
	return &Config{
		Database:        defaultDBPath(),
		DefaultLanguage: "en",
		LLM:             LLMConfig{Provider: "gemini"},
		Sources: SourcesConfig{
			Direct: ToggleConfig{Enabled: true},
		},
		Limits: LimitsConfig{
			MaxConcurrent:     d.MaxConcurrent,
			RequestsPerMinute: d.RequestsPerMinute,
			InterRequestDelay: d.InterRequestDelay,
			PerItemTimeout:    d.PerItemTimeout,
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// applyConfigDefaults fills fields a config file left empty.
func applyConfigDefaults(cfg *Config) {
	def := defaultConfig()
	if cfg.Database == "" {
		cfg.Database = def.Database
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = def.DefaultLanguage
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}
	if cfg.Limits.MaxConcurrent == 0 {
		cfg.Limits.MaxConcurrent = def.Limits.MaxConcurrent
	}
	if cfg.Limits.RequestsPerMinute == 0 {
		cfg.Limits.RequestsPerMinute = def.Limits.RequestsPerMinute
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
}

func applyEnv(cfg *Config) {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&cfg.Database, "LOCSEARCH_DB")
	set(&cfg.LLM.GeminiAPIKey, "GEMINI_API_KEY")
	set(&cfg.LLM.MistralAPIKey, "MISTRAL_API_KEY")
	set(&cfg.Sources.Tavily.APIKey, "TAVILY_API_KEY")
	set(&cfg.Sources.Brave.APIKey, "BRAVE_API_KEY")
	set(&cfg.Sources.Serper.APIKey, "SERPER_API_KEY")
	set(&cfg.Sources.ScrapingBee.APIKey, "SCRAPINGBEE_API_KEY")
}

func defaultConfigPath() string {
	if path := os.Getenv("LOCSEARCH_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "locsearch.yaml"
	}
	return filepath.Join(home, ".config", "locsearch", "config.yaml")
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "locsearch.db"
	}
	return filepath.Join(home, ".locsearch", "history.db")
}
