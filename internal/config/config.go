package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Firecrawl  FirecrawlConfig  `yaml:"firecrawl" mapstructure:"firecrawl"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Scheduler  SchedulerConfig  `yaml:"scheduler" mapstructure:"scheduler"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// JinaConfig holds Jina AI Reader/Search settings.
type JinaConfig struct {
	Key           string  `yaml:"key" mapstructure:"key"`
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string  `yaml:"search_base_url" mapstructure:"search_base_url"`
	RateLimit     float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// FirecrawlConfig holds Firecrawl API settings (fallback reader only).
type FirecrawlConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// PerplexityConfig holds Perplexity API settings (fallback search only).
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	HaikuModel  string `yaml:"haiku_model" mapstructure:"haiku_model"`
	SonnetModel string `yaml:"sonnet_model" mapstructure:"sonnet_model"`
}

// PipelineConfig holds the named tunables of the advisory pipeline.
// SafeThreshold and DedupOverlap are deliberately configuration, not
// hardcoded constants.
type PipelineConfig struct {
	SafeThreshold     float64 `yaml:"safe_threshold" mapstructure:"safe_threshold"`
	DedupOverlap      int     `yaml:"dedup_overlap" mapstructure:"dedup_overlap"`
	ContaminationTerm string  `yaml:"contamination_term" mapstructure:"contamination_term"`
	MaxEvidence       int     `yaml:"max_evidence" mapstructure:"max_evidence"`
	SourceTimeoutSecs int     `yaml:"source_timeout_secs" mapstructure:"source_timeout_secs"`
	ForumDelayMs      int     `yaml:"forum_delay_ms" mapstructure:"forum_delay_ms"`
	GovtSite          string  `yaml:"govt_site" mapstructure:"govt_site"`
	ResearchMaxPages  int     `yaml:"research_max_pages" mapstructure:"research_max_pages"`
	ResearchMaxParas  int     `yaml:"research_max_paras" mapstructure:"research_max_paras"`
}

// SchedulerConfig configures the poll re-analysis sweeper.
type SchedulerConfig struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`
	SweepCron    string `yaml:"sweep_cron" mapstructure:"sweep_cron"`
	PollDelayHrs int    `yaml:"poll_delay_hrs" mapstructure:"poll_delay_hrs"`
	SweepLimit   int    `yaml:"sweep_limit" mapstructure:"sweep_limit"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AGRI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("jina.rate_limit", 2.0)
	v.SetDefault("jina.rate_burst", 4)
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.sonnet_model", "claude-sonnet-4-5-20250929")
	// The stricter of the two historical thresholds; 0.65 was the
	// looser variant.
	v.SetDefault("pipeline.safe_threshold", 0.75)
	v.SetDefault("pipeline.dedup_overlap", 3)
	v.SetDefault("pipeline.contamination_term", "fertilizer")
	v.SetDefault("pipeline.max_evidence", 10)
	v.SetDefault("pipeline.source_timeout_secs", 45)
	v.SetDefault("pipeline.forum_delay_ms", 500)
	v.SetDefault("pipeline.govt_site", "gov.in")
	v.SetDefault("pipeline.research_max_pages", 3)
	v.SetDefault("pipeline.research_max_paras", 15)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.sweep_cron", "@every 10m")
	v.SetDefault("scheduler.poll_delay_hrs", 24)
	v.SetDefault("scheduler.sweep_limit", 20)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
