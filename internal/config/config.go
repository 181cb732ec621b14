package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"HeadlineScorer/internal/domain"
)

const (
	defaultTimezone = "UTC"
	defaultInterval = 30 * time.Minute
	maxTemperature  = 2.0

	configPathEnv   = "HEADLINE_SCORER_CONFIG"
	apiKeyEnv       = "OPENROUTER_API_KEY"
	modelEnv        = "LLM_MODEL"
	baseURLEnv      = "LLM_BASE_URL"
	databaseDSNEnv  = "DATABASE_DSN"
	logLevelEnv     = "LOG_LEVEL"
	telegramToken   = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	LLM           LLMConfig          `yaml:"llm"`
	Scoring       ScoringConfig      `yaml:"scoring"`
	Source        SourceConfig       `yaml:"source"`
	Output        OutputConfig       `yaml:"output"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects the minimum log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LLMConfig defines how to contact the chat-completion API.
type LLMConfig struct {
	BaseURL        string   `yaml:"baseUrl"`
	Model          string   `yaml:"model"`
	APIKey         string   `yaml:"apiKey"`
	TimeoutSeconds float64  `yaml:"timeoutSeconds"`
	// Temperature is nil when unset; an explicit 0 is honoured.
	Temperature    *float64 `yaml:"temperature"`
	MaxTokens      int      `yaml:"maxTokens"`
	PromptTemplate string   `yaml:"promptTemplate"`
}

// Timeout converts the per-call ceiling to a duration.
func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// ScoringConfig carries thresholds, weights and pacing for a batch.
type ScoringConfig struct {
	Mode                      string         `yaml:"mode"`
	MinScore                  int            `yaml:"minScore"`
	KeywordPrefilterThreshold int            `yaml:"keywordPrefilterThreshold"`
	BatchDelaySeconds         float64        `yaml:"batchDelaySeconds"`
	Weights                   domain.Weights `yaml:"weights"`
	RulesPath                 string         `yaml:"rulesPath"`
}

// BatchDelay converts the pacing delay to a duration.
func (s ScoringConfig) BatchDelay() time.Duration {
	return time.Duration(s.BatchDelaySeconds * float64(time.Second))
}

// ParsedMode resolves the configured mode name.
func (s ScoringConfig) ParsedMode() (domain.Mode, error) {
	return domain.ParseMode(s.Mode)
}

// SourceConfig selects how headlines are read from reports.
type SourceConfig struct {
	Format    string `yaml:"format"`
	ReportDir string `yaml:"reportDir"`
}

// OutputConfig toggles the JSON export next to the input report.
type OutputConfig struct {
	JSON bool `yaml:"json"`
}

// DatabaseConfig describes where runs are persisted. Empty DSN disables storage.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines how often watch mode re-scores the newest report.
type SchedulerConfig struct {
	Interval string         `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	interval time.Duration  `yaml:"-"`
	location *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Every returns the parsed watch interval.
func (s SchedulerConfig) Every() time.Duration {
	if s.interval > 0 {
		return s.interval
	}
	return defaultInterval
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
	TopN     int    `yaml:"topN"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An unreadable file is logged and the defaults are used instead.
func Load() Config {
	cfg, err := LoadPath("")
	if err != nil {
		log.Printf("config: %v (falling back to defaults)", err)
		cfg = Default()
		cfg.applyEnvOverrides()
		cfg.bind()
	}
	return cfg
}

// LoadPath reads the YAML file at path, or the file named by
// HEADLINE_SCORER_CONFIG when path is empty, then applies environment
// overrides. With neither set the defaults are used.
func LoadPath(path string) (Config, error) {
	if path == "" {
		path = os.Getenv(configPathEnv)
	}

	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	cfg.applyEnvOverrides()
	cfg.bind()
	return cfg, nil
}

// LoadFile decodes a YAML file over the defaults without env overrides.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("cannot parse %s: %w", path, err)
	}
	cfg.bind()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(modelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(baseURLEnv); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(telegramToken); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bind() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc

	c.Scheduler.interval = defaultInterval
	if c.Scheduler.Interval != "" {
		d, err := time.ParseDuration(c.Scheduler.Interval)
		if err != nil || d <= 0 {
			log.Printf("config: invalid scheduler interval %q, reverting to %s", c.Scheduler.Interval, defaultInterval)
		} else {
			c.Scheduler.interval = d
		}
	}
}

// SetInterval replaces the watch interval, rejecting unparsable or
// non-positive durations.
func (c *Config) SetInterval(value string) error {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return &domain.ConfigError{Field: "scheduler.interval", Reason: fmt.Sprintf("invalid duration %q", value)}
	}
	c.Scheduler.Interval = value
	c.Scheduler.interval = d
	return nil
}

// Validate checks everything a batch needs before the first headline is touched.
func (c Config) Validate() error {
	mode, err := c.Scoring.ParsedMode()
	if err != nil {
		return err
	}
	if mode.NeedsSemantic() {
		if strings.TrimSpace(c.LLM.APIKey) == "" {
			return &domain.ConfigError{
				Field:  "llm.apiKey",
				Reason: fmt.Sprintf("%s mode requires an API key (set %s or llm.apiKey)", mode, apiKeyEnv),
			}
		}
		if c.LLM.TimeoutSeconds <= 0 {
			return &domain.ConfigError{Field: "llm.timeoutSeconds", Reason: "must be positive"}
		}
		if t := c.LLM.Temperature; t != nil && (math.IsNaN(*t) || *t < 0 || *t > maxTemperature) {
			return &domain.ConfigError{Field: "llm.temperature", Reason: fmt.Sprintf("%g outside [0,%g]", *t, maxTemperature)}
		}
	}
	if mode == domain.ModeHybrid {
		if err := c.Scoring.Weights.Validate(); err != nil {
			return err
		}
	}
	if err := checkScore("scoring.minScore", c.Scoring.MinScore); err != nil {
		return err
	}
	if err := checkScore("scoring.keywordPrefilterThreshold", c.Scoring.KeywordPrefilterThreshold); err != nil {
		return err
	}
	if c.Scoring.BatchDelaySeconds < 0 {
		return &domain.ConfigError{Field: "scoring.batchDelaySeconds", Reason: "must not be negative"}
	}
	return nil
}

func checkScore(field string, v int) error {
	if v < 0 || v > domain.MaxTotalScore {
		return &domain.ConfigError{Field: field, Reason: fmt.Sprintf("%d outside [0,%d]", v, domain.MaxTotalScore)}
	}
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		LLM: LLMConfig{
			BaseURL:        "https://openrouter.ai/api/v1",
			Model:          "openai/gpt-4o-mini",
			TimeoutSeconds: 30,
			MaxTokens:      500,
		},
		Scoring: ScoringConfig{
			Mode:                      string(domain.ModeLexical),
			MinScore:                  18,
			KeywordPrefilterThreshold: 12,
			BatchDelaySeconds:         0.5,
			Weights:                   domain.DefaultWeights(),
		},
		Source:    SourceConfig{Format: "auto", ReportDir: "output"},
		Scheduler: SchedulerConfig{Interval: defaultInterval.String(), Timezone: defaultTimezone, interval: defaultInterval, location: tz},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{TopN: 5},
		},
	}
}
