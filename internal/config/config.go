package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "REVIEWFEEDS_CONFIG"
	feedURLEnv        = "LETTERBOXD_RSS_URL"
	cachePathEnv      = "CACHE_PATH"
	logLevelEnv       = "LOG_LEVEL"
	chatGPTAPIKeyEnv  = "CHATGPT_API_KEY"
	chatGPTModelEnv   = "CHATGPT_MODEL"
	mlInferenceURLEnv = "ML_INFERENCE_URL"
	mlAPIKeyEnv       = "ML_API_KEY"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Summarizer backends selectable in configuration.
const (
	BackendNone    = "none"
	BackendChatGPT = "chatgpt"
	BackendML      = "ml"
)

// State drivers selectable in configuration.
const (
	StateDriverJSON   = "json"
	StateDriverSQLite = "sqlite"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Source        SourceConfig       `yaml:"source"`
	State         StateConfig        `yaml:"state"`
	Summarizer    SummarizerConfig   `yaml:"summarizer"`
	ChatGPT       ChatGPTConfig      `yaml:"chatgpt"`
	ML            MLConfig           `yaml:"ml"`
	Feeds         FeedsConfig        `yaml:"feeds"`
	Publish       PublishConfig      `yaml:"publish"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SourceConfig describes the upstream review feed.
type SourceConfig struct {
	FeedURL        string `yaml:"feedUrl"`
	IdentityPrefix string `yaml:"identityPrefix"`
	UserAgent      string `yaml:"userAgent"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// StateConfig locates the persisted publication state.
type StateConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LockPath is the advisory lock file guarding the state location.
func (s StateConfig) LockPath() string {
	return s.Path + ".lock"
}

// SummarizerConfig picks the optional summarization capability.
type SummarizerConfig struct {
	Backend string `yaml:"backend"`
}

// ChatGPTConfig defines how to contact the ChatGPT API.
type ChatGPTConfig struct {
	Endpoint       string `yaml:"endpoint"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"apiKey"`
	SystemPrompt   string `yaml:"systemPrompt"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// MLConfig describes the inference-service summarizer.
type MLConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// FeedsConfig shapes the generated platform feeds.
type FeedsConfig struct {
	Title         string           `yaml:"title"`
	OutputDir     string           `yaml:"outputDir"`
	PublicBaseURL string           `yaml:"publicBaseUrl"`
	Hashtag       string           `yaml:"hashtag"`
	LinkWidth     int              `yaml:"linkWidth"`
	Platforms     []PlatformConfig `yaml:"platforms"`
}

// PlatformConfig describes one output feed and its character budget.
type PlatformConfig struct {
	Tag       string `yaml:"tag"`
	CharLimit int    `yaml:"charLimit"`
	File      string `yaml:"file"`
}

// OutputPath resolves the platform file inside the output directory.
func (f FeedsConfig) OutputPath(p PlatformConfig) string {
	if filepath.IsAbs(p.File) {
		return p.File
	}
	return filepath.Join(f.OutputDir, p.File)
}

// SelfLink is the public URL of the platform feed, or its local path.
func (f FeedsConfig) SelfLink(p PlatformConfig) string {
	if f.PublicBaseURL == "" {
		return f.OutputPath(p)
	}
	return strings.TrimSuffix(f.PublicBaseURL, "/") + "/" + filepath.Base(p.File)
}

// PublishConfig controls the git force-publish step.
type PublishConfig struct {
	Enabled       bool   `yaml:"enabled"`
	RepoPath      string `yaml:"repoPath"`
	Remote        string `yaml:"remote"`
	Branch        string `yaml:"branch"`
	CommitMessage string `yaml:"commitMessage"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig defines the optional recurring interval.
type SchedulerConfig struct {
	Interval string `yaml:"interval"`
}

// IntervalDuration parses Interval; zero means run once.
func (s SchedulerConfig) IntervalDuration() (time.Duration, error) {
	if strings.TrimSpace(s.Interval) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Interval)
	if err != nil {
		return 0, fmt.Errorf("parse scheduler interval %q: %w", s.Interval, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("scheduler interval %s is negative", d)
	}
	return d, nil
}

// Load reads YAML configuration (if present) and applies environment overrides.
// An explicit path wins over the environment variable.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.State.Path = expandHome(cfg.State.Path)

	return cfg
}

// Validate reports settings the pipeline cannot run with.
func (c Config) Validate() error {
	if c.Source.FeedURL == "" {
		return fmt.Errorf("source.feedUrl is required")
	}
	if c.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}
	switch c.State.Driver {
	case StateDriverJSON, StateDriverSQLite:
	default:
		return fmt.Errorf("unknown state driver %q", c.State.Driver)
	}
	if len(c.Feeds.Platforms) == 0 {
		return fmt.Errorf("at least one feed platform is required")
	}
	seen := map[string]bool{}
	for _, p := range c.Feeds.Platforms {
		if p.Tag == "" || p.File == "" {
			return fmt.Errorf("platform needs tag and file: %+v", p)
		}
		if p.CharLimit <= 0 {
			return fmt.Errorf("platform %s: charLimit must be positive", p.Tag)
		}
		if seen[p.Tag] {
			return fmt.Errorf("duplicate platform tag %s", p.Tag)
		}
		seen[p.Tag] = true
	}
	if _, err := c.Scheduler.IntervalDuration(); err != nil {
		return err
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(feedURLEnv); v != "" {
		c.Source.FeedURL = v
	}

	if v := os.Getenv(cachePathEnv); v != "" {
		c.State.Path = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(chatGPTAPIKeyEnv); v != "" {
		c.ChatGPT.APIKey = v
	}

	if v := os.Getenv(chatGPTModelEnv); v != "" {
		c.ChatGPT.Model = v
	}

	if v := os.Getenv(mlInferenceURLEnv); v != "" {
		c.ML.InferenceURL = v
	}

	if v := os.Getenv(mlAPIKeyEnv); v != "" {
		c.ML.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Source.FeedURL != "" {
		base.Source.FeedURL = override.Source.FeedURL
	}
	if override.Source.IdentityPrefix != "" {
		base.Source.IdentityPrefix = override.Source.IdentityPrefix
	}
	if override.Source.UserAgent != "" {
		base.Source.UserAgent = override.Source.UserAgent
	}
	if override.Source.TimeoutSeconds > 0 {
		base.Source.TimeoutSeconds = override.Source.TimeoutSeconds
	}

	if override.State.Driver != "" {
		base.State.Driver = override.State.Driver
	}
	if override.State.Path != "" {
		base.State.Path = override.State.Path
	}

	if override.Summarizer.Backend != "" {
		base.Summarizer.Backend = override.Summarizer.Backend
	}

	if override.ChatGPT.Endpoint != "" {
		base.ChatGPT.Endpoint = override.ChatGPT.Endpoint
	}
	if override.ChatGPT.Model != "" {
		base.ChatGPT.Model = override.ChatGPT.Model
	}
	if override.ChatGPT.APIKey != "" {
		base.ChatGPT.APIKey = override.ChatGPT.APIKey
	}
	if override.ChatGPT.SystemPrompt != "" {
		base.ChatGPT.SystemPrompt = override.ChatGPT.SystemPrompt
	}
	if override.ChatGPT.TimeoutSeconds > 0 {
		base.ChatGPT.TimeoutSeconds = override.ChatGPT.TimeoutSeconds
	}

	if override.ML.InferenceURL != "" {
		base.ML.InferenceURL = override.ML.InferenceURL
	}
	if override.ML.APIKey != "" {
		base.ML.APIKey = override.ML.APIKey
	}

	if override.Feeds.Title != "" {
		base.Feeds.Title = override.Feeds.Title
	}
	if override.Feeds.OutputDir != "" {
		base.Feeds.OutputDir = override.Feeds.OutputDir
	}
	if override.Feeds.PublicBaseURL != "" {
		base.Feeds.PublicBaseURL = override.Feeds.PublicBaseURL
	}
	if override.Feeds.Hashtag != "" {
		base.Feeds.Hashtag = override.Feeds.Hashtag
	}
	if override.Feeds.LinkWidth > 0 {
		base.Feeds.LinkWidth = override.Feeds.LinkWidth
	}
	if len(override.Feeds.Platforms) > 0 {
		base.Feeds.Platforms = override.Feeds.Platforms
	}

	if override.Publish.Enabled {
		base.Publish.Enabled = true
	}
	if override.Publish.RepoPath != "" {
		base.Publish.RepoPath = override.Publish.RepoPath
	}
	if override.Publish.Remote != "" {
		base.Publish.Remote = override.Publish.Remote
	}
	if override.Publish.Branch != "" {
		base.Publish.Branch = override.Publish.Branch
	}
	if override.Publish.CommitMessage != "" {
		base.Publish.CommitMessage = override.Publish.CommitMessage
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	return base
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Source: SourceConfig{
			FeedURL:        "https://letterboxd.com/julienpierre/rss/",
			IdentityPrefix: "letterboxd-review-",
			UserAgent:      "ReviewFeeds/1.0",
			TimeoutSeconds: 20,
		},
		State:      StateConfig{Driver: StateDriverJSON, Path: "~/processed_letterboxd.json"},
		Summarizer: SummarizerConfig{Backend: BackendNone},
		ChatGPT: ChatGPTConfig{
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 20,
		},
		Feeds: FeedsConfig{
			Title:     "Julien’s Letterboxd",
			OutputDir: ".",
			Hashtag:   " #FilmReview",
			LinkWidth: 23,
			Platforms: []PlatformConfig{
				{Tag: "twitter", CharLimit: 280, File: "cleaned_letterboxd_twitter.xml"},
				{Tag: "threads", CharLimit: 500, File: "cleaned_letterboxd_threads.xml"},
			},
		},
		Publish: PublishConfig{
			Enabled:       false,
			RepoPath:      ".",
			Remote:        "origin",
			Branch:        "main",
			CommitMessage: "Auto-update Letterboxd feeds",
		},
	}
}
