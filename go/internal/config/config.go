// Package config loads the watcher's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingValue is returned by LeagueConfig.Validate for required keys that
// are not set.
var ErrMissingValue = errors.New("missing configuration value")

const (
	StateBackendFile  = "file"
	StateBackendRedis = "redis"
)

type Config struct {
	LogFile     string        `yaml:"log_file"`
	LogLevel    string        `yaml:"log_level"`
	LockTimeout time.Duration `yaml:"lock_timeout"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`

	MFL     MFLConfig     `yaml:"mfl"`
	GroupMe GroupMeConfig `yaml:"groupme"`
	Redis   RedisConfig   `yaml:"redis"`
	NATS    NATSConfig    `yaml:"nats"`
	Notify  NotifyConfig  `yaml:"notify"`

	Leagues []LeagueConfig `yaml:"leagues"`
}

type MFLConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Year      string        `yaml:"year"`
	APIKey    string        `yaml:"api_key"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

type GroupMeConfig struct {
	BaseURL string `yaml:"base_url"`
	BotID   string `yaml:"bot_id"` // default for leagues without their own
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type NATSConfig struct {
	URL           string `yaml:"url"`
	Stream        string `yaml:"stream"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

type NotifyConfig struct {
	MaxRetries *int          `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// LeagueConfig is one watched league. When CacheDir is set, unset artifact
// paths default to files inside it.
type LeagueConfig struct {
	Name           string `yaml:"name"`
	LeagueID       string `yaml:"league_id"`
	BotID          string `yaml:"bot_id"`
	CacheDir       string `yaml:"cache_dir"`
	PlayerCache    string `yaml:"player_cache"`
	LeagueCache    string `yaml:"league_cache"`
	FranchiseCache string `yaml:"franchise_cache"`
	DraftCache     string `yaml:"draft_cache"`
	StateBackend   string `yaml:"state_backend"`
	PublishEvents  bool   `yaml:"publish_events"`
}

// Load reads the YAML file at path, then applies defaults, environment
// overrides and environment-variable expansion of file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	cfg.expandPaths()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.MFL.APIKey = getEnv("MFL_API_KEY", c.MFL.APIKey)
	c.MFL.Year = getEnv("MFL_YEAR", c.MFL.Year)
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.GroupMe.BotID = getEnv("GROUPME_BOT_ID", c.GroupMe.BotID)
	if retries := getEnvAsInt("NOTIFY_MAX_RETRIES", -1); retries >= 0 {
		c.Notify.MaxRetries = &retries
	}
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "debug"
	}
	if c.LockTimeout == 0 {
		c.LockTimeout = 10 * time.Minute
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 24 * time.Hour
	}
	c.MFL.Year = c.Season()
	if c.MFL.Timeout == 0 {
		c.MFL.Timeout = 30 * time.Second
	}
	if c.Notify.MaxRetries == nil {
		retries := 2
		c.Notify.MaxRetries = &retries
	}
	if c.Notify.RetryDelay == 0 {
		c.Notify.RetryDelay = time.Second
	}

	for i := range c.Leagues {
		l := &c.Leagues[i]
		if l.StateBackend == "" {
			l.StateBackend = StateBackendFile
		}
		if l.BotID == "" {
			l.BotID = c.GroupMe.BotID
		}
		if l.Name == "" {
			l.Name = l.LeagueID
		}
	}
}

func (c *Config) expandPaths() {
	c.LogFile = os.ExpandEnv(c.LogFile)

	for i := range c.Leagues {
		l := &c.Leagues[i]
		l.CacheDir = os.ExpandEnv(l.CacheDir)
		for _, p := range []struct {
			field *string
			file  string
		}{
			{&l.PlayerCache, "players.json"},
			{&l.LeagueCache, "league.json"},
			{&l.FranchiseCache, "franchises.json"},
			{&l.DraftCache, "draft.json"},
		} {
			*p.field = os.ExpandEnv(*p.field)
			if *p.field == "" && l.CacheDir != "" {
				*p.field = filepath.Join(l.CacheDir, p.file)
			}
		}
	}
}

// validate checks settings that make the whole file unusable. Problems with a
// single league are reported by LeagueConfig.Validate instead, so the other
// leagues still run.
func (c *Config) validate() error {
	if len(c.Leagues) == 0 {
		return fmt.Errorf("config defines no leagues")
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout must not be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if c.Notify.MaxRetries != nil && *c.Notify.MaxRetries < 0 {
		return fmt.Errorf("notify.max_retries must not be negative")
	}
	if c.Notify.RetryDelay < 0 {
		return fmt.Errorf("notify.retry_delay must not be negative")
	}
	return nil
}

// Validate reports every required key the league is missing.
func (l LeagueConfig) Validate(c *Config) error {
	var missing []string
	required := map[string]string{
		"league_id":       l.LeagueID,
		"player_cache":    l.PlayerCache,
		"league_cache":    l.LeagueCache,
		"franchise_cache": l.FranchiseCache,
	}

	switch l.StateBackend {
	case StateBackendFile:
		required["draft_cache"] = l.DraftCache
	case StateBackendRedis:
		required["redis.url"] = c.Redis.URL
	default:
		return fmt.Errorf("league %q: unknown state_backend %q", l.Name, l.StateBackend)
	}

	if l.BotID == "" && !l.PublishEvents {
		required["bot_id"] = ""
	}
	if l.PublishEvents {
		required["nats.url"] = c.NATS.URL
	}

	for key, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w for league %q: %s", ErrMissingValue, l.Name, strings.Join(missing, ", "))
	}

	if _, err := strconv.Atoi(l.LeagueID); err != nil {
		return fmt.Errorf("league %q: league_id must be numeric: %w", l.Name, err)
	}
	return nil
}

// Season is the MFL year the leagues are read for, defaulting to the
// current year.
func (c *Config) Season() string {
	if c.MFL.Year != "" {
		return c.MFL.Year
	}
	return strconv.Itoa(time.Now().Year())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
