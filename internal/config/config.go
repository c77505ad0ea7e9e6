package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the config file when --config is not given.
const EnvConfigPath = "INTERNWATCH_CONFIG"

// DefaultPath is used when neither --config nor EnvConfigPath is set.
const DefaultPath = "config.yaml"

// Config is the root configuration for internwatch. It is built once at
// startup and passed into constructors; nothing mutates it afterwards.
type Config struct {
	DatabaseURL     string
	LockFile        string
	PollingInterval time.Duration // used by `start` only
	HTTPTimeout     time.Duration
	Notification    NotificationConfig
	Aggregator      AggregatorConfig
	Listing         ListingConfig
	ATS             ATSConfig
	RateLimit       RateLimitConfig
	Filters         FilterConfig
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type     string // "telegram" or "log"
	Telegram TelegramConfig
}

// TelegramConfig holds the bot credentials. Token and ChatID usually come from
// TELEGRAM_TOKEN and TELEGRAM_CHAT_ID.
type TelegramConfig struct {
	Token       string
	ChatID      string
	APIEndpoint string
	MinInterval time.Duration
}

// AggregatorConfig fixes the one broad search run against each board.
type AggregatorConfig struct {
	Enabled       bool
	Sites         []string
	Location      string
	Country       string
	HoursOld      int
	ResultsWanted int
}

// ListingConfig describes the scraped listing site.
type ListingConfig struct {
	Enabled            bool
	Name               string
	URL                string
	PathMarker         string
	MinTextLength      int
	PlaceholderCompany string
}

// ATSConfig lists the Greenhouse boards to query.
type ATSConfig struct {
	Enabled bool
	Boards  []BoardConfig
}

// BoardConfig is one Greenhouse board token with an optional display name.
type BoardConfig struct {
	Token string `yaml:"token"`
	Name  string `yaml:"name"`
}

// RateLimitConfig controls per-host request pacing.
type RateLimitConfig struct {
	MinDelay time.Duration
	Burst    int
}

// FilterConfig overrides the role classifier term lists. Empty lists keep the
// built-in defaults.
type FilterConfig struct {
	Blacklist []string
	Whitelist []string
}

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as
// strings). Pointers distinguish "unset" from an explicit false.
type rawConfig struct {
	DatabaseURL     string             `yaml:"database_url"`
	LockFile        string             `yaml:"lock_file"`
	PollingInterval string             `yaml:"polling_interval"`
	HTTPTimeout     string             `yaml:"http_timeout"`
	Notification    rawNotification    `yaml:"notification"`
	Aggregator      rawAggregator      `yaml:"aggregator"`
	Listing         rawListing         `yaml:"listing"`
	ATS             rawATS             `yaml:"ats"`
	RateLimit       rawRateLimitConfig `yaml:"rate_limit"`
	Filters         rawFilterConfig    `yaml:"filters"`
}

type rawNotification struct {
	Type     string      `yaml:"type"`
	Telegram rawTelegram `yaml:"telegram"`
}

type rawTelegram struct {
	Token       string `yaml:"token"`
	ChatID      string `yaml:"chat_id"`
	APIEndpoint string `yaml:"api_endpoint"`
	MinInterval string `yaml:"min_interval"`
}

type rawAggregator struct {
	Enabled       *bool    `yaml:"enabled"`
	Sites         []string `yaml:"sites"`
	Location      string   `yaml:"location"`
	Country       string   `yaml:"country"`
	HoursOld      *int     `yaml:"hours_old"`
	ResultsWanted *int     `yaml:"results_wanted"`
}

type rawListing struct {
	Enabled            *bool  `yaml:"enabled"`
	Name               string `yaml:"name"`
	URL                string `yaml:"url"`
	PathMarker         string `yaml:"path_marker"`
	MinTextLength      *int   `yaml:"min_text_length"`
	PlaceholderCompany string `yaml:"placeholder_company"`
}

type rawATS struct {
	Enabled *bool         `yaml:"enabled"`
	Boards  []BoardConfig `yaml:"boards"`
}

type rawRateLimitConfig struct {
	MinDelay string `yaml:"min_delay"`
	Burst    int    `yaml:"burst"`
}

type rawFilterConfig struct {
	Blacklist []string `yaml:"blacklist"`
	Whitelist []string `yaml:"whitelist"`
}

// Defaults returns the configuration used when no file is present: the
// Singapore search, the InternSG index and a local SQLite seen-set.
func Defaults() Config {
	return Config{
		DatabaseURL:     "seen_jobs.db",
		LockFile:        "internwatch.lock",
		PollingInterval: time.Hour,
		HTTPTimeout:     30 * time.Second,
		Notification: NotificationConfig{
			Type:     "telegram",
			Telegram: TelegramConfig{MinInterval: time.Second},
		},
		Aggregator: AggregatorConfig{
			Enabled:       true,
			Sites:         []string{"linkedin", "indeed"},
			Location:      "Singapore",
			Country:       "Singapore",
			HoursOld:      24,
			ResultsWanted: 30,
		},
		Listing: ListingConfig{
			Enabled:            true,
			Name:               "internsg",
			URL:                "https://www.internsg.com/jobs/",
			PathMarker:         "/job/",
			MinTextLength:      5,
			PlaceholderCompany: "InternSG Listing",
		},
		ATS: ATSConfig{Enabled: true},
		RateLimit: RateLimitConfig{
			MinDelay: 2 * time.Second,
			Burst:    1,
		},
	}
}

// ResolvePath picks the config file: the explicit flag value, then
// EnvConfigPath, then DefaultPath. explicit reports whether the file must exist.
func ResolvePath(flagValue string) (path string, explicit bool) {
	if flagValue != "" {
		return flagValue, true
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env, true
	}
	return DefaultPath, false
}

// Load reads .env (if any), then the YAML file at path, applies environment
// overrides, validates, and returns the Config. When required is false a
// missing file is not an error and defaults plus environment are used.
func Load(path string, required bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var raw rawConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		// Expand environment variables
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := fromRaw(raw)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fromRaw(raw rawConfig) (Config, error) {
	cfg := Defaults()

	setString(&cfg.DatabaseURL, raw.DatabaseURL)
	setString(&cfg.LockFile, raw.LockFile)

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"polling_interval", raw.PollingInterval, &cfg.PollingInterval},
		{"http_timeout", raw.HTTPTimeout, &cfg.HTTPTimeout},
		{"notification.telegram.min_interval", raw.Notification.Telegram.MinInterval, &cfg.Notification.Telegram.MinInterval},
		{"rate_limit.min_delay", raw.RateLimit.MinDelay, &cfg.RateLimit.MinDelay},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s %q: %w", d.name, d.raw, err)
		}
		*d.dst = v
	}

	setString(&cfg.Notification.Type, raw.Notification.Type)
	setString(&cfg.Notification.Telegram.Token, raw.Notification.Telegram.Token)
	setString(&cfg.Notification.Telegram.ChatID, raw.Notification.Telegram.ChatID)
	setString(&cfg.Notification.Telegram.APIEndpoint, raw.Notification.Telegram.APIEndpoint)

	agg := &cfg.Aggregator
	setBool(&agg.Enabled, raw.Aggregator.Enabled)
	if len(raw.Aggregator.Sites) > 0 {
		agg.Sites = raw.Aggregator.Sites
	}
	setString(&agg.Location, raw.Aggregator.Location)
	setString(&agg.Country, raw.Aggregator.Country)
	setInt(&agg.HoursOld, raw.Aggregator.HoursOld)
	setInt(&agg.ResultsWanted, raw.Aggregator.ResultsWanted)

	lst := &cfg.Listing
	setBool(&lst.Enabled, raw.Listing.Enabled)
	setString(&lst.Name, raw.Listing.Name)
	setString(&lst.URL, raw.Listing.URL)
	setString(&lst.PathMarker, raw.Listing.PathMarker)
	setInt(&lst.MinTextLength, raw.Listing.MinTextLength)
	setString(&lst.PlaceholderCompany, raw.Listing.PlaceholderCompany)

	setBool(&cfg.ATS.Enabled, raw.ATS.Enabled)
	cfg.ATS.Boards = raw.ATS.Boards

	if raw.RateLimit.Burst > 0 {
		cfg.RateLimit.Burst = raw.RateLimit.Burst
	}

	cfg.Filters = FilterConfig{
		Blacklist: raw.Filters.Blacklist,
		Whitelist: raw.Filters.Whitelist,
	}
	return cfg, nil
}

// applyEnv lets deployment secrets and per-environment knobs override the file.
func applyEnv(cfg *Config) error {
	setString(&cfg.DatabaseURL, os.Getenv("DATABASE_URL"))
	setString(&cfg.Notification.Telegram.Token, os.Getenv("TELEGRAM_TOKEN"))
	setString(&cfg.Notification.Telegram.ChatID, os.Getenv("TELEGRAM_CHAT_ID"))
	setString(&cfg.Aggregator.Location, os.Getenv("AGGREGATOR_LOCATION"))

	if v := os.Getenv("GREENHOUSE_TOKENS"); v != "" {
		var boards []BoardConfig
		for _, tok := range strings.Split(v, ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				boards = append(boards, BoardConfig{Token: tok})
			}
		}
		cfg.ATS.Boards = boards
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"AGGREGATOR_HOURS_OLD", &cfg.Aggregator.HoursOld},
		{"AGGREGATOR_RESULTS_WANTED", &cfg.Aggregator.ResultsWanted},
	}
	for _, i := range ints {
		v := os.Getenv(i.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse %s %q: %w", i.env, v, err)
		}
		*i.dst = n
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url must not be empty")
	}
	if cfg.PollingInterval <= 0 {
		return fmt.Errorf("polling_interval must be positive, got %v", cfg.PollingInterval)
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive, got %v", cfg.HTTPTimeout)
	}

	switch cfg.Notification.Type {
	case "log", "telegram":
	default:
		return fmt.Errorf("notification.type must be \"telegram\" or \"log\", got %q", cfg.Notification.Type)
	}

	if cfg.Aggregator.Enabled {
		if len(cfg.Aggregator.Sites) == 0 {
			return fmt.Errorf("aggregator.sites must not be empty when the aggregator is enabled")
		}
		if cfg.Aggregator.ResultsWanted <= 0 {
			return fmt.Errorf("aggregator.results_wanted must be positive, got %d", cfg.Aggregator.ResultsWanted)
		}
		if cfg.Aggregator.HoursOld < 0 {
			return fmt.Errorf("aggregator.hours_old must not be negative, got %d", cfg.Aggregator.HoursOld)
		}
	}

	if cfg.Listing.Enabled {
		if cfg.Listing.URL == "" {
			return fmt.Errorf("listing.url is required when the listing source is enabled")
		}
		if cfg.Listing.PathMarker == "" {
			return fmt.Errorf("listing.path_marker is required when the listing source is enabled")
		}
	}

	for i, b := range cfg.ATS.Boards {
		if b.Token == "" {
			return fmt.Errorf("ats.boards[%d]: token is required", i)
		}
	}

	if !cfg.Aggregator.Enabled && !cfg.Listing.Enabled && !cfg.ATS.Enabled {
		return fmt.Errorf("at least one source must be enabled")
	}
	return nil
}

// ValidateNotifier checks the credentials of the configured notifier. Only
// commands that send alerts need them, so Load leaves this check out.
func (c *Config) ValidateNotifier() error {
	if c.Notification.Type != "telegram" {
		return nil
	}
	if c.Notification.Telegram.Token == "" {
		return fmt.Errorf("notification.telegram.token (or TELEGRAM_TOKEN) is required when type is \"telegram\"")
	}
	if c.Notification.Telegram.ChatID == "" {
		return fmt.Errorf("notification.telegram.chat_id (or TELEGRAM_CHAT_ID) is required when type is \"telegram\"")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
