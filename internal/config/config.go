package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string `mapstructure:"PORT"`
	GinMode                          string `mapstructure:"GIN_MODE"`
	PublicURL                        string `mapstructure:"PUBLIC_URL"` // Base URL used for OAuth redirect URIs
	ClientURL                        string `mapstructure:"CLIENT_URL"` // Extra origin allowed by CORS, optional
	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	FirebaseWebAPIKey                string `mapstructure:"FIREBASE_WEB_API_KEY"`
	IdentityToolkitURL               string `mapstructure:"IDENTITY_TOOLKIT_URL"`

	TMDBAPIKey    string  `mapstructure:"TMDB_API_KEY"`
	TMDBBaseURL   string  `mapstructure:"TMDB_BASE_URL"`
	TMDBLanguage  string  `mapstructure:"TMDB_LANGUAGE"`
	TMDBRateLimit float64 `mapstructure:"TMDB_RATE_LIMIT"` // requests per second

	CatalogCacheTTL time.Duration `mapstructure:"CATALOG_CACHE_TTL"`
	FeedTTL         time.Duration `mapstructure:"FEED_TTL"`
	ListCacheTTL    time.Duration `mapstructure:"LIST_CACHE_TTL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"` // Empty selects the in-process cache
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	MemoryCacheSize uint64 `mapstructure:"MEMORY_CACHE_SIZE"` // Entry cap of the in-process cache

	AMQPURL     string `mapstructure:"AMQP_URL"` // Empty disables event publishing
	EventsQueue string `mapstructure:"EVENTS_QUEUE"`

	SessionCookieName string        `mapstructure:"SESSION_COOKIE_NAME"`
	SessionTTL        time.Duration `mapstructure:"SESSION_TTL"`
	VisitorCookieName string        `mapstructure:"VISITOR_COOKIE_NAME"`
	CookieSecure      bool          `mapstructure:"COOKIE_SECURE"`

	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID     string `mapstructure:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `mapstructure:"GITHUB_CLIENT_SECRET"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	MailFrom     string `mapstructure:"MAIL_FROM"`
}

var appConfig *Config

var defaults = map[string]any{
	"PORT":                 "8080",
	"GIN_MODE":             "debug",
	"PUBLIC_URL":           "http://localhost:8080",
	"IDENTITY_TOOLKIT_URL": "https://identitytoolkit.googleapis.com/v1",
	"TMDB_BASE_URL":        "https://api.themoviedb.org/3",
	"TMDB_LANGUAGE":        "en-US",
	"TMDB_RATE_LIMIT":      20.0,
	"CATALOG_CACHE_TTL":    "10m",
	"FEED_TTL":             "30m",
	"LIST_CACHE_TTL":       "5m",
	"REDIS_DB":             0,
	"MEMORY_CACHE_SIZE":    10000,
	"EVENTS_QUEUE":         "watchlist.events",
	"SESSION_COOKIE_NAME":  "__session",
	"SESSION_TTL":          "120h",
	"VISITOR_COOKIE_NAME":  "wl_visitor",
	"COOKIE_SECURE":        false,
	"SMTP_PORT":            "2525",
}

// keys lists every environment variable bound into Config.
var keys = []string{
	"PORT", "GIN_MODE", "PUBLIC_URL", "CLIENT_URL",
	"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"FIREBASE_WEB_API_KEY", "IDENTITY_TOOLKIT_URL",
	"TMDB_API_KEY", "TMDB_BASE_URL", "TMDB_LANGUAGE", "TMDB_RATE_LIMIT",
	"CATALOG_CACHE_TTL", "FEED_TTL", "LIST_CACHE_TTL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "MEMORY_CACHE_SIZE",
	"AMQP_URL", "EVENTS_QUEUE",
	"SESSION_COOKIE_NAME", "SESSION_TTL", "VISITOR_COOKIE_NAME", "COOKIE_SECURE",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "MAIL_FROM",
}

// LoadConfig loads configuration from environment variables using Viper.
// When CONFIG_FILE is set, that file is read first and the environment overrides it.
func LoadConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	appConfig = cfg
	return appConfig, nil
}

// LoadWorkerConfig loads the configuration of the notifier, which only needs
// the broker and the SMTP relay.
func LoadWorkerConfig() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	if cfg.AMQPURL == "" {
		return nil, errors.New("AMQP_URL is required")
	}
	if !cfg.MailEnabled() {
		return nil, errors.New("SMTP_HOST, SMTP_USER, SMTP_PASSWORD and MAIL_FROM are required")
	}
	appConfig = cfg
	return appConfig, nil
}

func load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.New("failed to bind env " + key + ": " + err.Error())
		}
	}

	if err := v.BindEnv("CONFIG_FILE"); err != nil {
		return nil, errors.New("failed to bind env CONFIG_FILE: " + err.Error())
	}
	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New("failed to read config file: " + err.Error())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	return &cfg, nil
}

// Validate checks the fields the server cannot start without.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.FirebaseWebAPIKey == "" {
		return errors.New("FIREBASE_WEB_API_KEY is required")
	}
	if c.TMDBAPIKey == "" {
		return errors.New("TMDB_API_KEY is required")
	}
	if c.SessionTTL < 5*time.Minute || c.SessionTTL > 14*24*time.Hour {
		// Firebase rejects session cookies outside this window.
		return errors.New("SESSION_TTL must be between 5m and 336h")
	}
	return nil
}

// IsRelease reports whether gin should run in release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}

// GoogleOAuthEnabled reports whether Google sign-in credentials are configured.
func (c *Config) GoogleOAuthEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// GitHubOAuthEnabled reports whether GitHub sign-in credentials are configured.
func (c *Config) GitHubOAuthEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// MailEnabled reports whether an SMTP relay is configured.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != "" && c.MailFrom != ""
}

// GetConfig returns the loaded application configuration.
// It will panic if LoadConfig has not been called successfully.
func GetConfig() *Config {
	if appConfig == nil {
		panic("config not loaded; call LoadConfig first")
	}
	return appConfig
}
